/*
 * amx - Cell arithmetic test cases
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package cell

import "testing"

func TestSize(t *testing.T) {
	if Bytes != Size/8 {
		t.Errorf("Bytes = %d, want %d (Size/8)", Bytes, Size/8)
	}
}

func TestAlignIdempotent(t *testing.T) {
	v := Ucell(0x01)<<((Bytes-1)*8) | Ucell(0x02)
	orig := v
	Align(&v)
	if v == orig && Bytes > 1 {
		t.Errorf("Align(%#x) left the value unchanged; expected a byte-order reversal", orig)
	}
	Align(&v)
	if v != orig {
		t.Errorf("Align applied twice = %#x, want original %#x", v, orig)
	}
}

func TestStackMargin(t *testing.T) {
	if StackMargin != Cell(16*Bytes) {
		t.Errorf("StackMargin = %d, want %d", StackMargin, 16*Bytes)
	}
}

func TestUnpackedMax(t *testing.T) {
	want := Ucell(1)<<((Bytes-1)*8) - 1
	if UnpackedMax != want {
		t.Errorf("UnpackedMax = %#x, want %#x", UnpackedMax, want)
	}
}
