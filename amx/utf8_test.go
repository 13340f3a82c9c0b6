/*
 * amx - UTF-8 codec test cases
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

package amx

import "testing"

func TestUTF8RoundTrip(t *testing.T) {
	runes := []rune{'A', 0xA2, 0x20AC, 0x10348}
	for _, r := range runes {
		var buf [4]byte
		n, err := UTF8Put(buf[:], r)
		if err != nil {
			t.Fatalf("UTF8Put(%#x): unexpected error: %v", r, err)
		}
		if n != UTF8Len(r) {
			t.Errorf("UTF8Put(%#x) wrote %d bytes, UTF8Len reports %d", r, n, UTF8Len(r))
		}
		got, width, err := UTF8Get(buf[:n])
		if err != nil {
			t.Fatalf("UTF8Get round trip of %#x: unexpected error: %v", r, err)
		}
		if got != r || width != n {
			t.Errorf("UTF8Get round trip of %#x = (%#x, %d), want (%#x, %d)", r, got, width, r, n)
		}
	}
}

func TestUTF8GetRejectsOverlong(t *testing.T) {
	// 0xC0 0x80 is the two-byte overlong encoding of NUL (U+0000),
	// which the canonical-shortest-form one-byte encoding would use.
	_, _, err := UTF8Get([]byte{0xC0, 0x80})
	if err == nil {
		t.Fatalf("UTF8Get accepted an overlong encoding")
	}
}

func TestUTF8GetRejectsSurrogateHalf(t *testing.T) {
	// U+D800 encoded as three bytes: 0xED 0xA0 0x80.
	_, _, err := UTF8Get([]byte{0xED, 0xA0, 0x80})
	if err == nil {
		t.Fatalf("UTF8Get accepted a surrogate half")
	}
}

func TestUTF8PutRejectsSurrogateHalf(t *testing.T) {
	var buf [4]byte
	if _, err := UTF8Put(buf[:], 0xD800); err == nil {
		t.Fatalf("UTF8Put accepted a surrogate half")
	}
}

func TestUTF8Check(t *testing.T) {
	s := "A¢€\U00010348"
	n, err := UTF8Check([]byte(s))
	if err != nil {
		t.Fatalf("UTF8Check: unexpected error: %v", err)
	}
	if n != 4 {
		t.Errorf("UTF8Check rune count = %d, want 4", n)
	}

	if _, err := UTF8Check([]byte{0xC0, 0x80}); err == nil {
		t.Errorf("UTF8Check accepted an overlong encoding")
	}
}
