/*
 * amx - String marshalling test cases
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

func newEmptyInstance(t *testing.T, stackHeap int) *Instance {
	t.Helper()
	code, _ := assembleCode([]instr{in(OpHalt, 0)})
	return load(t, moduleSpec{code: code, stackHeap: stackHeap})
}

func TestStringRoundTripUnpacked(t *testing.T) {
	inst := newEmptyInstance(t, 256)
	const want = "hello, pawn"

	if err := inst.SetString(0, want, false, len(want)+1); err != nil {
		t.Fatalf("SetString: unexpected error: %v", err)
	}
	got, err := inst.GetString(0, false, true, len(want)+1)
	if err != nil {
		t.Fatalf("GetString: unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("GetString round trip = %q, want %q", got, want)
	}
}

func TestStringRoundTripPacked(t *testing.T) {
	inst := newEmptyInstance(t, 256)
	const want = "packed string"

	cells := StrLen(want, true)
	if err := inst.SetString(0, want, true, cells); err != nil {
		t.Fatalf("SetString: unexpected error: %v", err)
	}
	got, err := inst.GetString(0, true, false, cells)
	if err != nil {
		t.Fatalf("GetString: unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("GetString packed round trip = %q, want %q", got, want)
	}
}

func TestSetStringTruncatesToSize(t *testing.T) {
	inst := newEmptyInstance(t, 256)
	if err := inst.SetString(0, "abcdef", false, 4); err != nil {
		t.Fatalf("SetString: unexpected error: %v", err)
	}
	got, err := inst.GetString(0, false, true, 0)
	if err != nil {
		t.Fatalf("GetString: unexpected error: %v", err)
	}
	if got != "abc" {
		t.Errorf("SetString with size=4 kept %q, want \"abc\" (3 chars plus terminator)", got)
	}
}

func TestStrLen(t *testing.T) {
	if n := StrLen("abc", false); n != 4 {
		t.Errorf("StrLen(%q, false) = %d, want 4", "abc", n)
	}
	if n := StrLen("", false); n != 1 {
		t.Errorf("StrLen(%q, false) = %d, want 1 (terminator only)", "", n)
	}
}
