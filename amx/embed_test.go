/*
 * amx - Embedding surface test cases
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

import (
	"errors"
	"testing"

	"github.com/rcornwell/pawnvm/cell"
)

func TestPushAndExecArgument(t *testing.T) {
	// public sums two pushed cells: PRI = first arg, ALT = second arg
	// via LOAD.S (frame-relative), matching how the compiler addresses
	// a public's declared parameters above its own frame.
	code, _ := assembleCode([]instr{
		in(OpProc),
		in(OpLoadSPri, 3*cell.Cell(cell.Bytes)), // arg 0 (pushed last, closest to frm)
		in(OpLoadSAlt, 4*cell.Cell(cell.Bytes)), // arg 1
		in(OpAdd),
		in(OpRetn),
	})
	inst := load(t, moduleSpec{
		code:      code,
		publics:   []namedAddr{{name: "add2", addr: 0}},
		stackHeap: 256,
	})

	if err := inst.Push(30); err != nil {
		t.Fatalf("Push: unexpected error: %v", err)
	}
	if err := inst.Push(12); err != nil {
		t.Fatalf("Push: unexpected error: %v", err)
	}

	idx, err := inst.FindPublic("add2")
	if err != nil {
		t.Fatalf("FindPublic: unexpected error: %v", err)
	}
	r, err := inst.Exec(idx)
	if err != nil {
		t.Fatalf("Exec: unexpected error: %v", err)
	}
	if r != 42 {
		t.Errorf("Exec(add2) = %d, want 42", r)
	}
}

func TestPublicsLookup(t *testing.T) {
	code, _ := assembleCode([]instr{in(OpHalt, 0)})
	inst := load(t, moduleSpec{
		code:    code,
		publics: []namedAddr{{name: "first", addr: 0}, {name: "second", addr: 0}},
	})

	if n := inst.NumPublics(); n != 2 {
		t.Fatalf("NumPublics() = %d, want 2", n)
	}
	idx, err := inst.FindPublic("second")
	if err != nil {
		t.Fatalf("FindPublic: unexpected error: %v", err)
	}
	if idx != 1 {
		t.Errorf("FindPublic(second) = %d, want 1", idx)
	}
	name, err := inst.GetPublic(0)
	if err != nil {
		t.Fatalf("GetPublic: unexpected error: %v", err)
	}
	if name != "first" {
		t.Errorf("GetPublic(0) = %q, want %q", name, "first")
	}
	if _, err := inst.FindPublic("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindPublic(missing) error = %v, want ErrNotFound", err)
	}
}

func TestAllotAndRelease(t *testing.T) {
	inst := newEmptyInstance(t, 256)
	mark := inst.hea

	addr, mem, err := inst.Allot(4)
	if err != nil {
		t.Fatalf("Allot: unexpected error: %v", err)
	}
	if len(mem) != 4*cell.Bytes {
		t.Errorf("Allot window is %d bytes, want %d", len(mem), 4*cell.Bytes)
	}
	if inst.hea == mark {
		t.Errorf("Allot did not advance hea")
	}
	for i := 0; i < 4; i++ {
		if !inst.writeData(addr+cell.Cell(i*cell.Bytes), cell.Cell(i+1)) {
			t.Fatalf("writeData into allotted region failed at cell %d", i)
		}
	}
	// The returned window aliases instance memory, so the writes above
	// must be visible through it.
	if got := readCell(mem, 2*cell.Cell(cell.Bytes)); got != 3 {
		t.Errorf("Allot window cell 2 = %d, want 3", got)
	}

	if err := inst.Release(mark); err != nil {
		t.Fatalf("Release: unexpected error: %v", err)
	}
	if inst.hea != mark {
		t.Errorf("Release left hea = %d, want %d", inst.hea, mark)
	}

	if err := inst.Release(mark - cell.Cell(cell.Bytes)); err == nil {
		t.Errorf("Release accepted a mark below hlw")
	}
}

func TestAllotExhaustionLeavesHeapUntouched(t *testing.T) {
	inst := newEmptyInstance(t, 256)
	before := inst.hea

	// 256 bytes of stack+heap cannot hold 256 cells plus the margin.
	if _, _, err := inst.Allot(256); !errors.Is(err, ErrHeapLow) {
		t.Fatalf("Allot past the stack margin: error = %v, want ErrHeapLow", err)
	}
	if inst.hea != before {
		t.Errorf("failed Allot moved hea from %d to %d", before, inst.hea)
	}
}

func TestPushArrayAndPushString(t *testing.T) {
	inst := newEmptyInstance(t, 256)

	mark, err := inst.PushArray([]cell.Cell{1, 2, 3})
	if err != nil {
		t.Fatalf("PushArray: unexpected error: %v", err)
	}
	addr, ok := inst.popRaw()
	if !ok {
		t.Fatalf("popRaw after PushArray failed")
	}
	for i, want := range []cell.Cell{1, 2, 3} {
		v, ok := inst.readData(addr + cell.Cell(i*cell.Bytes))
		if !ok || v != want {
			t.Errorf("PushArray cell %d = %v (ok=%v), want %d", i, v, ok, want)
		}
	}
	if err := inst.Release(mark); err != nil {
		t.Fatalf("Release: unexpected error: %v", err)
	}

	mark, err = inst.PushString("hi", false)
	if err != nil {
		t.Fatalf("PushString: unexpected error: %v", err)
	}
	strAddr, ok := inst.popRaw()
	if !ok {
		t.Fatalf("popRaw after PushString failed")
	}
	got, err := inst.GetString(strAddr, false, true, 0)
	if err != nil {
		t.Fatalf("GetString: unexpected error: %v", err)
	}
	if got != "hi" {
		t.Errorf("PushString round trip = %q, want %q", got, "hi")
	}
	if err := inst.Release(mark); err != nil {
		t.Fatalf("Release: unexpected error: %v", err)
	}
}

func TestUserData(t *testing.T) {
	inst := newEmptyInstance(t, 64)
	tag := UserTag('p', 'w', 'n', 0)

	if _, ok := inst.GetUserData(tag); ok {
		t.Fatalf("GetUserData found a value before any SetUserData")
	}
	if err := inst.SetUserData(tag, "payload"); err != nil {
		t.Fatalf("SetUserData: unexpected error: %v", err)
	}
	v, ok := inst.GetUserData(tag)
	if !ok || v != "payload" {
		t.Errorf("GetUserData = (%v, %v), want (\"payload\", true)", v, ok)
	}

	// One slot is already used by tag above; fill the remaining UserNum-1.
	for i := 0; i < UserNum-1; i++ {
		if err := inst.SetUserData(UserTag(byte(i), 1, 0, 0), i); err != nil {
			t.Fatalf("SetUserData slot %d: unexpected error: %v", i, err)
		}
	}
	if err := inst.SetUserData(UserTag(99, 1, 0, 0), "overflow"); err == nil {
		t.Errorf("SetUserData accepted a 5th distinct tag past UserNum=%d", UserNum)
	}
}
