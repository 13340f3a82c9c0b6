/*
 * amx - Embedding surface: symbol lookup, stack/heap marshalling, errors
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
	"fmt"

	"github.com/rcornwell/pawnvm/cell"
)

// Push decrements stk and writes v, the embedding API's scalar-argument
// primitive (amx_Push). Each call bumps paramCount so the next Exec
// knows how many argument cells to report to the callee.
func (inst *Instance) Push(v cell.Cell) error {
	if !inst.pushRaw(v) {
		return fmt.Errorf("amx: %w: no room to push argument", ErrStackErr)
	}
	inst.paramCount++
	return nil
}

// PushArray allots len(values) cells on the heap, copies values into
// it, pushes the heap address as the argument cell, and returns the
// heap mark the caller should Release after the call completes
// (amx_PushArray).
func (inst *Instance) PushArray(values []cell.Cell) (cell.Cell, error) {
	mark := inst.hea
	addr, _, err := inst.Allot(len(values))
	if err != nil {
		return mark, err
	}
	for i, v := range values {
		inst.writeData(addr+cell.Cell(i*cell.Bytes), v)
	}
	if err := inst.Push(addr); err != nil {
		return mark, err
	}
	return mark, nil
}

// PushString materializes s on the heap (one cell per character, or
// four/eight packed per cell when packed is set) with a trailing zero
// terminator, pushes its heap address, and returns the pre-push heap
// mark (amx_PushString).
func (inst *Instance) PushString(s string, packed bool) (cell.Cell, error) {
	return inst.PushStringLen(s, packed, cell.Unlimited)
}

// PushStringLen is PushString with an explicit cap on how much of s is
// encoded (amx_PushStringLen); size == cell.Unlimited means "no cap".
func (inst *Instance) PushStringLen(s string, packed bool, size uint32) (cell.Cell, error) {
	if size != cell.Unlimited && uint32(len(s)) > size {
		s = s[:size]
	}
	mark := inst.hea
	n := stringCells(s, packed)
	addr, _, err := inst.Allot(n)
	if err != nil {
		return mark, err
	}
	encodeString(inst.dataMem(), addr, s, packed)
	if err := inst.Push(addr); err != nil {
		return mark, err
	}
	return mark, nil
}

// StrLen reports how many cells a string needs on the heap, including
// its terminator (amx_StrLen).
func StrLen(s string, packed bool) int { return stringCells(s, packed) }

// stringCells returns how many cells s plus its terminator occupies.
func stringCells(s string, packed bool) int {
	if !packed {
		return len(s) + 1
	}
	perCell := cell.Bytes
	return len(s)/perCell + 1
}

// Allot bump-allocates n cells on the heap and returns both the
// data-relative address and the live byte window over that block
// (amx_Allot's amx-address/physical-address pair). Writes through the
// window land directly in instance memory; cells within it use the
// same byte layout the interpreter's own loads and stores use.
func (inst *Instance) Allot(n int) (addr cell.Cell, mem []byte, err error) {
	need := cell.Cell(n * cell.Bytes)
	if inst.hea+need > inst.stk-cell.StackMargin {
		return 0, nil, fmt.Errorf("amx: %w: heap exhausted allotting %d cells", ErrHeapLow, n)
	}
	addr = inst.hea
	inst.hea += need
	mem = inst.dataMem()[addr : addr+need]
	return addr, mem, nil
}

// Release rewinds the heap to mark, invalidating every string or array
// allotted since (amx_Release). mark must lie within [hlw, current hea].
func (inst *Instance) Release(mark cell.Cell) error {
	if mark < inst.hlw || mark > inst.hea {
		return fmt.Errorf("amx: %w: release mark %d outside [%d, %d]", ErrIndex, mark, inst.hlw, inst.hea)
	}
	inst.hea = mark
	return nil
}

// RaiseError sets the sticky error code a native uses to abort the
// current Exec after returning (amx_RaiseError).
func (inst *Instance) RaiseError(code Error) { inst.err = code }

// FindPublic resolves a public function's index by name (amx_FindPublic).
func (inst *Instance) FindPublic(name string) (int, error) {
	for i, p := range inst.publics {
		if p.Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("amx: %w: public %q not found", ErrNotFound, name)
}

// GetPublic returns the name of the public at index (amx_GetPublic).
func (inst *Instance) GetPublic(index int) (string, error) {
	if index < 0 || index >= len(inst.publics) {
		return "", fmt.Errorf("amx: %w: public index %d out of range", ErrIndex, index)
	}
	return inst.publics[index].Name, nil
}

// NumPublics reports the module's public-function count (amx_NumPublics).
func (inst *Instance) NumPublics() int { return len(inst.publics) }

// FindPubVar resolves a public variable's address by name (amx_FindPubVar).
func (inst *Instance) FindPubVar(name string) (cell.Cell, error) {
	for _, v := range inst.pubvars {
		if v.Name == name {
			return cell.Cell(v.Address), nil
		}
	}
	return 0, fmt.Errorf("amx: %w: pubvar %q not found", ErrNotFound, name)
}

// GetPubVar returns the name and address of the pubvar at index (amx_GetPubVar).
func (inst *Instance) GetPubVar(index int) (string, cell.Cell, error) {
	if index < 0 || index >= len(inst.pubvars) {
		return "", 0, fmt.Errorf("amx: %w: pubvar index %d out of range", ErrIndex, index)
	}
	v := inst.pubvars[index]
	return v.Name, cell.Cell(v.Address), nil
}

// NumPubVars reports the module's public-variable count (amx_NumPubVars).
func (inst *Instance) NumPubVars() int { return len(inst.pubvars) }

// FindTagID resolves a tag's name to its numeric ID (amx_FindTagId).
func (inst *Instance) FindTagID(name string) (int32, error) {
	for _, t := range inst.tags {
		if t.Name == name {
			return int32(t.Address), nil
		}
	}
	return 0, fmt.Errorf("amx: %w: tag %q not found", ErrNotFound, name)
}

// GetTag returns the name and ID of the tag at index (amx_GetTag).
func (inst *Instance) GetTag(index int) (string, int32, error) {
	if index < 0 || index >= len(inst.tags) {
		return "", 0, fmt.Errorf("amx: %w: tag index %d out of range", ErrIndex, index)
	}
	t := inst.tags[index]
	return t.Name, int32(t.Address), nil
}

// NumTags reports the module's tag-table count (amx_NumTags).
func (inst *Instance) NumTags() int { return len(inst.tags) }

// GetUserData retrieves the opaque value stored under tag, if any
// (amx_GetUserData).
func (inst *Instance) GetUserData(tag uint32) (any, bool) {
	for i := range inst.userTags {
		if inst.userSet[i] && inst.userTags[i] == tag {
			return inst.userData[i], true
		}
	}
	return nil, false
}

// SetUserData stores value under tag in the next free slot, or
// overwrites the slot already holding tag (amx_SetUserData). The slot
// set is a closed, fixed-size keyed store: inserting past UserNum
// distinct tags fails with ErrUserdata rather than growing.
func (inst *Instance) SetUserData(tag uint32, value any) error {
	free := -1
	for i := range inst.userTags {
		if inst.userSet[i] && inst.userTags[i] == tag {
			inst.userData[i] = value
			return nil
		}
		if free == -1 && !inst.userSet[i] {
			free = i
		}
	}
	if free == -1 {
		return fmt.Errorf("amx: %w: user data table full (%d slots)", ErrUserdata, UserNum)
	}
	inst.userTags[free] = tag
	inst.userData[free] = value
	inst.userSet[free] = true
	return nil
}
