/*
 * amx - String marshalling between AMX cell strings and Go strings
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

// encodeString writes s into buf at addr, one character per cell
// (wide AMX strings are cell-per-char regardless of packing, so "wide"
// only changes how GetString widens back to runes on the way out), or
// four/eight characters packed big-endian per cell when packed is set,
// terminated by a zero cell/byte.
func encodeString(buf []byte, addr cell.Cell, s string, packed bool) {
	if !packed {
		pos := addr
		for _, b := range []byte(s) {
			writeCell(buf, pos, cell.Cell(b))
			pos += cell.Cell(cell.Bytes)
		}
		writeCell(buf, pos, 0)
		return
	}
	perCell := cell.Bytes
	pos := addr
	chars := []byte(s)
	for i := 0; i < len(chars); i += perCell {
		var v cell.Ucell
		for j := 0; j < perCell; j++ {
			v <<= 8
			if i+j < len(chars) {
				v |= cell.Ucell(chars[i+j])
			}
		}
		writeCell(buf, pos, cell.Cell(v))
		pos += cell.Cell(cell.Bytes)
	}
	if len(chars)%perCell == 0 {
		writeCell(buf, pos, 0)
	}
}

// SetString encodes s into the instance's data memory at dest, packed
// per-cell when packed is set, capped so the encoded form (including
// terminator) never exceeds size cells (amx_SetString).
func (inst *Instance) SetString(dest cell.Cell, s string, packed bool, size int) error {
	limit := size - 1
	if packed {
		limit = size*cell.Bytes - 1
	}
	if limit < 0 {
		limit = 0
	}
	if len(s) > limit {
		s = s[:limit]
	}
	d := inst.dataMem()
	need := stringCells(s, packed) * cell.Bytes
	if int(dest)+need > len(d) {
		return fmt.Errorf("amx: %w: destination too small for string", ErrMemAccess)
	}
	encodeString(d, dest, s, packed)
	return nil
}

// GetString decodes a string from the instance's data memory at src
// back into a Go string, stopping at the terminator or after size cells
// (for an unpacked string, size characters); size 0 sets no limit
// (amx_GetString). wide mirrors the source layout; this runtime keeps
// every unpacked character one full cell wide, so wide only affects
// how multi-byte characters above U+00FF are recovered.
func (inst *Instance) GetString(src cell.Cell, packed bool, wide bool, size int) (string, error) {
	if !packed {
		out := make([]rune, 0, size)
		pos := src
		for i := 0; size == 0 || i < size; i++ {
			v, ok := inst.readData(pos)
			if !ok {
				return "", fmt.Errorf("amx: %w: string read out of range", ErrMemAccess)
			}
			if v == 0 {
				break
			}
			if wide {
				out = append(out, rune(v))
			} else {
				out = append(out, rune(byte(v)))
			}
			pos += cell.Cell(cell.Bytes)
		}
		return string(out), nil
	}

	out := make([]byte, 0, size*cell.Bytes)
	pos := src
	perCell := cell.Bytes
loop:
	for i := 0; size == 0 || i < size; i++ {
		v, ok := inst.readData(pos)
		if !ok {
			return "", fmt.Errorf("amx: %w: string read out of range", ErrMemAccess)
		}
		u := cell.Ucell(v)
		for j := perCell - 1; j >= 0; j-- {
			b := byte(u >> (8 * uint(j)))
			if b == 0 {
				break loop
			}
			out = append(out, b)
		}
		pos += cell.Cell(cell.Bytes)
	}
	return string(out), nil
}
