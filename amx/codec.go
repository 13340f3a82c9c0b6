/*
 * amx - Fixed-width cell codec shared by the loader and interpreter
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
	"github.com/rcornwell/pawnvm/cell"
)

// Every opcode and operand occupies exactly one cell in live memory.
// A COMPACT module's variable-length encoding is undone once, at load
// (see expandCompact in load.go), so neither the relocate pass nor the
// fetch loop ever sees anything but fixed-width cells.

func readCell(buf []byte, pos cell.Cell) cell.Cell {
	return cell.Cell(readUcell(buf, pos))
}

func readUcell(buf []byte, pos cell.Cell) cell.Ucell {
	var v cell.Ucell
	for i := 0; i < cell.Bytes; i++ {
		v |= cell.Ucell(buf[int(pos)+i]) << (8 * uint(i))
	}
	return v
}

func writeCell(buf []byte, pos cell.Cell, v cell.Cell) {
	u := cell.Ucell(v)
	for i := 0; i < cell.Bytes; i++ {
		buf[int(pos)+i] = byte(u >> (8 * uint(i)))
	}
}
