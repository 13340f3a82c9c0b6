/*
 * amx - Cell arithmetic and module magic for the abstract machine
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

// Package cell defines the abstract machine's word size. The width is
// chosen at build time with the cell16/cell64 build tags; the default
// build (no tag) uses 32 bit cells, same default Pawn itself picks for
// a non-64-bit host.
package cell

// Bytes is the width of one cell, in bytes.
const Bytes = Size / 8

// UnpackedMax is the largest value a packed character cell component
// may hold before it collides with the sign bit reserved for the
// topmost byte of an unpacked cell.
const UnpackedMax = Ucell(1)<<((Bytes-1)*8) - 1

// Unlimited marks an array dimension or loop count with no compile-time
// bound.
const Unlimited = ^uint32(1) >> 1

// StackMargin is the number of bytes that must remain free between the
// heap and stack pointers at all times (16 cells' worth, matching the
// C runtime's STKMARGIN).
const StackMargin = Cell(16 * Bytes)

// Align rewrites v in place. On-disk header and table fields are
// little-endian regardless of cell width; callers decode them with
// encoding/binary directly, so Align exists only to satisfy hosts that
// hand-roll their own field access the way amx_Align16/32/64 callers
// do. Calling it twice restores the original value.
func Align(v *Ucell) {
	var buf [Bytes]byte
	for i := 0; i < Bytes; i++ {
		buf[i] = byte(*v >> (8 * uint(i)))
	}
	var out Ucell
	for i := 0; i < Bytes; i++ {
		out |= Ucell(buf[Bytes-1-i]) << (8 * uint(i))
	}
	*v = out
}
