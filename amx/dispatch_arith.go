/*
 * amx - Arithmetic, logic, and comparison opcodes
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

import "github.com/rcornwell/pawnvm/cell"

func init() {
	dispatch[OpAdd] = opAdd
	dispatch[OpSub] = opSub
	dispatch[OpSubAlt] = opSubAlt
	dispatch[OpAddC] = opAddC
	dispatch[OpAnd] = opAnd
	dispatch[OpOr] = opOr
	dispatch[OpXor] = opXor
	dispatch[OpNot] = opNot
	dispatch[OpNeg] = opNeg
	dispatch[OpInvert] = opInvert
	dispatch[OpShl] = opShl
	dispatch[OpShr] = opShr
	dispatch[OpSshr] = opSshr
	dispatch[OpShlCPri] = opShlCPri
	dispatch[OpShlCAlt] = opShlCAlt
	dispatch[OpShrCPri] = opShrCPri
	dispatch[OpShrCAlt] = opShrCAlt
	dispatch[OpSmul] = opSmul
	dispatch[OpSmulC] = opSmulC
	dispatch[OpSdiv] = opSdiv
	dispatch[OpSdivAlt] = opSdivAlt
	dispatch[OpUmul] = opUmul
	dispatch[OpUdiv] = opUdiv
	dispatch[OpUdivAlt] = opUdivAlt
	dispatch[OpIncPri] = opIncPri
	dispatch[OpIncAlt] = opIncAlt
	dispatch[OpInc] = opInc
	dispatch[OpIncS] = opIncS
	dispatch[OpIncI] = opIncI
	dispatch[OpDecPri] = opDecPri
	dispatch[OpDecAlt] = opDecAlt
	dispatch[OpDec] = opDec
	dispatch[OpDecS] = opDecS
	dispatch[OpDecI] = opDecI

	dispatch[OpEq] = opEq
	dispatch[OpNeq] = opNeq
	dispatch[OpLess] = opLess
	dispatch[OpLeq] = opLeq
	dispatch[OpGrtr] = opGrtr
	dispatch[OpGeq] = opGeq
	dispatch[OpSless] = opSless
	dispatch[OpSleq] = opSleq
	dispatch[OpSgrtr] = opSgrtr
	dispatch[OpSgeq] = opSgeq
	dispatch[OpEqCPri] = opEqCPri
	dispatch[OpEqCAlt] = opEqCAlt
}

func opAdd(inst *Instance) { inst.pri += inst.alt }
func opSub(inst *Instance) { inst.pri = inst.alt - inst.pri }
func opSubAlt(inst *Instance) { inst.pri -= inst.alt }
func opAddC(inst *Instance) { inst.pri += inst.fetchOperand() }

func opAnd(inst *Instance) { inst.pri &= inst.alt }
func opOr(inst *Instance) { inst.pri |= inst.alt }
func opXor(inst *Instance) { inst.pri ^= inst.alt }

func opNot(inst *Instance) {
	if inst.pri == 0 {
		inst.pri = 1
	} else {
		inst.pri = 0
	}
}

func opNeg(inst *Instance)    { inst.pri = -inst.pri }
func opInvert(inst *Instance) { inst.pri = ^inst.pri }

func opShl(inst *Instance) { inst.pri <<= uint(inst.alt) }
func opShr(inst *Instance) { inst.pri = cell.Cell(cell.Ucell(inst.pri) >> uint(inst.alt)) }
func opSshr(inst *Instance) { inst.pri >>= uint(inst.alt) }

func opShlCPri(inst *Instance) { inst.pri <<= uint(inst.fetchOperand()) }
func opShlCAlt(inst *Instance) { inst.alt <<= uint(inst.fetchOperand()) }
func opShrCPri(inst *Instance) {
	n := inst.fetchOperand()
	inst.pri = cell.Cell(cell.Ucell(inst.pri) >> uint(n))
}
func opShrCAlt(inst *Instance) {
	n := inst.fetchOperand()
	inst.alt = cell.Cell(cell.Ucell(inst.alt) >> uint(n))
}

func opSmul(inst *Instance) { inst.pri *= inst.alt }
func opSmulC(inst *Instance) { inst.pri *= inst.fetchOperand() }

// sdivmod implements the AMX's floored signed division: the quotient
// truncates toward negative infinity and the remainder's sign always
// matches the divisor's, unlike Go's truncating "/" and "%".
func sdivmod(n, d cell.Cell) (q, r cell.Cell, ok bool) {
	if d == 0 {
		return 0, 0, false
	}
	q = n / d
	r = n % d
	if r != 0 && (r < 0) != (d < 0) {
		q--
		r += d
	}
	return q, r, true
}

func opSdiv(inst *Instance) {
	q, r, ok := sdivmod(inst.pri, inst.alt)
	if !ok {
		inst.err = ErrDivide
		return
	}
	inst.pri, inst.alt = q, r
}

func opSdivAlt(inst *Instance) {
	q, r, ok := sdivmod(inst.alt, inst.pri)
	if !ok {
		inst.err = ErrDivide
		return
	}
	inst.pri, inst.alt = q, r
}

func opUmul(inst *Instance) { inst.pri = cell.Cell(cell.Ucell(inst.pri) * cell.Ucell(inst.alt)) }

func opUdiv(inst *Instance) {
	if inst.alt == 0 {
		inst.err = ErrDivide
		return
	}
	p, a := cell.Ucell(inst.pri), cell.Ucell(inst.alt)
	inst.pri, inst.alt = cell.Cell(p/a), cell.Cell(p%a)
}

func opUdivAlt(inst *Instance) {
	if inst.pri == 0 {
		inst.err = ErrDivide
		return
	}
	p, a := cell.Ucell(inst.pri), cell.Ucell(inst.alt)
	inst.pri, inst.alt = cell.Cell(a/p), cell.Cell(a%p)
}

func opIncPri(inst *Instance) { inst.pri++ }
func opIncAlt(inst *Instance) { inst.alt++ }

func opInc(inst *Instance) {
	addr := inst.fetchOperand()
	v, ok := inst.readData(addr)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	if !inst.writeData(addr, v+1) {
		inst.err = ErrMemAccess
	}
}

func opIncS(inst *Instance) {
	off := inst.fetchOperand()
	addr := inst.frm + off
	v, ok := inst.readData(addr)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	if !inst.writeData(addr, v+1) {
		inst.err = ErrMemAccess
	}
}

func opIncI(inst *Instance) {
	v, ok := inst.readData(inst.pri)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	if !inst.writeData(inst.pri, v+1) {
		inst.err = ErrMemAccess
	}
}

func opDecPri(inst *Instance) { inst.pri-- }
func opDecAlt(inst *Instance) { inst.alt-- }

func opDec(inst *Instance) {
	addr := inst.fetchOperand()
	v, ok := inst.readData(addr)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	if !inst.writeData(addr, v-1) {
		inst.err = ErrMemAccess
	}
}

func opDecS(inst *Instance) {
	off := inst.fetchOperand()
	addr := inst.frm + off
	v, ok := inst.readData(addr)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	if !inst.writeData(addr, v-1) {
		inst.err = ErrMemAccess
	}
}

func opDecI(inst *Instance) {
	v, ok := inst.readData(inst.pri)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	if !inst.writeData(inst.pri, v-1) {
		inst.err = ErrMemAccess
	}
}

func boolCell(b bool) cell.Cell {
	if b {
		return 1
	}
	return 0
}

func opEq(inst *Instance) { inst.pri = boolCell(inst.pri == inst.alt) }
func opNeq(inst *Instance) { inst.pri = boolCell(inst.pri != inst.alt) }

func opLess(inst *Instance) { inst.pri = boolCell(cell.Ucell(inst.pri) < cell.Ucell(inst.alt)) }
func opLeq(inst *Instance) { inst.pri = boolCell(cell.Ucell(inst.pri) <= cell.Ucell(inst.alt)) }
func opGrtr(inst *Instance) { inst.pri = boolCell(cell.Ucell(inst.pri) > cell.Ucell(inst.alt)) }
func opGeq(inst *Instance) { inst.pri = boolCell(cell.Ucell(inst.pri) >= cell.Ucell(inst.alt)) }

func opSless(inst *Instance) { inst.pri = boolCell(inst.pri < inst.alt) }
func opSleq(inst *Instance) { inst.pri = boolCell(inst.pri <= inst.alt) }
func opSgrtr(inst *Instance) { inst.pri = boolCell(inst.pri > inst.alt) }
func opSgeq(inst *Instance) { inst.pri = boolCell(inst.pri >= inst.alt) }

func opEqCPri(inst *Instance) {
	v := inst.fetchOperand()
	inst.pri = boolCell(inst.pri == v)
}

func opEqCAlt(inst *Instance) {
	v := inst.fetchOperand()
	inst.pri = boolCell(inst.alt == v)
}
