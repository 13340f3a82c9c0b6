/*
 * amx - File-version-9 macro-fused opcodes
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

// These opcodes exist only to cut dispatch overhead by fusing two or
// three primitive steps into one fetch/decode cycle; none carries new
// semantics beyond the primitives it replaces.
func init() {
	dispatch[OpLoadBoth] = opLoadBoth
	dispatch[OpLoadSBoth] = opLoadSBoth
	dispatch[OpPush2C] = opPush2C
	dispatch[OpPush2] = opPush2
	dispatch[OpPush2S] = opPush2S
	dispatch[OpPush2Adr] = opPush2Adr
	dispatch[OpPush3C] = opPush3C
	dispatch[OpPush3] = opPush3
	dispatch[OpPush3S] = opPush3S
	dispatch[OpPush3Adr] = opPush3Adr
}

// opLoadBoth fuses LOAD.pri addr1 + LOAD.alt addr2.
func opLoadBoth(inst *Instance) {
	a1 := inst.fetchOperand()
	a2 := inst.fetchOperand()
	v1, ok := inst.readData(a1)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	v2, ok := inst.readData(a2)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	inst.pri, inst.alt = v1, v2
}

// opLoadSBoth fuses LOAD.S.pri off1 + LOAD.S.alt off2.
func opLoadSBoth(inst *Instance) {
	o1 := inst.fetchOperand()
	o2 := inst.fetchOperand()
	v1, ok := inst.readData(inst.frm + o1)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	v2, ok := inst.readData(inst.frm + o2)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	inst.pri, inst.alt = v1, v2
}

func (inst *Instance) pushN(vals ...cell.Cell) {
	for _, v := range vals {
		if !inst.pushRaw(v) {
			inst.err = ErrStackErr
			return
		}
	}
}

// opPush2C fuses two PUSH.C constants, pushed in operand order.
func opPush2C(inst *Instance) {
	v1 := inst.fetchOperand()
	v2 := inst.fetchOperand()
	inst.pushN(v1, v2)
}

// opPush2 fuses two PUSH [addr] loads.
func opPush2(inst *Instance) {
	a1 := inst.fetchOperand()
	a2 := inst.fetchOperand()
	v1, ok1 := inst.readData(a1)
	v2, ok2 := inst.readData(a2)
	if !ok1 || !ok2 {
		inst.err = ErrMemAccess
		return
	}
	inst.pushN(v1, v2)
}

// opPush2S fuses two PUSH.S [frm+off] loads.
func opPush2S(inst *Instance) {
	o1 := inst.fetchOperand()
	o2 := inst.fetchOperand()
	v1, ok1 := inst.readData(inst.frm + o1)
	v2, ok2 := inst.readData(inst.frm + o2)
	if !ok1 || !ok2 {
		inst.err = ErrMemAccess
		return
	}
	inst.pushN(v1, v2)
}

// opPush2Adr fuses two PUSH.ADR [frm+off] address pushes.
func opPush2Adr(inst *Instance) {
	o1 := inst.fetchOperand()
	o2 := inst.fetchOperand()
	inst.pushN(inst.frm+o1, inst.frm+o2)
}

func opPush3C(inst *Instance) {
	v1 := inst.fetchOperand()
	v2 := inst.fetchOperand()
	v3 := inst.fetchOperand()
	inst.pushN(v1, v2, v3)
}

func opPush3(inst *Instance) {
	a1 := inst.fetchOperand()
	a2 := inst.fetchOperand()
	a3 := inst.fetchOperand()
	v1, ok1 := inst.readData(a1)
	v2, ok2 := inst.readData(a2)
	v3, ok3 := inst.readData(a3)
	if !ok1 || !ok2 || !ok3 {
		inst.err = ErrMemAccess
		return
	}
	inst.pushN(v1, v2, v3)
}

func opPush3S(inst *Instance) {
	o1 := inst.fetchOperand()
	o2 := inst.fetchOperand()
	o3 := inst.fetchOperand()
	v1, ok1 := inst.readData(inst.frm + o1)
	v2, ok2 := inst.readData(inst.frm + o2)
	v3, ok3 := inst.readData(inst.frm + o3)
	if !ok1 || !ok2 || !ok3 {
		inst.err = ErrMemAccess
		return
	}
	inst.pushN(v1, v2, v3)
}

func opPush3Adr(inst *Instance) {
	o1 := inst.fetchOperand()
	o2 := inst.fetchOperand()
	o3 := inst.fetchOperand()
	inst.pushN(inst.frm+o1, inst.frm+o2, inst.frm+o3)
}
