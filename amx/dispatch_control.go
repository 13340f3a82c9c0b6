/*
 * amx - Control flow, frame, and array-bounds opcodes
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
	dispatch[OpJump] = opJump
	dispatch[OpJzer] = opJzer
	dispatch[OpJnz] = opJnz
	dispatch[OpJeq] = opJeq
	dispatch[OpJneq] = opJneq
	dispatch[OpJless] = opJless
	dispatch[OpJleq] = opJleq
	dispatch[OpJgrtr] = opJgrtr
	dispatch[OpJgeq] = opJgeq
	dispatch[OpJsless] = opJsless
	dispatch[OpJsleq] = opJsleq
	dispatch[OpJsgrtr] = opJsgrtr
	dispatch[OpJsgeq] = opJsgeq
	dispatch[OpSwitch] = opSwitch
	dispatch[OpCasetbl] = opCasetblDirect
	dispatch[OpCall] = opCall
	dispatch[OpRet] = opRet
	dispatch[OpRetn] = opRetn
	dispatch[OpProc] = opProc
	dispatch[OpStack] = opStack
	dispatch[OpHeap] = opHeap
	dispatch[OpBounds] = opBounds
	dispatch[OpHalt] = opHalt
	dispatch[OpNop] = opNop

	dispatch[OpSysreqC] = opSysreqC
	dispatch[OpSysreqN] = opSysreqN
	dispatch[OpSysreqD] = opSysreqD
	dispatch[OpBreak] = opBreak
	dispatch[OpSleep] = opSleep
}

func opJump(inst *Instance) { inst.cip = inst.fetchOperand() }

func opJzer(inst *Instance) {
	target := inst.fetchOperand()
	if inst.pri == 0 {
		inst.cip = target
	}
}

func opJnz(inst *Instance) {
	target := inst.fetchOperand()
	if inst.pri != 0 {
		inst.cip = target
	}
}

func opJeq(inst *Instance) {
	target := inst.fetchOperand()
	if inst.pri == inst.alt {
		inst.cip = target
	}
}

func opJneq(inst *Instance) {
	target := inst.fetchOperand()
	if inst.pri != inst.alt {
		inst.cip = target
	}
}

func opJless(inst *Instance) {
	target := inst.fetchOperand()
	if cell.Ucell(inst.pri) < cell.Ucell(inst.alt) {
		inst.cip = target
	}
}

func opJleq(inst *Instance) {
	target := inst.fetchOperand()
	if cell.Ucell(inst.pri) <= cell.Ucell(inst.alt) {
		inst.cip = target
	}
}

func opJgrtr(inst *Instance) {
	target := inst.fetchOperand()
	if cell.Ucell(inst.pri) > cell.Ucell(inst.alt) {
		inst.cip = target
	}
}

func opJgeq(inst *Instance) {
	target := inst.fetchOperand()
	if cell.Ucell(inst.pri) >= cell.Ucell(inst.alt) {
		inst.cip = target
	}
}

func opJsless(inst *Instance) {
	target := inst.fetchOperand()
	if inst.pri < inst.alt {
		inst.cip = target
	}
}

func opJsleq(inst *Instance) {
	target := inst.fetchOperand()
	if inst.pri <= inst.alt {
		inst.cip = target
	}
}

func opJsgrtr(inst *Instance) {
	target := inst.fetchOperand()
	if inst.pri > inst.alt {
		inst.cip = target
	}
}

func opJsgeq(inst *Instance) {
	target := inst.fetchOperand()
	if inst.pri >= inst.alt {
		inst.cip = target
	}
}

// opSwitch reads the CASETBL at the address given by the SWITCH
// opcode's own operand and jumps to the target
// whose case value matches PRI, or to record 0's default target.
func opSwitch(inst *Instance) {
	tbl := inst.fetchOperand()
	code := inst.base
	idx := inst.codeAt(tbl)
	if idx < 0 || idx+cell.Bytes > len(code) {
		inst.err = ErrMemAccess
		return
	}
	// idx addresses the CASETBL opcode cell itself; skip it to reach
	// the record count, then walk `count` (value, target) pairs.
	// Record 0 is the default: its value cell is unused but still
	// present, matching relocate's CASETBL walk in load.go.
	idx += cell.Bytes
	if idx+cell.Bytes > len(code) {
		inst.err = ErrMemAccess
		return
	}
	count := int(readCell(code, cell.Cell(idx)))
	idx += cell.Bytes
	var target cell.Cell
	for i := 0; i < count; i++ {
		value, ok := readCellAt(code, idx)
		if !ok {
			inst.err = ErrMemAccess
			return
		}
		idx += cell.Bytes
		caseTarget, ok := readCellAt(code, idx)
		if !ok {
			inst.err = ErrMemAccess
			return
		}
		idx += cell.Bytes
		if i == 0 {
			target = caseTarget
			continue
		}
		if value == inst.pri {
			target = caseTarget
			break
		}
	}
	inst.cip = target
}

func readCellAt(buf []byte, idx int) (cell.Cell, bool) {
	if idx < 0 || idx+cell.Bytes > len(buf) {
		return 0, false
	}
	return readCell(buf, cell.Cell(idx)), true
}

// opCasetblDirect only runs if control somehow lands directly on a
// CASETBL record instead of arriving via SWITCH; that is always a
// malformed module (CASETBL is data, not a reachable instruction).
func opCasetblDirect(inst *Instance) { inst.err = ErrInvInstr }

func opCall(inst *Instance) {
	target := inst.fetchOperand()
	if !inst.pushRaw(inst.cip) {
		inst.err = ErrStackErr
		return
	}
	inst.cip = target
}

func opRet(inst *Instance) {
	frm, ok := inst.popRaw()
	if !ok {
		inst.err = ErrStackLow
		return
	}
	cip, ok := inst.popRaw()
	if !ok {
		inst.err = ErrStackLow
		return
	}
	inst.frm = frm
	if cip == topSentinel {
		inst.halt = true
		return
	}
	inst.cip = cip
}

func opRetn(inst *Instance) {
	frm, ok := inst.popRaw()
	if !ok {
		inst.err = ErrStackLow
		return
	}
	cip, ok := inst.popRaw()
	if !ok {
		inst.err = ErrStackLow
		return
	}
	nbytes, ok := inst.popRaw()
	if !ok {
		inst.err = ErrStackLow
		return
	}
	inst.frm = frm
	inst.stk += nbytes
	if cip == topSentinel {
		inst.halt = true
		return
	}
	inst.cip = cip
}

// opProc pushes the caller's FRM and establishes a new frame at the
// current STK; the compiler follows PROC with a STACK opcode carrying
// a negative delta to reserve local variable space.
func opProc(inst *Instance) {
	if !inst.pushRaw(inst.frm) {
		inst.err = ErrStackErr
		return
	}
	inst.frm = inst.stk
}

// opStack adjusts STK by a signed delta: negative to reserve locals,
// positive to release them or to pop a callee's arguments after a
// plain RET-based call.
func opStack(inst *Instance) {
	delta := inst.fetchOperand()
	newStk := inst.stk + delta
	if delta < 0 {
		if newStk-cell.Cell(cell.Bytes) < inst.hea+cell.StackMargin {
			inst.err = ErrStackErr
			return
		}
	} else if newStk > inst.stp+cell.Cell(cell.Bytes) {
		inst.err = ErrStackLow
		return
	}
	inst.stk = newStk
}

// opHeap adjusts HEA by a signed byte delta (positive to allocate,
// negative to free a compiled heap block), leaving the prior HEA in ALT
// so the caller can address a newly allocated block.
func opHeap(inst *Instance) {
	n := inst.fetchOperand()
	if inst.hea+n > inst.stk-cell.StackMargin || inst.hea+n < inst.hlw {
		inst.err = ErrHeapLow
		return
	}
	inst.alt = inst.hea
	inst.hea += n
}

// opBounds aborts with BOUNDS if PRI, read as unsigned, exceeds the
// compile-time array extent in value. A module built with its runtime
// checks stripped (FlagNoChecks) skips the comparison.
func opBounds(inst *Instance) {
	max := inst.fetchOperand()
	if inst.flags.Has(FlagNoChecks) {
		return
	}
	if cell.Ucell(inst.pri) > cell.Ucell(max) {
		inst.err = ErrBounds
	}
}

// opHalt stops the dispatch loop; a nonzero operand forces that error
// code onto the instance instead of a clean stop, matching how a
// script-level "exit(n)" statement compiles.
func opHalt(inst *Instance) {
	v := inst.fetchOperand()
	inst.halt = true
	if v != 0 {
		inst.err = Error(v)
	}
}

func opNop(_ *Instance) {}

func opBreak(inst *Instance) {
	if inst.debug == nil {
		return
	}
	if err := inst.debug(inst); err != nil {
		inst.err = ErrDebug
	}
}

// opSleep saves the SLEEP opcode's own operand as the value Exec
// returns to the host, and sets ErrSleep so Exec preserves every
// register instead of resetting stk/hea on the way out.
func opSleep(inst *Instance) {
	v := inst.fetchOperand()
	inst.sleepRetval = v
	inst.err = ErrSleep
	inst.halt = true
}
