/*
 * amx - Interpreter core: fetch/decode/dispatch and top-level Exec
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

// opHandler executes one opcode against inst. A handler signals a
// script fault by setting inst.err directly (mirroring the way the
// AM itself represents failure as a sticky status code rather than a
// Go error) and a top-level stop (HALT, or RETN unwinding past the
// entry frame) by setting inst.halt.
type opHandler func(inst *Instance)

// dispatch is built once by each opcode category's init(), one file
// per functional area.
var dispatch [numOpcodes]opHandler

// topSentinel is the fake return address/frame pushed by enterCall so
// that a top-level main/public's final RETN (or RET) is recognized
// instead of jumping cip into invalid territory.
const topSentinel cell.Cell = -1

// fetchOpcode reads the opcode cell at cip and advances cip past it.
func (inst *Instance) fetchOpcode() (Opcode, bool) {
	idx := inst.codeAt(inst.cip)
	if idx < 0 || idx+cell.Bytes > len(inst.base) {
		return 0, false
	}
	op := Opcode(readCell(inst.base, cell.Cell(idx)))
	inst.cip += cell.Cell(cell.Bytes)
	return op, true
}

// fetchOperand reads one cell operand at cip and advances cip past it.
// Callers must fetch exactly as many operands as operandCount(op)
// declares, in order, so cip ends up where the loader's relocate pass
// assumed it would.
func (inst *Instance) fetchOperand() cell.Cell {
	idx := inst.codeAt(inst.cip)
	v := readCell(inst.base, cell.Cell(idx))
	inst.cip += cell.Cell(cell.Bytes)
	return v
}

// readData and writeData access the data+heap+stack region by byte
// offset, the same unit frm/stk/hea are expressed in.
func (inst *Instance) readData(addr cell.Cell) (cell.Cell, bool) {
	d := inst.dataMem()
	if addr < 0 || int(addr)+cell.Bytes > len(d) {
		return 0, false
	}
	return readCell(d, addr), true
}

func (inst *Instance) writeData(addr cell.Cell, v cell.Cell) bool {
	d := inst.dataMem()
	if addr < 0 || int(addr)+cell.Bytes > len(d) {
		return false
	}
	writeCell(d, addr, v)
	return true
}

// readBytes and writeBytes implement LODB.I/STRB.I, which load or store
// a sub-cell width (1, 2, or 4 bytes) zero-extended to a full cell.
func (inst *Instance) readBytes(addr cell.Cell, n int) (cell.Cell, bool) {
	d := inst.dataMem()
	if addr < 0 || n <= 0 || n > cell.Bytes || int(addr)+n > len(d) {
		return 0, false
	}
	var v cell.Ucell
	for i := 0; i < n; i++ {
		v |= cell.Ucell(d[int(addr)+i]) << (8 * uint(i))
	}
	return cell.Cell(v), true
}

func (inst *Instance) writeBytes(addr cell.Cell, n int, val cell.Cell) bool {
	d := inst.dataMem()
	if addr < 0 || n <= 0 || n > cell.Bytes || int(addr)+n > len(d) {
		return false
	}
	u := cell.Ucell(val)
	for i := 0; i < n; i++ {
		d[int(addr)+i] = byte(u >> (8 * uint(i)))
	}
	return true
}

// pushRaw and popRaw implement the script-visible PUSH*/POP*/CALL/RETN
// stack discipline; the embedding surface's Push (embed.go) layers
// paramCount bookkeeping on top of these.
func (inst *Instance) pushRaw(v cell.Cell) bool {
	if inst.stk-cell.Cell(cell.Bytes) < inst.hea+cell.StackMargin {
		return false
	}
	inst.stk -= cell.Cell(cell.Bytes)
	inst.writeData(inst.stk, v)
	return true
}

func (inst *Instance) popRaw() (cell.Cell, bool) {
	if inst.stk > inst.stp {
		return 0, false
	}
	v, ok := inst.readData(inst.stk)
	if !ok {
		return 0, false
	}
	inst.stk += cell.Cell(cell.Bytes)
	return v, true
}

// enterCall lays down the stack frame a compiled call site would leave
// before jumping to cip: the host-pushed argument count (paramCount,
// consumed and reset to zero here) followed by a sentinel return
// address. The callee's own leading PROC opcode pushes frm.
func (inst *Instance) enterCall() error {
	// The argument-count cell is a byte count, matching what a
	// compiled CALL site pushes and what RETN later adds back to stk.
	if !inst.pushRaw(cell.Cell(inst.paramCount * cell.Bytes)) {
		return fmt.Errorf("amx: %w: no room for argument count", ErrStackErr)
	}
	inst.paramCount = 0
	if !inst.pushRaw(topSentinel) {
		return fmt.Errorf("amx: %w: no room for return address", ErrStackErr)
	}
	return nil
}

// Exec runs the module from main (index == ExecMain), resumes a
// sleeping instance (index == ExecCont), or invokes the public at
// index (amx_Exec). It returns the script's return value (PRI
// at a normal return, or the SLEEP opcode's own operand) and a non-nil
// error built from the sticky Error code on anything but NONE.
func (inst *Instance) Exec(index int) (cell.Cell, error) {
	if inst.flags.Has(FlagBrowse) {
		return 0, fmt.Errorf("amx: %w: exec called re-entrantly", ErrInvState)
	}

	switch {
	case index == ExecCont:
		if inst.state != StateSleeping {
			return 0, fmt.Errorf("amx: %w: instance is not sleeping", ErrInvState)
		}
	case index == ExecMain:
		if inst.state != StateReady {
			return 0, fmt.Errorf("amx: %w: instance is not ready", ErrInvState)
		}
		if inst.mainEntry < 0 {
			return 0, fmt.Errorf("amx: %w: module has no main", ErrIndex)
		}
		inst.cip = inst.codeEntry(inst.mainEntry)
		if err := inst.enterCall(); err != nil {
			return 0, err
		}
	default:
		if inst.state != StateReady {
			return 0, fmt.Errorf("amx: %w: instance is not ready", ErrInvState)
		}
		if index < 0 || index >= len(inst.publics) {
			return 0, fmt.Errorf("amx: %w: public index %d out of range", ErrIndex, index)
		}
		inst.cip = inst.codeEntry(cell.Cell(inst.publics[index].Address))
		if err := inst.enterCall(); err != nil {
			return 0, err
		}
	}

	inst.flags |= FlagBrowse
	inst.state = StateRunning
	inst.err = ErrNone
	inst.halt = false

	for {
		at := inst.cip
		op, ok := inst.fetchOpcode()
		if !ok {
			inst.err = ErrMemAccess
			break
		}
		var fn opHandler
		if int(op) < len(dispatch) {
			fn = dispatch[op]
		}
		if fn == nil {
			inst.err = ErrInvInstr
			break
		}
		if inst.log != nil {
			inst.log.Debug("step", "cip", int64(at), "op", op.String(),
				"pri", int64(inst.pri), "alt", int64(inst.alt))
		}
		fn(inst)
		if inst.err != ErrNone || inst.halt {
			break
		}
	}

	inst.flags &^= FlagBrowse

	if inst.err == ErrSleep {
		inst.state = StateSleeping
		return inst.sleepRetval, inst.err
	}

	retval := inst.pri
	if inst.err.Fatal() {
		inst.stk = inst.resetStk
		inst.hea = inst.resetHea
		inst.state = StateReady
		return 0, inst.err
	}

	inst.state = StateReady
	if inst.err != ErrNone {
		return retval, inst.err
	}
	return retval, nil
}
