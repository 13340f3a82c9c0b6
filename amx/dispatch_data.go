/*
 * amx - Data movement opcodes
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
	dispatch[OpLoadPri] = opLoadPri
	dispatch[OpLoadAlt] = opLoadAlt
	dispatch[OpLoadSPri] = opLoadSPri
	dispatch[OpLoadSAlt] = opLoadSAlt
	dispatch[OpLRefPri] = opLRefPri
	dispatch[OpLRefAlt] = opLRefAlt
	dispatch[OpLRefSPri] = opLRefSPri
	dispatch[OpLRefSAlt] = opLRefSAlt
	dispatch[OpLoadI] = opLoadI
	dispatch[OpLodbI] = opLodbI
	dispatch[OpConstPri] = opConstPri
	dispatch[OpConstAlt] = opConstAlt
	dispatch[OpAddrPri] = opAddrPri
	dispatch[OpAddrAlt] = opAddrAlt
	dispatch[OpStorPri] = opStorPri
	dispatch[OpStorAlt] = opStorAlt
	dispatch[OpStorSPri] = opStorSPri
	dispatch[OpStorSAlt] = opStorSAlt
	dispatch[OpSRefPri] = opSRefPri
	dispatch[OpSRefAlt] = opSRefAlt
	dispatch[OpSRefSPri] = opSRefSPri
	dispatch[OpSRefSAlt] = opSRefSAlt
	dispatch[OpStorI] = opStorI
	dispatch[OpStrbI] = opStrbI
	dispatch[OpLIdx] = opLIdx
	dispatch[OpLIdxB] = opLIdxB
	dispatch[OpIdxAddr] = opIdxAddr
	dispatch[OpIdxAddrB] = opIdxAddrB
	dispatch[OpAlignPri] = opAlignPri
	dispatch[OpAlignAlt] = opAlignAlt
	dispatch[OpMovePri] = opMovePri
	dispatch[OpMoveAlt] = opMoveAlt
	dispatch[OpXchg] = opXchg
	dispatch[OpPushPri] = opPushPri
	dispatch[OpPushAlt] = opPushAlt
	dispatch[OpPushC] = opPushC
	dispatch[OpPush] = opPush
	dispatch[OpPushS] = opPushS
	dispatch[OpPopPri] = opPopPri
	dispatch[OpPopAlt] = opPopAlt
	dispatch[OpPushAdr] = opPushAdr
	dispatch[OpZeroPri] = opZeroPri
	dispatch[OpZeroAlt] = opZeroAlt
	dispatch[OpZero] = opZero
	dispatch[OpZeroS] = opZeroS
	dispatch[OpSignPri] = opSignPri
	dispatch[OpSignAlt] = opSignAlt
	dispatch[OpLCtrl] = opLCtrl
	dispatch[OpSCtrl] = opSCtrl
	dispatch[OpFill] = opFill
	dispatch[OpMovs] = opMovs
	dispatch[OpCmps] = opCmps
	dispatch[OpSwapPri] = opSwapPri
	dispatch[OpSwapAlt] = opSwapAlt
}

func opLoadPri(inst *Instance) {
	addr := inst.fetchOperand()
	v, ok := inst.readData(addr)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	inst.pri = v
}

func opLoadAlt(inst *Instance) {
	addr := inst.fetchOperand()
	v, ok := inst.readData(addr)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	inst.alt = v
}

func opLoadSPri(inst *Instance) {
	off := inst.fetchOperand()
	v, ok := inst.readData(inst.frm + off)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	inst.pri = v
}

func opLoadSAlt(inst *Instance) {
	off := inst.fetchOperand()
	v, ok := inst.readData(inst.frm + off)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	inst.alt = v
}

func opLRefPri(inst *Instance) {
	addr := inst.fetchOperand()
	ptr, ok := inst.readData(addr)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	v, ok := inst.readData(ptr)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	inst.pri = v
}

func opLRefAlt(inst *Instance) {
	addr := inst.fetchOperand()
	ptr, ok := inst.readData(addr)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	v, ok := inst.readData(ptr)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	inst.alt = v
}

func opLRefSPri(inst *Instance) {
	off := inst.fetchOperand()
	ptr, ok := inst.readData(inst.frm + off)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	v, ok := inst.readData(ptr)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	inst.pri = v
}

func opLRefSAlt(inst *Instance) {
	off := inst.fetchOperand()
	ptr, ok := inst.readData(inst.frm + off)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	v, ok := inst.readData(ptr)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	inst.alt = v
}

func opLoadI(inst *Instance) {
	v, ok := inst.readData(inst.pri)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	inst.pri = v
}

func opLodbI(inst *Instance) {
	n := inst.fetchOperand()
	v, ok := inst.readBytes(inst.pri, int(n))
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	inst.pri = v
}

func opConstPri(inst *Instance) { inst.pri = inst.fetchOperand() }
func opConstAlt(inst *Instance) { inst.alt = inst.fetchOperand() }

func opAddrPri(inst *Instance) { inst.pri = inst.frm + inst.fetchOperand() }
func opAddrAlt(inst *Instance) { inst.alt = inst.frm + inst.fetchOperand() }

func opStorPri(inst *Instance) {
	addr := inst.fetchOperand()
	if !inst.writeData(addr, inst.pri) {
		inst.err = ErrMemAccess
	}
}

func opStorAlt(inst *Instance) {
	addr := inst.fetchOperand()
	if !inst.writeData(addr, inst.alt) {
		inst.err = ErrMemAccess
	}
}

func opStorSPri(inst *Instance) {
	off := inst.fetchOperand()
	if !inst.writeData(inst.frm+off, inst.pri) {
		inst.err = ErrMemAccess
	}
}

func opStorSAlt(inst *Instance) {
	off := inst.fetchOperand()
	if !inst.writeData(inst.frm+off, inst.alt) {
		inst.err = ErrMemAccess
	}
}

func opSRefPri(inst *Instance) {
	addr := inst.fetchOperand()
	ptr, ok := inst.readData(addr)
	if !ok || !inst.writeData(ptr, inst.pri) {
		inst.err = ErrMemAccess
	}
}

func opSRefAlt(inst *Instance) {
	addr := inst.fetchOperand()
	ptr, ok := inst.readData(addr)
	if !ok || !inst.writeData(ptr, inst.alt) {
		inst.err = ErrMemAccess
	}
}

func opSRefSPri(inst *Instance) {
	off := inst.fetchOperand()
	ptr, ok := inst.readData(inst.frm + off)
	if !ok || !inst.writeData(ptr, inst.pri) {
		inst.err = ErrMemAccess
	}
}

func opSRefSAlt(inst *Instance) {
	off := inst.fetchOperand()
	ptr, ok := inst.readData(inst.frm + off)
	if !ok || !inst.writeData(ptr, inst.alt) {
		inst.err = ErrMemAccess
	}
}

func opStorI(inst *Instance) {
	if !inst.writeData(inst.alt, inst.pri) {
		inst.err = ErrMemAccess
	}
}

func opStrbI(inst *Instance) {
	n := inst.fetchOperand()
	if !inst.writeBytes(inst.alt, int(n), inst.pri) {
		inst.err = ErrMemAccess
	}
}

// opLIdx implements PRI = [ALT + PRI*cellbytes], the compiled form of a
// one-dimensional array read with ALT holding the array base address.
func opLIdx(inst *Instance) {
	v, ok := inst.readData(inst.alt + inst.pri*cell.Cell(cell.Bytes))
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	inst.pri = v
}

func opLIdxB(inst *Instance) {
	shift := inst.fetchOperand()
	v, ok := inst.readData(inst.alt + (inst.pri << uint(shift)))
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	inst.pri = v
}

func opIdxAddr(inst *Instance) {
	inst.pri = inst.alt + inst.pri*cell.Cell(cell.Bytes)
}

func opIdxAddrB(inst *Instance) {
	shift := inst.fetchOperand()
	inst.pri = inst.alt + (inst.pri << uint(shift))
}

// opAlignPri/opAlignAlt correct for a sub-cell load/store on a
// big-endian host; this runtime keeps every live cell in one fixed
// byte layout, so apart from stepping past their one operand these are
// no-ops on every supported build.
func opAlignPri(inst *Instance) { inst.fetchOperand() }
func opAlignAlt(inst *Instance) { inst.fetchOperand() }

func opMovePri(inst *Instance) { inst.pri = inst.alt }
func opMoveAlt(inst *Instance) { inst.alt = inst.pri }

func opXchg(inst *Instance) { inst.pri, inst.alt = inst.alt, inst.pri }

func opPushPri(inst *Instance) {
	if !inst.pushRaw(inst.pri) {
		inst.err = ErrStackErr
	}
}

func opPushAlt(inst *Instance) {
	if !inst.pushRaw(inst.alt) {
		inst.err = ErrStackErr
	}
}

func opPushC(inst *Instance) {
	v := inst.fetchOperand()
	if !inst.pushRaw(v) {
		inst.err = ErrStackErr
	}
}

func opPush(inst *Instance) {
	addr := inst.fetchOperand()
	v, ok := inst.readData(addr)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	if !inst.pushRaw(v) {
		inst.err = ErrStackErr
	}
}

func opPushS(inst *Instance) {
	off := inst.fetchOperand()
	v, ok := inst.readData(inst.frm + off)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	if !inst.pushRaw(v) {
		inst.err = ErrStackErr
	}
}

func opPopPri(inst *Instance) {
	v, ok := inst.popRaw()
	if !ok {
		inst.err = ErrStackLow
		return
	}
	inst.pri = v
}

func opPopAlt(inst *Instance) {
	v, ok := inst.popRaw()
	if !ok {
		inst.err = ErrStackLow
		return
	}
	inst.alt = v
}

func opPushAdr(inst *Instance) {
	off := inst.fetchOperand()
	if !inst.pushRaw(inst.frm + off) {
		inst.err = ErrStackErr
	}
}

func opZeroPri(inst *Instance) { inst.pri = 0 }
func opZeroAlt(inst *Instance) { inst.alt = 0 }

func opZero(inst *Instance) {
	addr := inst.fetchOperand()
	if !inst.writeData(addr, 0) {
		inst.err = ErrMemAccess
	}
}

func opZeroS(inst *Instance) {
	off := inst.fetchOperand()
	if !inst.writeData(inst.frm+off, 0) {
		inst.err = ErrMemAccess
	}
}

func opSignPri(inst *Instance) { inst.pri = signExtend(inst.pri, 1) }
func opSignAlt(inst *Instance) { inst.alt = signExtend(inst.alt, 1) }

// signExtend sign-extends the low n bytes of v to a full cell.
func signExtend(v cell.Cell, n int) cell.Cell {
	shift := uint((cell.Bytes - n) * 8)
	return (v << shift) >> shift
}

// lctrl/sctrl register indices, matching amx.h's AMX_LCTRL selector.
const (
	ctrlCod = iota
	ctrlDat
	ctrlHea
	ctrlStp
	ctrlStk
	ctrlFrm
	ctrlCip
)

func opLCtrl(inst *Instance) {
	idx := inst.fetchOperand()
	switch idx {
	case ctrlCod:
		inst.pri = cell.Cell(inst.header.Cod)
	case ctrlDat:
		inst.pri = cell.Cell(inst.header.Dat)
	case ctrlHea:
		inst.pri = inst.hea
	case ctrlStp:
		inst.pri = inst.stp
	case ctrlStk:
		inst.pri = inst.stk
	case ctrlFrm:
		inst.pri = inst.frm
	case ctrlCip:
		inst.pri = inst.cip
	default:
		inst.err = ErrInvInstr
	}
}

func opSCtrl(inst *Instance) {
	idx := inst.fetchOperand()
	switch idx {
	case ctrlHea:
		inst.hea = inst.pri
	case ctrlStk:
		inst.stk = inst.pri
	case ctrlFrm:
		inst.frm = inst.pri
	case ctrlCip:
		inst.cip = inst.pri
	default:
		inst.err = ErrInvInstr
	}
}

// opFill sets n bytes (a multiple of cell.Bytes) starting at [ALT] to
// the value in PRI, the compiled form of a local array initializer.
func opFill(inst *Instance) {
	n := int(inst.fetchOperand())
	addr := inst.alt
	for i := 0; i < n; i += cell.Bytes {
		if !inst.writeData(addr+cell.Cell(i), inst.pri) {
			inst.err = ErrMemAccess
			return
		}
	}
}

// opMovs copies n bytes from [PRI] to [ALT]; the blocks must not
// overlap, matching the compiler's use for array-to-array assignment.
func opMovs(inst *Instance) {
	n := int(inst.fetchOperand())
	d := inst.dataMem()
	src, dst := int(inst.pri), int(inst.alt)
	if src < 0 || dst < 0 || src+n > len(d) || dst+n > len(d) {
		inst.err = ErrMemAccess
		return
	}
	copy(d[dst:dst+n], d[src:src+n])
}

// opCmps compares n bytes at [ALT] and [PRI], leaving PRI as a
// memcmp-style three-way result (0 equal, negative/positive otherwise).
func opCmps(inst *Instance) {
	n := int(inst.fetchOperand())
	d := inst.dataMem()
	a, b := int(inst.alt), int(inst.pri)
	if a < 0 || b < 0 || a+n > len(d) || b+n > len(d) {
		inst.err = ErrMemAccess
		return
	}
	result := 0
	for i := 0; i < n; i++ {
		if diff := int(d[a+i]) - int(d[b+i]); diff != 0 {
			result = diff
			break
		}
	}
	inst.pri = cell.Cell(result)
}

func opSwapPri(inst *Instance) {
	v, ok := inst.readData(inst.stk)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	if !inst.writeData(inst.stk, inst.pri) {
		inst.err = ErrMemAccess
		return
	}
	inst.pri = v
}

func opSwapAlt(inst *Instance) {
	v, ok := inst.readData(inst.stk)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	if !inst.writeData(inst.stk, inst.alt) {
		inst.err = ErrMemAccess
		return
	}
	inst.alt = v
}
