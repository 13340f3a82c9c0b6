/*
 * amx - Opcode set
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

import "strconv"

// Opcode numbers are internal to this implementation: the compiler/
// assembler that emits module code lives outside this runtime, so
// nothing outside this package needs these values to line up with any
// particular on-disk encoding byte-for-byte. They are grouped by
// dispatch class, one block per handler file.
type Opcode uint16

const (
	opNone Opcode = iota // reserved; opcode 0 is never emitted

	// Data movement.
	OpLoadPri
	OpLoadAlt
	OpLoadSPri
	OpLoadSAlt
	OpLRefPri
	OpLRefAlt
	OpLRefSPri
	OpLRefSAlt
	OpLoadI
	OpLodbI
	OpConstPri
	OpConstAlt
	OpAddrPri
	OpAddrAlt
	OpStorPri
	OpStorAlt
	OpStorSPri
	OpStorSAlt
	OpSRefPri
	OpSRefAlt
	OpSRefSPri
	OpSRefSAlt
	OpStorI
	OpStrbI
	OpLIdx
	OpLIdxB
	OpIdxAddr
	OpIdxAddrB
	OpAlignPri
	OpAlignAlt
	OpMovePri
	OpMoveAlt
	OpXchg
	OpPushPri
	OpPushAlt
	OpPushC
	OpPush
	OpPushS
	OpPopPri
	OpPopAlt
	OpPushAdr
	OpZeroPri
	OpZeroAlt
	OpZero
	OpZeroS
	OpSignPri
	OpSignAlt
	OpLCtrl
	OpSCtrl
	OpFill
	OpMovs
	OpCmps
	OpSwapPri
	OpSwapAlt

	// Arithmetic & logic.
	OpAdd
	OpSub
	OpSubAlt
	OpAddC
	OpAnd
	OpOr
	OpXor
	OpNot
	OpNeg
	OpInvert
	OpShl
	OpShr
	OpSshr
	OpShlCPri
	OpShlCAlt
	OpShrCPri
	OpShrCAlt
	OpSmul
	OpSmulC
	OpSdiv
	OpSdivAlt
	OpUmul
	OpUdiv
	OpUdivAlt
	OpIncPri
	OpIncAlt
	OpInc
	OpIncS
	OpIncI
	OpDecPri
	OpDecAlt
	OpDec
	OpDecS
	OpDecI

	// Comparisons (set pri to 0 or 1).
	OpEq
	OpNeq
	OpLess
	OpLeq
	OpGrtr
	OpGeq
	OpSless
	OpSleq
	OpSgrtr
	OpSgeq
	OpEqCPri
	OpEqCAlt

	// Control flow.
	OpJump
	OpJzer
	OpJnz
	OpJeq
	OpJneq
	OpJless
	OpJleq
	OpJgrtr
	OpJgeq
	OpJsless
	OpJsleq
	OpJsgrtr
	OpJsgeq
	OpSwitch
	OpCasetbl
	OpCall
	OpRet
	OpRetn
	OpProc
	OpStack
	OpHeap
	OpBounds
	OpHalt
	OpNop

	// System request, sleep, debug.
	OpSysreqC
	OpSysreqN
	OpSysreqD
	OpBreak
	OpSleep

	// File-version-9 macro-fused opcodes.
	OpLoadBoth
	OpLoadSBoth
	OpPush2C
	OpPush2
	OpPush2S
	OpPush2Adr
	OpPush3C
	OpPush3
	OpPush3S
	OpPush3Adr

	numOpcodes
)

// opNames is used for INVINSTR diagnostics and disassembly; it need
// not be exhaustive since unused table slots already map to INVINSTR.
var opNames = map[Opcode]string{
	OpLoadPri: "LOAD.pri", OpLoadAlt: "LOAD.alt",
	OpConstPri: "CONST.pri", OpConstAlt: "CONST.alt",
	OpAdd: "ADD", OpSub: "SUB", OpJump: "JUMP", OpCall: "CALL",
	OpRet: "RET", OpRetn: "RETN", OpHalt: "HALT", OpSleep: "SLEEP",
	OpSysreqC: "SYSREQ.C", OpSysreqN: "SYSREQ.N", OpSysreqD: "SYSREQ.D",
	OpBreak: "BREAK", OpProc: "PROC",
}

func (op Opcode) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return "OP_" + strconv.Itoa(int(op))
}
