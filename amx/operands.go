/*
 * amx - Per-opcode operand shape
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

// opShape describes one opcode's fixed operand count and, for branch
// and call opcodes, which single operand is a code target. The
// loader's relocate pass walks the code stream using this table; each
// interpreter handler fetches its own operands, so the counts here must
// match what the handlers fetch. CASETBL is deliberately absent: its
// trailing (value, target) pairs aren't operands of the CASETBL
// opcode itself, they're read directly by relocate and by opSwitch.
type opShape struct {
	operands   int
	codeTarget int // operand index that is a code target, or -1
}

var opShapes = map[Opcode]opShape{
	// Data movement.
	OpLoadPri:   {1, -1},
	OpLoadAlt:   {1, -1},
	OpLoadSPri:  {1, -1},
	OpLoadSAlt:  {1, -1},
	OpLRefPri:   {1, -1},
	OpLRefAlt:   {1, -1},
	OpLRefSPri:  {1, -1},
	OpLRefSAlt:  {1, -1},
	OpLoadI:     {0, -1},
	OpLodbI:     {1, -1},
	OpConstPri:  {1, -1},
	OpConstAlt:  {1, -1},
	OpAddrPri:   {1, -1},
	OpAddrAlt:   {1, -1},
	OpStorPri:   {1, -1},
	OpStorAlt:   {1, -1},
	OpStorSPri:  {1, -1},
	OpStorSAlt:  {1, -1},
	OpSRefPri:   {1, -1},
	OpSRefAlt:   {1, -1},
	OpSRefSPri:  {1, -1},
	OpSRefSAlt:  {1, -1},
	OpStorI:     {0, -1},
	OpStrbI:     {1, -1},
	OpLIdx:      {0, -1},
	OpLIdxB:     {1, -1},
	OpIdxAddr:   {0, -1},
	OpIdxAddrB:  {1, -1},
	OpAlignPri:  {1, -1},
	OpAlignAlt:  {1, -1},
	OpMovePri:   {0, -1},
	OpMoveAlt:   {0, -1},
	OpXchg:      {0, -1},
	OpPushPri:   {0, -1},
	OpPushAlt:   {0, -1},
	OpPushC:     {1, -1},
	OpPush:      {1, -1},
	OpPushS:     {1, -1},
	OpPopPri:    {0, -1},
	OpPopAlt:    {0, -1},
	OpPushAdr:   {1, -1},
	OpZeroPri:   {0, -1},
	OpZeroAlt:   {0, -1},
	OpZero:      {1, -1},
	OpZeroS:     {1, -1},
	OpSignPri:   {0, -1},
	OpSignAlt:   {0, -1},
	OpLCtrl:     {1, -1},
	OpSCtrl:     {1, -1},
	OpFill:      {1, -1},
	OpMovs:      {1, -1},
	OpCmps:      {1, -1},
	OpSwapPri:   {0, -1},
	OpSwapAlt:   {0, -1},

	// Arithmetic & logic.
	OpAdd:      {0, -1},
	OpSub:      {0, -1},
	OpSubAlt:   {0, -1},
	OpAddC:     {1, -1},
	OpAnd:      {0, -1},
	OpOr:       {0, -1},
	OpXor:      {0, -1},
	OpNot:      {0, -1},
	OpNeg:      {0, -1},
	OpInvert:   {0, -1},
	OpShl:      {0, -1},
	OpShr:      {0, -1},
	OpSshr:     {0, -1},
	OpShlCPri:  {1, -1},
	OpShlCAlt:  {1, -1},
	OpShrCPri:  {1, -1},
	OpShrCAlt:  {1, -1},
	OpSmul:     {0, -1},
	OpSmulC:    {1, -1},
	OpSdiv:     {0, -1},
	OpSdivAlt:  {0, -1},
	OpUmul:     {0, -1},
	OpUdiv:     {0, -1},
	OpUdivAlt:  {0, -1},
	OpIncPri:   {0, -1},
	OpIncAlt:   {0, -1},
	OpInc:      {1, -1},
	OpIncS:     {1, -1},
	OpIncI:     {0, -1},
	OpDecPri:   {0, -1},
	OpDecAlt:   {0, -1},
	OpDec:      {1, -1},
	OpDecS:     {1, -1},
	OpDecI:     {0, -1},

	// Comparisons.
	OpEq:      {0, -1},
	OpNeq:     {0, -1},
	OpLess:    {0, -1},
	OpLeq:     {0, -1},
	OpGrtr:    {0, -1},
	OpGeq:     {0, -1},
	OpSless:   {0, -1},
	OpSleq:    {0, -1},
	OpSgrtr:   {0, -1},
	OpSgeq:    {0, -1},
	OpEqCPri:  {1, -1},
	OpEqCAlt:  {1, -1},

	// Control flow: every Jxxx/SWITCH/CALL has one code-target operand.
	OpJump:    {1, 0},
	OpJzer:    {1, 0},
	OpJnz:     {1, 0},
	OpJeq:     {1, 0},
	OpJneq:    {1, 0},
	OpJless:   {1, 0},
	OpJleq:    {1, 0},
	OpJgrtr:   {1, 0},
	OpJgeq:    {1, 0},
	OpJsless:  {1, 0},
	OpJsleq:   {1, 0},
	OpJsgrtr:  {1, 0},
	OpJsgeq:   {1, 0},
	OpSwitch:  {1, 0},
	OpCall:    {1, 0},
	OpRet:     {0, -1},
	OpRetn:    {0, -1},
	OpProc:    {0, -1},
	OpStack:   {1, -1},
	OpHeap:    {1, -1},
	OpBounds:  {1, -1},
	OpHalt:    {1, -1},
	OpNop:     {0, -1},

	// System request, sleep, debug.
	OpSysreqC: {1, -1},
	OpSysreqN: {2, -1},
	OpSysreqD: {1, -1},
	OpBreak:   {0, -1},
	OpSleep:   {1, -1},

	// File-version-9 macro-fused opcodes: never code targets.
	OpLoadBoth:  {2, -1},
	OpLoadSBoth: {2, -1},
	OpPush2C:    {2, -1},
	OpPush2:     {2, -1},
	OpPush2S:    {2, -1},
	OpPush2Adr:  {2, -1},
	OpPush3C:    {3, -1},
	OpPush3:     {3, -1},
	OpPush3S:    {3, -1},
	OpPush3Adr:  {3, -1},
}

// operandCount reports how many one-cell operands follow op's opcode
// cell. Opcodes absent from opShapes (including CASETBL, handled by
// its own walker) have zero generic operands.
func operandCount(op Opcode) int {
	if s, ok := opShapes[op]; ok {
		return s.operands
	}
	return 0
}

// isCodeTarget reports whether operand index i (0-based) of op holds a
// cod-relative branch/call target that relocate must rewrite.
func isCodeTarget(op Opcode, i int) bool {
	s, ok := opShapes[op]
	return ok && s.codeTarget == i
}
