/*
 * amx - System-request dispatch (native calls)
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

// argsFromStack reads n arguments pushed before the argument-byte-count
// cell currently sitting at stk, in declaration order (the compiler
// pushes arguments right-to-left, so the first declared argument is the
// last one pushed, sitting just above the count cell). Used by the
// classic (C) and direct (D) forms, which keep a leading count cell on
// the stack; the returned slice holds the arguments only, not the count.
func (inst *Instance) argsFromStack(n int) ([]cell.Cell, bool) {
	params := make([]cell.Cell, n)
	for i := 0; i < n; i++ {
		v, ok := inst.readData(inst.stk + cell.Cell((i+1)*cell.Bytes))
		if !ok {
			return nil, false
		}
		params[i] = v
	}
	return params, true
}

// argsFromStackN reads n arguments sitting directly at stk with no
// leading count cell, since SYSREQ.N's byte count is the opcode's own
// immediate operand rather than something the compiler pushes.
func (inst *Instance) argsFromStackN(n int) ([]cell.Cell, bool) {
	params := make([]cell.Cell, n)
	for i := 0; i < n; i++ {
		v, ok := inst.readData(inst.stk + cell.Cell(i*cell.Bytes))
		if !ok {
			return nil, false
		}
		params[i] = v
	}
	return params, true
}

// callNative runs fn and folds its result into pri/err the way the
// N and D forms resolve a native call outcome.
func (inst *Instance) callNative(fn NativeFunc, params []cell.Cell) {
	v, err := fn(inst, params)
	if err != nil {
		if inst.err == ErrNone {
			inst.err = ErrNative
		}
		return
	}
	inst.pri = v
}

// opSysreqC is the classic form: the operand names a native-table index
// and the call is always routed through the host callback, which is
// responsible for resolving the name itself (amx_Callback).
func opSysreqC(inst *Instance) {
	index := inst.fetchOperand()
	if inst.callback == nil {
		inst.err = ErrCallback
		return
	}
	nbytes, ok := inst.readData(inst.stk)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	params, ok := inst.argsFromStack(int(nbytes) / cell.Bytes)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	v, err := inst.callback(inst, index, params)
	if err != nil {
		if inst.err == ErrNone {
			inst.err = ErrCallback
		}
		return
	}
	inst.pri = v
}

// opSysreqN is the optimized form: index plus an immediate byte count,
// resolved directly against the bound native table (amx_Exec's "new"
// SYSREQ path); an unbound native is diagnosed at call time. Unlike
// the classic form, it pops its own arguments on the way out, so the
// compiler emits no STACK fixup after it.
func opSysreqN(inst *Instance) {
	index := inst.fetchOperand()
	nbytes := inst.fetchOperand()
	if index < 0 || int(index) >= len(inst.natives) {
		inst.err = ErrIndex
		return
	}
	entry := inst.natives[index]
	if entry.fn == nil {
		inst.err = ErrNotFound
		return
	}
	params, ok := inst.argsFromStackN(int(nbytes) / cell.Bytes)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	inst.callNative(entry.fn, params)
	inst.stk += nbytes
}

// opSysreqD is the direct form: it resolves its index against the bound
// native table like SYSREQ.N, but reads the argument count from the
// stack like SYSREQ.C. An out-of-range index gives ErrIndex and an
// unbound slot gives ErrNotFound; FlagNtvReg is not consulted.
func opSysreqD(inst *Instance) {
	index := inst.fetchOperand()
	if index < 0 || int(index) >= len(inst.natives) {
		inst.err = ErrIndex
		return
	}
	entry := inst.natives[index]
	if entry.fn == nil {
		inst.err = ErrNotFound
		return
	}
	nbytes, ok := inst.readData(inst.stk)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	params, ok := inst.argsFromStack(int(nbytes) / cell.Bytes)
	if !ok {
		inst.err = ErrMemAccess
		return
	}
	inst.callNative(entry.fn, params)
}
