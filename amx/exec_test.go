/*
 * amx - Interpreter/Exec behavioral test cases
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
	"errors"
	"testing"

	"github.com/rcornwell/pawnvm/cell"
)

func TestExecArithmetic(t *testing.T) {
	code, _ := assembleCode([]instr{
		in(OpProc),
		in(OpConstPri, 2),
		in(OpConstAlt, 3),
		in(OpAdd),
		in(OpRetn),
	})
	inst := load(t, moduleSpec{code: code, stackHeap: 256})

	r, err := inst.Exec(ExecMain)
	if err != nil {
		t.Fatalf("Exec: unexpected error: %v", err)
	}
	if r != 5 {
		t.Errorf("Exec result = %d, want 5", r)
	}
	if inst.State() != StateReady {
		t.Errorf("State after return = %v, want %v", inst.State(), StateReady)
	}
}

func TestExecDivideByZero(t *testing.T) {
	code, _ := assembleCode([]instr{
		in(OpProc),
		in(OpConstPri, 1),
		in(OpConstAlt, 0),
		in(OpSdiv),
		in(OpRetn),
	})
	inst := load(t, moduleSpec{code: code, stackHeap: 256})

	for i := 0; i < 2; i++ {
		r, err := inst.Exec(ExecMain)
		if !errors.Is(err, ErrDivide) {
			t.Fatalf("run %d: Exec error = %v, want ErrDivide", i, err)
		}
		if r != 0 {
			t.Errorf("run %d: Exec result = %d, want 0 on a fatal error", i, r)
		}
		if inst.State() != StateReady {
			t.Errorf("run %d: State after fatal error = %v, want %v", i, inst.State(), StateReady)
		}
		if inst.stk != inst.resetStk || inst.hea != inst.resetHea {
			t.Errorf("run %d: stk/hea not reset after fatal error: stk=%d resetStk=%d hea=%d resetHea=%d",
				i, inst.stk, inst.resetStk, inst.hea, inst.resetHea)
		}
	}
}

func TestExecSleepResume(t *testing.T) {
	code, _ := assembleCode([]instr{
		in(OpProc),
		in(OpConstPri, 7),
		in(OpSleep, 99),
		in(OpRetn),
	})
	inst := load(t, moduleSpec{code: code, stackHeap: 256})

	r, err := inst.Exec(ExecMain)
	if !errors.Is(err, ErrSleep) {
		t.Fatalf("first Exec error = %v, want ErrSleep", err)
	}
	if r != 99 {
		t.Errorf("first Exec result = %d, want 99 (the SLEEP operand)", r)
	}
	if inst.State() != StateSleeping {
		t.Fatalf("State after SLEEP = %v, want %v", inst.State(), StateSleeping)
	}

	r, err = inst.Exec(ExecCont)
	if err != nil {
		t.Fatalf("resume Exec: unexpected error: %v", err)
	}
	if r != 7 {
		t.Errorf("resume Exec result = %d, want 7 (PRI preserved across sleep)", r)
	}
	if inst.State() != StateReady {
		t.Errorf("State after resume return = %v, want %v", inst.State(), StateReady)
	}
}

func TestExecCallReturn(t *testing.T) {
	code, labels := assembleCode([]instr{
		in(OpProc),         // 0: main
		in(OpCall, 0),      // 1: patched below to sub's label
		in(OpRetn),         // 2
		in(OpProc),         // 3: sub
		in(OpConstPri, 42), // 4
		in(OpRet),          // 5
	})
	// Patch the CALL operand (second cell of instruction 1) to sub's label.
	writeCell(code, labels[1]+cell.Cell(cell.Bytes), labels[3])

	inst := load(t, moduleSpec{code: code, stackHeap: 256})
	r, err := inst.Exec(ExecMain)
	if err != nil {
		t.Fatalf("Exec: unexpected error: %v", err)
	}
	if r != 42 {
		t.Errorf("Exec result = %d, want 42", r)
	}
}

func TestExecNativeDispatch(t *testing.T) {
	code, _ := assembleCode([]instr{
		in(OpProc),
		in(OpPushC, 20),
		in(OpPushC, 10),     // pushed last: params[0] at stk
		in(OpSysreqN, 0, 8), // native index 0, 2 args * cell.Bytes; pops its own args
		in(OpRetn),
	})
	inst := load(t, moduleSpec{code: code, natives: []string{"sum"}, stackHeap: 256})

	if err := inst.Register([]NativeInfo{
		{Name: "sum", Func: func(_ *Instance, params []cell.Cell) (cell.Cell, error) {
			return params[0] + params[1], nil
		}},
	}); err != nil {
		t.Fatalf("Register: unexpected error: %v", err)
	}
	if !inst.Flags().Has(FlagNtvReg) {
		t.Errorf("Flags() missing FlagNtvReg after every native was bound")
	}

	r, err := inst.Exec(ExecMain)
	if err != nil {
		t.Fatalf("Exec: unexpected error: %v", err)
	}
	if r != 30 {
		t.Errorf("Exec result = %d, want 30 (10+20 via native)", r)
	}
}

func TestExecNoMain(t *testing.T) {
	code, _ := assembleCode([]instr{in(OpHalt, 0)})
	inst := load(t, moduleSpec{code: code, stackHeap: 64, mainOffset: -1})

	if _, err := inst.Exec(ExecMain); !errors.Is(err, ErrIndex) {
		t.Fatalf("Exec(ExecMain) with no main: error = %v, want ErrIndex", err)
	}
	if inst.State() != StateReady {
		t.Errorf("State after rejected Exec = %v, want %v", inst.State(), StateReady)
	}

	inst.Cleanup()
	if inst.State() != StateUninit {
		t.Fatalf("State after Cleanup = %v, want %v", inst.State(), StateUninit)
	}
	if _, err := inst.Exec(ExecMain); !errors.Is(err, ErrInvState) {
		t.Errorf("Exec on a cleaned-up instance: error = %v, want ErrInvState", err)
	}
}

func TestExecBoundsCheck(t *testing.T) {
	program := []instr{
		in(OpProc),
		in(OpConstPri, 9),
		in(OpBounds, 4), // extent 4, PRI 9: out of range
		in(OpRetn),
	}

	code, _ := assembleCode(program)
	inst := load(t, moduleSpec{code: code, stackHeap: 256})
	if _, err := inst.Exec(ExecMain); !errors.Is(err, ErrBounds) {
		t.Fatalf("Exec error = %v, want ErrBounds", err)
	}

	// The same module built without runtime checks skips the comparison.
	code, _ = assembleCode(program)
	inst = load(t, moduleSpec{code: code, stackHeap: 256, flags: FlagNoChecks})
	if _, err := inst.Exec(ExecMain); err != nil {
		t.Fatalf("Exec with FlagNoChecks: unexpected error: %v", err)
	}
}

func TestExecUnboundNative(t *testing.T) {
	code, _ := assembleCode([]instr{
		in(OpProc),
		in(OpSysreqN, 0, 0),
		in(OpRetn),
	})
	inst := load(t, moduleSpec{code: code, natives: []string{"missing"}, stackHeap: 256})

	_, err := inst.Exec(ExecMain)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Exec error = %v, want ErrNotFound for an unbound native", err)
	}
}
