/*
 * amx - Instance state (the "AMX" record)
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
	"log/slog"

	"github.com/rcornwell/pawnvm/cell"
)

// State is the instance's top-level lifecycle state.
type State int

const (
	StateUninit State = iota
	StateReady
	StateRunning
	StateSleeping
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateUninit:
		return "uninit"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateSleeping:
		return "sleeping"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// NativeFunc is a host-provided function bound into a module's native
// table (amx.h's AMX_NATIVE).
type NativeFunc func(inst *Instance, params []cell.Cell) (cell.Cell, error)

// NativeInfo names one native for Register.
type NativeInfo struct {
	Name string
	Func NativeFunc
}

type nativeEntry struct {
	name string
	fn   NativeFunc
}

// Callback handles every classic SYSREQ.C system-request by native name
// index; that form never consults the bound native table (amx.h's
// AMX_CALLBACK).
type Callback func(inst *Instance, index cell.Cell, params []cell.Cell) (cell.Cell, error)

// DebugHook runs at every source-statement (BREAK) boundary. A non-nil
// return aborts Exec the same as a fatal script error.
type DebugHook func(inst *Instance) error

// Instance is the abstract machine's mutable per-execution-context
// record (amx.h's tagAMX, generalized from "one process-wide struct"
// to "any number of independently schedulable instances").
type Instance struct {
	header *Header

	base []byte // owned module image: header + code [+ data, if not split]
	data []byte // optional separate data+heap+stack region; nil => embedded in base

	relocated bool // code-target operands rewritten to absolute base offsets
	wide      bool // NO_RELOC/wide-pointer mode: operands stay cod-relative

	cip       cell.Cell // code instruction pointer; see codeAt/codeEntry for addressing mode
	mainEntry cell.Cell // header.Cip verbatim: cod-relative, -1 if no main

	pri, alt cell.Cell // general accumulators
	frm      cell.Cell // frame base, data-relative
	stk, stp cell.Cell // stack pointer / ceiling, data-relative
	hlw, hea cell.Cell // heap floor / bump pointer, data-relative

	resetStk, resetHea cell.Cell

	flags       Flags
	err         Error
	paramCount  int
	halt        bool      // set by HALT or a top-level RETN/RET to stop the dispatch loop
	sleepRetval cell.Cell // SLEEP opcode's own operand, returned to the host verbatim

	callback Callback
	debug    DebugHook
	log      *slog.Logger

	userTags [UserNum]uint32
	userData [UserNum]any
	userSet  [UserNum]bool

	natives []nativeEntry
	publics []symbolEntry
	pubvars []symbolEntry
	tags    []symbolEntry

	state State
}

// State reports the instance's current lifecycle state.
func (inst *Instance) State() State { return inst.state }

// Error reports the last sticky error code; it persists until the
// next Exec clears it.
func (inst *Instance) Error() Error { return inst.err }

// Flags reports the module's header flag bits, including FlagReloc,
// FlagNtvReg and any others set since load.
func (inst *Instance) Flags() Flags { return inst.flags }

// PRI and ALT expose the two general accumulators, preserved verbatim
// across a sleep/resume cycle.
func (inst *Instance) PRI() cell.Cell { return inst.pri }
func (inst *Instance) ALT() cell.Cell { return inst.alt }

// SetLogger attaches a structured logger used for interpreter trace
// output; passing nil disables tracing.
func (inst *Instance) SetLogger(l *slog.Logger) { inst.log = l }

// SetDebugHook installs a per-statement debug callback (amx_SetDebugHook).
func (inst *Instance) SetDebugHook(hook DebugHook) { inst.debug = hook }

// SetCallback installs the classic SYSREQ.C dispatch callback (amx_SetCallback).
func (inst *Instance) SetCallback(cb Callback) { inst.callback = cb }

// dataMem returns the live data+heap+stack buffer: the caller-supplied
// split region if present, otherwise the tail of base starting at Dat.
// Data addresses are always offsets into whichever buffer this
// returns — never host pointers — so they stay valid across Clone.
func (inst *Instance) dataMem() []byte {
	if inst.data != nil {
		return inst.data
	}
	return inst.base[inst.header.Dat:]
}

// codeMem returns the code section, always inside base; code is
// shared read-only by clones.
func (inst *Instance) codeMem() []byte {
	return inst.base[inst.header.Cod:inst.header.Dat]
}

// MemInfo reports code size, data size and combined stack+heap size
// (amx_MemInfo).
func (inst *Instance) MemInfo() (codeSize, dataSize, stackHeap int32) {
	codeSize = inst.header.Dat - inst.header.Cod
	dataSize = inst.header.Hea - inst.header.Dat
	stackHeap = inst.header.Stp - inst.header.Hea
	return
}

// NameLength reports the longest symbol name this instance's tables
// can hold (amx_NameLength).
func (inst *Instance) NameLength() int {
	if inst.header.UsesNameTable() {
		return NameMax
	}
	return ExpMax
}
