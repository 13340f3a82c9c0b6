/*
 * amx - Abstract machine error codes
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

// Error is the abstract machine's own status code. Codes 1..15 are the
// "exit code" band returned to a process host; codes 16 and up are
// library/API misuse codes. These values and their ordering are part
// of the external contract and must not be renumbered.
type Error int

// Exit-code band (1..15): faults detected while running script code.
const (
	ErrNone      Error = iota // No error
	ErrExit                   // Forced exit
	ErrAssert                 // Assertion failed
	ErrStackErr               // Stack/heap collision
	ErrBounds                 // Index out of bounds
	ErrMemAccess              // Invalid memory access
	ErrInvInstr               // Invalid instruction
	ErrStackLow               // Stack underflow
	ErrHeapLow                // Heap underflow
	ErrCallback               // No callback, or invalid callback
	ErrNative                 // Native function failed
	ErrDivide                 // Divide by zero
	ErrSleep                  // Sleep mode; instance can be resumed
	ErrInvState               // Invalid state for this access
)

// Library band (16..): loader and embedding-API misuse.
const (
	ErrMemory   Error = iota + 16 // Out of memory
	ErrFormat                    // Invalid file format
	ErrVersion                   // File is for a newer AMX version
	ErrNotFound                  // Function not found
	ErrIndex                     // Invalid index parameter
	ErrDebug                     // Debugger cannot run
	ErrInit                      // Not initialized, or double init
	ErrUserdata                  // User data slots full
	ErrInitJit                   // Cannot initialize the JIT
	ErrParams                    // Parameter error
	ErrDomain                    // Domain error
	ErrGeneral                   // Unspecified error
)

var errText = map[Error]string{
	ErrNone:      "no error",
	ErrExit:      "forced exit",
	ErrAssert:    "assertion failed",
	ErrStackErr:  "stack/heap collision",
	ErrBounds:    "index out of bounds",
	ErrMemAccess: "invalid memory access",
	ErrInvInstr:  "invalid instruction",
	ErrStackLow:  "stack underflow",
	ErrHeapLow:   "heap underflow",
	ErrCallback:  "no callback, or invalid callback",
	ErrNative:    "native function failed",
	ErrDivide:    "divide by zero",
	ErrSleep:     "sleep mode",
	ErrInvState:  "invalid state for this access",
	ErrMemory:    "out of memory",
	ErrFormat:    "invalid file format",
	ErrVersion:   "file is for a newer version of the AMX",
	ErrNotFound:  "function not found",
	ErrIndex:     "invalid index parameter",
	ErrDebug:     "debugger cannot run",
	ErrInit:      "not initialized, or double initialization",
	ErrUserdata:  "user data table full",
	ErrInitJit:   "cannot initialize the JIT",
	ErrParams:    "parameter error",
	ErrDomain:    "domain error",
	ErrGeneral:   "general error",
}

func (e Error) Error() string {
	if s, ok := errText[e]; ok {
		return s
	}
	return "unknown AMX error"
}

// Fatal reports whether e aborts the current top-level Exec and
// requires the instance's stack/heap to be reset. ErrSleep is carved
// out: it is cooperative, not fatal.
func (e Error) Fatal() bool {
	switch e {
	case ErrNone, ErrSleep:
		return false
	default:
		return true
	}
}
