/*
 * amx - Module header flag bits and file-format version window
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

// Flags is the module header's status bitset (amx.h's AMX_FLAG_*).
type Flags uint16

const (
	FlagDebug     Flags = 0x0002 // Symbolic debug info available
	FlagCompact   Flags = 0x0004 // Compact (variable-length) opcode encoding
	FlagSleep     Flags = 0x0008 // Module uses the sleep opcode
	FlagNoChecks  Flags = 0x0010 // Array bounds checks and BREAK disabled
	FlagNoReloc   Flags = 0x0200 // Host pointer doesn't fit a cell; no relocation done
	FlagNoSysreqD Flags = 0x0400 // SYSREQ.D is not used
	FlagSysreqN   Flags = 0x0800 // New/optimized SYSREQ.N opcode in use
	FlagNtvReg    Flags = 0x1000 // All imported natives are registered
	FlagJITC      Flags = 0x2000 // Machine is JIT compiled
	FlagBrowse    Flags = 0x4000 // Busy browsing (reentrancy guard)
	FlagReloc     Flags = 0x8000 // Jump/call addresses have been relocated
)

// Has reports whether all bits in want are set in f.
func (f Flags) Has(want Flags) bool {
	return f&want == want
}

const (
	// CurFileVersion is the newest module file format this runtime
	// will accept.
	CurFileVersion = 9
	// MinFileVersion is the oldest module file format this runtime
	// accepts.
	MinFileVersion = 6
	// MinAMXVersion is the lowest amx_version a module may declare.
	MinAMXVersion = 10
	// MaxFileVerJIT and MinAMXVerJIT bound the file/AMX version a
	// JIT-compiled module must declare; the JIT itself is out of
	// scope. Load rejects a FlagJITC module whose file_version exceeds
	// MaxFileVerJIT, and otherwise loads it with MinAMXVerJIT as the
	// amx_version floor.
	MaxFileVerJIT = 8
	MinAMXVerJIT  = 8
)

// ExecMain and ExecCont are the sentinel indices accepted by Exec.
const (
	ExecMain = -1 // Run the module's main() entry point
	ExecCont = -2 // Resume a sleeping instance
)

// UserNum is the number of fixed user-data slots per instance.
const UserNum = 4

// NameMax is the longest symbol name supported by the shared name
// table (defsize using AMX_FUNCSTUBNT). ExpMax is the cap that
// applies to the older inline-name record shape instead.
const (
	NameMax = 31
	ExpMax  = 19
)

// UserTag packs four bytes into the 32 bit key used to index
// usertags/userdata, matching amx.h's AMX_USERTAG macro.
func UserTag(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}
