/*
 * amx - In-process module assembler shared by the package's test cases
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

// instr is one assembled instruction: an opcode plus its fixed operand
// cells, in the order dispatch_*.go's handlers expect to fetch them.
type instr struct {
	op   Opcode
	args []cell.Cell
}

func in(op Opcode, args ...cell.Cell) instr { return instr{op: op, args: args} }

// assembleCode lays out instrs back to back, one cell per opcode/operand,
// and returns the label (byte offset from the start of this code block)
// of each instruction alongside the encoded bytes, so a caller that
// needs to compute a jump target can do so without hand counting cells.
func assembleCode(instrs []instr) (code []byte, labels []cell.Cell) {
	labels = make([]cell.Cell, len(instrs))
	var pos cell.Cell
	for i, ins := range instrs {
		labels[i] = pos
		pos += cell.Cell(cell.Bytes * (1 + len(ins.args)))
	}
	code = make([]byte, int(pos))
	pos = 0
	for _, ins := range instrs {
		writeCell(code, pos, cell.Cell(ins.op))
		pos += cell.Cell(cell.Bytes)
		for _, a := range ins.args {
			writeCell(code, pos, a)
			pos += cell.Cell(cell.Bytes)
		}
	}
	return code, labels
}

// moduleSpec describes the minimal set of knobs the test cases need to
// build a loadable image: the assembled code, an optional list of
// native names (inline-name record shape, no shared name table) and
// how many bytes of stack+heap to reserve beyond the (empty) data
// section.
type namedAddr struct {
	name string
	addr cell.Cell // cod-relative code offset
}

type moduleSpec struct {
	code       []byte
	natives    []string
	publics    []namedAddr
	stackHeap  int
	mainOffset cell.Cell // cod-relative; -1 means "no main"
	noReloc    bool
	flags      Flags // extra header flag bits (FlagNoChecks etc.)
}

// buildModule assembles spec into a full on-disk module image, laying
// out an optional native table between the header and the code section
// the same way the real compiler places its symbol tables ahead of Cod.
func buildModule(spec moduleSpec) []byte {
	publicsOff := int32(0)
	pos := int32(headerSize)
	if len(spec.publics) > 0 {
		publicsOff = pos
		pos += int32(len(spec.publics) * funcStubSize)
	}
	nativesOff := int32(0)
	if len(spec.natives) > 0 || len(spec.publics) > 0 {
		nativesOff = pos
		pos += int32(len(spec.natives) * funcStubSize)
	}
	libraries := pos

	cod := pos
	dat := cod + int32(len(spec.code))
	hea := dat // no static data
	stp := hea + int32(spec.stackHeap)

	h := &Header{
		Size:        stp,
		Magic:       cell.Magic,
		FileVersion: CurFileVersion,
		AMXVersion:  MinAMXVersion,
		DefSize:     funcStubSize,
		Cod:         cod,
		Dat:         dat,
		Hea:         hea,
		Stp:         stp,
		Cip:         int32(spec.mainOffset),
		Publics:     publicsOff,
		Natives:     nativesOff,
		Libraries:   libraries,
		Pubvars:     libraries,
		Tags:        libraries,
	}
	h.Flags |= spec.flags
	if spec.noReloc {
		h.Flags |= FlagNoReloc
	}

	image := make([]byte, stp)
	putHeader(image, h)

	for i, p := range spec.publics {
		start := int(publicsOff) + i*funcStubSize
		writeCell(image, cell.Cell(start), cell.Cell(p.addr))
		copy(image[start+cell.Bytes:start+funcStubSize], p.name)
	}
	for i, name := range spec.natives {
		start := int(nativesOff) + i*funcStubSize
		writeCell(image, cell.Cell(start), 0)
		copy(image[start+cell.Bytes:start+funcStubSize], name)
	}

	copy(image[cod:dat], spec.code)
	return image
}

// load is a small convenience wrapper: assemble, build, and Load in one
// call, failing the test immediately on any error since every test case
// here builds its own image and a malformed one is a bug in the test,
// not a case under test (load_test.go exercises Load's own validation
// directly against hand-corrupted headers).
func load(t testingT, spec moduleSpec) *Instance {
	t.Helper()
	var opts []LoadOption
	if spec.noReloc {
		opts = append(opts, WithNoRelocate())
	}
	inst, err := Load(buildModule(spec), opts...)
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	return inst
}

// testingT is the subset of *testing.T this helper needs, so it can be
// called from any _test.go file in the package without an import cycle.
type testingT interface {
	Helper()
	Fatalf(format string, args ...any)
}
