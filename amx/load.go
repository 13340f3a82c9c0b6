/*
 * amx - Loader and relocator
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

// LoadOption customizes Load's behavior; the zero value of Options is
// the common case (auto-relocate, no forced flags).
type LoadOption func(*loadOptions)

type loadOptions struct {
	forceNoReloc bool
}

// WithNoRelocate forces module-relative (wide-pointer) addressing even
// when the host could relocate, for testing the non-relocated dispatch
// path deterministically.
func WithNoRelocate() LoadOption {
	return func(o *loadOptions) { o.forceNoReloc = true }
}

// Load validates image, lays out a fresh instance over it, relocates
// code-target operands, and leaves the instance in StateReady. When
// image already spans the full header.Stp layout it is retained (not
// copied) and must not be mutated by the caller afterward; a shorter
// on-disk image, or a COMPACT one, is copied into a buffer of that
// size first. Code is shared read-only with any later Clone.
func Load(image []byte, opts ...LoadOption) (*Instance, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	h, err := parseHeader(image)
	if err != nil {
		return nil, err
	}

	// 1. Size/magic/version validation.
	if int(h.Size) < headerSize {
		return nil, fmt.Errorf("amx: %w: header size %d smaller than the fixed header", ErrFormat, h.Size)
	}
	if int(h.Size) > len(image) {
		return nil, fmt.Errorf("amx: %w: header size %d exceeds image length %d", ErrFormat, h.Size, len(image))
	}
	if h.Magic != cell.Magic {
		return nil, fmt.Errorf("amx: %w: magic %#04x does not match cell width", ErrFormat, h.Magic)
	}
	if h.FileVersion < MinFileVersion || h.FileVersion > CurFileVersion {
		return nil, fmt.Errorf("amx: %w: file_version %d outside [%d, %d]", ErrVersion, h.FileVersion, MinFileVersion, CurFileVersion)
	}
	minAMX := byte(MinAMXVersion)
	if h.Flags.Has(FlagJITC) {
		if h.FileVersion > MaxFileVerJIT {
			return nil, fmt.Errorf("amx: %w: JIT module file_version %d exceeds %d", ErrVersion, h.FileVersion, MaxFileVerJIT)
		}
		minAMX = MinAMXVerJIT
	}
	if h.AMXVersion < minAMX {
		return nil, fmt.Errorf("amx: %w: amx_version %d below required %d", ErrVersion, h.AMXVersion, minAMX)
	}

	// 2. Section offsets, strictly ordered and cell-aligned.
	if h.Cod > h.Dat || h.Dat > h.Hea || h.Hea > h.Stp {
		return nil, fmt.Errorf("amx: %w: section offsets out of order", ErrFormat)
	}
	for _, v := range []int32{h.Cod, h.Dat, h.Hea, h.Stp} {
		if v%cell.Bytes != 0 {
			return nil, fmt.Errorf("amx: %w: section offset %d not cell-aligned", ErrFormat, v)
		}
	}
	if h.DefSize != funcStubSize && h.DefSize != funcStubNTSize {
		return nil, fmt.Errorf("amx: %w: defsize %d matches neither record shape", ErrFormat, h.DefSize)
	}
	for _, off := range []int32{h.Publics, h.Natives, h.Libraries, h.Pubvars, h.Tags, h.NameTable} {
		if off != 0 && (off < headerSize || off > h.Size) {
			return nil, fmt.Errorf("amx: %w: table offset %d out of range", ErrFormat, off)
		}
	}

	// The live memory region spans the whole header.Stp layout (code,
	// data, heap, stack). An on-disk module only carries header.Size
	// bytes of that, so grow into a fresh buffer when needed; the same
	// buffer gives a COMPACT module's code+data room to expand in place.
	base := image
	if len(image) < int(h.Stp) || h.Flags.Has(FlagCompact) {
		base = make([]byte, int(h.Stp))
		copy(base, image[:h.Size])
	}
	if h.Flags.Has(FlagCompact) {
		if err := expandCompact(base[h.Cod:h.Hea], int(h.Size-h.Cod)); err != nil {
			return nil, err
		}
	}

	inst := &Instance{
		header: h,
		base:   base,
		flags:  h.Flags,
		state:  StateUninit,
	}

	if err := inst.loadTables(base); err != nil {
		return nil, err
	}

	// Heap/stack setup: heap floor at the end of static data, stack
	// ceiling one reserved cell below stp.
	inst.hlw = cell.Cell(h.Hea - h.Dat)
	inst.hea = inst.hlw
	inst.stp = cell.Cell(h.Stp-h.Dat) - cell.Cell(cell.Bytes)
	inst.stk = inst.stp
	inst.frm = inst.stp
	inst.resetHea = inst.hea
	inst.resetStk = inst.stk

	// Relocation mode is chosen once and is sticky for the instance's
	// lifetime.
	canRelocate := !o.forceNoReloc && !h.Flags.Has(FlagNoReloc)
	if canRelocate {
		if err := inst.relocate(); err != nil {
			return nil, err
		}
		inst.relocated = true
		inst.flags |= FlagReloc
	} else {
		inst.wide = true
		inst.flags &^= FlagReloc
	}

	// mainEntry is header.Cip exactly as stored on disk: cod-relative,
	// or -1 when the module has no main. codeEntry translates it (and
	// every public's table address) into live cip space on demand, the
	// same translation relocate already baked into in-code operands.
	inst.mainEntry = cell.Cell(h.Cip)
	inst.cip = inst.codeEntry(inst.mainEntry)

	inst.state = StateReady
	return inst, nil
}

// codeAt converts the live cip register into an absolute index into
// base for fetch. In relocated mode cip already includes Cod; in wide
// mode it is cod-relative and Cod is added on every access.
func (inst *Instance) codeAt(off cell.Cell) int {
	if inst.relocated {
		return int(off)
	}
	return int(inst.header.Cod) + int(off)
}

// codeEntry translates a raw cod-relative code address — a table entry
// such as mainEntry or a public's address, never itself touched by
// relocate — into the address space the live cip register uses.
func (inst *Instance) codeEntry(codRelative cell.Cell) cell.Cell {
	if codRelative < 0 {
		return codRelative
	}
	if inst.relocated {
		return codRelative + cell.Cell(inst.header.Cod)
	}
	return codRelative
}

// tableSpan validates that one symbol table's byte span (its offset up
// to the next table's offset) is well formed and returns its entry count.
func tableSpan(start, end int32, defsize uint16) (int, error) {
	if end < start {
		return 0, fmt.Errorf("amx: %w: symbol tables out of order", ErrFormat)
	}
	return int(uint32(end-start) / uint32(defsize)), nil
}

func (inst *Instance) loadTables(image []byte) error {
	h := inst.header
	var err error
	if h.Publics != 0 {
		n, serr := tableSpan(h.Publics, h.Natives, h.DefSize)
		if serr != nil {
			return serr
		}
		if inst.publics, err = readTable(image, h.Publics, n, h.DefSize, h.NameTable); err != nil {
			return err
		}
	}
	if h.Natives != 0 {
		n, serr := tableSpan(h.Natives, h.Libraries, h.DefSize)
		if serr != nil {
			return serr
		}
		var natives []symbolEntry
		if natives, err = readTable(image, h.Natives, n, h.DefSize, h.NameTable); err != nil {
			return err
		}
		inst.natives = make([]nativeEntry, len(natives))
		for i, e := range natives {
			inst.natives[i] = nativeEntry{name: e.Name}
		}
	}
	if h.Pubvars != 0 {
		n, serr := tableSpan(h.Pubvars, h.Tags, h.DefSize)
		if serr != nil {
			return serr
		}
		if inst.pubvars, err = readTable(image, h.Pubvars, n, h.DefSize, h.NameTable); err != nil {
			return err
		}
	}
	if h.Tags != 0 {
		// The tags table runs up to the shared name table when one is
		// present, otherwise up to the code section.
		end := h.NameTable
		if end == 0 {
			end = h.Cod
		}
		n, serr := tableSpan(h.Tags, end, h.DefSize)
		if serr != nil {
			return serr
		}
		if inst.tags, err = readTable(image, h.Tags, n, h.DefSize, h.NameTable); err != nil {
			return err
		}
	}
	return nil
}

// expandCompact decompresses a COMPACT module's code+data section in
// place. sec spans the expanded layout (cod up to the initial heap top)
// with the compressed bytes occupying its first codesize bytes. The
// encoding packs each cell as 7-bit groups, most significant first,
// with the continuation bit set on every byte but the group's last and
// the first byte's 0x40 bit carrying the sign; walking groups from the
// back of the stream and storing cells from the back of sec lets the
// two never collide as long as the compressed form really is smaller.
func expandCompact(sec []byte, codesize int) error {
	if codesize > len(sec) {
		return fmt.Errorf("amx: %w: compact code larger than its expanded extent", ErrFormat)
	}
	memsize := len(sec)
	if memsize%cell.Bytes != 0 {
		return fmt.Errorf("amx: %w: expanded extent not cell-aligned", ErrFormat)
	}
	for codesize > 0 {
		var c cell.Ucell
		shift := uint(0)
		for {
			codesize--
			if shift >= uint(cell.Size) {
				return fmt.Errorf("amx: %w: compact group wider than a cell", ErrFormat)
			}
			c |= cell.Ucell(sec[codesize]&0x7F) << shift
			shift += 7
			if codesize == 0 || sec[codesize-1]&0x80 == 0 {
				break
			}
		}
		if sec[codesize]&0x40 != 0 {
			for shift < uint(cell.Size) {
				c |= cell.Ucell(0xFF) << shift
				shift += 8
			}
		}
		memsize -= cell.Bytes
		if memsize < codesize {
			return fmt.Errorf("amx: %w: compact stream overruns its expansion", ErrFormat)
		}
		writeCell(sec, cell.Cell(memsize), cell.Cell(c))
	}
	if memsize != 0 {
		return fmt.Errorf("amx: %w: compact stream ended short of its expansion", ErrFormat)
	}
	return nil
}

// relocate rewrites every control-flow-target operand (branch, call,
// and case-table entries) in the code section from a cod-relative
// offset to an absolute offset into base, so the interpreter can use
// the decoded operand directly as cip with no further addition. Data
// addresses are deliberately left untouched: they are dat-relative
// offsets, never host pointers, which is what lets Clone's copied data
// region keep working with the same code.
func (inst *Instance) relocate() error {
	code := inst.codeMem()
	cod := cell.Cell(inst.header.Cod)
	cip := cell.Cell(0)
	for int(cip) < len(code) {
		opStart := cip
		op := Opcode(readCell(code, cip))
		cip += cell.Cell(cell.Bytes)
		if int(op) >= int(numOpcodes) {
			return fmt.Errorf("amx: %w: unknown opcode %d at %d", ErrInvInstr, op, opStart)
		}
		n := operandCount(op)
		for i := 0; i < n; i++ {
			if int(cip)+cell.Bytes > len(code) {
				return fmt.Errorf("amx: %w: truncated operand at %d", ErrFormat, cip)
			}
			if isCodeTarget(op, i) {
				writeCell(code, cip, readCell(code, cip)+cod)
			}
			cip += cell.Cell(cell.Bytes)
		}
		if op == OpCasetbl {
			if err := inst.relocateCasetbl(&cip, code); err != nil {
				return err
			}
		}
	}
	return nil
}

// relocateCasetbl walks a CASETBL's (value, target) pairs, relocating
// each target the same way as a branch operand. Record 0 is the
// default case: its value cell is unused but still present, matching
// opSwitch's layout expectations in the interpreter.
func (inst *Instance) relocateCasetbl(cip *cell.Cell, code []byte) error {
	if int(*cip)+cell.Bytes > len(code) {
		return fmt.Errorf("amx: %w: truncated CASETBL count", ErrFormat)
	}
	count := int(readCell(code, *cip))
	*cip += cell.Cell(cell.Bytes)
	cod := cell.Cell(inst.header.Cod)
	for i := 0; i < count; i++ {
		// value cell: skip (ignored for record 0, the default).
		*cip += cell.Cell(cell.Bytes)
		if int(*cip)+cell.Bytes > len(code) {
			return fmt.Errorf("amx: %w: truncated CASETBL entry", ErrFormat)
		}
		writeCell(code, *cip, readCell(code, *cip)+cod)
		*cip += cell.Cell(cell.Bytes)
	}
	return nil
}

// Clone produces a new instance sharing src's base (code+header) but
// owning dataRegion, a byte buffer at least as large as the source's
// data+heap+stack. The initial data image is copied into dataRegion
// and registers are reinitialised (amx_Clone).
func Clone(src *Instance, dataRegion []byte) (*Instance, error) {
	need := int(src.header.Stp - src.header.Dat)
	if len(dataRegion) < need {
		return nil, fmt.Errorf("amx: %w: clone data region too small (need %d, got %d)", ErrMemory, need, len(dataRegion))
	}
	copy(dataRegion, src.base[src.header.Dat:src.header.Hea])

	clone := &Instance{
		header:    src.header,
		base:      src.base,
		data:      dataRegion,
		relocated: src.relocated,
		wide:      src.wide,
		flags:     src.flags,
		natives:   append([]nativeEntry(nil), src.natives...),
		publics:   src.publics,
		pubvars:   src.pubvars,
		tags:      src.tags,
	}
	clone.hlw = cell.Cell(src.header.Hea - src.header.Dat)
	clone.hea = clone.hlw
	clone.stp = cell.Cell(src.header.Stp-src.header.Dat) - cell.Cell(cell.Bytes)
	clone.stk = clone.stp
	clone.frm = clone.stp
	clone.mainEntry = src.mainEntry
	clone.cip = clone.codeEntry(clone.mainEntry)
	clone.resetHea = clone.hea
	clone.resetStk = clone.stk
	clone.state = StateReady
	return clone, nil
}

// Cleanup detaches hooks and marks the instance uninitialized. It does
// not free the caller-owned module buffer.
func (inst *Instance) Cleanup() {
	inst.debug = nil
	inst.callback = nil
	inst.log = nil
	inst.pri, inst.alt, inst.cip, inst.frm = 0, 0, 0, 0
	inst.stk, inst.hea = 0, 0
	inst.err = ErrNone
	inst.state = StateUninit
}
