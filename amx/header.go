/*
 * amx - Module header parsing
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
	"encoding/binary"
	"fmt"

	"github.com/rcornwell/pawnvm/cell"
)

// headerSize is the on-disk size of the fixed header, in bytes. It
// never depends on cell width: every header field is a fixed-width
// int16/int32.
const headerSize = 4 + 2 + 1 + 1 + 2 + 2 + 4*11

// Two record shapes exist in the publics/natives/libraries/pubvars/tags
// tables; defsize picks between them.
const (
	funcStubSize   = cell.Bytes + (ExpMax + 1) // inline name, padded to ExpMax+1 bytes
	funcStubNTSize = cell.Bytes + 4            // address + 4-byte name-table offset
)

// Header is the decoded fixed module header (amx.h's AMX_HEADER),
// always read field by field out of a little-endian byte buffer —
// never overlaid onto a host struct.
type Header struct {
	Size         int32
	Magic        uint16
	FileVersion  byte
	AMXVersion   byte
	Flags        Flags
	DefSize      uint16
	Cod          int32
	Dat          int32
	Hea          int32
	Stp          int32
	Cip          int32
	Publics      int32
	Natives      int32
	Libraries    int32
	Pubvars      int32
	Tags         int32
	NameTable    int32
}

// UsesNameTable reports whether the publics/natives/pubvars/tags tables
// use the name-table-offset record shape instead of inline names.
func (h *Header) UsesNameTable() bool {
	return int(h.DefSize) == funcStubNTSize
}

// parseHeader decodes the fixed header from buf. It performs no
// validation beyond what is needed to read the fields themselves;
// Load performs the ordered validation.
func parseHeader(buf []byte) (*Header, error) {
	if len(buf) < headerSize {
		return nil, fmt.Errorf("amx: %w: image too small for header", ErrMemory)
	}
	le := binary.LittleEndian
	h := &Header{
		Size:        int32(le.Uint32(buf[0:4])),
		Magic:       le.Uint16(buf[4:6]),
		FileVersion: buf[6],
		AMXVersion:  buf[7],
		Flags:       Flags(le.Uint16(buf[8:10])),
		DefSize:     le.Uint16(buf[10:12]),
		Cod:         int32(le.Uint32(buf[12:16])),
		Dat:         int32(le.Uint32(buf[16:20])),
		Hea:         int32(le.Uint32(buf[20:24])),
		Stp:         int32(le.Uint32(buf[24:28])),
		Cip:         int32(le.Uint32(buf[28:32])),
		Publics:     int32(le.Uint32(buf[32:36])),
		Natives:     int32(le.Uint32(buf[36:40])),
		Libraries:   int32(le.Uint32(buf[40:44])),
		Pubvars:     int32(le.Uint32(buf[44:48])),
		Tags:        int32(le.Uint32(buf[48:52])),
		NameTable:   int32(le.Uint32(buf[52:56])),
	}
	return h, nil
}

// putHeader encodes h into buf[0:headerSize], the inverse of
// parseHeader. Used by the in-process assembler test helpers.
func putHeader(buf []byte, h *Header) {
	le := binary.LittleEndian
	le.PutUint32(buf[0:4], uint32(h.Size))
	le.PutUint16(buf[4:6], h.Magic)
	buf[6] = h.FileVersion
	buf[7] = h.AMXVersion
	le.PutUint16(buf[8:10], uint16(h.Flags))
	le.PutUint16(buf[10:12], h.DefSize)
	le.PutUint32(buf[12:16], uint32(h.Cod))
	le.PutUint32(buf[16:20], uint32(h.Dat))
	le.PutUint32(buf[20:24], uint32(h.Hea))
	le.PutUint32(buf[24:28], uint32(h.Stp))
	le.PutUint32(buf[28:32], uint32(h.Cip))
	le.PutUint32(buf[32:36], uint32(h.Publics))
	le.PutUint32(buf[36:40], uint32(h.Natives))
	le.PutUint32(buf[40:44], uint32(h.Libraries))
	le.PutUint32(buf[44:48], uint32(h.Pubvars))
	le.PutUint32(buf[48:52], uint32(h.Tags))
	le.PutUint32(buf[52:56], uint32(h.NameTable))
}

// symbolEntry is one decoded publics/pubvars/tags/natives table row.
type symbolEntry struct {
	Address cell.Ucell
	Name    string
}

// readTable decodes count entries of either record shape starting at
// offset off in buf, using defsize to pick the stride and shape, and
// the shared name table (when present) to resolve name-table-offset
// entries.
func readTable(buf []byte, off int32, count int, defsize uint16, nameTable int32) ([]symbolEntry, error) {
	entries := make([]symbolEntry, count)
	le := binary.LittleEndian
	stride := int(defsize)
	for i := 0; i < count; i++ {
		start := int(off) + i*stride
		if start+stride > len(buf) {
			return nil, fmt.Errorf("amx: %w: table entry out of range", ErrFormat)
		}
		addr := cell.Ucell(le.Uint32(buf[start : start+cell.Bytes]))
		var name string
		if stride == funcStubNTSize {
			nameOfs := int32(le.Uint32(buf[start+cell.Bytes : start+cell.Bytes+4]))
			name = readCString(buf, int(nameTable+nameOfs), NameMax)
		} else {
			name = readFixedName(buf[start+cell.Bytes:start+stride], ExpMax)
		}
		entries[i] = symbolEntry{Address: addr, Name: name}
	}
	return entries, nil
}

func readCString(buf []byte, start, max int) string {
	if start < 0 || start >= len(buf) {
		return ""
	}
	end := start
	for end < len(buf) && (end-start) < max && buf[end] != 0 {
		end++
	}
	return string(buf[start:end])
}

// readFixedName reads an inline name record. The name is taken
// byte-for-byte within the declared record width; lookups never
// truncate silently before comparing.
func readFixedName(buf []byte, max int) string {
	n := len(buf)
	if n > max+1 {
		n = max + 1
	}
	end := 0
	for end < n && buf[end] != 0 {
		end++
	}
	return string(buf[:end])
}
