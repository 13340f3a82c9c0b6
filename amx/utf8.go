/*
 * amx - UTF-8 codec for the embedding surface's string helpers
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

import "fmt"

// UTF8Get decodes one code point from the start of b, enforcing
// canonical-shortest form (amx_UTF8Get): an overlong encoding or a
// surrogate half is rejected with ErrFormat rather than silently
// accepted.
func UTF8Get(b []byte) (r rune, width int, err error) {
	if len(b) == 0 {
		return 0, 0, fmt.Errorf("amx: %w: empty byte sequence", ErrFormat)
	}
	c0 := b[0]
	switch {
	case c0 < 0x80:
		return rune(c0), 1, nil
	case c0&0xE0 == 0xC0:
		width = 2
	case c0&0xF0 == 0xE0:
		width = 3
	case c0&0xF8 == 0xF0:
		width = 4
	default:
		return 0, 0, fmt.Errorf("amx: %w: invalid UTF-8 lead byte", ErrFormat)
	}
	if len(b) < width {
		return 0, 0, fmt.Errorf("amx: %w: truncated UTF-8 sequence", ErrFormat)
	}
	var v rune
	v = rune(c0) & (0x7F >> uint(width))
	for i := 1; i < width; i++ {
		c := b[i]
		if c&0xC0 != 0x80 {
			return 0, 0, fmt.Errorf("amx: %w: invalid UTF-8 continuation byte", ErrFormat)
		}
		v = v<<6 | rune(c&0x3F)
	}
	minVal := []rune{0, 0, 0x80, 0x800, 0x10000}[width]
	if v < minVal {
		return 0, 0, fmt.Errorf("amx: %w: overlong UTF-8 encoding", ErrFormat)
	}
	if v >= 0xD800 && v <= 0xDFFF {
		return 0, 0, fmt.Errorf("amx: %w: UTF-8 encodes a surrogate half", ErrFormat)
	}
	if v > 0x10FFFF {
		return 0, 0, fmt.Errorf("amx: %w: code point above U+10FFFF", ErrFormat)
	}
	return v, width, nil
}

// UTF8Put encodes r into the canonical-shortest UTF-8 form, writing
// into dst and reporting the number of bytes used (amx_UTF8Put).
func UTF8Put(dst []byte, r rune) (width int, err error) {
	switch {
	case r < 0:
		return 0, fmt.Errorf("amx: %w: negative code point", ErrDomain)
	case r < 0x80:
		width = 1
	case r < 0x800:
		width = 2
	case r < 0x10000:
		width = 3
	case r <= 0x10FFFF:
		width = 4
	default:
		return 0, fmt.Errorf("amx: %w: code point above U+10FFFF", ErrDomain)
	}
	if r >= 0xD800 && r <= 0xDFFF {
		return 0, fmt.Errorf("amx: %w: surrogate half is not a valid code point", ErrDomain)
	}
	if len(dst) < width {
		return 0, fmt.Errorf("amx: %w: destination too small", ErrMemAccess)
	}
	if width == 1 {
		dst[0] = byte(r)
		return 1, nil
	}
	lead := []byte{0, 0, 0xC0, 0xE0, 0xF0}[width]
	for i := width - 1; i > 0; i-- {
		dst[i] = 0x80 | byte(r&0x3F)
		r >>= 6
	}
	dst[0] = lead | byte(r)
	return width, nil
}

// UTF8Len reports how many bytes r would need when encoded (amx_UTF8Len).
func UTF8Len(r rune) int {
	var buf [4]byte
	n, err := UTF8Put(buf[:], r)
	if err != nil {
		return 0
	}
	return n
}

// UTF8Check validates that b is entirely well-formed UTF-8 and reports
// its decoded rune count (amx_UTF8Check).
func UTF8Check(b []byte) (runeCount int, err error) {
	for len(b) > 0 {
		_, width, err := UTF8Get(b)
		if err != nil {
			return 0, err
		}
		b = b[width:]
		runeCount++
	}
	return runeCount, nil
}
