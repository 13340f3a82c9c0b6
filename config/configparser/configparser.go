/*
 * amx - Configuration file parser
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

// Package configparser reads the example host's native-module config
// file: which native libraries to bind into a loaded instance and a
// handful of runtime switches. Each line is a directive keyword, one
// argument, and an optional comma-separated option list.
package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// Option is one comma-separated value following a directive's first
// argument, e.g. the "big" in "library core,big".
type Option struct {
	Name     string
	EqualOpt string
	Value    []*string
}

// Directive type tags, matched against the registry built by
// RegisterDirective calls from library init() functions.
const (
	TypeSwitch  = 1 + iota // directive takes no argument
	TypeOption             // directive takes exactly one argument
	TypeOptions            // directive takes an argument plus a comma list
)

type directiveDef struct {
	create func(string, []Option) error
	ty     int
}

var directives = map[string]directiveDef{}

// LibraryList records the lower-cased name of every non-switch
// directive registered so far, in registration order.
var LibraryList []string

var lineNumber int

func getDirective(name string) int {
	d, ok := directives[name]
	if !ok {
		return 0
	}
	return d.ty
}

// RegisterDirective should be called from a native library's init()
// function to make "directive <arg> [,opt...]" recognized in config
// files.
func RegisterDirective(name string, ty int, fn func(string, []Option) error) {
	name = strings.ToUpper(name)
	directives[name] = directiveDef{create: fn, ty: ty}
	if ty != TypeSwitch {
		LibraryList = append(LibraryList, strings.ToLower(name))
	}
}

func createOption(name string, arg string) error {
	name = strings.ToUpper(name)
	d, ok := directives[name]
	if !ok {
		return errors.New("unknown directive: " + name)
	}
	if d.ty != TypeOption {
		return errors.New("not a single-argument directive: " + name)
	}
	return d.create(arg, nil)
}

func createOptions(name string, arg string, options []Option) error {
	name = strings.ToUpper(name)
	d, ok := directives[name]
	if !ok {
		return errors.New("unknown directive: " + name)
	}
	if d.ty != TypeOptions {
		return errors.New("not a list-argument directive: " + name)
	}
	return d.create(arg, options)
}

func createSwitch(name string) error {
	name = strings.ToUpper(name)
	d, ok := directives[name]
	if !ok {
		return errors.New("unknown switch: " + name)
	}
	if d.ty != TypeSwitch {
		return errors.New("not a switch directive: " + name)
	}
	return d.create("", nil)
}

type optionLine struct {
	line string
	pos  int
}

// LoadConfigFile parses name line by line, dispatching each directive
// to whichever library or host package registered it.
func LoadConfigFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	lineNumber = 0
	reader := bufio.NewReader(file)
	for {
		line := optionLine{}
		line.line, err = reader.ReadString('\n')
		lineNumber++
		if len(line.line) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if perr := line.parseLine(); perr != nil {
			return fmt.Errorf("line %d: %w", lineNumber, perr)
		}
	}
	return nil
}

func (line *optionLine) parseLine() error {
	name := line.parseName()
	if name == "" {
		return nil
	}
	switch getDirective(name) {
	case TypeOption:
		arg := line.parseArg()
		if arg == "" {
			return fmt.Errorf("directive %s requires an argument", name)
		}
		return createOption(name, arg)

	case TypeOptions:
		arg := line.parseArg()
		if arg == "" {
			return fmt.Errorf("directive %s requires an argument", name)
		}
		options, err := line.parseOptions()
		if err != nil {
			return err
		}
		return createOptions(name, arg, options)

	case TypeSwitch:
		line.skipSpace()
		if !line.isEOL() {
			return fmt.Errorf("switch directive %s takes no arguments", name)
		}
		return createSwitch(name)

	case 0:
		return fmt.Errorf("no directive %s registered", name)
	}
	return nil
}

func (line *optionLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

func (line *optionLine) isEOL() bool {
	if line.pos >= len(line.line) {
		return true
	}
	return line.line[line.pos] == '#'
}

func (line *optionLine) getNext() byte {
	line.pos++
	if line.isEOL() {
		return 0
	}
	return line.line[line.pos]
}

// parseName reads the directive keyword that starts a line.
func (line *optionLine) parseName() string {
	line.skipSpace()
	if line.isEOL() {
		return ""
	}
	name := ""
	for !line.isEOL() {
		by := line.line[line.pos]
		if !unicode.IsLetter(rune(by)) && !unicode.IsNumber(rune(by)) {
			break
		}
		name += string(by)
		line.pos++
	}
	return strings.ToUpper(name)
}

// parseArg reads a directive's required first argument: a path, name,
// or number, terminated by whitespace, comma, or EOL.
func (line *optionLine) parseArg() string {
	line.skipSpace()
	if line.isEOL() {
		return ""
	}
	if line.line[line.pos] == '"' {
		s, _ := line.parseQuoteString()
		return s
	}
	arg := ""
	for !line.isEOL() {
		by := line.line[line.pos]
		if unicode.IsSpace(rune(by)) || by == ',' {
			break
		}
		arg += string(by)
		line.pos++
	}
	return arg
}

// parseQuoteString reads a "quoted" or bare token; a doubled quote
// inside a quoted token escapes one literal quote.
func (line *optionLine) parseQuoteString() (string, bool) {
	value := ""
	inQuote := false
	if line.line[line.pos] == '"' {
		inQuote = true
		line.pos++
	}
	for {
		if line.pos >= len(line.line) {
			return value, !inQuote
		}
		by := line.line[line.pos]
		if by == '"' && inQuote {
			line.pos++
			if line.pos < len(line.line) && line.line[line.pos] == '"' {
				value += "\""
				line.pos++
				continue
			}
			return value, true
		}
		if !inQuote && (unicode.IsSpace(rune(by)) || by == ',' || by == '#') {
			return value, true
		}
		value += string(by)
		line.pos++
	}
}

func (line *optionLine) parseOption() (*Option, error) {
	line.skipSpace()
	if line.isEOL() || line.line[line.pos] != ',' {
		return nil, nil
	}
	line.pos++ // skip comma
	line.skipSpace()

	name := ""
	for !line.isEOL() {
		by := line.line[line.pos]
		if !unicode.IsLetter(rune(by)) && !unicode.IsNumber(rune(by)) {
			break
		}
		name += string(by)
		line.pos++
	}
	if name == "" {
		return nil, errors.New("expected option name after comma")
	}
	opt := &Option{Name: name}

	line.skipSpace()
	if !line.isEOL() && line.line[line.pos] == '=' {
		line.pos++
		v, ok := line.parseQuoteString()
		if !ok {
			return nil, fmt.Errorf("invalid value for option %s", name)
		}
		opt.EqualOpt = v
	}
	return opt, nil
}

func (line *optionLine) parseOptions() ([]Option, error) {
	var options []Option
	for {
		opt, err := line.parseOption()
		if err != nil {
			return nil, err
		}
		if opt == nil {
			break
		}
		options = append(options, *opt)
	}
	return options, nil
}

// ParseUintArg is a small convenience a directive handler can use to
// turn a numeric argument (decimal or 0x-hex) into a uint32.
func ParseUintArg(s string) (uint32, error) {
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 32)
	return uint32(v), err
}
