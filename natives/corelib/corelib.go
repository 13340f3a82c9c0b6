/*
 * amx - Core native function library
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

// Package corelib is the example host's built-in native library: the
// small set of natives a Pawn script needs to talk to the outside
// world (printing, string length, elapsed time) without the host
// writing its own. It registers its "library" directive with
// config/configparser from an init() function.
package corelib

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rcornwell/pawnvm/amx"
	"github.com/rcornwell/pawnvm/cell"
	config "github.com/rcornwell/pawnvm/config/configparser"
)

// Natives is the library's native table, passed straight to
// (*amx.Instance).Register by the host once a "library core" directive
// is seen.
var Natives = []amx.NativeInfo{
	{Name: "print", Func: natPrint},
	{Name: "printf", Func: natPrintf},
	{Name: "strlen", Func: natStrlen},
	{Name: "tickcount", Func: natTickCount},
	{Name: "random", Func: natRandom},
}

var startTime = time.Now()

// natPrint implements `native print(const s[]);` — write a NUL-terminated
// string to stdout.
func natPrint(inst *amx.Instance, params []cell.Cell) (cell.Cell, error) {
	s, err := inst.GetString(params[0], false, true, 0)
	if err != nil {
		return 0, err
	}
	fmt.Print(s)
	return cell.Cell(len(s)), nil
}

// natPrintf implements `native printf(const fmt[], ...);` using Pawn's
// %d/%s/%c/%f subset, reading varargs from the params slice the same
// way SYSREQ already hands every native its full argument list.
func natPrintf(inst *amx.Instance, params []cell.Cell) (cell.Cell, error) {
	format, err := inst.GetString(params[0], false, true, 0)
	if err != nil {
		return 0, err
	}
	argi := 1
	out := make([]byte, 0, len(format))
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			out = append(out, c)
			continue
		}
		i++
		if argi >= len(params) {
			out = append(out, '%', format[i])
			continue
		}
		arg := params[argi]
		argi++
		switch format[i] {
		case 'd', 'i':
			out = append(out, []byte(fmt.Sprintf("%d", int32(arg)))...)
		case 'c':
			out = append(out, byte(arg))
		case 'f':
			out = append(out, []byte(fmt.Sprintf("%g", float32FromCell(arg)))...)
		case 's':
			s, serr := inst.GetString(arg, false, true, 0)
			if serr != nil {
				return 0, serr
			}
			out = append(out, []byte(s)...)
		default:
			out = append(out, '%', format[i])
		}
	}
	fmt.Print(string(out))
	return cell.Cell(len(out)), nil
}

// natStrlen implements `native strlen(const s[]);`.
func natStrlen(inst *amx.Instance, params []cell.Cell) (cell.Cell, error) {
	s, err := inst.GetString(params[0], false, true, 0)
	if err != nil {
		return 0, err
	}
	return cell.Cell(len(s)), nil
}

// natTickCount implements `native tickcount();` — milliseconds since
// the instance's host process started.
func natTickCount(_ *amx.Instance, _ []cell.Cell) (cell.Cell, error) {
	return cell.Cell(time.Since(startTime).Milliseconds()), nil
}

// natRandom implements `native random(max);` — uniform in [0, max).
func natRandom(_ *amx.Instance, params []cell.Cell) (cell.Cell, error) {
	max := int32(params[0])
	if max <= 0 {
		return 0, nil
	}
	return cell.Cell(rng.Int31n(max)), nil
}

var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

// float32FromCell reinterprets a cell as the IEEE-754 bit pattern Pawn
// uses to pass float arguments through the otherwise-integer stack.
func float32FromCell(c cell.Cell) float32 {
	return math.Float32frombits(uint32(c))
}

func init() {
	config.RegisterDirective("library", config.TypeOptions, registerLibrary)
}

// Requested accumulates, in config-file order, every library name named
// by a "library" directive; the host reads it after LoadConfigFile
// returns and resolves each name with Lookup.
var Requested []string

// registerLibrary handles the "library <name>[,opt...]" config
// directive. "core" is the only library this package knows about;
// knownLibraries is unexported, so any other name is rejected.
func registerLibrary(name string, _ []config.Option) error {
	if _, ok := knownLibraries[name]; !ok {
		return fmt.Errorf("unknown native library: %s", name)
	}
	Requested = append(Requested, name)
	return nil
}

var knownLibraries = map[string][]amx.NativeInfo{
	"core": Natives,
}

// Lookup returns the native table registered under name, for the host
// to pass to (*amx.Instance).Register.
func Lookup(name string) ([]amx.NativeInfo, bool) {
	list, ok := knownLibraries[name]
	return list, ok
}
