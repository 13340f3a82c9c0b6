/*
 * amx - Configuration file parser test set.
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

package configparser

import "testing"

var (
	testArg     string
	testType    string
	testOptions []Option
)

func resetTest() {
	testArg = "error"
	testType = ""
	testOptions = nil
}

func cleanUpConfig() {
	directives = map[string]directiveDef{}
	LibraryList = nil
	resetTest()
}

func recordOption(arg string, options []Option) error {
	testArg = arg
	testType = "option"
	testOptions = options
	return nil
}

func recordOptions(arg string, options []Option) error {
	testArg = arg
	testType = "options"
	testOptions = options
	return nil
}

func recordSwitch(arg string, options []Option) error {
	testArg = arg
	testType = "switch"
	testOptions = options
	return nil
}

func TestRegisterDirective(t *testing.T) {
	cleanUpConfig()

	RegisterDirective("module", TypeOption, recordOption)
	if err := createOption("bogus", "x"); err == nil {
		t.Errorf("createOption matched an unregistered directive")
	}
	if err := createOption("module", "game.amx"); err != nil {
		t.Errorf("createOption: unexpected error: %v", err)
	}
	if testArg != "game.amx" {
		t.Errorf("createOption arg = %q, want %q", testArg, "game.amx")
	}
	if err := createSwitch("module"); err == nil {
		t.Errorf("createSwitch accepted a TypeOption directive")
	}
}

func TestRegisterSwitch(t *testing.T) {
	cleanUpConfig()

	RegisterDirective("trace", TypeSwitch, recordSwitch)
	if err := createSwitch("missing"); err == nil {
		t.Errorf("createSwitch matched an unregistered directive")
	}
	if err := createSwitch("trace"); err != nil {
		t.Errorf("createSwitch: unexpected error: %v", err)
	}
	if err := createOption("trace", "x"); err == nil {
		t.Errorf("createOption accepted a TypeSwitch directive")
	}
}

func TestParseLineSwitch(t *testing.T) {
	cleanUpConfig()
	RegisterDirective("trace", TypeSwitch, recordSwitch)

	line := optionLine{line: "trace"}
	if err := line.parseLine(); err != nil {
		t.Errorf("parseLine: unexpected error: %v", err)
	}
	if testType != "switch" {
		t.Errorf("parseLine did not dispatch the switch directive")
	}

	resetTest()
	line = optionLine{line: "trace   # enable opcode tracing"}
	if err := line.parseLine(); err != nil {
		t.Errorf("parseLine with trailing comment: unexpected error: %v", err)
	}
	if testType != "switch" {
		t.Errorf("parseLine with comment did not dispatch the switch directive")
	}

	resetTest()
	line = optionLine{line: "trace extra"}
	if err := line.parseLine(); err == nil {
		t.Errorf("parseLine accepted an argument on a switch directive")
	}
}

func TestParseLineOption(t *testing.T) {
	cleanUpConfig()
	RegisterDirective("module", TypeOption, recordOption)

	line := optionLine{line: "module"}
	if err := line.parseLine(); err == nil {
		t.Errorf("parseLine accepted an option directive with no argument")
	}

	resetTest()
	line = optionLine{line: "module game.amx   # the cart to run"}
	if err := line.parseLine(); err != nil {
		t.Errorf("parseLine: unexpected error: %v", err)
	}
	if testArg != "game.amx" {
		t.Errorf("parseLine arg = %q, want %q", testArg, "game.amx")
	}
	if len(testOptions) != 0 {
		t.Errorf("parseLine gave an option directive trailing options")
	}
}

func TestParseLineOptionsComma(t *testing.T) {
	cleanUpConfig()
	RegisterDirective("library", TypeOptions, recordOptions)

	line := optionLine{line: "library core,debug,trace # two flags"}
	if err := line.parseLine(); err != nil {
		t.Errorf("parseLine: unexpected error: %v", err)
	}
	if testArg != "core" {
		t.Errorf("parseLine arg = %q, want %q", testArg, "core")
	}
	if len(testOptions) != 2 {
		t.Fatalf("parseLine gave %d options, want 2", len(testOptions))
	}
	if testOptions[0].Name != "debug" || testOptions[1].Name != "trace" {
		t.Errorf("parseLine options = %+v, want [debug trace]", testOptions)
	}
}

func TestParseLineOptionsEqualQuoted(t *testing.T) {
	cleanUpConfig()
	RegisterDirective("library", TypeOptions, recordOptions)

	line := optionLine{line: `library core,path="a long path",trace`}
	if err := line.parseLine(); err != nil {
		t.Errorf("parseLine: unexpected error: %v", err)
	}
	if len(testOptions) != 2 {
		t.Fatalf("parseLine gave %d options, want 2", len(testOptions))
	}
	if testOptions[0].Name != "path" || testOptions[0].EqualOpt != "a long path" {
		t.Errorf("parseLine option[0] = %+v, want {path \"a long path\"}", testOptions[0])
	}
	if testOptions[1].Name != "trace" {
		t.Errorf("parseLine option[1].Name = %q, want %q", testOptions[1].Name, "trace")
	}
}

func TestParseUintArg(t *testing.T) {
	v, err := ParseUintArg("0x1f")
	if err != nil || v != 0x1f {
		t.Errorf("ParseUintArg(0x1f) = (%d, %v), want (31, nil)", v, err)
	}
	v, err = ParseUintArg("42")
	if err != nil || v != 42 {
		t.Errorf("ParseUintArg(42) = (%d, %v), want (42, nil)", v, err)
	}
	if _, err := ParseUintArg("notanumber"); err == nil {
		t.Errorf("ParseUintArg accepted a non-numeric argument")
	}
}
