/*
 * amx - Native function registry
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

// Register binds host functions to the module's native table by name
// (amx_Register). Registration is additive across calls: entries the
// list doesn't name keep whatever binding they already have, names the
// table doesn't import are ignored, and an entry still unbound when the
// module calls it surfaces ErrNotFound at call time. Once every native
// entry is bound, FlagNtvReg is set; the SYSREQ handlers do not read it
// and check each slot's binding when it is called.
func (inst *Instance) Register(list []NativeInfo) error {
	byName := make(map[string]NativeFunc, len(list))
	for _, n := range list {
		byName[n.Name] = n.Func
	}
	allBound := true
	for i := range inst.natives {
		if fn, ok := byName[inst.natives[i].name]; ok {
			inst.natives[i].fn = fn
		}
		if inst.natives[i].fn == nil {
			allBound = false
		}
	}
	if allBound {
		inst.flags |= FlagNtvReg
	}
	return nil
}

// NumNatives reports the module's native table length (amx_NumNatives).
func (inst *Instance) NumNatives() int { return len(inst.natives) }

// GetNative returns the name of the native at index (amx_GetNative).
func (inst *Instance) GetNative(index int) (string, error) {
	if index < 0 || index >= len(inst.natives) {
		return "", fmt.Errorf("amx: %w: native index %d out of range", ErrIndex, index)
	}
	return inst.natives[index].name, nil
}

// FindNative resolves a native's table index by name (amx_FindNative).
func (inst *Instance) FindNative(name string) (int, error) {
	for i, n := range inst.natives {
		if n.name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("amx: %w: native %q not found", ErrNotFound, name)
}
