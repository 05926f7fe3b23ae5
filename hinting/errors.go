// Copyright 2024 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hinting

import (
	"fmt"
	"runtime"
)

// An InvalidFontError reports that a font program is malformed or asks for
// something this interpreter cannot do: stack discipline violations, bad
// indices, division by zero, misplaced function definitions, runaway
// recursion or unknown opcodes.
type InvalidFontError string

func (e InvalidFontError) Error() string {
	return "hinting: invalid font program: " + string(e)
}

// fail aborts the running program. The panic is turned back into an error
// by catch.
func fail(format string, args ...interface{}) {
	panic(InvalidFontError(fmt.Sprintf(format, args...)))
}

// catch is deferred at every program run boundary. It stores an aborted
// program's InvalidFontError in *err. Runtime errors, typically an index
// out of range, count as invalid font data too. Anything else keeps
// panicking.
func catch(err *error) {
	r := recover()
	if r == nil {
		return
	}
	switch e := r.(type) {
	case InvalidFontError:
		*err = e
	case runtime.Error:
		*err = InvalidFontError(e.Error())
	default:
		panic(r)
	}
}
