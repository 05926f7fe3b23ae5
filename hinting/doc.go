// Copyright 2024 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

/*
Package hinting implements a TrueType bytecode interpreter, the virtual
machine that runs a font's embedded instructions to grid-fit glyph outlines
at a given pixel size.

An Interpreter is bound to one typeface. Call Initialize once with the
font program ("fpgm"), Configure whenever the pixel size changes with the
control value table and the control value program ("prep"), and HintGlyph
for each glyph with its scaled points, contour end indices and
instructions.

The instruction set is documented at
https://learn.microsoft.com/en-us/typography/opentype/spec/tt_instructions
and https://developer.apple.com/fonts/TrueType-Reference-Manual/RM05/Chap5.html

An Interpreter is not safe for concurrent use. Use one per goroutine.
*/
package hinting

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'tthint.hinting'
func tracer() tracing.Trace {
	return tracing.Select("tthint.hinting")
}
