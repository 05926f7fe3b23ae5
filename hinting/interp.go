// Copyright 2024 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hinting

import (
	"math"
)

// maxCallStack bounds the nesting of CALL, LOOPCALL and instruction
// definitions.
const maxCallStack = 128

// Limits are the resource maxima a font declares in its "maxp" table.
type Limits struct {
	MaxStackElements   int
	MaxStorage         int
	MaxFunctionDefs    int
	MaxInstructionDefs int
	MaxTwilightPoints  int
}

// Options are optional arguments to NewInterpreter.
type Options struct {
	// MaxSteps is the number of instructions a single program run may
	// execute, counting those run inside called functions.
	//
	// A zero value means 1000000.
	MaxSteps int

	// TraceOpcodes traces every executed instruction when the
	// 'tthint.hinting' tracer is at debug level.
	TraceOpcodes bool
}

func (o *Options) maxSteps() int {
	if o != nil && o.MaxSteps > 0 {
		return o.MaxSteps
	}
	return 1000000
}

func (o *Options) traceOpcodes() bool {
	return o != nil && o.TraceOpcodes
}

// An Interpreter runs a typeface's TrueType instructions. It holds the
// execution stack, the graphics state, both zones, the storage area, the
// scaled control value table and the function definitions.
type Interpreter struct {
	stack     stack
	storage   []int32
	functions []stream
	idefs     []stream
	cvt       []float64

	// gs is the working graphics state. baseline is what the control value
	// program left behind, copied into gs before each glyph program.
	gs, baseline GraphicsState
	inhibit      bool

	twilight, glyph *zone
	contours        []int

	scale      float64
	ppem       int32
	configured bool

	// fdotp is the dot product of the freedom and projection vectors,
	// never zero.
	fdotp float64

	callDepth int
	steps     int
	maxSteps  int
	traceOps  bool
}

// NewInterpreter returns an Interpreter sized by the given limits.
func NewInterpreter(limits Limits, opts *Options) *Interpreter {
	in := &Interpreter{
		stack:     newStack(limits.MaxStackElements),
		storage:   make([]int32, limits.MaxStorage),
		functions: make([]stream, limits.MaxFunctionDefs),
		twilight:  newZone(make([]Point, limits.MaxTwilightPoints), true),
		glyph:     newZone(nil, false),
		maxSteps:  opts.maxSteps(),
		traceOps:  opts.traceOpcodes(),
	}
	if limits.MaxInstructionDefs > 0 {
		in.idefs = make([]stream, 256)
	}
	in.gs.Reset()
	in.baseline.Reset()
	in.onVectorsUpdated()
	return in
}

// Initialize runs the font program, which defines the functions and
// instructions later programs call. It does not touch any glyph.
func (in *Interpreter) Initialize(fpgm []byte) (err error) {
	tracer().Debugf("running font program, %d bytes", len(fpgm))
	defer func() {
		if err != nil {
			tracer().Errorf("font program: %v", err)
		}
	}()
	defer catch(&err)
	in.resetRun()
	in.execute(stream{code: fpgm}, false, true)
	return nil
}

// Configure prepares the interpreter for a pixel size. cvt holds the
// unscaled control values in font units, scale converts font units to
// pixels and ppem is the size in pixels per em. The control value program
// prep then runs, and the graphics state it leaves is the baseline every
// glyph program starts from.
//
// Calling Configure again with an unchanged scale does nothing.
func (in *Interpreter) Configure(cvt []int16, scale, ppem float64, prep []byte) (err error) {
	if in.configured && in.scale == scale {
		return nil
	}
	tracer().Debugf("configuring for scale %g, %g ppem, control value program %d bytes", scale, ppem, len(prep))
	defer func() {
		if err != nil {
			tracer().Errorf("control value program: %v", err)
		}
	}()
	defer catch(&err)

	if cap(in.cvt) < len(cvt) {
		in.cvt = make([]float64, len(cvt))
	}
	in.cvt = in.cvt[:len(cvt)]
	for i, v := range cvt {
		in.cvt[i] = float64(v) * scale
	}
	in.scale = scale
	in.ppem = int32(math.RoundToEven(ppem))
	in.configured = false

	in.glyph = newZone(nil, false)
	in.contours = nil
	in.gs.Reset()
	in.resetRun()
	in.execute(stream{code: prep}, false, false)

	in.inhibit = in.gs.InstructionControl&InhibitGridFitting != 0
	if in.gs.InstructionControl&UseDefaultGraphicsState != 0 {
		in.baseline.Reset()
	} else {
		in.baseline = in.gs
		in.baseline.Freedom = unitX
		in.baseline.Projection = unitX
		in.baseline.DualProjection = unitX
		in.baseline.Loop = 1
		in.baseline.Zp0, in.baseline.Zp1, in.baseline.Zp2 = zoneGlyph, zoneGlyph, zoneGlyph
	}
	in.configured = true
	tracer().Debugf("baseline: round %v, min distance %g, cut-in %g, inhibit %v",
		in.baseline.RoundState, in.baseline.MinDistance, in.baseline.ControlValueCutIn, in.inhibit)
	return nil
}

// HintGlyph runs a glyph program. points holds the glyph's scaled outline
// points followed by its four phantom points; they are moved in place.
// contours holds the index of the last point of each contour.
//
// If the program faults, the points keep whatever movement happened before
// the fault and the error is returned.
func (in *Interpreter) HintGlyph(points []Point, contours []int, instructions []byte) (err error) {
	if len(instructions) == 0 || in.inhibit {
		return nil
	}
	prev := -1
	for _, end := range contours {
		if end <= prev || end >= len(points) {
			return InvalidFontError("bad contour end point")
		}
		prev = end
	}
	defer catch(&err)

	in.contours = contours
	in.glyph = newZone(points, false)
	in.gs = in.baseline
	in.gs.Zp0, in.gs.Zp1, in.gs.Zp2 = zoneGlyph, zoneGlyph, zoneGlyph
	in.resetRun()

	switch in.gs.RoundState {
	case RoundSuper:
		in.gs.setSuperRound(in.gs.SuperRound, 1)
	case RoundSuper45:
		in.gs.setSuperRound(in.gs.SuperRound, math.Sqrt2/2)
	}

	in.execute(stream{code: instructions}, false, false)
	return nil
}

// resetRun clears the per-run state before a program starts.
func (in *Interpreter) resetRun() {
	in.stack.clear()
	in.callDepth = 0
	in.steps = 0
	in.onVectorsUpdated()
}

// Baseline returns the graphics state glyph programs start from.
func (in *Interpreter) Baseline() GraphicsState {
	return in.baseline
}

// PPEM returns the configured size in pixels per em.
func (in *Interpreter) PPEM() int {
	return int(in.ppem)
}

// Scale returns the configured font unit to pixel scale.
func (in *Interpreter) Scale() float64 {
	return in.scale
}

// CVT returns a copy of the scaled control value table.
func (in *Interpreter) CVT() []float64 {
	return append([]float64(nil), in.cvt...)
}

// StackDepth returns the number of elements left on the stack by the last
// program run.
func (in *Interpreter) StackDepth() int {
	return in.stack.depth()
}

// Storage returns a copy of the storage area.
func (in *Interpreter) Storage() []int32 {
	return append([]int32(nil), in.storage...)
}
