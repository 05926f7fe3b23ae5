// Copyright 2015 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package truetype

import (
	"github.com/goki/tthint/hinting"
	"golang.org/x/image/font"
	"seehuhn.de/go/geom/vec"
)

// verticalStretch widens the outline for vertical-only hinting, so that
// horizontal distances are far beyond anything the glyph program rounds.
const verticalStretch = 1000

// Options are optional arguments to NewHinter.
type Options struct {
	// Hinting is how to quantize the glyph nodes.
	//
	// A zero value means to use no hinting.
	Hinting font.Hinting

	// MaxSteps bounds the instructions a single program may execute.
	//
	// A zero value means to use the interpreter's default.
	MaxSteps int

	// TraceOpcodes traces every executed instruction.
	TraceOpcodes bool
}

func (o *Options) hinting() font.Hinting {
	if o != nil {
		switch o.Hinting {
		case font.HintingVertical, font.HintingFull:
			return o.Hinting
		}
	}
	return font.HintingNone
}

func (o *Options) interpreterOptions() *hinting.Options {
	if o == nil {
		return nil
	}
	return &hinting.Options{MaxSteps: o.MaxSteps, TraceOpcodes: o.TraceOpcodes}
}

// A Hinter scales glyphs to a pixel size and grid-fits them with the
// font's instructions. A Hinter is not safe for concurrent use.
type Hinter struct {
	font    *Font
	in      *hinting.Interpreter
	cvt     []int16
	mode    font.Hinting
	contour []int
}

// NewHinter returns a Hinter for the given Font. It runs the font program,
// and fails if that program faults.
func NewHinter(f *Font, opts *Options) (*Hinter, error) {
	h := &Hinter{
		font: f,
		mode: opts.hinting(),
	}
	if h.mode == font.HintingNone {
		return h, nil
	}
	h.in = hinting.NewInterpreter(f.Limits(), opts.interpreterOptions())
	h.cvt = f.CVT()
	if err := h.in.Initialize(f.FontProgram()); err != nil {
		return nil, err
	}
	return h, nil
}

// Mode returns the hinting mode.
func (h *Hinter) Mode() font.Hinting {
	return h.mode
}

// Interpreter returns the interpreter driven by h, or nil if h only scales.
func (h *Hinter) Interpreter() *hinting.Interpreter {
	return h.in
}

// Scale returns the FUnit to pixel scale for a size in pixels per em.
func (h *Hinter) Scale(ppem float64) float64 {
	return ppem / float64(h.font.UnitsPerEm())
}

// Hint scales a loaded glyph to ppem pixels per em, appends the four phantom
// points, and runs the glyph program, filling g.Unhinted and g.Hinted.
//
// A fault in the control value program is returned as an error. A fault in
// the glyph program is not: g.HintErr records it and g.Hinted falls back to
// the unhinted points.
func (h *Hinter) Hint(g *GlyphBuf, ppem float64) error {
	scale := h.Scale(ppem)
	g.Unhinted = g.Unhinted[:0]
	for _, p := range g.Point {
		g.Unhinted = append(g.Unhinted, hinting.Point{
			P:       vec.Vec2{X: float64(p.X) * scale, Y: float64(p.Y) * scale},
			OnCurve: p.Flags&flagOnCurve != 0,
		})
	}
	for _, p := range phantomPoints(g) {
		g.Unhinted = append(g.Unhinted, hinting.Point{P: p.Mul(scale)})
	}
	g.Hinted = append(g.Hinted[:0], g.Unhinted...)
	g.HintErr = nil
	if h.mode == font.HintingNone {
		return nil
	}
	if err := h.in.Configure(h.cvt, scale, ppem, h.font.ControlValueProgram()); err != nil {
		return err
	}

	h.contour = h.contour[:0]
	for _, end := range g.End {
		h.contour = append(h.contour, end-1)
	}
	if h.mode == font.HintingVertical {
		for i := range g.Hinted {
			g.Hinted[i].P.X *= verticalStretch
		}
	}
	err := h.in.HintGlyph(g.Hinted, h.contour, g.Instructions)
	if h.mode == font.HintingVertical {
		for i := range g.Hinted {
			g.Hinted[i].P.X /= verticalStretch
		}
	}
	if err != nil {
		tracer().Infof("glyph %d at %g ppem: %v, using the unhinted outline", g.Index, ppem, err)
		g.HintErr = err
		copy(g.Hinted, g.Unhinted)
	}
	return nil
}

// phantomPoints returns the four phantom points of a glyph in FUnits: the
// horizontal origin, the advance, and two vertical points at the top of the
// glyph's bounds.
func phantomPoints(g *GlyphBuf) [4]vec.Vec2 {
	pp1 := vec.Vec2{X: float64(g.B.XMin) - float64(g.HMetric.LeftSideBearing)}
	pp2 := pp1.Add(vec.Vec2{X: float64(g.HMetric.AdvanceWidth)})
	pp3 := vec.Vec2{Y: float64(g.B.YMax)}
	return [4]vec.Vec2{pp1, pp2, pp3, pp3}
}
