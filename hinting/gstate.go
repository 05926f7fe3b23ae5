// Copyright 2024 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hinting

import (
	"fmt"

	"seehuhn.de/go/geom/vec"
)

// A RoundMode selects how distances are rounded to the pixel grid.
type RoundMode uint8

const (
	RoundToGrid RoundMode = iota
	RoundToHalfGrid
	RoundToDoubleGrid
	RoundDownToGrid
	RoundUpToGrid
	RoundOff
	RoundSuper
	RoundSuper45
)

var roundModeNames = [...]string{
	"ToGrid", "ToHalfGrid", "ToDoubleGrid", "DownToGrid", "UpToGrid", "Off", "Super", "Super45",
}

func (m RoundMode) String() string {
	if int(m) < len(roundModeNames) {
		return roundModeNames[m]
	}
	return fmt.Sprintf("RoundMode(%d)", uint8(m))
}

// InstructionControl holds the flags set by INSTCTRL.
type InstructionControl uint8

const (
	// InhibitGridFitting disables glyph programs altogether.
	InhibitGridFitting InstructionControl = 1 << iota
	// UseDefaultGraphicsState makes glyph programs start from the default
	// graphics state instead of the one left by the control value program.
	UseDefaultGraphicsState
)

// Zone numbers as used by SZP0, SZP1, SZP2 and SZPS.
const (
	zoneTwilight = 0
	zoneGlyph    = 1
)

// GraphicsState is the interpreter state that instructions configure and
// that movement and measurement instructions consult. It is a plain value;
// the per-glyph baseline is a copy of it.
type GraphicsState struct {
	// Freedom is the direction points move in. Projection is the direction
	// distances are measured along. DualProjection is the projection vector
	// used with original point positions.
	Freedom, Projection, DualProjection vec.Vec2

	RoundState         RoundMode
	InstructionControl InstructionControl

	MinDistance       float64
	ControlValueCutIn float64
	SingleWidthCutIn  float64
	SingleWidthValue  float64

	DeltaBase  int32
	DeltaShift int32
	Loop       int32

	// Rp0, Rp1 and Rp2 are the reference point indices.
	Rp0, Rp1, Rp2 int32
	// Zp0, Zp1 and Zp2 select the zone (0 twilight, 1 glyph) the
	// corresponding point references refer to.
	Zp0, Zp1, Zp2 int32

	AutoFlip bool

	// SuperRound is the last SROUND or S45ROUND selector. The period, phase
	// and threshold derived from it are kept alongside.
	SuperRound int32

	roundPeriod, roundPhase, roundThreshold float64
}

var (
	unitX = vec.Vec2{X: 1}
	unitY = vec.Vec2{Y: 1}
)

// Reset sets gs to the default graphics state.
func (gs *GraphicsState) Reset() {
	*gs = GraphicsState{
		Freedom:           unitX,
		Projection:        unitX,
		DualProjection:    unitX,
		RoundState:        RoundToGrid,
		MinDistance:       1,
		ControlValueCutIn: 17.0 / 16.0,
		DeltaBase:         9,
		DeltaShift:        3,
		Loop:              1,
		Zp0:               zoneGlyph,
		Zp1:               zoneGlyph,
		Zp2:               zoneGlyph,
		AutoFlip:          true,
	}
}

// setSuperRound decodes an SROUND or S45ROUND selector. gridPeriod is 1 for
// SROUND and sqrt(2)/2 for S45ROUND. Bits 7-6 select the period, bits 5-4
// the phase and bits 3-0 the threshold.
func (gs *GraphicsState) setSuperRound(selector int32, gridPeriod float64) {
	var period float64
	switch selector & 0xc0 {
	case 0x00:
		period = gridPeriod / 2
	case 0x40:
		period = gridPeriod
	case 0x80:
		period = gridPeriod * 2
	default:
		fail("unknown rounding period multiplier in selector 0x%02x", selector)
	}
	gs.SuperRound = selector
	gs.roundPeriod = period

	switch selector & 0x30 {
	case 0x00:
		gs.roundPhase = 0
	case 0x10:
		gs.roundPhase = period / 4
	case 0x20:
		gs.roundPhase = period / 2
	case 0x30:
		gs.roundPhase = period * 3 / 4
	}

	// A zero threshold field means one 26.6 unit short of the period.
	if selector&0x0f == 0 {
		gs.roundThreshold = period - 1.0/64
	} else {
		gs.roundThreshold = float64((selector&0x0f)-4) * period / 8
	}
}
