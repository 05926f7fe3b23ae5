// Copyright 2024 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hinting

import (
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"seehuhn.de/go/geom/vec"
)

// --- Test Suite Preparation ------------------------------------------------

type GlyphTestEnviron struct {
	suite.Suite
	in *Interpreter
}

func TestGlyphPrograms(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tthint.hinting")
	defer teardown()
	suite.Run(t, new(GlyphTestEnviron))
}

func (env *GlyphTestEnviron) SetupSuite() {
	tracer().SetTraceLevel(tracing.LevelInfo)
}

// Every test starts with an interpreter at 12 ppem whose control value
// table is [1, 2] pixels.
func (env *GlyphTestEnviron) SetupTest() {
	env.in = NewInterpreter(testLimits, &Options{TraceOpcodes: true})
	env.Require().NoError(env.in.Initialize(nil))
	env.Require().NoError(env.in.Configure([]int16{10, 20}, 0.1, 12, nil))
}

// outline makes glyph points from x, y pairs and appends the four phantom
// points at the origin.
func outline(coords ...float64) []Point {
	var pts []Point
	for i := 0; i+1 < len(coords); i += 2 {
		pts = append(pts, Point{P: vec.Vec2{X: coords[i], Y: coords[i+1]}, OnCurve: true})
	}
	return append(pts, make([]Point, 4)...)
}

func (env *GlyphTestEnviron) xs(pts []Point) []float64 {
	var x []float64
	for _, p := range pts {
		x = append(x, p.P.X)
	}
	return x
}

func (env *GlyphTestEnviron) assertXs(want []float64, pts []Point) {
	got := env.xs(pts)
	env.Require().Len(got, len(want))
	for i := range want {
		env.InDelta(want[i], got[i], 1e-9, "x of point %d", i)
	}
}

// --- Tests -----------------------------------------------------------------

func (env *GlyphTestEnviron) TestMPPEM() {
	in := NewInterpreter(testLimits, nil)
	env.Require().NoError(in.Initialize(nil))
	env.Require().NoError(in.Configure(nil, 1, 64, nil))
	err := in.HintGlyph(outline(), nil, []byte{opPUSHB000, 64, opMPPEM, opPOP})
	env.NoError(err)
	env.Equal([]int32{64}, stackOf(in))
	env.Equal(64, in.PPEM())
}

func (env *GlyphTestEnviron) TestLoopCallNoop() {
	in := NewInterpreter(testLimits, nil)
	err := in.Initialize([]byte{
		opPUSHB000, 0,
		opFDEF,
		opENDF,
		opPUSHB001, 3, 0,
		opLOOPCALL,
	})
	env.NoError(err)
	env.Zero(in.StackDepth())
}

func (env *GlyphTestEnviron) TestEmptyProgram() {
	pts := outline(0.3, 0)
	env.NoError(env.in.HintGlyph(pts, []int{0}, nil))
	env.assertXs([]float64{0.3, 0, 0, 0, 0}, pts)
}

func (env *GlyphTestEnviron) TestBadContours() {
	pts := outline(0, 0, 1, 0)
	env.Error(env.in.HintGlyph(pts, []int{1, 1}, []byte{opIUP1}))
	env.Error(env.in.HintGlyph(pts, []int{9}, []byte{opIUP1}))
}

func (env *GlyphTestEnviron) TestIUPNoTouchedPoints() {
	pts := outline(0.3, 0, 10.3, 0, 10.3, 10, 0.3, 10)
	env.NoError(env.in.HintGlyph(pts, []int{3}, []byte{opIUP1, opIUP0}))
	env.assertXs([]float64{0.3, 10.3, 10.3, 0.3, 0, 0, 0, 0}, pts)
}

func (env *GlyphTestEnviron) TestIUPOneTouchedPoint() {
	pts := outline(0.3, 0, 10.3, 0, 10.3, 10, 0.3, 10)
	err := env.in.HintGlyph(pts, []int{3}, []byte{
		opSVTCA1,
		opPUSHB000, 0,
		opMDAP1, // point 0 rounds from 0.3 to 0
		opIUP1,
	})
	env.Require().NoError(err)
	env.assertXs([]float64{0, 10, 10, 0, 0, 0, 0, 0}, pts)
	for _, p := range pts[:4] {
		env.Contains([]float64{0, 10}, p.P.Y, "y must not move")
	}
}

func (env *GlyphTestEnviron) TestIUPInterpolation() {
	pts := outline(0, 0, 2.5, 0, 5, 0, 7, 0)
	err := env.in.HintGlyph(pts, []int{2, 3}, []byte{
		opSVTCA1,
		opPUSHB001, 2, 64,
		opSHPIX, // point 2 moves right by one pixel
		opPUSHB001, 0, 0,
		opSHPIX, // point 0 is touched without moving
		opIUP1,
	})
	env.Require().NoError(err)
	env.assertXs([]float64{0, 3, 6, 7, 0, 0, 0, 0}, pts)
}

func (env *GlyphTestEnviron) TestMDRPMinimumDistance() {
	for _, flags := range []byte{flagMinDistance, flagMinDistance | flagRound} {
		for d := -3.0; d <= 3.0; d += 0.125 {
			pts := outline(0, 0, d, 0)
			err := env.in.HintGlyph(pts, []int{1}, []byte{
				opSVTCA1,
				opPUSHB000, 0,
				opSRP0,
				opPUSHB000, 1,
				opMDRP00000 | flags,
			})
			env.Require().NoError(err)
			x := pts[1].P.X
			if d >= 0 {
				env.GreaterOrEqual(x, 1.0, "MDRP[%05b] from %g", flags, d)
			} else {
				env.LessOrEqual(x, -1.0, "MDRP[%05b] from %g", flags, d)
			}
		}
	}
}

func (env *GlyphTestEnviron) TestMIRPMinimumDistance() {
	for _, flags := range []byte{flagMinDistance, flagMinDistance | flagRound} {
		for d := -3.0; d <= 3.0; d += 0.125 {
			pts := outline(0, 0, d, 0)
			err := env.in.HintGlyph(pts, []int{1}, []byte{
				opSVTCA1,
				opPUSHB000, 0,
				opSRP0,
				opPUSHB001, 1, 0,
				opMIRP00000 | flags,
			})
			env.Require().NoError(err)
			x := pts[1].P.X
			if d >= 0 {
				env.GreaterOrEqual(x, 1.0, "MIRP[%05b] from %g", flags, d)
			} else {
				env.LessOrEqual(x, -1.0, "MIRP[%05b] from %g", flags, d)
			}
		}
	}
}

func (env *GlyphTestEnviron) TestMIRPUsesControlValue() {
	pts := outline(0, 0, 0.4, 0)
	err := env.in.HintGlyph(pts, []int{1}, []byte{
		opSVTCA1,
		opPUSHB000, 0,
		opSRP0,
		opPUSHB001, 1, 0,
		opMIRP00000 | flagRound | flagSetRp0,
		opPUSHB000, 0, // rp0 is now 1, so this aligns point 0 with it
		opALIGNRP,
	})
	env.Require().NoError(err)
	env.assertXs([]float64{1, 1, 0, 0, 0, 0}, pts)
}

func (env *GlyphTestEnviron) TestInterpolatePoint() {
	pts := outline(0, 0, 10, 0, 5, 0)
	err := env.in.HintGlyph(pts, []int{2}, []byte{
		opSVTCA1,
		opPUSHB001, 1, 128,
		opSHPIX, // point 1 moves from 10 to 12
		opPUSHB000, 0,
		opSRP1,
		opPUSHB000, 1,
		opSRP2,
		opPUSHB000, 2,
		opIP,
	})
	env.Require().NoError(err)
	env.assertXs([]float64{0, 12, 6, 0, 0, 0, 0}, pts)
}

func (env *GlyphTestEnviron) TestIntersect() {
	pts := outline(0, 0, 2, 2, 0, 2, 2, 0, 5, 5)
	err := env.in.HintGlyph(pts, []int{4}, []byte{
		opPUSHB100, 4, 0, 1, 2, 3,
		opISECT,
	})
	env.Require().NoError(err)
	env.InDelta(1.0, pts[4].P.X, 1e-9)
	env.InDelta(1.0, pts[4].P.Y, 1e-9)
	env.Equal(TouchBoth, env.in.glyph.touch[4])
}

func (env *GlyphTestEnviron) TestIntersectParallel() {
	pts := outline(0, 0, 2, 0, 0, 2, 2, 2, 5, 5)
	err := env.in.HintGlyph(pts, []int{4}, []byte{
		opPUSHB100, 4, 0, 1, 2, 3,
		opISECT,
	})
	env.Require().NoError(err)
	env.InDelta(1.0, pts[4].P.X, 1e-9)
	env.InDelta(1.0, pts[4].P.Y, 1e-9)
}

func (env *GlyphTestEnviron) TestShiftContour() {
	pts := outline(0, 0, 1, 0, 5, 0, 6, 0)
	err := env.in.HintGlyph(pts, []int{1, 3}, []byte{
		opSVTCA1,
		opPUSHB001, 0, 64,
		opSHPIX, // point 0 moves by one pixel
		opPUSHB000, 0,
		opSRP1,
		opPUSHB000, 1,
		opSHC1, // the second contour follows point 0
	})
	env.Require().NoError(err)
	env.assertXs([]float64{1, 1, 6, 7, 0, 0, 0, 0}, pts)
}

func (env *GlyphTestEnviron) TestFlipPoints() {
	pts := outline(0, 0, 1, 0, 2, 0)
	err := env.in.HintGlyph(pts, []int{2}, []byte{
		opPUSHB001, 0, 2,
		opFLIPRGOFF,
		opPUSHB000, 1,
		opFLIPPT,
	})
	env.Require().NoError(err)
	env.False(pts[0].OnCurve)
	env.True(pts[1].OnCurve)
	env.False(pts[2].OnCurve)

	// zp0 does not redirect flips to the twilight zone
	pts = outline(0, 0, 1, 0, 2, 0)
	err = env.in.HintGlyph(pts, []int{2}, []byte{
		opPUSHB000, 0,
		opSZP0,
		opPUSHB000, 2,
		opFLIPPT,
	})
	env.Require().NoError(err)
	env.True(pts[1].OnCurve)
	env.False(pts[2].OnCurve)
}

func (env *GlyphTestEnviron) TestDeltaP() {
	pts := outline(0, 0, 1, 0)
	err := env.in.HintGlyph(pts, []int{1}, []byte{
		opSVTCA1,
		opPUSHB100, 0x3f, 1, 0x4f, 0, 2, // two exceptions, only the first at 12 ppem
		opDELTAP1,
	})
	env.Require().NoError(err)
	env.assertXs([]float64{0, 2, 0, 0, 0, 0}, pts)
}

func (env *GlyphTestEnviron) TestDeltaShiftOutOfRange() {
	pts := outline(0, 0)
	err := env.in.HintGlyph(pts, []int{0}, []byte{
		opPUSHB000, 7,
		opSDS,
		opPUSHB010, 0x3f, 0, 1,
		opDELTAP1,
	})
	env.Error(err)
}

func (env *GlyphTestEnviron) TestDeltaC() {
	in := NewInterpreter(testLimits, nil)
	env.Require().NoError(in.Initialize(nil))
	env.Require().NoError(in.Configure([]int16{10}, 0.1, 12, []byte{
		opPUSHB010, 0x38, 0, 1, // +1/8 pixel on control value 0
		opDELTAC1,
	}))
	env.InDelta(1.125, in.CVT()[0], 1e-9)
}

func (env *GlyphTestEnviron) TestFaultKeepsPartialMovement() {
	pts := outline(0.3, 0)
	err := env.in.HintGlyph(pts, []int{0}, []byte{
		opSVTCA1,
		opPUSHB000, 0,
		opMDAP1,
		opPOP,
	})
	env.Error(err)
	env.IsType(InvalidFontError(""), err)
	env.InDelta(0.0, pts[0].P.X, 1e-9)
}

func (env *GlyphTestEnviron) TestBaselineRestoredPerGlyph() {
	in := NewInterpreter(testLimits, nil)
	env.Require().NoError(in.Initialize(nil))
	env.Require().NoError(in.Configure(nil, 1, 12, []byte{
		opPUSHB000, 128,
		opSMD,
		opRDTG,
	}))
	env.Equal(2.0, in.Baseline().MinDistance)
	env.Equal(RoundDownToGrid, in.Baseline().RoundState)

	env.Require().NoError(in.HintGlyph(outline(), nil, []byte{opRTG}))
	env.Require().NoError(in.HintGlyph(outline(), nil, []byte{opPUSHB000, 127, opROUND00}))
	env.Equal([]int32{64}, stackOf(in))
}

func (env *GlyphTestEnviron) TestSuperRoundFromControlValueProgram() {
	in := NewInterpreter(testLimits, nil)
	env.Require().NoError(in.Initialize(nil))
	env.Require().NoError(in.Configure(nil, 1, 12, []byte{
		opPUSHB000, 0x48, // period 1, phase 0, threshold 1/2
		opSROUND,
	}))
	env.Equal(RoundSuper, in.Baseline().RoundState)
	env.Equal(int32(0x48), in.Baseline().SuperRound)

	env.Require().NoError(in.HintGlyph(outline(), nil, []byte{opPUSHB000, 80, opROUND00}))
	env.Equal([]int32{64}, stackOf(in))
	env.Require().NoError(in.HintGlyph(outline(), nil, []byte{opPUSHB000, 100, opROUND00}))
	env.Equal([]int32{128}, stackOf(in))
}

func (env *GlyphTestEnviron) TestUseDefaultGraphicsState() {
	in := NewInterpreter(testLimits, nil)
	env.Require().NoError(in.Initialize(nil))
	env.Require().NoError(in.Configure(nil, 1, 12, []byte{
		opPUSHB000, 128,
		opSMD,
		opPUSHB001, 1, 2,
		opINSTCTRL,
	}))
	env.Equal(1.0, in.Baseline().MinDistance)
}

func (env *GlyphTestEnviron) TestInhibitGridFitting() {
	in := NewInterpreter(testLimits, nil)
	env.Require().NoError(in.Initialize(nil))
	env.Require().NoError(in.Configure(nil, 1, 12, []byte{
		opPUSHB001, 1, 1,
		opINSTCTRL,
	}))
	pts := outline(0.3, 0)
	env.NoError(in.HintGlyph(pts, []int{0}, []byte{opSVTCA1, opPUSHB000, 0, opMDAP1}))
	env.InDelta(0.3, pts[0].P.X, 1e-9)
}

func (env *GlyphTestEnviron) TestConfigureMemoizedByScale() {
	bad := []byte{opPOP}
	env.NoError(env.in.Configure([]int16{10, 20}, 0.1, 12, bad))
	env.Error(env.in.Configure([]int16{10, 20}, 0.2, 24, bad))
}

func (env *GlyphTestEnviron) TestTwilightSetup() {
	in := NewInterpreter(testLimits, nil)
	env.Require().NoError(in.Initialize(nil))
	env.Require().NoError(in.Configure([]int16{10, 20}, 0.1, 12, []byte{
		opPUSHB000, 0,
		opSZP0,
		opSVTCA1,
		opPUSHB001, 0, 1,
		opMIAP0, // twilight point 0 at control value 1
	}))
	env.InDelta(2.0, in.twilight.cur(0).X, 1e-9)
	env.InDelta(2.0, in.twilight.orig(0).X, 1e-9)
	env.Equal(int32(zoneGlyph), in.Baseline().Zp0, "glyph programs start in the glyph zone")
}

func (env *GlyphTestEnviron) TestTwilightMDAP() {
	in := NewInterpreter(testLimits, nil)
	env.Require().NoError(in.Initialize(nil))
	env.Require().NoError(in.Configure(nil, 1, 12, []byte{
		opPUSHB000, 0,
		opSZPS,
		opSVTCA1,
		opPUSHB001, 0, 40,
		opSHPIX, // twilight point 0 moves to 0.625, its original stays at 0
		opPUSHB000, 0,
		opMDAP1, // rounds to 1
	}))
	env.InDelta(1.0, in.twilight.cur(0).X, 1e-9)
	env.InDelta(1.0, in.twilight.orig(0).X, 1e-9)
}

func (env *GlyphTestEnviron) TestVectors() {
	pts := outline(0, 0, 3, 4)
	err := env.in.HintGlyph(pts, []int{1}, []byte{
		opPUSHB001, 1, 0,
		opSPVTL0,
		opGPV,
		opPUSHB001, 1, 0,
		opSFVTL1,
		opGFV,
	})
	env.Require().NoError(err)
	env.Equal([]int32{
		FloatToF2Dot14(0.6), FloatToF2Dot14(0.8),
		FloatToF2Dot14(-0.8), FloatToF2Dot14(0.6),
	}, stackOf(env.in))
}

func (env *GlyphTestEnviron) TestMeasureDistance() {
	pts := outline(0, 0, 3, 4)
	err := env.in.HintGlyph(pts, []int{1}, []byte{
		opSVTCA1,
		opPUSHB001, 1, 64,
		opSHPIX, // point 1 moves from 3 to 4
		opPUSHB001, 1, 0,
		opMD1, // current distance
		opPUSHB001, 1, 0,
		opMD0, // original distance
		opPUSHB000, 1,
		opGC0,
	})
	env.Require().NoError(err)
	env.Equal([]int32{256, 192, 256}, stackOf(env.in))
}
