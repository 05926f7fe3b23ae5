// Copyright 2024 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hinting

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/math/fixed"
)

func TestFixedRoundTrip(t *testing.T) {
	for x := fixed.Int26_6(-5000); x <= 5000; x++ {
		if got := FloatToF26Dot6(F26Dot6ToFloat(x)); got != x {
			t.Fatalf("26.6 round trip of %d: got %d", x, got)
		}
	}
	for x := int32(math.MinInt16); x <= math.MaxInt16; x++ {
		if got := FloatToF2Dot14(F2Dot14ToFloat(x)); got != x {
			t.Fatalf("2.14 round trip of %d: got %d", x, got)
		}
	}
	assert.Equal(t, 1.0, F2Dot14ToFloat(0x4000))
	assert.Equal(t, -1.0, F2Dot14ToFloat(0xc000))
	assert.Equal(t, -0.5, F26Dot6ToFloat(-32))
}

func roundingState(m RoundMode) GraphicsState {
	var gs GraphicsState
	gs.Reset()
	gs.RoundState = m
	switch m {
	case RoundSuper:
		gs.setSuperRound(0x48, 1)
	case RoundSuper45:
		gs.setSuperRound(0x58, math.Sqrt2/2)
	}
	return gs
}

func assertIdempotent(t *testing.T, gs GraphicsState, desc string) {
	t.Helper()
	for v := -5.0; v <= 5.0; v += 1.0 / 128 {
		r := gs.Round(v)
		if rr := gs.Round(r); math.Abs(rr-r) > 1e-9 {
			t.Errorf("%s: Round(%g) = %g, but Round(%g) = %g", desc, v, r, r, rr)
		}
	}
}

func TestRoundIdempotent(t *testing.T) {
	for m := RoundToGrid; m <= RoundSuper45; m++ {
		assertIdempotent(t, roundingState(m), m.String())
	}
	for _, selector := range []int32{0x00, 0x40, 0x48, 0x58, 0x80} {
		gs := roundingState(RoundSuper)
		gs.setSuperRound(selector, 1)
		assertIdempotent(t, gs, fmt.Sprintf("SROUND 0x%02x", selector))
	}
}

func TestRoundToGrid(t *testing.T) {
	gs := roundingState(RoundToGrid)
	assert.Equal(t, 1.0, gs.Round(1.3))
	assert.Equal(t, -1.0, gs.Round(-1.3))
	assert.Equal(t, 2.0, gs.Round(1.7))
	assert.Equal(t, -2.0, gs.Round(-1.7))
}

func TestRoundModes(t *testing.T) {
	tests := []struct {
		mode RoundMode
		in   float64
		want float64
	}{
		{RoundToHalfGrid, 1.2, 1.5},
		{RoundToHalfGrid, -1.2, -1.5},
		{RoundToDoubleGrid, 1.3, 1.5},
		{RoundToDoubleGrid, 1.2, 1.0},
		{RoundDownToGrid, 1.9, 1.0},
		{RoundDownToGrid, -1.9, -1.0},
		{RoundUpToGrid, 1.1, 2.0},
		{RoundUpToGrid, -1.1, -2.0},
		{RoundOff, -1.1, -1.1},
		{RoundSuper, 1.25, 1.0},
		{RoundSuper, -1.6, -2.0},
	}
	for _, tt := range tests {
		gs := roundingState(tt.mode)
		assert.InDelta(t, tt.want, gs.Round(tt.in), 1e-9, "%v(%g)", tt.mode, tt.in)
	}
}

func TestSuperRoundParameters(t *testing.T) {
	var gs GraphicsState
	gs.setSuperRound(0xbf, 1) // period 2, phase 3/4 of it, threshold 11/8 of it
	assert.Equal(t, 2.0, gs.roundPeriod)
	assert.Equal(t, 1.5, gs.roundPhase)
	assert.Equal(t, 2.75, gs.roundThreshold)
	gs.setSuperRound(0x10, 1) // period 1/2, threshold one 26.6 unit below it
	assert.Equal(t, 0.5, gs.roundPeriod)
	assert.Equal(t, 0.125, gs.roundPhase)
	assert.Equal(t, 0.5-1.0/64, gs.roundThreshold)

	gs.RoundState = RoundSuper
	gs.setSuperRound(0x00, 1)
	assert.Equal(t, 1.0, gs.Round(1.0))
	assert.Equal(t, 1.0, gs.Round(0.6), "rounds up unless within 1/64 of the lower step")
	gs.setSuperRound(0x40, 1)
	assert.Equal(t, 2.0, gs.Round(1.1))
	assert.Equal(t, 1.0, gs.Round(1.0+1.0/128))
}
