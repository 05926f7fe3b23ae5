// Copyright 2024 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hinting

import "math"

// Round rounds a pixel distance according to gs.RoundState. All modes are
// symmetric around zero: a negative value rounds like its magnitude and
// keeps its sign.
func (gs *GraphicsState) Round(v float64) float64 {
	if v < 0 {
		switch gs.RoundState {
		case RoundOff:
			return v
		case RoundSuper, RoundSuper45:
			return gs.superRound(v)
		}
		return -gs.Round(-v)
	}

	switch gs.RoundState {
	case RoundToGrid:
		return math.RoundToEven(v)
	case RoundToHalfGrid:
		return math.Floor(v) + 0.5
	case RoundToDoubleGrid:
		return math.Round(v*2) / 2
	case RoundDownToGrid:
		return math.Floor(v)
	case RoundUpToGrid:
		return math.Ceil(v)
	case RoundSuper, RoundSuper45:
		return gs.superRound(v)
	}
	return v
}

// superRound rounds to the grid described by the SROUND or S45ROUND
// parameters. A result that would cross zero snaps to the phase instead.
func (gs *GraphicsState) superRound(v float64) float64 {
	if gs.roundPeriod == 0 {
		return v
	}
	if v >= 0 {
		r := math.Trunc((v-gs.roundPhase+gs.roundThreshold)/gs.roundPeriod)*gs.roundPeriod + gs.roundPhase
		if r < 0 {
			r = gs.roundPhase
		}
		return r
	}
	r := -math.Trunc((-v-gs.roundPhase+gs.roundThreshold)/gs.roundPeriod)*gs.roundPeriod - gs.roundPhase
	if r > 0 {
		r = -gs.roundPhase
	}
	return r
}
