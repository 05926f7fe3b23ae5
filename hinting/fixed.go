// Copyright 2024 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hinting

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// Stack cells hold either plain integers, 26.6 fixed point pixel distances
// or 2.14 fixed point vector components, depending on the instruction.

// F26Dot6ToFloat converts a 26.6 fixed point value to pixels.
func F26Dot6ToFloat(x fixed.Int26_6) float64 {
	return float64(x) / 64
}

// FloatToF26Dot6 converts pixels to the nearest 26.6 fixed point value.
// Ties go to the even value.
func FloatToF26Dot6(f float64) fixed.Int26_6 {
	return fixed.Int26_6(math.RoundToEven(f * 64))
}

// F2Dot14ToFloat converts the low 16 bits of x, read as a signed 2.14 fixed
// point number, to a float.
func F2Dot14ToFloat(x int32) float64 {
	return float64(int16(x)) / 16384
}

// FloatToF2Dot14 converts f to a 2.14 fixed point number, sign extended to
// 32 bits.
func FloatToF2Dot14(f float64) int32 {
	return int32(int16(math.RoundToEven(f * 16384)))
}
