// Copyright 2024 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hinting

import "seehuhn.de/go/geom/vec"

// An axis selects one coordinate of a point, so that IUP can share its code
// between x and y.
type axis func(p *vec.Vec2) *float64

func xAxis(p *vec.Vec2) *float64 { return &p.X }
func yAxis(p *vec.Vec2) *float64 { return &p.Y }

// interpolateUntouched implements IUP on the glyph zone. Within each
// contour, the points between two touched points are interpolated between
// them; a contour with a single touched point is shifted as a whole, and a
// contour without any is left alone.
func (in *Interpreter) interpolateUntouched(x bool) {
	a, mask := axis(yAxis), TouchY
	if x {
		a, mask = xAxis, TouchX
	}
	z := in.glyph

	start := 0
	for _, end := range in.contours {
		first, last := -1, -1
		for i := start; i <= end; i++ {
			if z.touch[i]&mask == 0 {
				continue
			}
			if first < 0 {
				first = i
			} else {
				interpolate(z, a, last+1, i-1, last, i)
			}
			last = i
		}

		switch {
		case first < 0:
		case first == last:
			d := *a(&z.current[first].P) - *a(&z.original[first].P)
			if d != 0 {
				for i := start; i <= end; i++ {
					if i != first {
						*a(&z.current[i].P) += d
					}
				}
			}
		default:
			// Wrap around: the points after the last touched one and before
			// the first touched one lie between the two.
			interpolate(z, a, last+1, end, last, first)
			if first > start {
				interpolate(z, a, start, first-1, last, first)
			}
		}
		start = end + 1
	}
}

// interpolate moves points start through end along axis a. Points whose
// original coordinate lies between those of ref1 and ref2 keep their
// relative position; points outside move with the nearer reference.
func interpolate(z *zone, a axis, start, end, ref1, ref2 int) {
	if start > end {
		return
	}
	lower := *a(&z.original[ref1].P)
	upper := *a(&z.original[ref2].P)
	lowerCur := *a(&z.current[ref1].P)
	upperCur := *a(&z.current[ref2].P)
	if lower > upper {
		lower, upper = upper, lower
		lowerCur, upperCur = upperCur, lowerCur
	}
	d1, d2 := lowerCur-lower, upperCur-upper

	scale := 0.0
	if upper != lower {
		scale = (upperCur - lowerCur) / (upper - lower)
	}
	for i := start; i <= end; i++ {
		pos := *a(&z.original[i].P)
		switch {
		case pos <= lower:
			pos += d1
		case pos >= upper:
			pos += d2
		default:
			pos = lowerCur + (pos-lower)*scale
		}
		*a(&z.current[i].P) = pos
	}
}
