// Copyright 2024 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hinting

import "seehuhn.de/go/geom/vec"

// A Point is an outline point in pixel coordinates plus whether it is on
// the contour or an off-curve control point.
type Point struct {
	P       vec.Vec2
	OnCurve bool
}

// TouchState records along which axes an instruction has positioned a
// point. IUP only moves points that are untouched along its axis.
type TouchState uint8

const (
	TouchNone TouchState = 0
	TouchX    TouchState = 1 << 0
	TouchY    TouchState = 1 << 1
	TouchBoth            = TouchX | TouchY
)

// A zone is a set of points. Zone 0 is the twilight zone, points with no
// outline backing; zone 1 holds the glyph being hinted.
type zone struct {
	current  []Point
	original []Point
	touch    []TouchState
	twilight bool
}

// newZone makes a zone whose current positions alias points. The original
// positions are a copy taken now.
func newZone(points []Point, twilight bool) *zone {
	z := &zone{
		current:  points,
		original: make([]Point, len(points)),
		touch:    make([]TouchState, len(points)),
		twilight: twilight,
	}
	copy(z.original, points)
	return z
}

func (z *zone) check(i int32) int {
	if i < 0 || int(i) >= len(z.current) {
		if z.twilight {
			fail("twilight point %d out of range", i)
		}
		fail("point %d out of range", i)
	}
	return int(i)
}

func (z *zone) cur(i int32) vec.Vec2 {
	return z.current[z.check(i)].P
}

func (z *zone) orig(i int32) vec.Vec2 {
	return z.original[z.check(i)].P
}

func (z *zone) setCur(i int32, p vec.Vec2) {
	z.current[z.check(i)].P = p
}

func (z *zone) setOrig(i int32, p vec.Vec2) {
	z.original[z.check(i)].P = p
}

func (z *zone) len() int {
	return len(z.current)
}
