// Copyright 2024 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hinting

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// epsilon is the tolerance for degenerate vector products.
const epsilon = 1e-6

func dot(a, b vec.Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// normalize returns v scaled to unit length, or the x axis for a zero v.
func normalize(v vec.Vec2) vec.Vec2 {
	l := v.Length()
	if l == 0 {
		return unitX
	}
	return v.Mul(1 / l)
}

func perpendicular(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: -v.Y, Y: v.X}
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// onVectorsUpdated must be called after every change of the freedom or
// projection vector.
func (in *Interpreter) onVectorsUpdated() {
	in.fdotp = dot(in.gs.Freedom, in.gs.Projection)
	if math.Abs(in.fdotp) < epsilon {
		in.fdotp = 1
	}
}

func axisVector(axis int) vec.Vec2 {
	if axis == 0 {
		return unitY
	}
	return unitX
}

func (in *Interpreter) setFreedomToAxis(axis int) {
	in.gs.Freedom = axisVector(axis)
	in.onVectorsUpdated()
}

func (in *Interpreter) setProjectionToAxis(axis int) {
	in.gs.Projection = axisVector(axis)
	in.gs.DualProjection = in.gs.Projection
	in.onVectorsUpdated()
}

// setVectorToLine implements SPVTL (mode 0 and 1), SFVTL (mode 2 and 3)
// and SDPVTL (mode 0 and 1 with dual set). Odd modes use the line's
// perpendicular. The line runs from the point in zp2 to the point in zp1.
func (in *Interpreter) setVectorToLine(mode int, dual bool) {
	i1 := in.stack.pop()
	i2 := in.stack.pop()
	z1, z2 := in.zp2(), in.zp1()

	line := func(p1, p2 vec.Vec2) vec.Vec2 {
		d := p2.Sub(p1)
		if mode&1 != 0 {
			d = perpendicular(d)
		}
		return normalize(d)
	}

	v := line(z1.cur(i1), z2.cur(i2))
	if mode >= 2 {
		in.gs.Freedom = v
	} else {
		in.gs.Projection = v
		in.gs.DualProjection = v
	}
	if dual {
		in.gs.DualProjection = line(z1.orig(i1), z2.orig(i2))
	}
	in.onVectorsUpdated()
}

func (in *Interpreter) zone(n int32) *zone {
	switch n {
	case zoneTwilight:
		return in.twilight
	case zoneGlyph:
		return in.glyph
	}
	fail("invalid zone pointer %d", n)
	return nil
}

func (in *Interpreter) popZone() int32 {
	n := in.stack.pop()
	in.zone(n)
	return n
}

func (in *Interpreter) zp0() *zone { return in.zone(in.gs.Zp0) }
func (in *Interpreter) zp1() *zone { return in.zone(in.gs.Zp1) }
func (in *Interpreter) zp2() *zone { return in.zone(in.gs.Zp2) }

func (in *Interpreter) project(p vec.Vec2) float64 {
	return dot(p, in.gs.Projection)
}

func (in *Interpreter) dualProject(p vec.Vec2) float64 {
	return dot(p, in.gs.DualProjection)
}

// touchState returns the axes a move along the freedom vector touches.
func (in *Interpreter) touchState() TouchState {
	t := TouchNone
	if in.gs.Freedom.X != 0 {
		t |= TouchX
	}
	if in.gs.Freedom.Y != 0 {
		t |= TouchY
	}
	return t
}

// movePoint moves point i of z along the freedom vector so that its
// projection changes by distance.
func (in *Interpreter) movePoint(z *zone, i int32, distance float64) {
	j := z.check(i)
	z.current[j].P = z.current[j].P.Add(in.gs.Freedom.Mul(distance / in.fdotp))
	z.touch[j] |= in.touchState()
}

// shiftPoints pops loop point indices and moves each zp2 point by d.
func (in *Interpreter) shiftPoints(d vec.Vec2) {
	touch := in.touchState()
	z := in.zp2()
	for ; in.gs.Loop > 0; in.gs.Loop-- {
		i := z.check(in.stack.pop())
		z.current[i].P = z.current[i].P.Add(d)
		z.touch[i] |= touch
	}
	in.gs.Loop = 1
}

// displacement returns how far the reference point of a SHP, SHC or SHZ
// instruction has moved, as a vector along the freedom vector, together
// with the reference point itself. Even opcodes use rp2 in zp1, odd ones
// rp1 in zp0.
func (in *Interpreter) displacement(op Opcode) (vec.Vec2, *zone, int32) {
	z, ref := in.zp1(), in.gs.Rp2
	if op&1 != 0 {
		z, ref = in.zp0(), in.gs.Rp1
	}
	d := in.project(z.cur(ref).Sub(z.orig(ref)))
	return in.gs.Freedom.Mul(d / in.fdotp), z, ref
}

// interpolatePoints implements IP: each popped zp2 point keeps its original
// relative position between rp1 and rp2.
func (in *Interpreter) interpolatePoints() {
	z0, z1, z2 := in.zp0(), in.zp1(), in.zp2()
	origBase := z0.orig(in.gs.Rp1)
	curBase := z0.cur(in.gs.Rp1)
	origRange := in.dualProject(z1.orig(in.gs.Rp2).Sub(origBase))
	curRange := in.project(z1.cur(in.gs.Rp2).Sub(curBase))

	for ; in.gs.Loop > 0; in.gs.Loop-- {
		i := in.stack.pop()
		cur := in.project(z2.cur(i).Sub(curBase))
		orig := in.dualProject(z2.orig(i).Sub(origBase))

		d := 0.0
		if orig != 0 {
			if origRange == 0 {
				d = orig
			} else {
				d = orig * curRange / origRange
			}
		}
		in.movePoint(z2, i, d-cur)
	}
	in.gs.Loop = 1
}

// singleWidth substitutes the single width value for d if d is within the
// single width cut-in of it.
func (in *Interpreter) singleWidth(d float64) float64 {
	if math.Abs(d-in.gs.SingleWidthValue) < in.gs.SingleWidthCutIn {
		if d >= 0 {
			return in.gs.SingleWidthValue
		}
		return -in.gs.SingleWidthValue
	}
	return d
}

// minDistance clamps d away from zero by the minimum distance, on the side
// given by the sign of orig.
func (in *Interpreter) minDistance(d, orig float64) float64 {
	if orig >= 0 {
		return math.Max(d, in.gs.MinDistance)
	}
	return math.Min(d, -in.gs.MinDistance)
}

// moveIndirectRelative implements MIRP: the popped point is placed at a
// control value's distance from rp0.
func (in *Interpreter) moveIndirectRelative(flags Opcode) {
	cvt := in.singleWidth(in.readCVT())
	i := in.stack.pop()
	z0, z1 := in.zp0(), in.zp1()

	origRef := z0.orig(in.gs.Rp0)
	if z1.twilight {
		p := origRef.Add(in.gs.Freedom.Mul(cvt))
		z1.setOrig(i, p)
		z1.setCur(i, p)
	}

	orig := in.dualProject(z1.orig(i).Sub(origRef))
	cur := in.project(z1.cur(i).Sub(z0.cur(in.gs.Rp0)))

	if in.gs.AutoFlip && sign(orig) != sign(cvt) {
		cvt = -cvt
	}

	distance := cvt
	if flags&flagRound != 0 {
		// The cut-in test only applies within one zone.
		if z0.twilight == z1.twilight && math.Abs(cvt-orig) > in.gs.ControlValueCutIn {
			cvt = orig
		}
		distance = in.gs.Round(cvt)
	}
	if flags&flagMinDistance != 0 {
		distance = in.minDistance(distance, orig)
	}

	in.movePoint(z1, i, distance-cur)
	in.finishRelativeMove(i, flags)
}

// moveDirectRelative implements MDRP: the popped point is placed at its
// original distance from rp0.
func (in *Interpreter) moveDirectRelative(flags Opcode) {
	i := in.stack.pop()
	z0, z1 := in.zp0(), in.zp1()
	orig := in.singleWidth(in.dualProject(z1.orig(i).Sub(z0.orig(in.gs.Rp0))))

	distance := orig
	if flags&flagRound != 0 {
		distance = in.gs.Round(distance)
	}
	if flags&flagMinDistance != 0 {
		distance = in.minDistance(distance, orig)
	}

	cur := in.project(z1.cur(i).Sub(z0.cur(in.gs.Rp0)))
	in.movePoint(z1, i, distance-cur)
	in.finishRelativeMove(i, flags)
}

func (in *Interpreter) finishRelativeMove(i int32, flags Opcode) {
	in.gs.Rp1 = in.gs.Rp0
	in.gs.Rp2 = i
	if flags&flagSetRp0 != 0 {
		in.gs.Rp0 = i
	}
}

// intersect implements ISECT: the popped zp2 point moves to where line a
// (two zp1 points) crosses line b (two zp0 points). Nearly parallel lines
// put it at the mean of the four end points.
func (in *Interpreter) intersect() {
	z0, z1, z2 := in.zp0(), in.zp1(), in.zp2()
	b1 := z0.cur(in.stack.pop())
	b0 := z0.cur(in.stack.pop())
	a1 := z1.cur(in.stack.pop())
	a0 := z1.cur(in.stack.pop())
	i := z2.check(in.stack.pop())

	da := a0.Sub(a1)
	db := b0.Sub(b1)
	den := da.X*db.Y - da.Y*db.X
	if math.Abs(den) <= epsilon {
		z2.current[i].P = a0.Add(a1).Add(b0).Add(b1).Mul(0.25)
	} else {
		t := a0.X*a1.Y - a0.Y*a1.X
		u := b0.X*b1.Y - b0.Y*b1.X
		z2.current[i].P = vec.Vec2{
			X: (t*db.X - da.X*u) / den,
			Y: (t*db.Y - da.Y*u) / den,
		}
	}
	z2.touch[i] = TouchBoth
}
