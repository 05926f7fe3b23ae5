// Copyright 2024 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hinting

import (
	"math"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/vec"
)

// execute runs s until it ends or, inside a function body, until ENDF.
// Faults panic with an InvalidFontError; see catch.
func (in *Interpreter) execute(s stream, inFunction, allowDefs bool) {
	trace := in.traceOps && tracer().GetTraceLevel() == tracing.LevelDebug
	for !s.done() {
		in.steps++
		if in.steps > in.maxSteps {
			fail("too many instructions")
		}
		op := s.nextOpcode()
		if trace {
			tracer().Debugf("%5d %-14v depth=%d", s.pc-1, op, in.stack.depth())
		}

		switch op {

		// Pushing data onto the stack.

		case opNPUSHB, opNPUSHW,
			opPUSHB000, opPUSHB001, opPUSHB010, opPUSHB011,
			opPUSHB100, opPUSHB101, opPUSHB110, opPUSHB111,
			opPUSHW000, opPUSHW001, opPUSHW010, opPUSHW011,
			opPUSHW100, opPUSHW101, opPUSHW110, opPUSHW111:
			n, width := pushCount(op, &s)
			for ; n > 0; n-- {
				if width == 2 {
					in.stack.push(s.nextWord())
				} else {
					in.stack.push(s.nextByte())
				}
			}

		// Storage area and control value table.

		case opRS:
			i := checkIndex(in.stack.pop(), len(in.storage), "storage")
			in.stack.push(in.storage[i])

		case opWS:
			value := in.stack.pop()
			i := checkIndex(in.stack.pop(), len(in.storage), "storage")
			in.storage[i] = value

		case opWCVTP:
			value := in.stack.popFloat()
			i := checkIndex(in.stack.pop(), len(in.cvt), "control value")
			in.cvt[i] = value

		case opWCVTF:
			value := in.stack.pop()
			i := checkIndex(in.stack.pop(), len(in.cvt), "control value")
			in.cvt[i] = float64(value) * in.scale

		case opRCVT:
			in.stack.pushFloat(in.readCVT())

		// Freedom and projection vectors.

		case opSVTCA0, opSVTCA1:
			axis := int(op - opSVTCA0)
			in.setFreedomToAxis(axis)
			in.setProjectionToAxis(axis)

		case opSPVTCA0, opSPVTCA1:
			in.setProjectionToAxis(int(op - opSPVTCA0))

		case opSFVTCA0, opSFVTCA1:
			in.setFreedomToAxis(int(op - opSFVTCA0))

		case opSPVTL0, opSPVTL1, opSFVTL0, opSFVTL1:
			in.setVectorToLine(int(op-opSPVTL0), false)

		case opSDPVTL0, opSDPVTL1:
			in.setVectorToLine(int(op-opSDPVTL0), true)

		case opSFVTPV:
			in.gs.Freedom = in.gs.Projection
			in.onVectorsUpdated()

		case opSPVFS, opSFVFS:
			y := F2Dot14ToFloat(in.stack.pop())
			x := F2Dot14ToFloat(in.stack.pop())
			v := normalize(vec.Vec2{X: x, Y: y})
			if op == opSFVFS {
				in.gs.Freedom = v
			} else {
				in.gs.Projection = v
				in.gs.DualProjection = v
			}
			in.onVectorsUpdated()

		case opGPV, opGFV:
			v := in.gs.Projection
			if op == opGFV {
				v = in.gs.Freedom
			}
			in.stack.push(FloatToF2Dot14(v.X))
			in.stack.push(FloatToF2Dot14(v.Y))

		// Graphics state.

		case opSRP0:
			in.gs.Rp0 = in.stack.pop()

		case opSRP1:
			in.gs.Rp1 = in.stack.pop()

		case opSRP2:
			in.gs.Rp2 = in.stack.pop()

		case opSZP0:
			in.gs.Zp0 = in.popZone()

		case opSZP1:
			in.gs.Zp1 = in.popZone()

		case opSZP2:
			in.gs.Zp2 = in.popZone()

		case opSZPS:
			z := in.popZone()
			in.gs.Zp0, in.gs.Zp1, in.gs.Zp2 = z, z, z

		case opRTHG:
			in.gs.RoundState = RoundToHalfGrid

		case opRTG:
			in.gs.RoundState = RoundToGrid

		case opRTDG:
			in.gs.RoundState = RoundToDoubleGrid

		case opRDTG:
			in.gs.RoundState = RoundDownToGrid

		case opRUTG:
			in.gs.RoundState = RoundUpToGrid

		case opROFF:
			in.gs.RoundState = RoundOff

		case opSROUND:
			in.gs.RoundState = RoundSuper
			in.gs.setSuperRound(in.stack.pop(), 1)

		case opS45ROUND:
			in.gs.RoundState = RoundSuper45
			in.gs.setSuperRound(in.stack.pop(), math.Sqrt2/2)

		case opINSTCTRL:
			selector := in.stack.pop()
			value := in.stack.pop()
			if selector >= 1 && selector <= 2 {
				bit := InstructionControl(1) << (selector - 1)
				if value == 0 {
					in.gs.InstructionControl &^= bit
				} else {
					in.gs.InstructionControl |= bit
				}
			}

		case opSCANCTRL, opSCANTYPE, opSANGW, opAA, opDEBUG:
			// Scan conversion and angle weights are not modeled.
			in.stack.pop()

		case opSLOOP:
			in.gs.Loop = in.stack.pop()

		case opSMD:
			in.gs.MinDistance = in.stack.popFloat()

		case opSCVTCI:
			in.gs.ControlValueCutIn = in.stack.popFloat()

		case opSSWCI:
			in.gs.SingleWidthCutIn = in.stack.popFloat()

		case opSSW:
			in.gs.SingleWidthValue = float64(in.stack.pop()) * in.scale

		case opFLIPON:
			in.gs.AutoFlip = true

		case opFLIPOFF:
			in.gs.AutoFlip = false

		case opSDB:
			in.gs.DeltaBase = in.stack.pop()

		case opSDS:
			in.gs.DeltaShift = in.stack.pop()

		// Measurement.

		case opGC0:
			in.stack.pushFloat(in.project(in.zp2().cur(in.stack.pop())))

		case opGC1:
			in.stack.pushFloat(in.dualProject(in.zp2().orig(in.stack.pop())))

		case opSCFS:
			value := in.stack.popFloat()
			i := in.stack.pop()
			z := in.zp2()
			in.movePoint(z, i, value-in.project(z.cur(i)))
			// Moving a twilight point moves its original position too.
			if z.twilight {
				z.setOrig(i, z.cur(i))
			}

		case opMD0:
			p1 := in.zp1().orig(in.stack.pop())
			p2 := in.zp0().orig(in.stack.pop())
			in.stack.pushFloat(in.dualProject(p2.Sub(p1)))

		case opMD1:
			p1 := in.zp1().cur(in.stack.pop())
			p2 := in.zp0().cur(in.stack.pop())
			in.stack.pushFloat(in.project(p2.Sub(p1)))

		case opMPPEM, opMPS:
			// The point size is taken to equal the pixel size.
			in.stack.push(in.ppem)

		// Point editing.

		case opFLIPPT:
			for ; in.gs.Loop > 0; in.gs.Loop-- {
				i := in.glyph.check(in.stack.pop())
				in.glyph.current[i].OnCurve = !in.glyph.current[i].OnCurve
			}
			in.gs.Loop = 1

		case opFLIPRGON, opFLIPRGOFF:
			end := in.stack.pop()
			start := in.stack.pop()
			if start <= end {
				in.glyph.check(start)
				in.glyph.check(end)
			}
			for i := start; i <= end; i++ {
				in.glyph.current[i].OnCurve = op == opFLIPRGON
			}

		case opSHP0, opSHP1:
			d, _, _ := in.displacement(op)
			in.shiftPoints(d)

		case opSHPIX:
			in.shiftPoints(in.gs.Freedom.Mul(in.stack.popFloat()))

		case opSHC0, opSHC1:
			d, refZone, ref := in.displacement(op)
			touch := in.touchState()
			contour := in.stack.pop()
			z := in.zp2()
			start, end := 0, z.len()
			if !z.twilight {
				c := checkIndex(contour, len(in.contours), "contour")
				if c > 0 {
					start = in.contours[c-1] + 1
				}
				end = in.contours[c] + 1
			}
			for i := start; i < end; i++ {
				if z == refZone && int32(i) == ref {
					continue
				}
				z.current[i].P = z.current[i].P.Add(d)
				z.touch[i] |= touch
			}

		case opSHZ0, opSHZ1:
			// The zone operand is validated, but the shift applies to zp2.
			in.popZone()
			d, refZone, ref := in.displacement(op)
			z := in.zp2()
			end := z.len()
			if !z.twilight {
				end = 0
				if n := len(in.contours); n > 0 {
					end = in.contours[n-1] + 1
				}
			}
			for i := 0; i < end; i++ {
				if z == refZone && int32(i) == ref {
					continue
				}
				z.current[i].P = z.current[i].P.Add(d)
			}

		case opMIAP0, opMIAP1:
			distance := in.readCVT()
			i := in.stack.pop()
			z := in.zp0()
			// Control value programs use this to set up twilight points.
			if z.twilight {
				p := in.gs.Freedom.Mul(distance)
				z.setOrig(i, p)
				z.setCur(i, p)
			}
			cur := in.project(z.cur(i))
			if op == opMIAP1 {
				if math.Abs(distance-cur) > in.gs.ControlValueCutIn {
					distance = cur
				}
				distance = in.gs.Round(distance)
			}
			in.movePoint(z, i, distance-cur)
			in.gs.Rp0, in.gs.Rp1 = i, i

		case opMDAP0, opMDAP1:
			i := in.stack.pop()
			z := in.zp0()
			distance := 0.0
			if op == opMDAP1 {
				d := in.project(z.cur(i))
				distance = in.gs.Round(d) - d
			}
			in.movePoint(z, i, distance)
			if z.twilight {
				z.setOrig(i, z.cur(i))
			}
			in.gs.Rp0, in.gs.Rp1 = i, i

		case opMSIRP0, opMSIRP1:
			target := in.stack.popFloat()
			i := in.stack.pop()
			z0, z1 := in.zp0(), in.zp1()
			if z1.twilight {
				p := z0.orig(in.gs.Rp0).Add(in.gs.Freedom.Mul(target / in.fdotp))
				z1.setOrig(i, p)
				z1.setCur(i, p)
			}
			cur := in.project(z1.cur(i).Sub(z0.cur(in.gs.Rp0)))
			in.movePoint(z1, i, target-cur)
			in.gs.Rp1 = in.gs.Rp0
			in.gs.Rp2 = i
			if op == opMSIRP1 {
				in.gs.Rp0 = i
			}

		case opIP:
			in.interpolatePoints()

		case opALIGNRP:
			z0, z1 := in.zp0(), in.zp1()
			for ; in.gs.Loop > 0; in.gs.Loop-- {
				i := in.stack.pop()
				d := in.project(z1.cur(i).Sub(z0.cur(in.gs.Rp0)))
				in.movePoint(z1, i, -d)
			}
			in.gs.Loop = 1

		case opALIGNPTS:
			p1 := in.stack.pop()
			p2 := in.stack.pop()
			z0, z1 := in.zp0(), in.zp1()
			d := in.project(z0.cur(p2).Sub(z1.cur(p1))) / 2
			in.movePoint(z1, p1, d)
			in.movePoint(z0, p2, -d)

		case opUTP:
			z := in.zp0()
			i := z.check(in.stack.pop())
			z.touch[i] &^= in.touchState()

		case opIUP0, opIUP1:
			in.interpolateUntouched(op == opIUP1)

		case opISECT:
			in.intersect()

		// Managing the stack.

		case opDUP:
			in.stack.dup()

		case opPOP:
			in.stack.pop()

		case opCLEAR:
			in.stack.clear()

		case opSWAP:
			in.stack.swap()

		case opDEPTH:
			in.stack.push(int32(in.stack.depth()))

		case opCINDEX:
			in.stack.copyIndex()

		case opMINDEX:
			in.stack.moveIndex()

		case opROLL:
			in.stack.roll()

		// Flow control.

		case opIF:
			if !in.stack.popBool() {
				// Skip to the matching ELSE or EIF.
				for depth := 1; depth > 0; {
					switch s.skipNext() {
					case opIF:
						depth++
					case opEIF:
						depth--
					case opELSE:
						if depth == 1 {
							depth = 0
						}
					}
				}
			}

		case opELSE:
			// Only reached at the end of a taken IF branch: skip to the
			// matching EIF.
			for depth := 1; depth > 0; {
				switch s.skipNext() {
				case opIF:
					depth++
				case opEIF:
					depth--
				}
			}

		case opEIF:
			// No-op.

		case opJROT, opJROF:
			cond := in.stack.popBool()
			offset := in.stack.pop()
			if cond == (op == opJROT) {
				s.jump(offset - 1)
			}

		case opJMPR:
			s.jump(in.stack.pop() - 1)

		// Logical functions.

		case opLT:
			b, a := in.stack.pop(), in.stack.pop()
			in.stack.pushBool(a < b)

		case opLTEQ:
			b, a := in.stack.pop(), in.stack.pop()
			in.stack.pushBool(a <= b)

		case opGT:
			b, a := in.stack.pop(), in.stack.pop()
			in.stack.pushBool(a > b)

		case opGTEQ:
			b, a := in.stack.pop(), in.stack.pop()
			in.stack.pushBool(a >= b)

		case opEQ:
			b, a := in.stack.pop(), in.stack.pop()
			in.stack.pushBool(a == b)

		case opNEQ:
			b, a := in.stack.pop(), in.stack.pop()
			in.stack.pushBool(a != b)

		case opAND:
			b, a := in.stack.popBool(), in.stack.popBool()
			in.stack.pushBool(a && b)

		case opOR:
			b, a := in.stack.popBool(), in.stack.popBool()
			in.stack.pushBool(a || b)

		case opNOT:
			in.stack.pushBool(!in.stack.popBool())

		case opODD, opEVEN:
			v := int64(in.gs.Round(in.stack.popFloat()))
			in.stack.pushBool((v%2 != 0) == (op == opODD))

		// Arithmetic.

		case opADD:
			b, a := in.stack.pop(), in.stack.pop()
			in.stack.push(a + b)

		case opSUB:
			b, a := in.stack.pop(), in.stack.pop()
			in.stack.push(a - b)

		case opDIV:
			b := in.stack.pop()
			if b == 0 {
				fail("division by zero")
			}
			a := in.stack.pop()
			in.stack.push(int32((int64(a) << 6) / int64(b)))

		case opMUL:
			b, a := in.stack.pop(), in.stack.pop()
			in.stack.push(int32((int64(a) * int64(b)) >> 6))

		case opABS:
			if x := in.stack.pop(); x < 0 {
				in.stack.push(-x)
			} else {
				in.stack.push(x)
			}

		case opNEG:
			in.stack.push(-in.stack.pop())

		case opFLOOR:
			in.stack.push(in.stack.pop() &^ 63)

		case opCEILING:
			in.stack.push((in.stack.pop() + 63) &^ 63)

		case opMAX:
			b, a := in.stack.pop(), in.stack.pop()
			if b > a {
				a = b
			}
			in.stack.push(a)

		case opMIN:
			b, a := in.stack.pop(), in.stack.pop()
			if b < a {
				a = b
			}
			in.stack.push(a)

		// Function and instruction definitions.

		case opFDEF, opIDEF:
			if !allowDefs || inFunction {
				fail("%v is only allowed at the top level of the font program", op)
			}
			table, what := in.functions, "function"
			if op == opIDEF {
				table, what = in.idefs, "instruction definition"
			}
			table[checkIndex(in.stack.pop(), len(table), what)] = s
			for s.skipNext() != opENDF {
			}

		case opENDF:
			if !inFunction {
				fail("ENDF outside of a function definition")
			}
			return

		case opCALL, opLOOPCALL:
			i := checkIndex(in.stack.pop(), len(in.functions), "function")
			count := int32(1)
			if op == opLOOPCALL {
				count = in.stack.pop()
			}
			in.call(in.functions[i], count)

		// Rounding. There is no engine compensation, so the four distance
		// types behave alike and NROUND leaves its operand alone.

		case opROUND00, opROUND01, opROUND10, opROUND11:
			in.stack.pushFloat(in.gs.Round(in.stack.popFloat()))

		case opNROUND00, opNROUND01, opNROUND10, opNROUND11:
			in.stack.peek(0)

		// Delta exceptions.

		case opDELTAC1, opDELTAC2, opDELTAC3:
			n := in.stack.pop()
			for ; n > 0; n-- {
				ci := in.stack.pop()
				arg := in.stack.pop()
				if amount, ok := in.deltaAmount(arg, int32(op-opDELTAC1)); ok {
					i := checkIndex(ci, len(in.cvt), "control value")
					in.cvt[i] += amount
				}
			}

		case opDELTAP1, opDELTAP2, opDELTAP3:
			n := in.stack.pop()
			base := int32(0)
			if op != opDELTAP1 {
				base = int32(op-opDELTAP2) + 1
			}
			for ; n > 0; n-- {
				pi := in.stack.pop()
				arg := in.stack.pop()
				if amount, ok := in.deltaAmount(arg, base); ok {
					in.movePoint(in.zp0(), pi, amount)
				}
			}

		// Miscellaneous.

		case opGETINFO:
			selector := in.stack.pop()
			result := int32(0)
			if selector&0x01 != 0 {
				// Claim to be the MS rasterizer version 35.
				result = 35
			}
			if selector&0x20 != 0 {
				// Always grayscale.
				result |= 1 << 12
			}
			in.stack.push(result)

		default:
			switch {
			case op >= opMIRP00000:
				in.moveIndirectRelative(op - opMIRP00000)
			case op >= opMDRP00000:
				in.moveDirectRelative(op - opMDRP00000)
			default:
				if int(op) >= len(in.idefs) || !in.idefs[op].valid() {
					fail("unknown opcode 0x%02x", uint8(op))
				}
				in.call(in.idefs[op], 1)
			}
		}
	}
}

// call runs a function or instruction definition body count times.
func (in *Interpreter) call(body stream, count int32) {
	if !body.valid() {
		fail("call to undefined function")
	}
	in.callDepth++
	if in.callDepth > maxCallStack {
		fail("call stack overflow")
	}
	for ; count > 0; count-- {
		in.execute(body, true, false)
	}
	in.callDepth--
}

func checkIndex(i int32, n int, what string) int {
	if i < 0 || int(i) >= n {
		fail("%s index %d out of range", what, i)
	}
	return int(i)
}

func (in *Interpreter) readCVT() float64 {
	return in.cvt[checkIndex(in.stack.pop(), len(in.cvt), "control value")]
}

// deltaAmount decodes a DELTAC or DELTAP argument. The high nibble of arg
// is the ppem relative to the delta base and the range (0, 1 or 2) of the
// instruction; the low nibble is the step count, biased so that zero
// cannot be expressed. It reports whether the exception applies at the
// current ppem, and the shift in pixels.
func (in *Interpreter) deltaAmount(arg, rng int32) (float64, bool) {
	trigger := (arg>>4)&0x0f + rng*16 + in.gs.DeltaBase
	if trigger != in.ppem {
		return 0, false
	}
	if in.gs.DeltaShift < 0 || in.gs.DeltaShift > 6 {
		fail("delta shift %d out of range", in.gs.DeltaShift)
	}
	amount := arg&0x0f - 8
	if amount >= 0 {
		amount++
	}
	amount *= 1 << (6 - in.gs.DeltaShift)
	return F26Dot6ToFloat(fixed.Int26_6(amount)), true
}
