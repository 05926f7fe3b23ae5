// Copyright 2010 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package truetype

import (
	"fmt"

	"github.com/goki/tthint/hinting"
)

// A Point is a co-ordinate pair plus whether it is ``on'' a contour or an
// ``off'' control point.
type Point struct {
	X, Y int32
	// The Flags' LSB means whether or not this Point is ``on'' the contour.
	// Other bits are reserved for internal use.
	Flags uint32
}

// A GlyphBuf holds a glyph's contours. A GlyphBuf can be re-used to load a
// series of glyphs from a Font.
type GlyphBuf struct {
	// Index is the glyph loaded last.
	Index Index
	// B is the glyph's bounding box, in FUnits.
	B Bounds
	// HMetric is the glyph's advance width and left side bearing.
	HMetric HMetric
	// Point contains all Points from all contours of the glyph, in FUnits.
	Point []Point
	// End is the point indexes of the end point of each countour. The
	// length of End is the number of contours in the glyph. The i'th
	// contour consists of points Point[End[i-1]:End[i]], where End[-1]
	// is interpreted to mean zero.
	End []int
	// Instructions is the glyph program.
	Instructions []byte

	// Unhinted and Hinted are set by a Hinter. They hold the glyph's points
	// scaled to pixels, followed by the four phantom points, before and
	// after the glyph program ran.
	Unhinted, Hinted []hinting.Point
	// HintErr is the fault of the last glyph program, if any. Hinted then
	// equals Unhinted.
	HintErr error
}

// Flags for decoding a glyph's contours. These flags are documented at
// http://developer.apple.com/fonts/TTRefMan/RM06/Chap6glyf.html.
const (
	flagOnCurve = 1 << iota
	flagXShortVector
	flagYShortVector
	flagRepeat
	flagPositiveXShortVector
	flagPositiveYShortVector
)

// The same flag bits (0x10 and 0x20) are overloaded to have two meanings,
// dependent on the value of the flag{X,Y}ShortVector bits.
const (
	flagThisXIsSame = flagPositiveXShortVector
	flagThisYIsSame = flagPositiveYShortVector
)

// decodeFlags decodes a glyph's run-length encoded flags,
// and returns the remaining data.
func (g *GlyphBuf) decodeFlags(d data, np int) (data, error) {
	for i := 0; i < np; {
		if len(d) < 1 {
			return nil, FormatError("glyph flags too short")
		}
		c := uint32(d.u8())
		g.Point[i].Flags = c
		i++
		if c&flagRepeat != 0 {
			if len(d) < 1 {
				return nil, FormatError("glyph flags too short")
			}
			count := int(d.u8())
			if i+count > np {
				return nil, FormatError("glyph flag repeat count too large")
			}
			for ; count > 0; count-- {
				g.Point[i].Flags = c
				i++
			}
		}
	}
	return d, nil
}

// decodeCoords decodes a glyph's delta encoded co-ordinates.
func (g *GlyphBuf) decodeCoords(d data) error {
	var x int16
	for i := range g.Point {
		f := g.Point[i].Flags
		if f&flagXShortVector != 0 {
			if len(d) < 1 {
				return FormatError("glyph coordinates too short")
			}
			dx := int16(d.u8())
			if f&flagPositiveXShortVector == 0 {
				x -= dx
			} else {
				x += dx
			}
		} else if f&flagThisXIsSame == 0 {
			if len(d) < 2 {
				return FormatError("glyph coordinates too short")
			}
			x += int16(d.u16())
		}
		g.Point[i].X = int32(x)
	}
	var y int16
	for i := range g.Point {
		f := g.Point[i].Flags
		if f&flagYShortVector != 0 {
			if len(d) < 1 {
				return FormatError("glyph coordinates too short")
			}
			dy := int16(d.u8())
			if f&flagPositiveYShortVector == 0 {
				y -= dy
			} else {
				y += dy
			}
		} else if f&flagThisYIsSame == 0 {
			if len(d) < 2 {
				return FormatError("glyph coordinates too short")
			}
			y += int16(d.u16())
		}
		g.Point[i].Y = int32(y)
	}
	return nil
}

// glyphData returns the slice of the glyf table holding glyph i. An empty
// slice is a glyph without an outline, such as a space.
func (f *Font) glyphData(i Index) ([]byte, error) {
	if int(i) >= f.nGlyph {
		return nil, FormatError(fmt.Sprintf("glyph index %d out of range", i))
	}
	var g0, g1 uint32
	if f.locaOffsetFormat == locaOffsetFormatShort {
		d := data(f.loca[2*int(i):])
		g0 = 2 * uint32(d.u16())
		g1 = 2 * uint32(d.u16())
	} else {
		d := data(f.loca[4*int(i):])
		g0 = d.u32()
		g1 = d.u32()
	}
	if g0 > g1 || int(g1) > len(f.glyf) {
		return nil, FormatError(fmt.Sprintf("bad loca entry for glyph %d", i))
	}
	return f.glyf[g0:g1], nil
}

// Load loads a glyph's contours from a Font, overwriting any previously
// loaded contours for this GlyphBuf. Composite glyphs are not supported.
func (g *GlyphBuf) Load(f *Font, i Index) error {
	// Reset the GlyphBuf.
	g.Index = i
	g.B = Bounds{}
	g.Point = g.Point[:0]
	g.End = g.End[:0]
	g.Instructions = nil
	g.Unhinted = g.Unhinted[:0]
	g.Hinted = g.Hinted[:0]
	g.HintErr = nil
	g.HMetric = f.HMetric(i)

	glyf, err := f.glyphData(i)
	if err != nil {
		return err
	}
	if len(glyf) == 0 {
		return nil
	}
	if len(glyf) < 10 {
		return FormatError("glyph header too short")
	}
	d := data(glyf)
	ne := int(int16(d.u16()))
	g.B.XMin = int16(d.u16())
	g.B.YMin = int16(d.u16())
	g.B.XMax = int16(d.u16())
	g.B.YMax = int16(d.u16())
	if ne < 0 {
		if ne == -1 {
			return UnsupportedError("compound glyph")
		}
		// http://developer.apple.com/fonts/TTRefMan/RM06/Chap6glyf.html says that
		// "the values -2, -3, and so forth, are reserved for future use."
		return UnsupportedError("negative number of contours")
	}
	if ne == 0 {
		return nil
	}

	// Decode the contour end indices.
	if len(d) < 2*ne+2 {
		return FormatError("glyph contours too short")
	}
	if ne <= cap(g.End) {
		g.End = g.End[:ne]
	} else {
		g.End = make([]int, ne, ne*2)
	}
	for j := 0; j < ne; j++ {
		g.End[j] = 1 + int(d.u16())
		if j > 0 && g.End[j] <= g.End[j-1] {
			return FormatError("contour end points out of order")
		}
	}
	np := g.End[ne-1]

	// Note the TrueType hinting instructions.
	instrLen := int(d.u16())
	if len(d) < instrLen {
		return FormatError("glyph instructions too short")
	}
	g.Instructions = glyf[len(glyf)-len(d) : len(glyf)-len(d)+instrLen]
	d.skip(instrLen)

	if np <= cap(g.Point) {
		g.Point = g.Point[:np]
	} else {
		g.Point = make([]Point, np, np*2)
	}
	if d, err = g.decodeFlags(d, np); err != nil {
		return err
	}
	return g.decodeCoords(d)
}

// NewGlyphBuf returns a newly allocated GlyphBuf.
func NewGlyphBuf() *GlyphBuf {
	g := new(GlyphBuf)
	g.Point = make([]Point, 0, 256)
	g.End = make([]int, 0, 32)
	return g
}
