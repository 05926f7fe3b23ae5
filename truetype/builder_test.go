// Copyright 2024 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package truetype

import (
	"bytes"
	"encoding/binary"
	"sort"
	"unicode/utf16"
)

// testGlyph is a glyph of a synthetic test font. Glyph i > 0 of a test font
// is mapped from the rune 'A'+i-1.
type testGlyph struct {
	points    []Point // flag bit 0 marks on-curve points
	end       []int   // exclusive contour ends
	program   []byte
	advance   uint16
	lsb       int16
	composite bool
}

// testFont assembles a minimal TrueType file.
type testFont struct {
	unitsPerEm uint16
	glyphs     []testGlyph
	cvt        []int16
	fpgm, prep []byte
	family     string
}

func put(b *bytes.Buffer, vs ...interface{}) {
	for _, v := range vs {
		if err := binary.Write(b, binary.BigEndian, v); err != nil {
			panic(err)
		}
	}
}

func (g testGlyph) bounds() Bounds {
	if len(g.points) == 0 {
		return Bounds{}
	}
	b := Bounds{32767, 32767, -32768, -32768}
	for _, p := range g.points {
		b.XMin = min(b.XMin, int16(p.X))
		b.YMin = min(b.YMin, int16(p.Y))
		b.XMax = max(b.XMax, int16(p.X))
		b.YMax = max(b.YMax, int16(p.Y))
	}
	return b
}

func (g testGlyph) encode() []byte {
	var b bytes.Buffer
	if g.composite {
		put(&b, int16(-1), int16(0), int16(0), int16(100), int16(100))
		put(&b, uint16(0x0002), uint16(1), int8(0), int8(0))
		return b.Bytes()
	}
	if len(g.points) == 0 {
		return nil
	}
	bb := g.bounds()
	put(&b, int16(len(g.end)), bb.XMin, bb.YMin, bb.XMax, bb.YMax)
	for _, e := range g.end {
		put(&b, uint16(e-1))
	}
	put(&b, uint16(len(g.program)))
	b.Write(g.program)
	for _, p := range g.points {
		put(&b, uint8(p.Flags&flagOnCurve))
	}
	var x, y int32
	for _, p := range g.points {
		put(&b, int16(p.X-x))
		x = p.X
	}
	for _, p := range g.points {
		put(&b, int16(p.Y-y))
		y = p.Y
	}
	return b.Bytes()
}

func (tf *testFont) bytes() []byte {
	tables := map[string][]byte{}
	n := len(tf.glyphs)

	var glyf, loca bytes.Buffer
	var union Bounds
	for _, g := range tf.glyphs {
		put(&loca, uint32(glyf.Len()))
		glyf.Write(g.encode())
		for glyf.Len()%4 != 0 {
			glyf.WriteByte(0)
		}
		bb := g.bounds()
		union.XMax = max(union.XMax, bb.XMax)
		union.YMax = max(union.YMax, bb.YMax)
	}
	put(&loca, uint32(glyf.Len()))
	tables["glyf"], tables["loca"] = glyf.Bytes(), loca.Bytes()

	var head bytes.Buffer
	put(&head, uint32(0x00010000), uint32(0), uint32(0), uint32(0x5f0f3cf5), uint16(0), tf.unitsPerEm)
	put(&head, uint64(0), uint64(0))
	put(&head, union.XMin, union.YMin, union.XMax, union.YMax)
	put(&head, uint16(0), uint16(8), int16(2), int16(1), int16(0))
	tables["head"] = head.Bytes()

	var maxp bytes.Buffer
	put(&maxp, uint32(0x00010000), uint16(n), uint16(64), uint16(4), uint16(0), uint16(0))
	put(&maxp, uint16(2), uint16(4), uint16(8), uint16(8), uint16(0), uint16(64))
	put(&maxp, uint16(len(tf.fpgm)+len(tf.prep)), uint16(0), uint16(0))
	tables["maxp"] = maxp.Bytes()

	var hhea, hmtx bytes.Buffer
	put(&hhea, uint32(0x00010000))
	hhea.Write(make([]byte, 30))
	put(&hhea, uint16(n))
	for _, g := range tf.glyphs {
		put(&hmtx, g.advance, g.lsb)
	}
	tables["hhea"], tables["hmtx"] = hhea.Bytes(), hmtx.Bytes()

	// A format 4 cmap with one segment for 'A'... and the closing segment.
	var cmap bytes.Buffer
	put(&cmap, uint16(0), uint16(1), uint16(3), uint16(1), uint32(12))
	last := uint16('A' + n - 2)
	put(&cmap, uint16(4), uint16(32), uint16(0), uint16(4), uint16(4), uint16(1), uint16(0))
	put(&cmap, last, uint16(0xffff), uint16(0))
	put(&cmap, uint16('A'), uint16(0xffff))
	put(&cmap, uint16(0x10000+1-'A'), uint16(1))
	put(&cmap, uint16(0), uint16(0))
	tables["cmap"] = cmap.Bytes()

	var name bytes.Buffer
	family := utf16.Encode([]rune(tf.family))
	put(&name, uint16(0), uint16(1), uint16(18))
	put(&name, uint16(3), uint16(1), uint16(0x409), uint16(NameIDFamily), uint16(2*len(family)), uint16(0))
	put(&name, family)
	tables["name"] = name.Bytes()

	if tf.cvt != nil {
		var cvt bytes.Buffer
		put(&cvt, tf.cvt)
		tables["cvt "] = cvt.Bytes()
	}
	if tf.fpgm != nil {
		tables["fpgm"] = tf.fpgm
	}
	if tf.prep != nil {
		tables["prep"] = tf.prep
	}

	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	var ttf, body bytes.Buffer
	put(&ttf, uint32(0x00010000), uint16(len(tags)), uint16(0), uint16(0), uint16(0))
	offset := 12 + 16*len(tags)
	for _, tag := range tags {
		t := tables[tag]
		ttf.WriteString(tag)
		put(&ttf, uint32(0), uint32(offset+body.Len()), uint32(len(t)))
		body.Write(t)
		for body.Len()%4 != 0 {
			body.WriteByte(0)
		}
	}
	ttf.Write(body.Bytes())
	return ttf.Bytes()
}

// rectangle is a glyph with one contour, 500 units wide and 700 high.
func rectangle(program []byte) testGlyph {
	return testGlyph{
		points: []Point{
			{X: 0, Y: 0, Flags: flagOnCurve},
			{X: 500, Y: 0, Flags: flagOnCurve},
			{X: 500, Y: 700, Flags: flagOnCurve},
			{X: 0, Y: 700, Flags: flagOnCurve},
		},
		end:     []int{4},
		program: program,
		advance: 600,
	}
}

// newTestFont returns a font with an empty glyph 0 and the given glyphs.
func newTestFont(glyphs ...testGlyph) *testFont {
	return &testFont{
		unitsPerEm: 1000,
		glyphs:     append([]testGlyph{{advance: 500}}, glyphs...),
		family:     "Test Sans",
	}
}
