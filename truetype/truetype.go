// Copyright 2010 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

// Package truetype decodes the parts of a TTF file that glyph hinting
// needs, and drives a hinting.Interpreter over a font's glyphs. The format
// is documented at https://developer.apple.com/fonts/TrueType-Reference-Manual/
// and https://learn.microsoft.com/en-us/typography/opentype/spec/
//
// All numbers (e.g. bounds, point co-ordinates, font metrics) are measured in
// FUnits unless noted otherwise. To convert from FUnits to pixels, scale by
// ppem / font.UnitsPerEm().
package truetype

import (
	"fmt"

	"github.com/goki/tthint/hinting"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'tthint.truetype'
func tracer() tracing.Trace {
	return tracing.Select("tthint.truetype")
}

// An Index is a Font's index of a rune.
type Index uint16

// A Bounds holds the co-ordinate range of one or more glyphs.
// The endpoints are inclusive.
type Bounds struct {
	XMin, YMin, XMax, YMax int16
}

// An HMetric holds the horizontal metrics of a single glyph.
type HMetric struct {
	AdvanceWidth    uint16
	LeftSideBearing int16
}

// A FormatError reports that the input is not a valid TrueType font.
type FormatError string

func (e FormatError) Error() string {
	return "tthint: invalid TrueType format: " + string(e)
}

// An UnsupportedError reports that the input uses a valid but unimplemented
// TrueType feature.
type UnsupportedError string

func (e UnsupportedError) Error() string {
	return "tthint: unsupported TrueType feature: " + string(e)
}

// data interprets a byte slice as a stream of integer values. Callers check
// the length before reading.
type data []byte

// u32 returns the next big-endian uint32.
func (d *data) u32() uint32 {
	x := uint32((*d)[0])<<24 | uint32((*d)[1])<<16 | uint32((*d)[2])<<8 | uint32((*d)[3])
	*d = (*d)[4:]
	return x
}

// u16 returns the next big-endian uint16.
func (d *data) u16() uint16 {
	x := uint16((*d)[0])<<8 | uint16((*d)[1])
	*d = (*d)[2:]
	return x
}

// u8 returns the next uint8.
func (d *data) u8() uint8 {
	x := (*d)[0]
	*d = (*d)[1:]
	return x
}

// skip skips the next n bytes.
func (d *data) skip(n int) {
	*d = (*d)[n:]
}

// readTable returns a slice of the TTF data given by a table's directory entry.
func readTable(ttf []byte, offsetLength []byte) ([]byte, error) {
	d := data(offsetLength)
	offset := int(d.u32())
	if offset < 0 {
		return nil, FormatError(fmt.Sprintf("offset too large: %d", uint32(offset)))
	}
	length := int(d.u32())
	if length < 0 {
		return nil, FormatError(fmt.Sprintf("length too large: %d", uint32(length)))
	}
	end := offset + length
	if end < 0 || end > len(ttf) {
		return nil, FormatError(fmt.Sprintf("offset + length too large: %d", uint32(offset)+uint32(length)))
	}
	return ttf[offset:end], nil
}

const (
	locaOffsetFormatUnknown int = iota
	locaOffsetFormatShort
	locaOffsetFormatLong
)

// A cm holds a parsed cmap entry.
type cm struct {
	start, end, delta, offset uint16
}

// A Font represents a TrueType font.
type Font struct {
	// Tables sliced from the TTF data. The different tables are documented
	// at https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6.html
	cmap, cvt, fpgm, glyf, head, hhea, hmtx, loca, maxp, name, prep []byte
	cmapIndexes                                                    []byte

	// Cached values derived from the raw ttf data.
	cm               []cm
	locaOffsetFormat int
	nGlyph, nHMetric int
	unitsPerEm       int
	bounds           Bounds
	limits           hinting.Limits
}

func (f *Font) parseCmap() error {
	const (
		cmapFormat4         = 4
		languageIndependent = 0

		// A 32-bit encoding consists of a most-significant 16-bit Platform ID and a
		// least-significant 16-bit Platform Specific ID.
		unicodeEncoding   = 0x00000003 // PID = 0 (Unicode), PSID = 3 (Unicode 2.0)
		microsoftEncoding = 0x00030001 // PID = 3 (Microsoft), PSID = 1 (UCS-2)
	)

	if len(f.cmap) < 4 {
		return FormatError("cmap too short")
	}
	d := data(f.cmap[2:])
	nsubtab := int(d.u16())
	if len(f.cmap) < 8*nsubtab+4 {
		return FormatError("cmap too short")
	}
	offset, found := 0, false
	for i := 0; i < nsubtab; i++ {
		// We read the 16-bit Platform ID and 16-bit Platform Specific ID as a single uint32.
		// All values are big-endian.
		pidPsid, o := d.u32(), int(d.u32())
		if pidPsid != unicodeEncoding && pidPsid != microsoftEncoding {
			continue
		}
		// Only format 4 subtables are decoded, so skip an encoding whose
		// subtable has another format.
		if o <= 0 || o+2 > len(f.cmap) || f.cmap[o] != 0 || f.cmap[o+1] != cmapFormat4 {
			continue
		}
		// We prefer the Unicode cmap encoding. Failing to find that, we fall
		// back onto the Microsoft cmap encoding.
		if pidPsid == unicodeEncoding {
			offset, found = o, true
			break
		}
		offset, found = o, true
	}
	if !found {
		return UnsupportedError("cmap encoding")
	}
	if offset+14 > len(f.cmap) {
		return FormatError("bad cmap offset")
	}

	d = data(f.cmap[offset:])
	d.skip(4)
	language := d.u16()
	if language != languageIndependent {
		return UnsupportedError(fmt.Sprintf("language: %d", language))
	}
	segCountX2 := int(d.u16())
	if segCountX2%2 == 1 {
		return FormatError(fmt.Sprintf("bad segCountX2: %d", segCountX2))
	}
	segCount := segCountX2 / 2
	d.skip(6)
	if len(d) < 8*segCount+2 {
		return FormatError("cmap too short")
	}
	f.cm = make([]cm, segCount)
	for i := 0; i < segCount; i++ {
		f.cm[i].end = d.u16()
	}
	d.skip(2)
	for i := 0; i < segCount; i++ {
		f.cm[i].start = d.u16()
	}
	for i := 0; i < segCount; i++ {
		f.cm[i].delta = d.u16()
	}
	for i := 0; i < segCount; i++ {
		f.cm[i].offset = d.u16()
	}
	f.cmapIndexes = []byte(d)
	return nil
}

func (f *Font) parseHead() error {
	if len(f.head) != 54 {
		return FormatError(fmt.Sprintf("bad head length: %d", len(f.head)))
	}
	d := data(f.head[18:])
	f.unitsPerEm = int(d.u16())
	if f.unitsPerEm == 0 {
		return FormatError("zero unitsPerEm")
	}
	d.skip(16)
	f.bounds.XMin = int16(d.u16())
	f.bounds.YMin = int16(d.u16())
	f.bounds.XMax = int16(d.u16())
	f.bounds.YMax = int16(d.u16())
	d.skip(6)
	switch i := d.u16(); i {
	case 0:
		f.locaOffsetFormat = locaOffsetFormatShort
	case 1:
		f.locaOffsetFormat = locaOffsetFormatLong
	default:
		return FormatError(fmt.Sprintf("bad indexToLocFormat: %d", i))
	}
	return nil
}

func (f *Font) parseHhea() error {
	if len(f.hhea) != 36 {
		return FormatError(fmt.Sprintf("bad hhea length: %d", len(f.hhea)))
	}
	d := data(f.hhea[34:])
	f.nHMetric = int(d.u16())
	if f.nHMetric == 0 || f.nHMetric > f.nGlyph {
		return FormatError(fmt.Sprintf("bad numberOfHMetrics: %d", f.nHMetric))
	}
	if 4*f.nHMetric+2*(f.nGlyph-f.nHMetric) != len(f.hmtx) {
		return FormatError(fmt.Sprintf("bad hmtx length: %d", len(f.hmtx)))
	}
	return nil
}

// parseMaxp reads the glyph count and the TrueType interpreter maxima from
// a version 1.0 maxp table. Version 0.5 tables belong to CFF fonts, which
// carry no TrueType instructions.
func (f *Font) parseMaxp() error {
	if len(f.maxp) == 6 {
		return UnsupportedError("CFF outlines")
	}
	if len(f.maxp) != 32 {
		return FormatError(fmt.Sprintf("bad maxp length: %d", len(f.maxp)))
	}
	d := data(f.maxp[4:])
	f.nGlyph = int(d.u16())
	d.skip(8) // maxPoints, maxContours, maxCompositePoints, maxCompositeContours
	d.skip(2) // maxZones
	f.limits.MaxTwilightPoints = int(d.u16())
	f.limits.MaxStorage = int(d.u16())
	f.limits.MaxFunctionDefs = int(d.u16())
	f.limits.MaxInstructionDefs = int(d.u16())
	f.limits.MaxStackElements = int(d.u16())
	return nil
}

func (f *Font) parseLoca() error {
	n := 2 * (f.nGlyph + 1)
	if f.locaOffsetFormat == locaOffsetFormatLong {
		n *= 2
	}
	if len(f.loca) < n {
		return FormatError(fmt.Sprintf("bad loca length: %d", len(f.loca)))
	}
	return nil
}

// Bounds returns the union of a Font's glyphs' bounds.
func (f *Font) Bounds() Bounds {
	return f.bounds
}

// UnitsPerEm returns the number of FUnits in a Font's em-square.
func (f *Font) UnitsPerEm() int {
	return f.unitsPerEm
}

// NumGlyphs returns the number of glyphs in a Font.
func (f *Font) NumGlyphs() int {
	return f.nGlyph
}

// Limits returns the interpreter maxima declared in the "maxp" table.
func (f *Font) Limits() hinting.Limits {
	return f.limits
}

// CVT returns the unscaled control value table.
func (f *Font) CVT() []int16 {
	cvt := make([]int16, len(f.cvt)/2)
	d := data(f.cvt)
	for i := range cvt {
		cvt[i] = int16(d.u16())
	}
	return cvt
}

// FontProgram returns the "fpgm" table, which may be empty.
func (f *Font) FontProgram() []byte {
	return f.fpgm
}

// ControlValueProgram returns the "prep" table, which may be empty.
func (f *Font) ControlValueProgram() []byte {
	return f.prep
}

// Index returns a Font's index for the given rune.
func (f *Font) Index(x rune) Index {
	if x < 0 || x > 0xffff {
		return 0
	}
	c := uint16(x)
	n := len(f.cm)
	for i := 0; i < n; i++ {
		if f.cm[i].start <= c && c <= f.cm[i].end {
			if f.cm[i].offset == 0 {
				return Index(c + f.cm[i].delta)
			}
			offset := int(f.cm[i].offset) + 2*(i-n+int(c-f.cm[i].start))
			if offset < 0 || offset+2 > len(f.cmapIndexes) {
				return 0
			}
			d := data(f.cmapIndexes[offset:])
			g := d.u16()
			if g == 0 {
				return 0
			}
			return Index(g + f.cm[i].delta)
		}
	}
	return Index(0)
}

// HMetric returns the horizontal metrics for the glyph with the given index.
func (f *Font) HMetric(i Index) HMetric {
	j := int(i)
	if j >= f.nGlyph {
		return HMetric{}
	}
	if j >= f.nHMetric {
		var hm HMetric
		p := 4 * (f.nHMetric - 1)
		d := data(f.hmtx[p:])
		hm.AdvanceWidth = d.u16()
		p += 2*(j-f.nHMetric) + 4
		d = data(f.hmtx[p:])
		hm.LeftSideBearing = int16(d.u16())
		return hm
	}
	d := data(f.hmtx[4*j:])
	return HMetric{d.u16(), int16(d.u16())}
}

// Parse returns a new Font for the given TTF data.
func Parse(ttf []byte) (font *Font, err error) {
	if len(ttf) < 12 {
		err = FormatError("TTF data is too short")
		return
	}
	d := data(ttf[0:])
	switch d.u32() {
	case 0x00010000, 0x74727565: // "true"
	case 0x4f54544f: // "OTTO"
		err = UnsupportedError("CFF outlines")
		return
	default:
		err = FormatError("bad version")
		return
	}
	n := int(d.u16())
	if len(ttf) < 16*n+12 {
		err = FormatError("TTF data is too short")
		return
	}
	f := new(Font)
	// Assign the table slices.
	for i := 0; i < n; i++ {
		x := 16*i + 12
		var table *[]byte
		switch string(ttf[x : x+4]) {
		case "cmap":
			table = &f.cmap
		case "cvt ":
			table = &f.cvt
		case "fpgm":
			table = &f.fpgm
		case "glyf":
			table = &f.glyf
		case "head":
			table = &f.head
		case "hhea":
			table = &f.hhea
		case "hmtx":
			table = &f.hmtx
		case "loca":
			table = &f.loca
		case "maxp":
			table = &f.maxp
		case "name":
			table = &f.name
		case "prep":
			table = &f.prep
		default:
			continue
		}
		if *table, err = readTable(ttf, ttf[x+8:x+16]); err != nil {
			return
		}
	}
	// Parse and sanity-check the TTF data.
	if err = f.parseHead(); err != nil {
		return
	}
	if err = f.parseMaxp(); err != nil {
		return
	}
	if err = f.parseLoca(); err != nil {
		return
	}
	if err = f.parseCmap(); err != nil {
		return
	}
	if err = f.parseHhea(); err != nil {
		return
	}
	tracer().Debugf("parsed font: %d glyphs, %d units per em, fpgm %d bytes, prep %d bytes, %d control values",
		f.nGlyph, f.unitsPerEm, len(f.fpgm), len(f.prep), len(f.cvt)/2)
	font = f
	return
}
