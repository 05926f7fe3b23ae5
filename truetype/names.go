// Copyright 2015 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package truetype

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// A NameID identifies a string in the "name" table.
type NameID uint16

const (
	NameIDCopyright       NameID = 0
	NameIDFamily          NameID = 1
	NameIDSubfamily       NameID = 2
	NameIDUniqueSubfamily NameID = 3
	NameIDFull            NameID = 4
	NameIDVersion         NameID = 5
	NameIDPostScript      NameID = 6
)

// Platform IDs and Platform Specific IDs as per
// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6name.html
const (
	pidUnicode   = 0
	pidMacintosh = 1
	pidWindows   = 3

	psidMacintoshRoman = 0
	psidWindowsUCS2    = 1
)

// decodeName converts a name record to UTF-8.
func decodeName(b []byte, enc encoding.Encoding) (string, error) {
	r := transform.NewReader(bytes.NewReader(b), enc.NewDecoder())
	s, err := io.ReadAll(r)
	return string(s), err
}

// Name returns the font's name value for the given NameID. It prefers a
// Unicode record and falls back to a Macintosh Roman one. It returns "" and
// nil if there is no such record.
func (f *Font) Name(id NameID) (string, error) {
	if len(f.name) < 6 {
		return "", nil
	}
	d := data(f.name[2:])
	n, stringOffset := int(d.u16()), int(d.u16())
	if len(d) < 12*n {
		return "", FormatError("name table too short")
	}
	var fallback []byte
	for i := 0; i < n; i++ {
		pid, psid := d.u16(), d.u16()
		d.skip(2) // languageID
		nid, length, offset := NameID(d.u16()), int(d.u16()), int(d.u16())
		if nid != id {
			continue
		}
		start := stringOffset + offset
		if start+length > len(f.name) {
			return "", FormatError(fmt.Sprintf("name %d out of range", id))
		}
		b := f.name[start : start+length]
		switch {
		case pid == pidUnicode, pid == pidWindows && psid == psidWindowsUCS2:
			return decodeName(b, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM))
		case pid == pidMacintosh && psid == psidMacintoshRoman && fallback == nil:
			fallback = b
		}
	}
	if fallback == nil {
		return "", nil
	}
	return decodeName(fallback, charmap.Macintosh)
}
