// Copyright 2010-2017 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/flopp/go-findfont"
	"github.com/goki/tthint/hinting"
	"github.com/goki/tthint/truetype"
	"github.com/pterm/pterm"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
)

// A session holds the loaded font and the current hinting parameters.
type session struct {
	path   string
	font   *truetype.Font
	hinter *truetype.Hinter
	glyph  *truetype.GlyphBuf
	loaded bool

	// names resolves glyph names from the "post" table. It is nil if the
	// font cannot be read by the sfnt package.
	names   *sfnt.Font
	nameBuf sfnt.Buffer

	ppem     float64
	mode     font.Hinting
	dis      bool
	traceOps bool

	repl *readline.Instance
}

var errNoGlyph = errors.New("no glyph loaded")

func hintingMode(s string) (font.Hinting, bool) {
	switch s {
	case "full":
		return font.HintingFull, true
	case "vertical":
		return font.HintingVertical, true
	case "none":
		return font.HintingNone, true
	}
	return font.HintingNone, false
}

func modeName(m font.Hinting) string {
	switch m {
	case font.HintingFull:
		return "full"
	case font.HintingVertical:
		return "vertical"
	}
	return "none"
}

// resolveFont returns the path of a font file. A name which is not a file
// is looked up among the system fonts.
func resolveFont(name string) (string, error) {
	if name == "" {
		return "", errors.New("no font given, use -font")
	}
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	path, err := findfont.Find(name) // try to find as system font
	if err != nil {
		return "", fmt.Errorf("font %s not found: %w", name, err)
	}
	tracer().Debugf("%s is a system font at %s", name, path)
	return path, nil
}

func (s *session) loadFont(name string) error {
	path, err := resolveFont(name)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if s.font, err = truetype.Parse(data); err != nil {
		return fmt.Errorf("cannot decode font %s: %w", path, err)
	}
	if s.names, err = sfnt.Parse(data); err != nil {
		tracer().Infof("no glyph names for %s: %v", path, err)
		s.names = nil
	}
	s.path = path
	s.glyph = truetype.NewGlyphBuf()
	tracer().Infof("loaded font %s", path)
	return s.setMode(s.mode)
}

// setMode makes a new Hinter. If the font program faults, the session falls
// back to scaling only.
func (s *session) setMode(m font.Hinting) error {
	opts := &truetype.Options{Hinting: m, TraceOpcodes: s.traceOps}
	h, err := truetype.NewHinter(s.font, opts)
	if err != nil {
		pterm.Warning.Printf("font program failed, hinting disabled: %v\n", err)
		opts.Hinting = font.HintingNone
		if h, err = truetype.NewHinter(s.font, opts); err != nil {
			return err
		}
	}
	s.hinter, s.mode = h, h.Mode()
	return nil
}

func (s *session) glyphName(i truetype.Index) string {
	if s.names == nil {
		return ""
	}
	name, err := s.names.GlyphName(&s.nameBuf, sfnt.GlyphIndex(i))
	if err != nil {
		return ""
	}
	return name
}

func (s *session) hintRune(r rune) error {
	i := s.font.Index(r)
	if i == 0 {
		pterm.Warning.Printf("%q is not mapped, using glyph 0\n", r)
	}
	return s.hintGlyph(i)
}

func (s *session) hintGlyph(i truetype.Index) error {
	s.loaded = false
	if err := s.glyph.Load(s.font, i); err != nil {
		return err
	}
	s.loaded = true
	return s.rehint()
}

// rehint hints the loaded glyph again, after a change of size or mode.
func (s *session) rehint() error {
	if !s.loaded {
		return errNoGlyph
	}
	if err := s.hinter.Hint(s.glyph, s.ppem); err != nil {
		return err
	}
	s.printGlyph()
	if s.dis {
		s.disassemble("glyph")
	}
	return nil
}

func (s *session) program(which string) ([]byte, error) {
	switch which {
	case "fpgm":
		return s.font.FontProgram(), nil
	case "prep":
		return s.font.ControlValueProgram(), nil
	case "glyph":
		return s.glyph.Instructions, nil
	}
	return nil, fmt.Errorf("unknown program %q, want fpgm, prep or glyph", which)
}

func (s *session) disassemble(which string) error {
	prog, err := s.program(which)
	if err != nil {
		return err
	}
	pterm.DefaultSection.Println(fmt.Sprintf("%s, %d bytes", which, len(prog)))
	ins, err := hinting.Disassemble(prog)
	for _, in := range ins {
		pterm.Println(in.String())
	}
	if err != nil {
		pterm.Error.Println(err)
	}
	return nil
}
