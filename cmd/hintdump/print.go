// Copyright 2010-2017 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"

	"github.com/goki/tthint/truetype"
	"github.com/pterm/pterm"
)

func (s *session) printFont() {
	family, err := s.font.Name(truetype.NameIDFamily)
	if err != nil {
		tracer().Infof("font family: %v", err)
	}
	pterm.Info.Printf("%s (%s)\n", family, s.path)
	l := s.font.Limits()
	data := [][]string{
		{"units per em", "glyphs", "stack", "storage", "functions", "instructions", "twilight", "cvt", "fpgm", "prep"},
		{
			strconv.Itoa(s.font.UnitsPerEm()),
			strconv.Itoa(s.font.NumGlyphs()),
			strconv.Itoa(l.MaxStackElements),
			strconv.Itoa(l.MaxStorage),
			strconv.Itoa(l.MaxFunctionDefs),
			strconv.Itoa(l.MaxInstructionDefs),
			strconv.Itoa(l.MaxTwilightPoints),
			strconv.Itoa(len(s.font.CVT())),
			strconv.Itoa(len(s.font.FontProgram())),
			strconv.Itoa(len(s.font.ControlValueProgram())),
		},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

var phantomNames = []string{"pp1", "pp2", "pp3", "pp4"}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}

func (s *session) printGlyph() {
	g := s.glyph
	title := fmt.Sprintf("glyph %d", g.Index)
	if name := s.glyphName(g.Index); name != "" {
		title += " " + name
	}
	pterm.DefaultSection.Println(fmt.Sprintf("%s at %g ppem, %s hinting, %d contours, %d bytes of instructions",
		title, s.ppem, modeName(s.mode), len(g.End), len(g.Instructions)))
	if g.HintErr != nil {
		pterm.Warning.Printf("glyph program failed, showing the unhinted outline: %v\n", g.HintErr)
	}

	data := [][]string{
		{"point", "on", "x", "y", "hinted x", "hinted y", "dx", "dy"},
	}
	np := len(g.Point)
	for i := range g.Hinted {
		u, h := g.Unhinted[i], g.Hinted[i]
		label := strconv.Itoa(i)
		if i >= np {
			label = phantomNames[i-np]
		}
		on := ""
		if u.OnCurve {
			on = "*"
		}
		data = append(data, []string{
			label, on,
			num(u.P.X), num(u.P.Y),
			num(h.P.X), num(h.P.Y),
			num(h.P.X - u.P.X), num(h.P.Y - u.P.Y),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// printState shows the graphics state glyph programs start from.
func (s *session) printState() {
	in := s.hinter.Interpreter()
	if in == nil {
		pterm.Info.Println("no hinting, no graphics state")
		return
	}
	if in.PPEM() == 0 {
		pterm.Info.Println("no size configured yet, hint a glyph first")
		return
	}
	gs := in.Baseline()
	data := [][]string{
		{"property", "value"},
		{"ppem", strconv.Itoa(in.PPEM())},
		{"scale", strconv.FormatFloat(in.Scale(), 'g', 6, 64)},
		{"round state", gs.RoundState.String()},
		{"instruction control", fmt.Sprintf("%#x", uint8(gs.InstructionControl))},
		{"minimum distance", num(gs.MinDistance)},
		{"control value cut-in", num(gs.ControlValueCutIn)},
		{"single width cut-in", num(gs.SingleWidthCutIn)},
		{"single width value", num(gs.SingleWidthValue)},
		{"delta base", strconv.Itoa(int(gs.DeltaBase))},
		{"delta shift", strconv.Itoa(int(gs.DeltaShift))},
		{"auto flip", strconv.FormatBool(gs.AutoFlip)},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	cvt := in.CVT()
	if len(cvt) == 0 {
		return
	}
	rows := [][]string{{"cvt", "value"}}
	for i, v := range cvt {
		rows = append(rows, []string{strconv.Itoa(i), num(v)})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
