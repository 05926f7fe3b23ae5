// Copyright 2010-2017 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

// Command hintdump loads a TrueType font, hints glyphs at a pixel size and
// prints their points before and after hinting. With -i it starts an
// interactive session.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'tthint.cli'
func tracer() tracing.Trace {
	return tracing.Select("tthint.cli")
}

var tracerKeys = []string{"tthint.cli", "tthint.hinting", "tthint.truetype"}

var (
	fontfile    = flag.String("font", "", "font file, or name of a system font, to hint")
	ppem        = flag.Float64("ppem", 12, "size in pixels per em")
	glyphs      = flag.String("glyphs", "", "characters whose glyphs to hint")
	mode        = flag.String("mode", "full", "hinting mode [full|vertical|none]")
	dis         = flag.Bool("dis", false, "disassemble the font program, control value program and glyph programs")
	tlevel      = flag.String("trace", "Error", "trace level [Debug|Info|Error]")
	interactive = flag.Bool("i", false, "start an interactive session")
)

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
	}
	for _, key := range tracerKeys {
		conf["trace."+key] = "Error"
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	flag.Parse()
	if !setTraceLevel(*tlevel) {
		pterm.Error.Printf("invalid trace level: %s\n", *tlevel)
		os.Exit(2)
	}

	m, ok := hintingMode(*mode)
	if !ok {
		pterm.Error.Printf("invalid hinting mode: %s\n", *mode)
		os.Exit(2)
	}
	s := &session{ppem: *ppem, mode: m, dis: *dis, traceOps: *tlevel == "Debug"}
	if err := s.loadFont(*fontfile); err != nil {
		pterm.Error.Println(err)
		os.Exit(3)
	}
	s.printFont()
	if s.dis {
		s.disassemble("fpgm")
		s.disassemble("prep")
	}
	for _, r := range *glyphs {
		if err := s.hintRune(r); err != nil {
			pterm.Error.Println(err)
		}
	}
	if !*interactive {
		return
	}

	repl, err := readline.New("hint > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	defer repl.Close()
	s.repl = repl
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	s.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// setTraceLevel sets all tracers to the level called name.
func setTraceLevel(name string) bool {
	for _, key := range tracerKeys {
		t := tracing.Select(key)
		switch name {
		case "Debug":
			t.SetTraceLevel(tracing.LevelDebug)
		case "Info":
			t.SetTraceLevel(tracing.LevelInfo)
		case "Error":
			t.SetTraceLevel(tracing.LevelError)
		default:
			return false
		}
	}
	return true
}
