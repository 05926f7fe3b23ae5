// Copyright 2010-2017 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goki/tthint/truetype"
	"github.com/pterm/pterm"
)

// REPL starts interactive mode.
func (s *session) REPL() {
	for {
		line, err := s.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, ok := commands[strings.ToLower(fields[0])]
		if !ok {
			pterm.Error.Printf("unknown command %q, try help\n", fields[0])
			continue
		}
		tracer().Debugf("command %v", fields)
		quit, err := cmd.fn(s, fields[1:])
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

type command struct {
	usage string
	fn    func(*session, []string) (bool, error)
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"ppem":  {"ppem N          hint at N pixels per em", ppemCmd},
		"glyph": {"glyph X | #N    hint the glyph of character X, or glyph number N", glyphCmd},
		"dis":   {"dis fpgm|prep|glyph   disassemble a program", disCmd},
		"state": {"state           show the graphics state glyph programs start from", stateCmd},
		"mode":  {"mode full|vertical|none   set the hinting mode", modeCmd},
		"help":  {"help            show this list", helpCmd},
		"quit":  {"quit            leave", quitCmd},
	}
}

func wantArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

func ppemCmd(s *session, args []string) (bool, error) {
	if err := wantArgs(args, 1, "ppem N"); err != nil {
		return false, err
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil || v <= 0 {
		return false, fmt.Errorf("not a size: %s", args[0])
	}
	s.ppem = v
	if !s.loaded {
		return false, nil
	}
	return false, s.rehint()
}

func glyphCmd(s *session, args []string) (bool, error) {
	if err := wantArgs(args, 1, "glyph X | #N"); err != nil {
		return false, err
	}
	arg := args[0]
	if len(arg) > 1 && arg[0] == '#' {
		n, err := strconv.Atoi(arg[1:])
		if err != nil || n < 0 || n >= s.font.NumGlyphs() {
			return false, fmt.Errorf("not a glyph number: %s", arg[1:])
		}
		return false, s.hintGlyph(truetype.Index(n))
	}
	r, size := utf8.DecodeRuneInString(arg)
	if size != len(arg) {
		return false, fmt.Errorf("want a single character, have %q", arg)
	}
	return false, s.hintRune(r)
}

func disCmd(s *session, args []string) (bool, error) {
	if err := wantArgs(args, 1, "dis fpgm|prep|glyph"); err != nil {
		return false, err
	}
	if args[0] == "glyph" && !s.loaded {
		return false, errNoGlyph
	}
	return false, s.disassemble(args[0])
}

func stateCmd(s *session, args []string) (bool, error) {
	s.printState()
	return false, nil
}

func modeCmd(s *session, args []string) (bool, error) {
	if err := wantArgs(args, 1, "mode full|vertical|none"); err != nil {
		return false, err
	}
	m, ok := hintingMode(args[0])
	if !ok {
		return false, fmt.Errorf("unknown hinting mode %q", args[0])
	}
	if err := s.setMode(m); err != nil {
		return false, err
	}
	if !s.loaded {
		return false, nil
	}
	return false, s.rehint()
}

func helpCmd(s *session, args []string) (bool, error) {
	names := []string{"glyph", "ppem", "mode", "dis", "state", "help", "quit"}
	for _, name := range names {
		pterm.Println("  " + commands[name].usage)
	}
	return false, nil
}

func quitCmd(s *session, args []string) (bool, error) {
	return true, nil
}
