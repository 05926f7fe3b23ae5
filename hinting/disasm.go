// Copyright 2024 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hinting

import (
	"fmt"
	"strings"
)

// An Instruction is one decoded instruction of a program.
type Instruction struct {
	Offset int
	Opcode Opcode
	Args   []int32 // inline operands of push instructions
}

func (ins Instruction) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%5d  %v", ins.Offset, ins.Opcode)
	for _, a := range ins.Args {
		fmt.Fprintf(&b, " %d", a)
	}
	return b.String()
}

// Disassemble decodes a program without running it. Opcodes without a
// built-in meaning are returned as they are; they may be defined by IDEF.
// A push instruction cut short by the end of the program is an error.
func Disassemble(program []byte) (ins []Instruction, err error) {
	defer catch(&err)
	s := stream{code: program}
	for !s.done() {
		offset := s.pc
		op := s.nextOpcode()
		n, width := pushCount(op, &s)
		var args []int32
		for ; n > 0; n-- {
			if width == 2 {
				args = append(args, s.nextWord())
			} else {
				args = append(args, s.nextByte())
			}
		}
		ins = append(ins, Instruction{Offset: offset, Opcode: op, Args: args})
	}
	return ins, nil
}
