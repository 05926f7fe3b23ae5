// Copyright 2024 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hinting

// A stream is a cursor over one program: the font program, the control
// value program, a glyph program or a function body. It is a value type;
// copying it forks the cursor, which is how function definitions remember
// where their body starts.
type stream struct {
	code []byte
	pc   int
}

func (s *stream) valid() bool {
	return s.code != nil
}

func (s *stream) done() bool {
	return s.pc >= len(s.code)
}

func (s *stream) nextByte() int32 {
	if s.done() {
		fail("unexpected end of instructions")
	}
	b := s.code[s.pc]
	s.pc++
	return int32(b)
}

func (s *stream) nextOpcode() Opcode {
	return Opcode(s.nextByte())
}

// nextWord reads a big-endian, sign-extended 16 bit word.
func (s *stream) nextWord() int32 {
	hi := s.nextByte()
	lo := s.nextByte()
	return int32(int16(hi<<8 | lo))
}

// jump moves the cursor by offset bytes. Callers pass the instruction's
// offset minus one, since the cursor is already past the jump opcode.
func (s *stream) jump(offset int32) {
	pc := s.pc + int(offset)
	if pc < 0 {
		fail("jump to negative offset %d", pc)
	}
	s.pc = pc
}

// skipNext consumes the next instruction, including the inline operands of
// push instructions, and returns its opcode.
func (s *stream) skipNext() Opcode {
	op := s.nextOpcode()
	n, width := pushCount(op, s)
	for ; n > 0; n-- {
		if width == 2 {
			s.nextWord()
		} else {
			s.nextByte()
		}
	}
	return op
}

// pushCount returns the number of inline operands of a push instruction and
// their width in bytes. For NPUSHB and NPUSHW it reads the count from s.
// Other instructions have no inline operands.
func pushCount(op Opcode, s *stream) (n int32, width int) {
	switch {
	case op == opNPUSHB:
		return s.nextByte(), 1
	case op == opNPUSHW:
		return s.nextByte(), 2
	case op >= opPUSHB000 && op <= opPUSHB111:
		return int32(op-opPUSHB000) + 1, 1
	case op >= opPUSHW000 && op <= opPUSHW111:
		return int32(op-opPUSHW000) + 1, 2
	}
	return 0, 0
}
