// Copyright 2024 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hinting

import "golang.org/x/image/math/fixed"

// stack is the interpreter's execution stack. Its capacity is fixed by the
// font's maxStackElements.
type stack struct {
	s   []int32
	top int
}

func newStack(n int) stack {
	return stack{s: make([]int32, n)}
}

func (s *stack) push(x int32) {
	if s.top >= len(s.s) {
		fail("stack overflow")
	}
	s.s[s.top] = x
	s.top++
}

func (s *stack) pop() int32 {
	if s.top == 0 {
		fail("stack underflow")
	}
	s.top--
	return s.s[s.top]
}

// peek returns the element i places below the top.
func (s *stack) peek(i int) int32 {
	if i < 0 || i >= s.top {
		fail("stack index %d out of range", i)
	}
	return s.s[s.top-1-i]
}

func (s *stack) pushBool(b bool) {
	s.push(bool2int32(b))
}

func (s *stack) popBool() bool {
	return s.pop() != 0
}

// pushFloat pushes a pixel distance as 26.6 fixed point.
func (s *stack) pushFloat(f float64) {
	s.push(int32(FloatToF26Dot6(f)))
}

// popFloat pops a 26.6 fixed point value as pixels.
func (s *stack) popFloat() float64 {
	return F26Dot6ToFloat(fixed.Int26_6(s.pop()))
}

func (s *stack) clear() {
	s.top = 0
}

func (s *stack) depth() int {
	return s.top
}

func (s *stack) dup() {
	s.push(s.peek(0))
}

func (s *stack) swap() {
	if s.top < 2 {
		fail("stack underflow")
	}
	s.s[s.top-1], s.s[s.top-2] = s.s[s.top-2], s.s[s.top-1]
}

// copyIndex implements CINDEX: the k'th element, counting the top as 1,
// is copied to the top.
func (s *stack) copyIndex() {
	k := s.pop()
	s.push(s.peek(int(k) - 1))
}

// moveIndex implements MINDEX: the k'th element, counting the top as 1,
// is moved to the top.
func (s *stack) moveIndex() {
	k := s.pop()
	s.move(int(k) - 1)
}

// roll moves the third element to the top.
func (s *stack) roll() {
	s.move(2)
}

func (s *stack) move(i int) {
	x := s.peek(i)
	copy(s.s[s.top-1-i:s.top-1], s.s[s.top-i:s.top])
	s.s[s.top-1] = x
}

func bool2int32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
