// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package berconv

import "codello.dev/berconv/tlv"

// frame represents a constructed data value whose content is being walked.
type frame struct {
	tlv.Header

	// Start is the offset of the header of the data value.
	Start int

	// End is the offset at which the content must end. For definite-length
	// values this is given by the header. For indefinite-length values End is
	// inherited from the surrounding value, the content may not exceed it.
	End int
}

// definite reports whether the length of f is stated in its header.
func (f *frame) definite() bool {
	return f.Length != tlv.LengthIndefinite
}

// state maintains the nesting of a walk. The state consists of a stack of
// constructed values that are currently open. At the bottom of the stack there
// is a virtual constructed indefinite-length value representing the top level,
// bounded by the end of the input.
type state struct {
	stack []frame
	curr  frame // top entry of the stack
}

// reset clears the state to a single root frame ending at end. The allocated
// stack space is reused.
func (s *state) reset(start, end int) {
	if s.stack == nil {
		s.stack = make([]frame, 0, 10)
	}
	s.stack = s.stack[:0]
	s.curr = frame{
		Header: tlv.Header{Length: tlv.LengthIndefinite, Constructed: true},
		Start:  start,
		End:    end,
	}
}

// root indicates whether s is currently at the top level.
func (s *state) root() bool {
	return len(s.stack) == 0
}

// parent returns the header of the value surrounding the innermost open value,
// or the zero header if that is the top level.
func (s *state) parent() tlv.Header {
	if len(s.stack) <= 1 {
		return tlv.Header{}
	}
	return s.stack[len(s.stack)-1].Header
}

// context returns the header of the innermost open value, or the zero header
// at the top level.
func (s *state) context() tlv.Header {
	if s.root() {
		return tlv.Header{}
	}
	return s.curr.Header
}

// push opens the constructed value with header h, starting at start and with
// its content beginning at content.
func (s *state) push(h tlv.Header, start, content int) {
	end := s.curr.End
	if h.Length != tlv.LengthIndefinite {
		end = content + h.Length
	}
	s.stack = append(s.stack, s.curr)
	s.curr = frame{Header: h, Start: start, End: end}
}

// pop closes the innermost open value.
func (s *state) pop() {
	s.curr = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}
