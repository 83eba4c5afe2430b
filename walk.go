// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package berconv

import (
	"io"

	"codello.dev/berconv/tlv"
)

// visitor receives the data values of a single top-level data value in
// document order. Returning an error stops the walk.
type visitor interface {
	// primitive is called for a primitive data value. raw contains the header
	// and the content, the content starts at raw[n].
	primitive(h tlv.Header, raw []byte, n int) error

	// open is called for the header of a constructed data value.
	open(h tlv.Header) error

	// close is called at the end of the content of the most recently opened
	// constructed data value.
	close() error
}

// walk visits the top-level data value starting at src[offset] and returns the
// number of bytes it occupies in src. The end of indefinite-length values is
// determined by their end-of-contents marker at the same nesting level.
// End-of-contents markers are never passed to v. A marker inside a
// definite-length value or at the top level is skipped.
//
// walk does not recurse, the nesting depth is only limited by the input.
//
// If offset is at the end of src, walk returns io.EOF. All other errors are of
// type *tlv.SyntaxError.
func walk(src []byte, offset int, v visitor) (int, error) {
	var s state
	s.reset(offset, len(src))
	pos := offset

	// end closes the innermost value and reports whether the top-level value
	// is complete.
	end := func() (bool, error) {
		if err := v.close(); err != nil {
			return false, tlv.NewSyntaxError(err, s.curr.Start, s.curr.Header)
		}
		s.pop()
		return s.root(), nil
	}

	for {
		if !s.root() && s.curr.definite() && pos == s.curr.End {
			if done, err := end(); err != nil {
				return 0, err
			} else if done {
				return pos - offset, nil
			}
			continue
		}
		if pos == s.curr.End {
			if s.root() {
				return 0, io.EOF
			}
			// the indefinite-length value has reached the end of its parent or the input
			return 0, &tlv.SyntaxError{Err: tlv.ErrUnterminated, ByteOffset: int64(s.curr.Start), Header: s.parent()}
		}

		h, n, err := tlv.DecodeHeader(src[pos:s.curr.End])
		if err != nil {
			return 0, &tlv.SyntaxError{Err: err, ByteOffset: int64(pos), Header: s.context()}
		}
		switch {
		case h == tlv.EndOfContents:
			pos += n
			if s.root() {
				return pos - offset, nil
			}
			if s.curr.definite() {
				continue
			}
			if done, err := end(); err != nil {
				return 0, err
			} else if done {
				return pos - offset, nil
			}

		case h.Length != tlv.LengthIndefinite && h.Length > s.curr.End-pos-n:
			return 0, &tlv.SyntaxError{Err: tlv.ErrExceedsParent, ByteOffset: int64(pos), Header: s.context()}

		case !h.Constructed:
			if err = v.primitive(h, src[pos:pos+n+h.Length], n); err != nil {
				return 0, tlv.NewSyntaxError(err, pos, s.context())
			}
			pos += n + h.Length
			if s.root() {
				return pos - offset, nil
			}

		default:
			if err = v.open(h); err != nil {
				return 0, tlv.NewSyntaxError(err, pos, s.context())
			}
			s.push(h, pos, pos+n)
			pos += n
		}
	}
}
