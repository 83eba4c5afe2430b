package tlv

import (
	"io"
)

//region Scanning

// ScanIndefinite computes the content length of an indefinite-length data
// value. b must start at the first content byte, i.e. immediately after the
// indefinite-length header. The returned length does not include the
// terminating end-of-contents marker.
//
// The scan tracks the nesting depth of indefinite-length values inside b and
// only accepts an end-of-contents marker at depth zero. Values using the
// definite-length format are skipped according to their length, so their
// content never terminates the scan. If b ends before the matching
// end-of-contents marker, the returned error matches [ErrUnterminated].
//
// Errors are of type *[SyntaxError] with offsets relative to b.
func ScanIndefinite(b []byte) (int, error) {
	return scanIndefinite(b, 0, 0)
}

// scanIndefinite implements [ScanIndefinite] for the content starting at
// b[pos]. start is the offset of the header of the indefinite-length value and
// is used for error reporting. All offsets are absolute within b.
func scanIndefinite(b []byte, start, pos int) (int, error) {
	begin := pos
	open := []int{start} // header offsets of unterminated values
	for {
		if pos == len(b) {
			return 0, &SyntaxError{Err: ErrUnterminated, ByteOffset: int64(open[len(open)-1])}
		}
		h, n, err := DecodeHeader(b[pos:])
		if err != nil {
			return 0, &SyntaxError{Err: err, ByteOffset: int64(pos)}
		}
		switch {
		case h == EndOfContents:
			open = open[:len(open)-1]
			if len(open) == 0 {
				return pos - begin, nil
			}
		case h.Length == LengthIndefinite:
			open = append(open, pos)
		case h.Length > len(b)-pos-n:
			return 0, &SyntaxError{Err: errExceedsInput, ByteOffset: int64(pos)}
		default:
			n += h.Length
		}
		pos += n
	}
}

// ElementSize returns the header and the total encoded size of the data value
// at the start of b. The size includes the header, the content and, for
// indefinite-length values, the end-of-contents marker. For a definite-length
// value the content is not inspected.
//
// If b is empty, ElementSize returns io.EOF. Errors are of type *[SyntaxError]
// with offsets relative to b.
func ElementSize(b []byte) (Header, int, error) {
	return elementSize(b, 0)
}

// elementSize implements [ElementSize] for the data value starting at b[pos].
func elementSize(b []byte, pos int) (Header, int, error) {
	h, n, err := DecodeHeader(b[pos:])
	if err == io.EOF {
		return h, 0, err
	} else if err != nil {
		return h, 0, &SyntaxError{Err: err, ByteOffset: int64(pos)}
	}
	if h.Length != LengthIndefinite {
		if h.Length > len(b)-pos-n {
			return h, 0, &SyntaxError{Err: errExceedsInput, ByteOffset: int64(pos)}
		}
		return h, n + h.Length, nil
	}
	l, err := scanIndefinite(b, pos, pos+n)
	if err != nil {
		return h, 0, err
	}
	return h, n + l + EndOfContentsSize, nil
}

//endregion

//region Cursor

// Cursor is a read position within an in-memory BER encoding. It reads headers
// and values without copying, all returned byte slices share memory with the
// underlying buffer.
//
// A Cursor remembers the first error that occurs. Once an error has occurred
// all further reads return the same error, see [Cursor.Err]. All errors except
// io.EOF are of type *[SyntaxError] with offsets relative to the start of the
// underlying buffer.
type Cursor struct {
	buf []byte
	off int
	hdr int // offset of the most recently read header
	err error
}

// NewCursor creates a new Cursor reading from b, starting at offset.
func NewCursor(b []byte, offset int) *Cursor {
	return &Cursor{buf: b, off: offset, hdr: offset}
}

// Offset returns the current read position within the underlying buffer.
func (c *Cursor) Offset() int { return c.off }

// Len returns the number of unread bytes.
func (c *Cursor) Len() int { return len(c.buf) - c.off }

// Err returns the error that stopped c, if any. io.EOF is not recorded.
func (c *Cursor) Err() error { return c.err }

// fail records err and returns it.
func (c *Cursor) fail(err error) error {
	if err != io.EOF {
		c.err = err
	}
	return err
}

// PeekHeader decodes the header at the current position without advancing c.
// It returns the header and the number of bytes it occupies.
func (c *Cursor) PeekHeader() (Header, int, error) {
	if c.err != nil {
		return Header{}, 0, c.err
	}
	h, n, err := DecodeHeader(c.buf[c.off:])
	if err == io.EOF {
		return h, 0, err
	} else if err != nil {
		return h, 0, c.fail(&SyntaxError{Err: err, ByteOffset: int64(c.off)})
	}
	return h, n, nil
}

// ReadHeader decodes the header at the current position and advances c past
// it. The value of the returned header must be consumed using [Cursor.Value] or
// [Cursor.SkipValue], or, for constructed values, by reading the nested values.
func (c *Cursor) ReadHeader() (Header, error) {
	h, n, err := c.PeekHeader()
	if err != nil {
		return h, err
	}
	c.hdr = c.off
	c.off += n
	return h, nil
}

// ContentLength returns the content length of the value whose header h has
// just been read by [Cursor.ReadHeader]. For definite-length values this is
// h.Length. For indefinite-length values the content is scanned for the
// matching end-of-contents marker. The returned length does not include the
// marker. c is not advanced.
func (c *Cursor) ContentLength(h Header) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	if h.Length != LengthIndefinite {
		if h.Length > c.Len() {
			return 0, c.fail(&SyntaxError{Err: errExceedsInput, ByteOffset: int64(c.hdr)})
		}
		return h.Length, nil
	}
	l, err := scanIndefinite(c.buf, c.hdr, c.off)
	if err != nil {
		return 0, c.fail(err)
	}
	return l, nil
}

// Value returns the content of the primitive value whose header h has just
// been read and advances c past it.
func (c *Cursor) Value(h Header) ([]byte, error) {
	if h.Constructed {
		return nil, c.fail(&SyntaxError{Err: ErrMalformedHeader, ByteOffset: int64(c.hdr), Header: h})
	}
	l, err := c.ContentLength(h)
	if err != nil {
		return nil, err
	}
	v := c.buf[c.off : c.off+l]
	c.off += l
	return v, nil
}

// SkipValue advances c past the content of the value whose header h has just
// been read. For primitive values exactly h.Length bytes are skipped. For
// indefinite-length values the end-of-contents marker is skipped as well.
func (c *Cursor) SkipValue(h Header) error {
	l, err := c.ContentLength(h)
	if err != nil {
		return err
	}
	c.off += l
	if h.Length == LengthIndefinite {
		c.off += EndOfContentsSize
	}
	return nil
}

// Next returns the header and the complete encoding of the next data value and
// advances c past it.
func (c *Cursor) Next() (Header, []byte, error) {
	if c.err != nil {
		return Header{}, nil, c.err
	}
	h, n, err := elementSize(c.buf, c.off)
	if err != nil {
		return h, nil, c.fail(err)
	}
	c.hdr = c.off
	raw := c.buf[c.off : c.off+n]
	c.off += n
	return h, raw, nil
}

//endregion
