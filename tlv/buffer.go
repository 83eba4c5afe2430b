package tlv

import (
	"io"
	"math"

	"github.com/pkg/errors"
)

// Buffer is a growable output buffer for encoded data. Bytes are only ever
// appended. Whenever an append exceeds the capacity of the buffer, the capacity
// grows to twice the current capacity plus the number of appended bytes. The
// first allocation of an empty Buffer is exactly as large as requested, so a
// Buffer sized with [Buffer.Grow] before writing a small value stays small. A
// Buffer never shrinks.
//
// In addition to appending, a Buffer supports reading back bytes at arbitrary
// offsets via [Buffer.ReadAt] and rolling back to an earlier length via
// [Buffer.Truncate].
//
// The zero value is an empty buffer ready to use.
type Buffer struct {
	buf []byte
}

// NewBuffer creates a new Buffer with at least the given initial capacity.
func NewBuffer(size int) *Buffer {
	b := new(Buffer)
	if size > 0 {
		b.buf = make([]byte, 0, size)
	}
	return b
}

// Len returns the number of bytes written to b.
func (b *Buffer) Len() int { return len(b.buf) }

// Cap returns the capacity of the underlying storage of b.
func (b *Buffer) Cap() int { return cap(b.buf) }

// Bytes returns the bytes written to b. The slice is only valid until the next
// modification of b.
func (b *Buffer) Bytes() []byte { return b.buf }

// Reset discards all bytes of b but keeps the allocated storage.
func (b *Buffer) Reset() { b.buf = b.buf[:0] }

// Truncate discards all but the first n bytes of b. It panics if n is negative
// or greater than the length of b.
func (b *Buffer) Truncate(n int) {
	if n < 0 || n > len(b.buf) {
		panic("tlv: truncation out of range")
	}
	b.buf = b.buf[:n]
}

// Grow makes sure that another n bytes can be written to b without another
// allocation. If the required capacity cannot be represented, Grow returns
// [ErrAllocation].
func (b *Buffer) Grow(n int) error {
	if n < 0 {
		panic("tlv: negative count")
	}
	if n <= cap(b.buf)-len(b.buf) {
		return nil
	}
	if n > math.MaxInt-len(b.buf) {
		return ErrAllocation
	}
	size := n
	if c := cap(b.buf); c <= (math.MaxInt-n)/2 {
		size = 2*c + n
	} else {
		size = math.MaxInt
	}
	buf := make([]byte, len(b.buf), size)
	copy(buf, b.buf)
	b.buf = buf
	return nil
}

// Write appends p to b. It implements [io.Writer].
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.Grow(len(p)); err != nil {
		return 0, err
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// WriteByte appends c to b. It implements [io.ByteWriter].
func (b *Buffer) WriteByte(c byte) error {
	if err := b.Grow(1); err != nil {
		return err
	}
	b.buf = append(b.buf, c)
	return nil
}

// ReadAt reads already written bytes starting at offset off. It implements
// [io.ReaderAt].
func (b *Buffer) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("tlv: negative offset")
	}
	if off >= int64(len(b.buf)) {
		return 0, io.EOF
	}
	n := copy(p, b.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteTo writes the contents of b to w. It implements [io.WriterTo]. Unlike
// [bytes.Buffer] the contents of b are not consumed.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.buf)
	if err == nil && n < len(b.buf) {
		err = io.ErrShortWrite
	}
	return int64(n), err
}
