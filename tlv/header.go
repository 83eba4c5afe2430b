package tlv

import (
	"io"
	"math"
	"math/bits"

	"codello.dev/berconv/internal/vlq"
)

// Sizes of fixed-size encodings.
const (
	// IndefiniteHeaderSize is the encoded size of an indefinite-length header
	// with a tag number below 31.
	IndefiniteHeaderSize = 2

	// EndOfContentsSize is the encoded size of the end-of-contents marker.
	EndOfContentsSize = 2
)

//region Decoding

// DecodeHeader decodes the identifier and length octets at the start of b. It
// returns the header and the number of bytes it occupies. No bytes of the value
// are inspected, so a valid header may announce more bytes than b contains.
//
// If b is empty, DecodeHeader returns io.EOF. Any other error indicates an
// invalid or truncated header, it matches [ErrMalformedHeader]. Tag numbers
// must use the shortest form. The end-of-contents marker is decoded as
// [EndOfContents]. Any other use of the reserved tag number 0 in the universal
// class is an error.
func DecodeHeader(b []byte) (h Header, n int, err error) {
	if len(b) == 0 {
		return Header{}, 0, io.EOF
	}
	c := b[0]
	n = 1
	h = Header{
		Tag:         Tag(c>>6)<<14 | Tag(c&0x1f),
		Constructed: c&0x20 == 0x20,
	}

	// If the bottom five bits are set, then the tag number is actually VLQ-encoded
	if c&0x1f == 0x1f {
		num, m, err := vlq.Parse[uint16](b[n:])
		switch {
		case err == io.EOF || err == io.ErrUnexpectedEOF:
			return h, n, errTruncatedHeader
		case err != nil || num < 31:
			// numbers below 31 must use the single octet form
			return h, n, errInvalidTag
		case num > MaxTag:
			return h, n, errTagTooLarge
		}
		h.Tag = h.Tag.Class() | Tag(num)
		n += m
	}

	if n >= len(b) {
		return h, n, errTruncatedHeader
	}
	c = b[n]
	n++
	switch {
	case c&0x80 == 0:
		// The length is encoded in the bottom 7 bits.
		h.Length = int(c)
	case c == 0x80:
		h.Length = LengthIndefinite
	case c == 0xff:
		return h, n, errReservedLength
	default:
		// Bottom 7 bits give the number of length bytes to follow.
		numBytes := int(c & 0x7f)
		if numBytes > len(b)-n {
			return h, n, errTruncatedHeader
		}
		for _, c = range b[n : n+numBytes] {
			if h.Length > math.MaxInt>>8 {
				// We can't shift h.length up without overflowing.
				return h, n, errLengthTooLarge
			}
			h.Length = h.Length<<8 | int(c)
		}
		n += numBytes
		if h == (Header{}) {
			// long-form zero length on the reserved tag
			return h, n, errInvalidEOC
		}
	}

	switch {
	case h.Tag == TagEndOfContents && h != (Header{}):
		return h, n, errInvalidEOC
	case !h.Constructed && h.Length == LengthIndefinite:
		return h, n, errIndefinitePrimitive
	}
	return h, n, nil
}

//endregion

//region Encoding

// Size computes the number of bytes required to encode h. [Header.Encode] will
// write this exact number of bytes.
func (h Header) Size() int {
	l := 1 // class, constructed, tag
	if h.Tag.Number() >= 31 {
		// tag does not fit
		l += vlq.Size(h.Tag.Number())
	}
	l++ // length
	if h.Length == LengthIndefinite || h.Length < 128 {
		return l
	}
	// multi-byte length
	return l + (bits.Len(uint(h.Length))+7)/8
}

// Encode writes h to w. It uses the definite-length form unless h.Length is
// [LengthIndefinite]. The end-of-contents marker is written for [EndOfContents].
// Encode returns the number of bytes written.
func (h Header) Encode(w io.ByteWriter) (int, error) {
	switch {
	case h == EndOfContents:
		return WriteEndOfContents(w)
	case h.Length != LengthIndefinite:
		return WriteDefiniteHeader(w, h.Tag, h.Constructed, h.Length)
	case !h.Constructed:
		return 0, errIndefinitePrimitive
	default:
		return WriteIndefiniteHeader(w, h.Tag)
	}
}

// WriteDefiniteHeader writes the identifier octets for tag followed by a
// definite length field to w. The length uses the short form for lengths below
// 128 and the long form with the minimum number of octets otherwise. It returns
// the number of bytes written. A negative length fails with
// [ErrLengthOverflow].
func WriteDefiniteHeader(w io.ByteWriter, tag Tag, constructed bool, length int) (n int, err error) {
	if length < 0 {
		return 0, errNegativeLength
	}
	if n, err = writeIdentifier(w, tag, constructed); err != nil {
		return n, err
	}

	if length < 128 {
		if err = w.WriteByte(byte(length)); err == nil {
			n++
		}
		return n, err
	}
	numBytes := (bits.Len(uint(length)) + 7) / 8
	err = w.WriteByte(0x80 | byte(numBytes))
	for ; err == nil && numBytes > 0; numBytes-- {
		n++
		err = w.WriteByte(byte(length >> uint((numBytes-1)*8)))
	}
	if err == nil {
		n++
	}
	return n, err
}

// WriteIndefiniteHeader writes the identifier octets for a constructed value
// with the given tag followed by the indefinite length marker 0x80. It returns
// the number of bytes written.
func WriteIndefiniteHeader(w io.ByteWriter, tag Tag) (n int, err error) {
	if n, err = writeIdentifier(w, tag, true); err != nil {
		return n, err
	}
	if err = w.WriteByte(0x80); err != nil {
		return n, err
	}
	return n + 1, nil
}

// WriteEndOfContents writes the two byte end-of-contents marker to w.
func WriteEndOfContents(w io.ByteWriter) (int, error) {
	if err := w.WriteByte(0x00); err != nil {
		return 0, err
	}
	if err := w.WriteByte(0x00); err != nil {
		return 1, err
	}
	return EndOfContentsSize, nil
}

// writeIdentifier writes the identifier octets of a data value with the given
// tag and encoding.
func writeIdentifier(w io.ByteWriter, tag Tag, constructed bool) (int, error) {
	b := uint8(tag.Class() >> 8)
	if constructed {
		b |= 0x20
	}
	if tag.Number() < 31 {
		b |= uint8(tag.Number())
		if err := w.WriteByte(b); err != nil {
			return 0, err
		}
		return 1, nil
	}
	b |= 0x1f
	if err := w.WriteByte(b); err != nil {
		return 0, err
	}
	n, err := vlq.Write(w, tag.Number())
	return n + 1, err
}

//endregion
