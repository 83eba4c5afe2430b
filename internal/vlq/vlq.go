// Package vlq implements [Variable-length quantity] encoding as used for
// high tag numbers in BER. A VLQ is essentially a base-128 representation of an
// unsigned integer with the eighth bit of each byte marking continuation.
//
// Decoding works on byte slices because all inputs of this module are fully
// held in memory. Encoding writes to an [io.ByteWriter].
//
// [Variable-length quantity]: https://en.wikipedia.org/wiki/Variable-length_quantity
package vlq

import (
	"errors"
	"io"
	"math/bits"
	"unsafe"
)

var (
	errNotMinimal = errors.New("vlq is not minimally encoded")
	errOverflow   = errors.New("vlq too large for target type")
)

// Parse decodes a minimally encoded VLQ from the start of b. It returns the
// value and the number of bytes it occupies in b. The maximum allowed value is
// limited by the size of T.
//
// If b is empty, Parse returns io.EOF. If b ends before the final byte of the
// VLQ, Parse returns io.ErrUnexpectedEOF.
func Parse[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](b []byte) (ret T, n int, err error) {
	if len(b) == 0 {
		return 0, 0, io.EOF
	}
	if b[0] == 0x80 {
		return 0, 0, errNotMinimal
	}

	numBits := 0
	for _, c := range b {
		n++
		ret = ret<<7 | T(c&0x7f)
		if numBits == 0 {
			numBits = bits.Len8(c & 0x7f)
		} else {
			numBits += 7
		}
		if numBits > int(unsafe.Sizeof(ret)*8) {
			return 0, 0, errOverflow
		}
		if c&0x80 == 0 {
			return ret, n, nil
		}
	}
	return 0, 0, io.ErrUnexpectedEOF
}

// Size returns the number of bytes needed to encode n as a VLQ.
func Size[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](n T) int {
	if n == 0 {
		return 1
	}
	l := 0
	for i := n; i > 0; i >>= 7 {
		l++
	}
	return l
}

// Write encodes i as a VLQ into w. Any error returned by w is returned by this
// function.
func Write[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](w io.ByteWriter, i T) (n int, err error) {
	l := Size(i)

	j := l - 1
	for ; j >= 0 && err == nil; j-- {
		b := byte(i>>(j*7)) & 0x7f
		if j > 0 {
			b |= 0x80
		}
		err = w.WriteByte(b)
	}

	return l - 1 - j, err
}
