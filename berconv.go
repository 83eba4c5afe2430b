// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package berconv converts data encoded using the Basic Encoding Rules (BER) as
// defined in [Rec. ITU-T X.690] between the definite-length and the
// indefinite-length form of constructed data values.
//
// In the definite-length form the header of every data value states the exact
// length of its content. In the indefinite-length form the header of a
// constructed data value omits the length and its content is terminated by an
// end-of-contents marker (two zero bytes). Both forms describe the same tree of
// data values. This package rewrites a tree from one form into the other. Tags,
// nesting and the content of primitive data values are preserved.
//
// # Forms
//
// [ToDefinite] produces the definite-length form. The output is canonical:
// every length is encoded using the minimum number of octets, including the
// lengths of primitive values. Converting the output again produces identical
// bytes.
//
// [ToIndefinite] produces the indefinite-length form. Every constructed value
// is written with an indefinite length and terminated by an end-of-contents
// marker. Primitive values cannot use the indefinite-length form and are copied
// unchanged, including their headers.
//
// The input may use either form or any mix of both. An end-of-contents marker
// that appears inside a definite-length value, or in place of a top-level
// value, is dropped.
//
// # Top-Level Values
//
// Input data often consists of multiple concatenated top-level data values.
// Each call converts exactly one top-level value and reports the number of
// input bytes it occupies, so that the next call can continue after it:
//
//	for off := 0; off < len(src); {
//		out, n, err := berconv.ToDefinite(src, off)
//		if err != nil {
//			return err
//		}
//		w.Write(out)
//		off += n
//	}
//
// A conversion either succeeds completely or produces no output at all.
// Errors are of type *[tlv.SyntaxError] and indicate the offset of the
// offending data value within the input. Use [errors.Is] with the error kinds
// of package tlv to check the kind of failure.
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
package berconv

import (
	"github.com/pkg/errors"

	"codello.dev/berconv/tlv"
)

// Form is the length form of constructed data values.
//
//go:generate stringer -type=Form
type Form uint8

// Supported forms.
const (
	// Definite is the definite-length form. Each header states the length of
	// its content.
	Definite Form = iota

	// Indefinite is the indefinite-length form. Constructed values are
	// terminated by an end-of-contents marker.
	Indefinite
)

// Transcode converts the top-level data value starting at src[offset] into the
// given form and appends it to dst. It returns the number of bytes of src that
// the data value occupies.
//
// If an error occurs, dst is restored to its original length. If offset is at
// the end of src, Transcode returns io.EOF. All other decoding errors are of
// type *[tlv.SyntaxError].
func Transcode(dst *tlv.Buffer, src []byte, offset int, form Form) (n int, err error) {
	if offset < 0 || offset > len(src) {
		return 0, errors.Errorf("berconv: offset %d out of range", offset)
	}
	mark := dst.Len()
	defer func() {
		if err != nil {
			dst.Truncate(mark)
		}
	}()

	switch form {
	case Definite:
		var t tree
		if n, err = walk(src, offset, &t); err != nil {
			return 0, err
		}
		if err = t.emit(dst); err != nil {
			return 0, tlv.NewSyntaxError(err, offset, tlv.Header{})
		}
		return n, nil
	case Indefinite:
		if n, err = walk(src, offset, indefiniteWriter{dst}); err != nil {
			return 0, err
		}
		return n, nil
	default:
		return 0, errors.Errorf("berconv: invalid form %s", form)
	}
}

// ToDefinite converts the top-level data value starting at src[offset] into the
// definite-length form. It returns the converted data value and the number of
// bytes of src that the data value occupies. See [Transcode] for details.
func ToDefinite(src []byte, offset int) ([]byte, int, error) {
	return transcode(src, offset, Definite)
}

// ToIndefinite converts the top-level data value starting at src[offset] into
// the indefinite-length form. It returns the converted data value and the
// number of bytes of src that the data value occupies. See [Transcode] for
// details.
func ToIndefinite(src []byte, offset int) ([]byte, int, error) {
	return transcode(src, offset, Indefinite)
}

func transcode(src []byte, offset int, form Form) ([]byte, int, error) {
	var buf tlv.Buffer
	n, err := Transcode(&buf, src, offset, form)
	if err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), n, nil
}
