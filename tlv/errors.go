package tlv

import (
	"strconv"

	"github.com/pkg/errors"
)

// Error kinds reported by this package and the transcoders built on top of it.
// Use [errors.Is] to test for a kind, the returned errors usually carry more
// detail.
var (
	// ErrMalformedHeader indicates a truncated or invalid tag or length
	// encoding, including data values that do not fit into their parent.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrUnterminated indicates an indefinite-length value without a matching
	// end-of-contents marker.
	ErrUnterminated = errors.New("unterminated indefinite-length value")

	// ErrLengthOverflow indicates a length that cannot be represented in the
	// target encoding.
	ErrLengthOverflow = errors.New("length overflow")

	// ErrAllocation indicates that an output buffer cannot grow any further.
	ErrAllocation = errors.New("buffer too large")

	// ErrExceedsParent indicates a data value that extends beyond the end of
	// the definite-length value containing it. It matches ErrMalformedHeader.
	ErrExceedsParent = errors.WithMessage(ErrMalformedHeader, "data value exceeds parent")
)

var (
	errTruncatedHeader     = errors.WithMessage(ErrMalformedHeader, "truncated header")
	errInvalidTag          = errors.WithMessage(ErrMalformedHeader, "invalid tag number")
	errTagTooLarge         = errors.WithMessage(ErrMalformedHeader, "tag number too large")
	errReservedLength      = errors.WithMessage(ErrMalformedHeader, "reserved length octet")
	errLengthTooLarge      = errors.WithMessage(ErrMalformedHeader, "length too large")
	errInvalidEOC          = errors.WithMessage(ErrMalformedHeader, "invalid end of contents")
	errIndefinitePrimitive = errors.WithMessage(ErrMalformedHeader, "indefinite-length primitive data value")
	errExceedsInput        = errors.WithMessage(ErrMalformedHeader, "data value exceeds input")
	errNegativeLength      = errors.WithMessage(ErrLengthOverflow, "negative length")
)

// SyntaxError represents an error in the TLV encoding. The error value contains
// the location of the error within the input as well as the [Header] of the
// surrounding data value.
type SyntaxError struct {
	requireKeyedLiterals
	nonComparable

	Err error // underlying error

	// ByteOffset is the location of the error. The location is usually the start of
	// the TLV header containing the error. For unterminated indefinite-length
	// values it is the start of the header of the unterminated value.
	ByteOffset int64

	// Header is the TLV header of the constructed TLV whose value contained the
	// malformed data. It is the zero Header at the top level.
	Header Header
}

// NewSyntaxError returns a *SyntaxError for err at offset within the value
// described by h. If err already is a *SyntaxError it is returned unchanged.
func NewSyntaxError(err error, offset int, h Header) error {
	var sErr *SyntaxError
	if errors.As(err, &sErr) {
		return err
	}
	return &SyntaxError{Err: err, ByteOffset: int64(offset), Header: h}
}

func (e *SyntaxError) Unwrap() error { return e.Err }
func (e *SyntaxError) Error() string {
	b := []byte("tlv: syntax error")
	if e.Header.Tag != TagEndOfContents {
		b = append(b, " within "...)
		b = append(b, e.Header.String()...)
	}
	b = strconv.AppendInt(append(b, " at offset "...), e.ByteOffset, 10)
	if e.Err != nil {
		b = append(b, ": "...)
		b = append(b, e.Err.Error()...)
	}
	return string(b)
}
