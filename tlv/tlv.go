// Package tlv implements the tag-length-value (TLV) layer of the Basic
// Encoding Rules (BER) as specified in [Rec. ITU-T X.690] for data that is
// held entirely in memory.
// See also “[A Layman's Guide to a Subset of ASN.1, BER, and DER]”.
//
// # Headers and Values
//
// In BER each value is encoded using a tag-length-value format. The tag and
// length (we call them a header) are represented by the [Header] type. Values
// can use the primitive or constructed encoding. Values using the constructed
// encoding are followed by more BER-encoded values and can either end
// implicitly (when using definite-length encoding) or explicitly with an
// end-of-contents marker (indefinite length).
//
// [DecodeHeader] and the [Cursor] type read headers from a byte slice.
// [WriteDefiniteHeader], [WriteIndefiniteHeader] and [WriteEndOfContents]
// write them. The [Buffer] type is a growable output buffer that the writing
// functions are commonly used with.
//
// This package deals only with the syntactic layer of BER. It does not
// interpret the contents of primitive values.
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
// [A Layman's Guide to a Subset of ASN.1, BER, and DER]: http://luca.ntop.org/Teaching/Appunti/asn1.html
package tlv

import (
	"math"
	"strconv"
)

//region Tag

// Tag constitutes an ASN.1 tag, consisting of its class and number. For
// details, see Section 8 of Rec. ITU-T X.680.
//
// The class is stored in the two most significant bits, the tag number in the
// remaining 14 bits. A Tag can be constructed by combining a class with a
// number:
//
//	tlv.ClassApplication | 17
type Tag uint16

// Predefined class values. A Tag is always exactly one of these classes.
const (
	ClassUniversal Tag = iota << 14
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

// MaxTag is the largest tag number that can be represented by [Tag].
const MaxTag = 1<<14 - 1

// Class returns the class bits of t.
func (t Tag) Class() Tag {
	return t & (0b11 << 14)
}

// Number returns the tag number of t without its class.
func (t Tag) Number() uint {
	return uint(t &^ (0b11 << 14))
}

// String returns a string representation t in a format similar to the one used
// in ASN.1 notation. The tag number is enclosed by square brackets and prefixed
// with the class used. To avoid ambiguity the UNIVERSAL word is used for
// universal tags, although this is not valid ASN.1 syntax.
func (t Tag) String() string {
	num := strconv.FormatUint(uint64(t.Number()), 10)
	switch t.Class() {
	case ClassUniversal:
		return "[UNIVERSAL " + num + "]"
	case ClassApplication:
		return "[APPLICATION " + num + "]"
	case ClassPrivate:
		return "[PRIVATE " + num + "]"
	default:
		return "[" + num + "]"
	}
}

// TagEndOfContents is the reserved universal tag 0. It is only valid as part of
// the end-of-contents marker.
const TagEndOfContents Tag = 0

// These are some ASN.1 tag numbers are defined in the [ClassUniversal]
// namespace. These assignments are defined in Rec. ITU-T X.680, Section 8, Table
// 1.
const (
	TagBoolean          Tag = 1
	TagInteger          Tag = 2
	TagBitString        Tag = 3
	TagOctetString      Tag = 4
	TagNull             Tag = 5
	TagOID              Tag = 6
	TagObjectDescriptor Tag = 7
	TagExternal         Tag = 8
	TagReal             Tag = 9
	TagEnumerated       Tag = 10
	TagEmbeddedPDV      Tag = 11
	TagUTF8String       Tag = 12
	TagRelativeOID      Tag = 13
	TagTime             Tag = 14
	TagSequence         Tag = 16
	TagSet              Tag = 17
	TagNumericString    Tag = 18
	TagPrintableString  Tag = 19
	TagTeletexString    Tag = 20
	TagVideotexString   Tag = 21
	TagIA5String        Tag = 22
	TagUTCTime          Tag = 23
	TagGeneralizedTime  Tag = 24
	TagGraphicString    Tag = 25
	TagVisibleString    Tag = 26
	TagGeneralString    Tag = 27
	TagUniversalString  Tag = 28
	TagCharacterString  Tag = 29
	TagBMPString        Tag = 30
	TagDate             Tag = 31
	TagTimeOfDay        Tag = 32
	TagDateTime         Tag = 33
	TagDuration         Tag = 34
)

//endregion

//region Header

// EndOfContents is the end-of-contents marker signalling the end of a
// constructed indefinite-length element. The following are equivalent:
//
//	tlv.Header{}
//	tlv.Header{Tag: tlv.TagEndOfContents}
//	tlv.EndOfContents
var EndOfContents = Header{Tag: TagEndOfContents}

// LengthIndefinite when used as a magic number for the length of a [Header]
// indicates that the data value is encoded using the constructed
// indefinite-length format.
const LengthIndefinite = -1

// CombinedLength returns the length of a data value encoding (not including its
// header) consisting of data value encodings of the specified lengths. If any
// of the passed lengths are [LengthIndefinite] or the result does not fit into
// the int type, the result is [LengthIndefinite].
func CombinedLength(ls ...int) int {
	sum := 0
	for _, l := range ls {
		if l == LengthIndefinite {
			return LengthIndefinite
		}
		if l > math.MaxInt-sum { // overflow
			return LengthIndefinite
		}
		sum += l
	}
	return sum
}

// Header represents a TLV header. The [Header.Length] may be [LengthIndefinite]
// if an indefinite-length encoding is used. It is invalid to use the
// indefinite-length encoding when [Header.Constructed] = false.
type Header struct {
	Tag         Tag
	Constructed bool
	Length      int
}

// String returns a string representation of h.
func (h Header) String() string {
	if h == (Header{}) {
		return "EndOfContents"
	}
	s := h.Tag.String()
	if h.Constructed {
		s += "/c"
	} else {
		s += "/p"
	}
	s += ":" + strconv.Itoa(h.Length)
	return s
}

// IsEndOfContents reports whether h is the end-of-contents marker.
func (h Header) IsEndOfContents() bool {
	return h == EndOfContents
}

// EncodedLen returns the number of bytes of the complete data value described
// by h, that is h.Size() plus h.Length. If h uses the indefinite-length format
// or the sum overflows, the result is [LengthIndefinite].
func (h Header) EncodedLen() int {
	return CombinedLength(h.Size(), h.Length)
}

//endregion

// requireKeyedLiterals can be embedded in a struct to require keyed literals.
type requireKeyedLiterals struct{}

// nonComparable can be embedded in a struct to prevent comparability.
type nonComparable [0]func()
