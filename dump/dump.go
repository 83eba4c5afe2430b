// Package dump prints a human-readable listing of BER-encoded data. Each
// header is printed on its own row, followed by the content of primitive values
// in hexadecimal and ASCII:
//
//	CLAS  F  -ID-  LENGTH  HEX CONTENTS                         ASCII
//	UNIV  C    16   INDEF
//	UNIV  P     4       3  01 02 03                             ...
//	 EOC
//
// The listing is a diagnostic aid. It does not validate the content of
// primitive values and does not re-encode anything.
package dump

import (
	"fmt"
	"io"
	"strings"

	"codello.dev/berconv/tlv"
)

// SegmentSize is the number of content bytes printed per row.
const SegmentSize = 12

// Heading is the first row of every listing.
const Heading = "CLAS  F  -ID-  LENGTH  HEX CONTENTS                         ASCII"

// Option configures a dump.
type Option func(*config)

type config struct {
	indent   bool
	maxDepth int
}

// WithIndent controls whether rows are indented by two spaces per nesting
// level.
func WithIndent(indent bool) Option {
	return func(c *config) { c.indent = indent }
}

// WithMaxDepth limits the listing to data values nested at most depth levels
// deep. The content of constructed values at the limit is summarized in a
// single row. A negative depth means no limit.
func WithMaxDepth(depth int) Option {
	return func(c *config) { c.maxDepth = depth }
}

// Dump writes a listing of all data values in src to w. If src contains
// invalid data, the rows up to the error are written and the error is
// returned. Decoding errors are of type *[tlv.SyntaxError].
func Dump(w io.Writer, src []byte, opts ...Option) error {
	cfg := config{maxDepth: -1}
	for _, opt := range opts {
		opt(&cfg)
	}
	d := dumper{w: w, cfg: cfg, cur: tlv.NewCursor(src, 0)}
	if _, err := io.WriteString(w, Heading+"\n"); err != nil {
		return err
	}
	return d.run()
}

// dumper holds the state of a single listing.
type dumper struct {
	w   io.Writer
	cfg config
	cur *tlv.Cursor

	// ends holds the constructed values that are currently open.
	ends []open
}

// open is a constructed value whose content is being listed.
type open struct {
	start int // offset of the header
	end   int // end of the content, LengthIndefinite if terminated by EOC
}

func (d *dumper) run() error {
	for {
		// leave definite-length values whose content is complete
		for len(d.ends) > 0 && d.ends[len(d.ends)-1].end == d.cur.Offset() {
			d.ends = d.ends[:len(d.ends)-1]
		}
		off := d.cur.Offset()
		h, err := d.cur.ReadHeader()
		if err == io.EOF {
			if n := len(d.ends); n > 0 {
				// only indefinite-length values can reach the end of the input
				return &tlv.SyntaxError{Err: tlv.ErrUnterminated, ByteOffset: int64(d.ends[n-1].start)}
			}
			return nil
		} else if err != nil {
			return err
		}

		if err = d.checkParent(h, off); err != nil {
			return err
		}

		switch {
		case h.IsEndOfContents():
			if n := len(d.ends); n > 0 && d.ends[n-1].end == tlv.LengthIndefinite {
				d.ends = d.ends[:n-1]
			}
			err = d.row(" EOC\n")
		case h.Constructed && d.cfg.maxDepth >= 0 && len(d.ends) >= d.cfg.maxDepth:
			err = d.summary(h)
		case h.Constructed:
			err = d.constructed(h, off)
		default:
			err = d.primitive(h)
		}
		if err != nil {
			return err
		}
	}
}

// checkParent verifies that the value with header h starting at off ends
// within the innermost open definite-length value.
func (d *dumper) checkParent(h tlv.Header, off int) error {
	if len(d.ends) == 0 || d.ends[len(d.ends)-1].end == tlv.LengthIndefinite {
		return nil
	}
	l, err := d.cur.ContentLength(h)
	if err != nil {
		return err
	}
	end := d.cur.Offset() + l
	if h.Length == tlv.LengthIndefinite {
		end += tlv.EndOfContentsSize
	}
	if end > d.ends[len(d.ends)-1].end {
		return &tlv.SyntaxError{Err: tlv.ErrExceedsParent, ByteOffset: int64(off)}
	}
	return nil
}

// prefix returns the indentation for the current nesting level.
func (d *dumper) prefix() string {
	if !d.cfg.indent {
		return ""
	}
	return strings.Repeat("  ", len(d.ends))
}

func (d *dumper) row(s string) error {
	_, err := io.WriteString(d.w, d.prefix()+s)
	return err
}

func (d *dumper) constructed(h tlv.Header, off int) error {
	end := tlv.LengthIndefinite
	row := fmt.Sprintf("%s   INDEF\n", ident(h))
	if h.Length != tlv.LengthIndefinite {
		if _, err := d.cur.ContentLength(h); err != nil {
			return err
		}
		end = d.cur.Offset() + h.Length
		row = fmt.Sprintf("%s  %6d\n", ident(h), h.Length)
	}
	if err := d.row(row); err != nil {
		return err
	}
	d.ends = append(d.ends, open{start: off, end: end})
	return nil
}

// summary prints a single row for a constructed value and skips its content.
func (d *dumper) summary(h tlv.Header) error {
	l, err := d.cur.ContentLength(h)
	if err != nil {
		return err
	}
	if err = d.cur.SkipValue(h); err != nil {
		return err
	}
	if h.Length == tlv.LengthIndefinite {
		return d.row(fmt.Sprintf("%s   INDEF  (%d bytes skipped)\n", ident(h), l))
	}
	return d.row(fmt.Sprintf("%s  %6d  (skipped)\n", ident(h), h.Length))
}

func (d *dumper) primitive(h tlv.Header) error {
	v, err := d.cur.Value(h)
	if err != nil {
		return err
	}
	head := fmt.Sprintf("%s  %6d", ident(h), h.Length)
	if len(v) == 0 {
		return d.row(head + "\n")
	}
	for i, seg := range segments(v) {
		if i == 0 {
			err = d.row(head + "  " + seg + "\n")
		} else {
			err = d.row(strings.Repeat(" ", len(head)+2) + seg + "\n")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ident formats the class, form and tag number columns of h.
func ident(h tlv.Header) string {
	form := 'P'
	if h.Constructed {
		form = 'C'
	}
	return fmt.Sprintf("%4s  %c  %4d", className(h.Tag), form, h.Tag.Number())
}

func className(t tlv.Tag) string {
	switch t.Class() {
	case tlv.ClassUniversal:
		return "UNIV"
	case tlv.ClassApplication:
		return "APPL"
	case tlv.ClassContextSpecific:
		return "CTXT"
	default:
		return "PRIV"
	}
}

// segments formats v into rows of at most SegmentSize bytes. Each row contains
// the hexadecimal bytes padded to a fixed width followed by their printable
// ASCII characters.
func segments(v []byte) []string {
	rows := make([]string, 0, (len(v)+SegmentSize-1)/SegmentSize)
	var sb strings.Builder
	for len(v) > 0 {
		seg := v[:min(len(v), SegmentSize)]
		v = v[len(seg):]

		sb.Reset()
		for _, b := range seg {
			fmt.Fprintf(&sb, "%02x ", b)
		}
		sb.WriteString(strings.Repeat("   ", SegmentSize-len(seg)))
		sb.WriteByte(' ')
		for _, b := range seg {
			if b > 31 && b < 127 {
				sb.WriteByte(b)
			} else {
				sb.WriteByte('.')
			}
		}
		rows = append(rows, sb.String())
	}
	return rows
}
