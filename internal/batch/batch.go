// Package batch converts inputs consisting of many concatenated top-level data
// values.
package batch

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"codello.dev/berconv"
	"codello.dev/berconv/internal/logging"
	"codello.dev/berconv/tlv"
)

var logger = logging.New("batch")

// Span is the location of a top-level data value within the input.
type Span struct {
	Offset int
	Len    int
}

// End returns the offset immediately after s.
func (s Span) End() int {
	return s.Offset + s.Len
}

// Split locates every top-level data value in src. End-of-contents markers at
// the top level, such as trailing zero padding, do not form a data value and
// are omitted.
//
// If src contains an error, Split returns the spans found before it together
// with the error. Values following an error cannot be located.
func Split(src []byte) ([]Span, error) {
	spans, _, e := split(src)
	return spans, e
}

// split implements Split. It also returns the offset of the data value that
// could not be located.
func split(src []byte) (spans []Span, bad int, e error) {
	cur := tlv.NewCursor(src, 0)
	for {
		off := cur.Offset()
		h, raw, e := cur.Next()
		if e == io.EOF {
			return spans, 0, nil
		} else if e != nil {
			return spans, off, e
		}
		if h.IsEndOfContents() {
			continue
		}
		spans = append(spans, Span{Offset: off, Len: len(raw)})
	}
}

// ElementError reports a top-level data value that could not be converted.
type ElementError struct {
	Index  int // position among the top-level data values
	Offset int // offset of the data value within the input
	Err    error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("data value %d at offset %d: %v", e.Index, e.Offset, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}

// Skipped reports whether e consists only of *ElementError, i.e. whether
// Convert with KeepGoing wrote every data value except the failed ones.
func Skipped(e error) bool {
	if e == nil {
		return false
	}
	for _, err := range multierr.Errors(e) {
		var elemErr *ElementError
		if !errors.As(err, &elemErr) {
			return false
		}
	}
	return true
}

// Options contains Convert options.
type Options struct {
	// Form is the output form.
	Form berconv.Form

	// Jobs is the maximum number of data values converted concurrently.
	// Zero means runtime.GOMAXPROCS.
	Jobs int

	// KeepGoing skips data values that fail to convert, instead of stopping at
	// the first failure.
	KeepGoing bool
}

// Stats contains Convert counters.
// Input that cannot be split into data values counts as a single failed data
// value.
type Stats struct {
	Elements int   // number of top-level data values found
	Failed   int   // number of data values that failed to convert
	BytesIn  int64 // input bytes of converted data values
	BytesOut int64 // output bytes written
}

type result struct {
	buf  tlv.Buffer
	e    error
	done bool
}

// Convert converts every top-level data value in src and writes the results
// to w in input order. A data value is written only after it has been
// converted completely.
//
// Without opts.KeepGoing, Convert stops at the first data value that fails to
// convert. Data values before it are written, data values after it are not.
// With opts.KeepGoing, failing data values are skipped and their errors are
// combined into the returned error.
//
// Conversion failures are reported as *ElementError. The underlying
// *tlv.SyntaxError reports offsets relative to the start of src.
// If ctx is canceled, no further data values are converted and the remaining
// output is not written.
func Convert(ctx context.Context, w io.Writer, src []byte, opts Options) (st Stats, e error) {
	spans, bad, splitErr := split(src)
	st.Elements = len(spans)
	if splitErr != nil {
		// the remainder of the input is one more data value, and it failed
		splitErr = &ElementError{Index: len(spans), Offset: bad, Err: splitErr}
		st.Elements++
		st.Failed++
		if !opts.KeepGoing {
			// a sequential conversion would stop at the broken data value too
			e = splitErr
		}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	logger.Debug("converting",
		zap.Int("elements", len(spans)),
		zap.Stringer("form", opts.Form),
		zap.Int("jobs", jobs),
	)

	// Jobs are started in input order and every started job runs to
	// completion, so all data values before a failure are converted.
	results := make([]result, len(spans))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, span := range spans {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res := &results[i]
			defer func() { res.done = true }()
			// the output is about as large as the input
			if e := res.buf.Grow(span.Len); e != nil {
				res.e = &ElementError{Index: i, Offset: span.Offset, Err: e}
				return e
			}
			n, e := berconv.Transcode(&res.buf, src, span.Offset, opts.Form)
			if e == nil && n != span.Len {
				e = errors.Errorf("consumed %d bytes instead of %d", n, span.Len)
			}
			if e != nil {
				res.e = &ElementError{Index: i, Offset: span.Offset, Err: e}
				if !opts.KeepGoing {
					return res.e
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, span := range spans {
		res := &results[i]
		switch {
		case !res.done:
			return st, ctx.Err()
		case res.e != nil:
			st.Failed++
			if !opts.KeepGoing {
				return st, res.e
			}
			logger.Warn("data value skipped",
				zap.Int("index", i),
				zap.Int("offset", span.Offset),
				zap.Error(res.e),
			)
			e = multierr.Append(e, res.e)
			continue
		}
		n, werr := res.buf.WriteTo(w)
		res.buf = tlv.Buffer{}
		st.BytesOut += n
		if werr != nil {
			return st, multierr.Append(e, errors.Wrap(werr, "write output"))
		}
		st.BytesIn += int64(span.Len)
	}

	if opts.KeepGoing && splitErr != nil {
		logger.Warn("remaining input skipped", zap.Error(splitErr))
		e = multierr.Append(e, splitErr)
	}
	logger.Debug("converted",
		zap.Int("elements", st.Elements),
		zap.Int("failed", st.Failed),
		zap.Int64("bytes-in", st.BytesIn),
		zap.Int64("bytes-out", st.BytesOut),
	)
	return st, e
}
