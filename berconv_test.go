// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package berconv_test

import (
	"errors"
	"io"
	"testing"

	"codello.dev/berconv"
	"codello.dev/berconv/tlv"
)

func TestPrimitiveUnchanged(t *testing.T) {
	assert, require := makeAR(t)

	src := bytesFromHex("04 03 010203")
	out, n, err := berconv.ToIndefinite(src, 0)
	require.NoError(err)
	assert.Equal(5, n)
	assert.Equal(src, out)

	out, n, err = berconv.ToDefinite(src, 0)
	require.NoError(err)
	assert.Equal(5, n)
	assert.Equal(src, out)
}

func TestIndefiniteToDefinite(t *testing.T) {
	assert, require := makeAR(t)

	src := bytesFromHex("3080 020105 0402AABB 0000")
	out, n, err := berconv.ToDefinite(src, 0)
	require.NoError(err)
	assert.Equal(len(src), n)
	assert.Equal(bytesFromHex("3007 020105 0402AABB"), out)
}

func TestEmptyConstructed(t *testing.T) {
	assert, require := makeAR(t)

	out, n, err := berconv.ToIndefinite(bytesFromHex("3000"), 0)
	require.NoError(err)
	assert.Equal(2, n)
	assert.Equal(bytesFromHex("3080 0000"), out)

	out, n, err = berconv.ToDefinite(bytesFromHex("3080 0000"), 0)
	require.NoError(err)
	assert.Equal(4, n)
	assert.Equal(bytesFromHex("3000"), out)
}

func TestNestedIndefinite(t *testing.T) {
	assert, require := makeAR(t)

	src := bytesFromHex("3080 3180 0401AA 0000 0000")
	out, n, err := berconv.ToDefinite(src, 0)
	require.NoError(err)
	assert.Equal(len(src), n)
	assert.Equal(bytesFromHex("3005 3103 0401AA"), out)

	back, _, err := berconv.ToIndefinite(out, 0)
	require.NoError(err)
	assert.Equal(src, back)
}

func TestLongForm(t *testing.T) {
	assert, require := makeAR(t)

	content := make([]byte, 200)
	for i := range content {
		content[i] = byte(i)
	}
	src := append(bytesFromHex("3080 0481C8"), content...)
	src = append(src, 0x00, 0x00)

	out, n, err := berconv.ToDefinite(src, 0)
	require.NoError(err)
	assert.Equal(len(src), n)
	require.Len(out, 3+3+200)
	assert.Equal(bytesFromHex("3081CB 0481C8"), out[:6])
	assert.Equal(content, out[6:])
}

func TestHighTag(t *testing.T) {
	assert, require := makeAR(t)

	src := bytesFromHex("BF812D80 0500 0000")
	out, _, err := berconv.ToDefinite(src, 0)
	require.NoError(err)
	assert.Equal(bytesFromHex("BF812D02 0500"), out)
}

func TestNonMinimalPrimitive(t *testing.T) {
	assert, require := makeAR(t)

	src := bytesFromHex("3080 048102AABB 0000")
	out, _, err := berconv.ToDefinite(src, 0)
	require.NoError(err)
	assert.Equal(bytesFromHex("3004 0402AABB"), out)

	out, _, err = berconv.ToIndefinite(src, 0)
	require.NoError(err)
	assert.Equal(src, out)
}

func TestStrayEndOfContents(t *testing.T) {
	assert, require := makeAR(t)

	src := bytesFromHex("3005 0000 020105")
	out, n, err := berconv.ToDefinite(src, 0)
	require.NoError(err)
	assert.Equal(len(src), n)
	assert.Equal(bytesFromHex("3003 020105"), out)

	out, n, err = berconv.ToIndefinite(src, 0)
	require.NoError(err)
	assert.Equal(len(src), n)
	assert.Equal(bytesFromHex("3080 020105 0000"), out)

	// a marker at the top level is consumed without output
	for _, form := range []berconv.Form{berconv.Definite, berconv.Indefinite} {
		var dst tlv.Buffer
		n, err = berconv.Transcode(&dst, bytesFromHex("0000 0500"), 0, form)
		require.NoError(err, form)
		assert.Equal(2, n, form)
		assert.Zero(dst.Len(), form)
	}
}

func TestOffset(t *testing.T) {
	assert, require := makeAR(t)

	src := bytesFromHex("020101 3080 020102 0000 3103 020103")
	var dst tlv.Buffer
	var sizes []int
	for off := 0; ; {
		n, err := berconv.Transcode(&dst, src, off, berconv.Definite)
		if err == io.EOF {
			break
		}
		require.NoError(err)
		sizes = append(sizes, n)
		off += n
	}
	assert.Equal([]int{3, 7, 5}, sizes)
	assert.Equal(bytesFromHex("020101 3003 020102 3103 020103"), dst.Bytes())

	_, _, err := berconv.ToDefinite(src, len(src)+1)
	assert.Error(err)
	_, _, err = berconv.ToDefinite(src, -1)
	assert.Error(err)
}

func TestInvalidForm(t *testing.T) {
	_, require := makeAR(t)

	var dst tlv.Buffer
	_, err := berconv.Transcode(&dst, bytesFromHex("0500"), 0, berconv.Form(7))
	require.Error(err)
	require.Zero(dst.Len())
}

func TestErrors(t *testing.T) {
	tests := map[string]struct {
		src     string
		wantErr error
		offset  int64
		header  tlv.Header
	}{
		"TruncatedPrimitive":   {"040A 0102030405", tlv.ErrMalformedHeader, 0, tlv.Header{}},
		"TruncatedNested":      {"3080 040A 010203", tlv.ErrMalformedHeader, 2, tlv.Header{Tag: tlv.TagSequence, Constructed: true, Length: tlv.LengthIndefinite}},
		"ChildExceedsParent":   {"3003 0405 01020304", tlv.ErrMalformedHeader, 2, tlv.Header{Tag: tlv.TagSequence, Constructed: true, Length: 3}},
		"Unterminated":         {"3080 020105", tlv.ErrUnterminated, 0, tlv.Header{}},
		"UnterminatedInner":    {"3080 3180 0500 0000", tlv.ErrUnterminated, 0, tlv.Header{}},
		"UnterminatedInParent": {"3004 3180 0500 0000", tlv.ErrUnterminated, 2, tlv.Header{Tag: tlv.TagSequence, Constructed: true, Length: 4}},
		"TruncatedHeader":      {"3080 1F", tlv.ErrMalformedHeader, 2, tlv.Header{Tag: tlv.TagSequence, Constructed: true, Length: tlv.LengthIndefinite}},
		"ReservedLength":       {"30FF", tlv.ErrMalformedHeader, 0, tlv.Header{}},
		"IndefinitePrimitive":  {"0480 0000", tlv.ErrMalformedHeader, 0, tlv.Header{}},
		"InvalidEOC":           {"3080 0001 00", tlv.ErrMalformedHeader, 2, tlv.Header{Tag: tlv.TagSequence, Constructed: true, Length: tlv.LengthIndefinite}},
	}
	for name, tt := range tests {
		for _, form := range []berconv.Form{berconv.Definite, berconv.Indefinite} {
			t.Run(name+"/"+form.String(), func(t *testing.T) {
				assert, require := makeAR(t)

				dst := tlv.NewBuffer(0)
				_, _ = dst.Write([]byte("keep"))
				n, err := berconv.Transcode(dst, bytesFromHex(tt.src), 0, form)
				require.ErrorIs(err, tt.wantErr)
				assert.Zero(n)
				assert.Equal([]byte("keep"), dst.Bytes(), "partial output")

				var sErr *tlv.SyntaxError
				require.True(errors.As(err, &sErr))
				assert.Equal(tt.offset, sErr.ByteOffset)
				assert.Equal(tt.header, sErr.Header)
			})
		}
	}
}

func TestDepth(t *testing.T) {
	assert, require := makeAR(t)

	const depth = 50
	var src, want []byte
	want = bytesFromHex("020105")
	for range depth {
		src = append(src, 0x30, 0x80)
		var hdr tlv.Buffer
		_, err := tlv.WriteDefiniteHeader(&hdr, tlv.TagSequence, true, len(want))
		require.NoError(err)
		want = append(hdr.Bytes(), want...)
	}
	src = append(src, 0x02, 0x01, 0x05)
	for range depth {
		src = append(src, 0x00, 0x00)
	}

	out, n, err := berconv.ToDefinite(src, 0)
	require.NoError(err)
	assert.Equal(len(src), n)
	assert.Equal(want, out)

	back, n, err := berconv.ToIndefinite(out, 0)
	require.NoError(err)
	assert.Equal(len(out), n)
	assert.Equal(src, back)
}

func TestDepthLarge(t *testing.T) {
	assert, require := makeAR(t)

	const depth = 100000
	src := make([]byte, 0, 4*depth+2)
	for range depth {
		src = append(src, 0xA0, 0x80)
	}
	src = append(src, 0x05, 0x00)
	for range depth {
		src = append(src, 0x00, 0x00)
	}

	out, n, err := berconv.ToDefinite(src, 0)
	require.NoError(err)
	assert.Equal(len(src), n)

	back, _, err := berconv.ToIndefinite(out, 0)
	require.NoError(err)
	assert.Equal(src, back)
}
