// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package berconv

import "codello.dev/berconv/tlv"

// indefiniteWriter writes the data values it visits in indefinite-length form.
// Primitive values are copied verbatim.
type indefiniteWriter struct {
	dst *tlv.Buffer
}

func (w indefiniteWriter) primitive(_ tlv.Header, raw []byte, _ int) error {
	_, err := w.dst.Write(raw)
	return err
}

func (w indefiniteWriter) open(h tlv.Header) error {
	_, err := tlv.WriteIndefiniteHeader(w.dst, h.Tag)
	return err
}

func (w indefiniteWriter) close() error {
	_, err := tlv.WriteEndOfContents(w.dst)
	return err
}
