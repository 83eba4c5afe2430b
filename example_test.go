// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package berconv_test

import (
	"fmt"

	"codello.dev/berconv"
)

func ExampleToDefinite() {
	// SEQUENCE { INTEGER 5, OCTET STRING 'AB' } using the indefinite-length form
	src := []byte{0x30, 0x80, 0x02, 0x01, 0x05, 0x04, 0x02, 'A', 'B', 0x00, 0x00}

	out, n, err := berconv.ToDefinite(src, 0)
	if err != nil {
		panic(err)
	}
	fmt.Printf("% X (%d bytes consumed)\n", out, n)

	// Output: 30 07 02 01 05 04 02 41 42 (11 bytes consumed)
}

func ExampleToIndefinite() {
	src := []byte{0x30, 0x03, 0x04, 0x05, 0x00}

	_, _, err := berconv.ToIndefinite(src, 0)
	fmt.Println(err)

	// Output: tlv: syntax error within [UNIVERSAL 16]/c:3 at offset 2: data value exceeds parent: malformed header
}
