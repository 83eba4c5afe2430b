package berconv_test

import (
	"codello.dev/berconv/internal/testenv"
)

var (
	makeAR       = testenv.MakeAR
	bytesFromHex = testenv.BytesFromHex
)
