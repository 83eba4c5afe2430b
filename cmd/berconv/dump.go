package main

import (
	"io"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"codello.dev/berconv/dump"
)

func init() {
	var indent bool
	var depth int
	defineCommand(&cli.Command{
		Name:      "dump",
		Usage:     "Print a listing of BER-encoded data.",
		ArgsUsage: "IN",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "indent",
				Usage:       "Indent nested data values.",
				Destination: &indent,
			},
			&cli.IntFlag{
				Name:        "depth",
				Usage:       "Summarize data values nested deeper than `N` levels (-1 for no limit).",
				Value:       -1,
				Destination: &depth,
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("expected IN argument")
			}
			src, e := readInput(c, c.Args().Get(0))
			if e != nil {
				return e
			}
			return withOutput(c, "-", func(w io.Writer) error {
				return dump.Dump(w, src, dump.WithIndent(indent), dump.WithMaxDepth(depth))
			})
		},
	})
}
