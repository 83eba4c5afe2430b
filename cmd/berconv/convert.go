package main

import (
	"io"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"codello.dev/berconv"
	"codello.dev/berconv/internal/batch"
)

func defineConvertCommand(name, usage string, form berconv.Form) {
	defineCommand(&cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "IN OUT",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return errors.New("expected IN and OUT arguments")
			}
			in, out := c.Args().Get(0), c.Args().Get(1)

			src, e := readInput(c, in)
			if e != nil {
				return e
			}
			return withOutput(c, out, func(w io.Writer) error {
				st, e := batch.Convert(c.Context, w, src, batch.Options{
					Form:      form,
					Jobs:      jobs,
					KeepGoing: keepGoing,
				})
				logger.Info("converted",
					zap.String("input", in),
					zap.Stringer("form", form),
					zap.Int("elements", st.Elements),
					zap.Int("failed", st.Failed),
					zap.Int64("bytes-in", st.BytesIn),
					zap.Int64("bytes-out", st.BytesOut),
				)
				if keepGoing && batch.Skipped(e) && st.Failed < st.Elements {
					// every other data value has been written
					logger.Warn("some data values were skipped", zap.Error(e))
					return nil
				}
				return e
			})
		},
	})
}

func init() {
	defineConvertCommand("def", "Convert to definite-length form.", berconv.Definite)
	defineConvertCommand("indef", "Convert to indefinite-length form.", berconv.Indefinite)
}
