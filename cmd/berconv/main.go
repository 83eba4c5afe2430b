// Command berconv converts BER-encoded files between the definite-length and
// the indefinite-length form.
package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"codello.dev/berconv/internal/logging"
)

var logger = logging.New("main")

var (
	jobs      int
	keepGoing bool
)

var app = &cli.App{
	Name:  "berconv",
	Usage: "Convert BER-encoded data between definite and indefinite lengths.",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:        "jobs",
			Aliases:     []string{"j"},
			Usage:       "Convert up to `N` data values concurrently (0 for one per CPU).",
			EnvVars:     []string{"BERCONV_JOBS"},
			Destination: &jobs,
		},
		&cli.BoolFlag{
			Name:        "keep-going",
			Aliases:     []string{"k"},
			Usage:       "Skip data values that cannot be converted.",
			Destination: &keepGoing,
		},
	},
	Before: func(c *cli.Context) error {
		if jobs < 0 {
			return errors.Errorf("invalid --jobs %d", jobs)
		}
		return nil
	},
}

func defineCommand(command *cli.Command) {
	app.Commands = append(app.Commands, command)
}

// readInput reads the named file, or the application input if name is "-".
func readInput(c *cli.Context, name string) ([]byte, error) {
	if name == "-" {
		b, e := io.ReadAll(c.App.Reader)
		return b, errors.Wrap(e, "read input")
	}
	b, e := os.ReadFile(name)
	return b, errors.Wrapf(e, "read %s", name)
}

// withOutput calls f with the named file, or the application output if name
// is "-". The file is removed if f fails.
func withOutput(c *cli.Context, name string, f func(w io.Writer) error) (e error) {
	if name == "-" {
		w := bufio.NewWriter(c.App.Writer)
		return multierr.Append(f(w), w.Flush())
	}
	file, e := os.Create(name)
	if e != nil {
		return errors.Wrapf(e, "create %s", name)
	}
	defer func() {
		e = multierr.Append(e, errors.Wrapf(file.Close(), "close %s", name))
		if e != nil {
			os.Remove(name)
		}
	}()
	return f(file)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sort.Sort(cli.CommandsByName(app.Commands))
	e := app.RunContext(ctx, os.Args)
	if e != nil {
		stop()
		logger.Fatal("berconv failed", zap.Error(e))
	}
}
