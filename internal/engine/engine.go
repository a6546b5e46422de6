package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/islishude/hexzip/internal/cli"
	"github.com/islishude/hexzip/internal/ctxlog"
	"github.com/islishude/hexzip/internal/interleave"
)

const (
	ExitSuccess    = 0
	ExitIncomplete = 1
	ExitFatal      = 2
)

type Runner struct {
	streams interleave.Opener
	stderr  io.Writer
}

type RunResult struct {
	ExitCode int
	Err      error
	Transfer interleave.Result
}

// New returns a Runner that opens streams through streams and reports
// leftover bytes on stderr. Standard output is left alone so it can carry
// an output stream.
func New(streams interleave.Opener, stderr io.Writer) *Runner {
	return &Runner{streams: streams, stderr: stderr}
}

func (r *Runner) Run(ctx context.Context, opts cli.Options) RunResult {
	d, err := opts.Descriptor()
	if err != nil {
		return RunResult{ExitCode: ExitFatal, Err: err}
	}
	ctxlog.FromContext(ctx).Debug("resolved operation", "mode", d.Mode,
		"inputs", d.Inputs, "outputs", d.Outputs, "block_sizes", d.BlockSizes,
		"round_bytes", d.RoundSize())

	res, err := interleave.Run(ctx, r.streams, d)
	if err != nil {
		return RunResult{ExitCode: ExitFatal, Err: err, Transfer: res}
	}
	for _, rem := range res.Remainders {
		_, _ = fmt.Fprintln(r.stderr, rem.String())
	}
	return classifyResult(res)
}

func classifyResult(res interleave.Result) RunResult {
	if !res.Clean {
		return RunResult{ExitCode: ExitIncomplete, Transfer: res}
	}
	return RunResult{ExitCode: ExitSuccess, Transfer: res}
}

// IsConfigError reports whether err was caused by the command line rather
// than by a stream.
func IsConfigError(err error) bool {
	var cerr *interleave.ConfigError
	return errors.As(err, &cerr)
}
