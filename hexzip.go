// Package hexzip interleaves the raw bytes of several files into one, and
// splits such a file back apart, using a fixed block size per file.
package hexzip

import (
	"context"
	"log/slog"

	"github.com/islishude/hexzip/internal/ctxlog"
	"github.com/islishude/hexzip/internal/interleave"
	"github.com/islishude/hexzip/internal/storage/local"
)

type (
	Result      = interleave.Result
	Remainder   = interleave.Remainder
	StreamError = interleave.StreamError
	ConfigError = interleave.ConfigError
)

type Flags struct {
	// BufferSize is the output buffer size in bytes; zero uses the default.
	BufferSize int
	Logger     *slog.Logger
}

// Zip writes one block of blockSizes[i] bytes from inputs[i] to output per
// round, in order, until some input cannot supply a full block.
func Zip(ctx context.Context, output string, inputs []string, blockSizes []int64, flags Flags) (Result, error) {
	return run(ctx, interleave.Descriptor{
		Mode:       interleave.Zip,
		Inputs:     inputs,
		Outputs:    []string{output},
		BlockSizes: blockSizes,
	}, flags)
}

// Unzip is the inverse of Zip: block i of every round read from input is
// appended to outputs[i].
func Unzip(ctx context.Context, input string, outputs []string, blockSizes []int64, flags Flags) (Result, error) {
	return run(ctx, interleave.Descriptor{
		Mode:       interleave.Unzip,
		Inputs:     []string{input},
		Outputs:    outputs,
		BlockSizes: blockSizes,
	}, flags)
}

func run(ctx context.Context, d interleave.Descriptor, flags Flags) (Result, error) {
	if flags.Logger != nil {
		ctx = ctxlog.WithLogger(ctx, flags.Logger)
	}
	store := local.NewWithSettings(local.Settings{BufferSize: flags.BufferSize})
	return interleave.Run(ctx, store, d)
}
