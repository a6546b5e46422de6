package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/islishude/hexzip/internal/cli"
	"github.com/islishude/hexzip/internal/ctxlog"
	"github.com/islishude/hexzip/internal/engine"
	"github.com/islishude/hexzip/internal/storage/local"
)

func main() {
	os.Exit(run(filepath.Base(os.Args[0]), os.Args[1:], os.Stdout, os.Stderr))
}

func run(program string, args []string, stdout, stderr io.Writer) int {
	opts, err := cli.Parse(args)
	if err != nil {
		_, _ = fmt.Fprint(stderr, cli.HelpText(program))
		if !errors.Is(err, cli.ErrNoArguments) {
			_, _ = fmt.Fprintf(stderr, "\n%s: %v\n", program, err)
		}
		return engine.ExitFatal
	}
	if opts.Help {
		_, _ = fmt.Fprint(stdout, cli.HelpText(program))
		return engine.ExitSuccess
	}

	logger := newLogger(opts.Verbose, os.Getenv("HEXZIP_LOG_FORMAT"), stderr)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	result := engine.New(local.New(), stderr).Run(ctx, opts)
	if result.Err != nil {
		if engine.IsConfigError(result.Err) {
			_, _ = fmt.Fprint(stderr, cli.HelpText(program))
		}
		_, _ = fmt.Fprintf(stderr, "%s: %v\n", program, result.Err)
	}
	return result.ExitCode
}

func newLogger(verbose bool, format string, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}
