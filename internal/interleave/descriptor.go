// Package interleave implements the round-robin block transfer behind
// hexzip. Zip reads one block from each of several inputs per round and
// appends them to a single output; unzip reads one round of blocks from a
// single input and hands block i to output i.
package interleave

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/islishude/hexzip/internal/locator"
)

type Mode string

const (
	Zip   Mode = "zip"
	Unzip Mode = "unzip"
)

// Descriptor is a fully resolved operation. BlockSizes pairs positionally
// with Inputs in zip mode and with Outputs in unzip mode.
type Descriptor struct {
	Mode       Mode
	Inputs     []string
	Outputs    []string
	BlockSizes []int64
}

// Validate reports the first shape problem in d as a *ConfigError.
func (d Descriptor) Validate() error {
	switch d.Mode {
	case Zip:
		if len(d.Inputs) < 2 {
			return configErrorf("--input must be provided at least twice when zipping.")
		}
		if len(d.Inputs) != len(d.BlockSizes) {
			return configErrorf("--num-bytes must be provided once for each --input when zipping.")
		}
		if len(d.Outputs) != 1 {
			return configErrorf("--output must be provided once when zipping.")
		}
	case Unzip:
		if len(d.Inputs) != 1 {
			return configErrorf("--input must be provided once when unzipping.")
		}
		if len(d.Outputs) < 2 {
			return configErrorf("--output must be provided at least twice when unzipping.")
		}
		if len(d.Outputs) != len(d.BlockSizes) {
			return configErrorf("--num-bytes must be provided once for each --output when unzipping.")
		}
	default:
		return configErrorf("unsupported mode %q", d.Mode)
	}

	var sum int64
	for i, n := range d.BlockSizes {
		if n <= 0 {
			return configErrorf("--num-bytes must be a positive integer, got %d for stream %d", n, i+1)
		}
		if sum > math.MaxInt64-n {
			return configErrorf("--num-bytes total overflows a 64-bit byte count")
		}
		sum += n
	}

	seen := make(map[string]string, len(d.Outputs))
	stdin := 0
	for _, in := range d.Inputs {
		if in == "-" {
			stdin++
			if stdin > 1 {
				return configErrorf("standard input can only be used as one input")
			}
			continue
		}
		seen[streamKey(in)] = "input"
	}
	for _, out := range d.Outputs {
		key := streamKey(out)
		if kind, ok := seen[key]; ok {
			return configErrorf("output %s is also used as an %s", out, kind)
		}
		seen[key] = "output"
	}
	return nil
}

// streamKey maps the spellings of one local path (file:// URL, relative,
// absolute) to the same key. Links are only caught once the files are opened.
func streamKey(id string) string {
	if id == "-" {
		return id
	}
	p := id
	if ref, err := locator.ParseStream(id); err == nil && ref.Kind == locator.KindLocal {
		p = locator.LocalPath(ref)
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// RoundSize is the number of bytes one round moves.
func (d Descriptor) RoundSize() int64 {
	var sum int64
	for _, n := range d.BlockSizes {
		sum += n
	}
	return sum
}

// ConfigError is returned for a descriptor that cannot be run. No output has
// been created when it is returned.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

func configErrorf(format string, args ...any) error {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}
