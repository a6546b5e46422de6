package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/islishude/hexzip/internal/interleave"
)

var ErrNoArguments = errors.New("no arguments given")

type Options struct {
	Mode     interleave.Mode
	Inputs   []string
	Outputs  []string
	NumBytes []int64
	Verbose  bool
	Help     bool
}

// Parse reads the command line and validates the stream counts for the
// selected mode. Arguments that are not options are taken as outputs.
func Parse(args []string) (Options, error) {
	opts := Options{Mode: interleave.Zip}
	if len(args) == 0 {
		return opts, ErrNoArguments
	}

	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			opts.Outputs = append(opts.Outputs, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(a, "-") || a == "-" {
			opts.Outputs = append(opts.Outputs, a)
			continue
		}
		if strings.HasPrefix(a, "--") {
			name, value, hasValue := strings.Cut(a[2:], "=")
			switch name {
			case "input", "output", "num-bytes":
				v, nextI, err := resolveValue(name, value, hasValue, args, i)
				if err != nil {
					return opts, err
				}
				i = nextI
				if err := opts.set(name, v); err != nil {
					return opts, err
				}
			case "unzip", "verbose", "help":
				if hasValue {
					return opts, fmt.Errorf("option --%s does not take a value", name)
				}
				opts.setFlag(name)
			default:
				return opts, fmt.Errorf("unsupported option --%s", name)
			}
			continue
		}

		shorts := a[1:]
		for j := 0; j < len(shorts); j++ {
			s := shorts[j]
			switch s {
			case 'u':
				opts.setFlag("unzip")
			case 'v':
				opts.setFlag("verbose")
			case 'h':
				opts.setFlag("help")
			case 'i', 'o', 'n':
				var val string
				if j+1 < len(shorts) {
					val = shorts[j+1:]
				} else {
					i++
					if i >= len(args) {
						return opts, fmt.Errorf("option -%c requires an argument", s)
					}
					val = args[i]
				}
				if err := opts.set(longName(s), val); err != nil {
					return opts, err
				}
				j = len(shorts)
			default:
				return opts, fmt.Errorf("unsupported option -%c", s)
			}
		}
	}

	if opts.Help {
		return opts, nil
	}
	if _, err := opts.Descriptor(); err != nil {
		return opts, err
	}
	return opts, nil
}

// Descriptor converts opts into the engine's operation descriptor. Block
// sizes pair with the inputs when zipping and with the outputs when
// unzipping.
func (o Options) Descriptor() (interleave.Descriptor, error) {
	d := interleave.Descriptor{
		Mode:       o.Mode,
		Inputs:     append([]string(nil), o.Inputs...),
		Outputs:    append([]string(nil), o.Outputs...),
		BlockSizes: append([]int64(nil), o.NumBytes...),
	}
	if d.Mode == "" {
		d.Mode = interleave.Zip
	}
	if err := d.Validate(); err != nil {
		return d, err
	}
	return d, nil
}

func (o *Options) set(name, v string) error {
	switch name {
	case "input":
		o.Inputs = append(o.Inputs, v)
	case "output":
		o.Outputs = append(o.Outputs, v)
	case "num-bytes":
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("option --num-bytes requires a positive integer, got %q", v)
		}
		o.NumBytes = append(o.NumBytes, n)
	}
	return nil
}

func (o *Options) setFlag(name string) {
	switch name {
	case "unzip":
		o.Mode = interleave.Unzip
	case "verbose":
		o.Verbose = true
	case "help":
		o.Help = true
	}
}

func longName(short byte) string {
	switch short {
	case 'i':
		return "input"
	case 'o':
		return "output"
	default:
		return "num-bytes"
	}
}

func resolveValue(name, inline string, hasInline bool, args []string, i int) (string, int, error) {
	if hasInline {
		return inline, i, nil
	}
	i++
	if i >= len(args) {
		return "", i, fmt.Errorf("option --%s requires a value", name)
	}
	return args[i], i, nil
}
