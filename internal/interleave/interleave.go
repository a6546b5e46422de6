package interleave

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/islishude/hexzip/internal/ctxlog"
)

// Opener resolves stream identifiers to handles. OpenReader must report the
// total length of the stream up front.
type Opener interface {
	OpenReader(id string) (io.ReadCloser, int64, error)
	OpenWriter(id string) (io.WriteCloser, error)
}

// OutputChecker is implemented by openers that can refuse an output before
// any output is created, such as one that resolves to an open input.
type OutputChecker interface {
	CheckOutput(id string) error
}

// StreamError wraps an I/O failure on a single stream.
type StreamError struct {
	Op     string
	Stream string
	Err    error
}

func (e *StreamError) Error() string {
	var perr *fs.PathError
	var cerr *ConfigError
	if errors.As(e.Err, &perr) || errors.As(e.Err, &cerr) {
		// already names the stream
		return e.Err.Error()
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Stream, e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }

// Remainder describes a source stream that did not end on a block boundary.
type Remainder struct {
	Index  int
	Stream string
	Bytes  int64
}

func (r Remainder) String() string {
	return fmt.Sprintf("Did not reach the end of %s. %d byte(s) remain.", r.Stream, r.Bytes)
}

type Result struct {
	Clean      bool
	Remainders []Remainder
	Rounds     int64
	Written    int64
}

type source struct {
	id       string
	r        io.Reader
	position int64
	length   int64
	demand   int64
}

func (s *source) ready() bool {
	return s.position+s.demand <= s.length
}

type sink struct {
	id string
	w  io.Writer
}

// Run executes d against streams obtained from opener. Every handle that was
// opened is closed before Run returns, including on error.
func Run(ctx context.Context, opener Opener, d Descriptor) (res Result, retErr error) {
	if err := d.Validate(); err != nil {
		return Result{}, err
	}
	logger := ctxlog.FromContext(ctx)

	var closers []namedCloser
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			c := closers[i]
			if err := c.Close(); err != nil && retErr == nil {
				retErr = &StreamError{Op: "close", Stream: c.id, Err: err}
			}
		}
	}()

	sources := make([]*source, len(d.Inputs))
	for i, id := range d.Inputs {
		rc, length, err := opener.OpenReader(id)
		if err != nil {
			return Result{}, &StreamError{Op: "open", Stream: id, Err: err}
		}
		closers = append(closers, namedCloser{id: id, Closer: rc})
		sources[i] = &source{id: id, r: taggedReader{r: rc}, length: length}
		logger.Debug("opened input", "stream", id, "length", length)
	}

	if c, ok := opener.(OutputChecker); ok {
		for _, id := range d.Outputs {
			if err := c.CheckOutput(id); err != nil {
				return Result{}, &StreamError{Op: "create", Stream: id, Err: err}
			}
		}
	}

	sinks := make([]*sink, len(d.Outputs))
	for i, id := range d.Outputs {
		wc, err := opener.OpenWriter(id)
		if err != nil {
			return Result{}, &StreamError{Op: "create", Stream: id, Err: err}
		}
		closers = append(closers, namedCloser{id: id, Closer: wc})
		sinks[i] = &sink{id: id, w: wc}
		logger.Debug("opened output", "stream", id)
	}

	blocks := plan(d, sources, sinks)
	res, err := transfer(sources, blocks)
	if err != nil {
		return res, err
	}
	logger.Info("transfer finished", "mode", d.Mode, "rounds", res.Rounds,
		"bytes", res.Written, "clean", res.Clean)
	return res, nil
}

type block struct {
	src  *source
	dst  *sink
	size int64
}

// plan pairs every block size with the stream it is read from and the stream
// it is written to. Whichever side has a single stream is shared by all
// blocks; its per-round demand becomes the sum of their sizes.
func plan(d Descriptor, sources []*source, sinks []*sink) []block {
	blocks := make([]block, len(d.BlockSizes))
	for i, size := range d.BlockSizes {
		src := sources[0]
		dst := sinks[0]
		if d.Mode == Zip {
			src = sources[i]
		} else {
			dst = sinks[i]
		}
		src.demand += size
		blocks[i] = block{src: src, dst: dst, size: size}
	}
	return blocks
}

func transfer(sources []*source, blocks []block) (Result, error) {
	var res Result
	for allReady(sources) {
		for _, b := range blocks {
			n, err := io.CopyN(b.dst.w, b.src.r, b.size)
			b.src.position += n
			res.Written += n
			if err != nil {
				return res, blockError(b, n, err)
			}
		}
		res.Rounds++
	}

	res.Clean = true
	for i, s := range sources {
		if left := s.length - s.position; left != 0 {
			res.Clean = false
			res.Remainders = append(res.Remainders, Remainder{Index: i, Stream: s.id, Bytes: left})
		}
	}
	return res, nil
}

func allReady(sources []*source) bool {
	for _, s := range sources {
		if !s.ready() {
			return false
		}
	}
	return true
}

// blockError attributes a failed CopyN to the reading or the writing side.
// CopyN returns io.EOF only when the source ran dry.
func blockError(b block, copied int64, err error) error {
	if err == io.EOF {
		return &StreamError{Op: "read", Stream: b.src.id,
			Err: fmt.Errorf("got %d of %d bytes: %w", copied, b.size, io.ErrUnexpectedEOF)}
	}
	var rerr *readError
	if errors.As(err, &rerr) {
		return &StreamError{Op: "read", Stream: b.src.id, Err: rerr.err}
	}
	return &StreamError{Op: "write", Stream: b.dst.id, Err: err}
}

type namedCloser struct {
	id string
	io.Closer
}

type readError struct{ err error }

func (e *readError) Error() string { return e.err.Error() }
func (e *readError) Unwrap() error { return e.err }

// taggedReader marks read failures so they are not mistaken for write
// failures once io.CopyN has merged both into one error value.
type taggedReader struct{ r io.Reader }

func (t taggedReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF {
		err = &readError{err: err}
	}
	return n, err
}
