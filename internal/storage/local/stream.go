package local

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/islishude/hexzip/internal/interleave"
	"github.com/islishude/hexzip/internal/locator"
)

const DefaultBufferSize = 64 * 1024

type StreamStore struct {
	settings Settings
	stdin    *os.File
	stdout   *os.File

	mu     sync.Mutex
	next   int
	inputs map[int]openInput
}

// openInput is an input that is currently open, kept so that an output
// resolving to the same file can be refused before it is truncated.
type openInput struct {
	id   string
	info os.FileInfo
}

type Settings struct {
	BufferSize int
}

// New reads its settings from HEXZIP_BUFFER_SIZE.
func New() *StreamStore {
	settings := Settings{BufferSize: DefaultBufferSize}
	if v, ok := intFromEnv("HEXZIP_BUFFER_SIZE"); ok && v > 0 {
		settings.BufferSize = v
	}
	return NewWithSettings(settings)
}

func NewWithSettings(settings Settings) *StreamStore {
	if settings.BufferSize <= 0 {
		settings.BufferSize = DefaultBufferSize
	}
	return &StreamStore{settings: settings, stdin: os.Stdin, stdout: os.Stdout}
}

func (s *StreamStore) Settings() Settings { return s.settings }

func (s *StreamStore) OpenReader(id string) (io.ReadCloser, int64, error) {
	ref, err := locator.ParseStream(id)
	if err != nil {
		return nil, 0, err
	}
	switch ref.Kind {
	case locator.KindLocal:
		f, err := os.Open(locator.LocalPath(ref))
		if err != nil {
			return nil, 0, err
		}
		st, err := f.Stat()
		if err != nil {
			_ = f.Close()
			return nil, 0, err
		}
		if !st.Mode().IsRegular() {
			_ = f.Close()
			return nil, 0, fmt.Errorf("%s is not a regular file", id)
		}
		// readahead hint only
		_ = adviseSequential(f)
		return &inputFile{Reader: f, closer: f, release: s.track(id, st)}, st.Size(), nil
	case locator.KindStdio:
		size, st, err := remainingSize(s.stdin)
		if err != nil {
			return nil, 0, err
		}
		r := bufio.NewReaderSize(s.stdin, s.settings.BufferSize)
		return &inputFile{Reader: r, closer: nopCloser{}, release: s.track(id, st)}, size, nil
	default:
		return nil, 0, fmt.Errorf("unsupported stream kind %s", ref.Kind)
	}
}

func (s *StreamStore) OpenWriter(id string) (io.WriteCloser, error) {
	ref, err := locator.ParseStream(id)
	if err != nil {
		return nil, err
	}
	switch ref.Kind {
	case locator.KindLocal:
		if err := s.checkLocalOutput(id, locator.LocalPath(ref)); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(locator.LocalPath(ref), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o666)
		if err != nil {
			return nil, err
		}
		return &bufferedWriteCloser{bw: bufio.NewWriterSize(f, s.settings.BufferSize), dst: f}, nil
	case locator.KindStdio:
		return &bufferedWriteCloser{bw: bufio.NewWriterSize(s.stdout, s.settings.BufferSize), dst: nopCloser{}}, nil
	default:
		return nil, fmt.Errorf("unsupported stream kind %s", ref.Kind)
	}
}

// CheckOutput refuses an output that is the same file as an open input,
// whatever path, link or file:// URL names it. Outputs that do not exist yet
// and stdout pass.
func (s *StreamStore) CheckOutput(id string) error {
	ref, err := locator.ParseStream(id)
	if err != nil {
		return err
	}
	if ref.Kind != locator.KindLocal {
		return nil
	}
	return s.checkLocalOutput(id, locator.LocalPath(ref))
}

func (s *StreamStore) checkLocalOutput(id, path string) error {
	st, err := os.Stat(path)
	if err != nil {
		// a missing target cannot alias anything; OpenFile reports the rest
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, in := range s.inputs {
		if os.SameFile(st, in.info) {
			return &interleave.ConfigError{Message: fmt.Sprintf("output %s is the same file as input %s", id, in.id)}
		}
	}
	return nil
}

// track records an open input and returns the func that forgets it.
func (s *StreamStore) track(id string, info os.FileInfo) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inputs == nil {
		s.inputs = make(map[int]openInput)
	}
	key := s.next
	s.next++
	s.inputs[key] = openInput{id: id, info: info}
	return func() {
		s.mu.Lock()
		delete(s.inputs, key)
		s.mu.Unlock()
	}
}

// remainingSize reports how many bytes are left in f. Only regular files
// redirected onto stdin have a length known up front.
func remainingSize(f *os.File) (int64, os.FileInfo, error) {
	st, err := f.Stat()
	if err != nil {
		return 0, nil, err
	}
	if !st.Mode().IsRegular() {
		return 0, nil, fmt.Errorf("standard input must be redirected from a regular file, its length is unknown")
	}
	offset, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, nil, err
	}
	return st.Size() - offset, st, nil
}

type inputFile struct {
	io.Reader
	closer  io.Closer
	release func()
	once    sync.Once
}

func (f *inputFile) Close() error {
	f.once.Do(f.release)
	return f.closer.Close()
}

type bufferedWriteCloser struct {
	bw  *bufio.Writer
	dst io.Closer
}

func (w *bufferedWriteCloser) Write(p []byte) (int, error) { return w.bw.Write(p) }

func (w *bufferedWriteCloser) ReadFrom(r io.Reader) (int64, error) { return w.bw.ReadFrom(r) }

// Close flushes buffered data and closes the file even if the flush fails.
func (w *bufferedWriteCloser) Close() error {
	var first error
	if err := w.bw.Flush(); err != nil {
		first = err
	}
	if err := w.dst.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func intFromEnv(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	x, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return x, true
}
