package locator

import (
	"fmt"
	"net/url"
	"strings"
)

type Kind string

const (
	KindLocal Kind = "local"
	KindStdio Kind = "stdio"
)

type Ref struct {
	Kind Kind
	Raw  string
	Path string
}

// ParseStream resolves a stream identifier given on the command line. Only
// local paths and "-" are accepted; anything that looks like a URL is
// refused instead of being treated as a relative file name.
func ParseStream(v string) (Ref, error) {
	if strings.TrimSpace(v) == "" {
		return Ref{}, fmt.Errorf("stream name cannot be empty")
	}
	if v == "-" {
		return Ref{Kind: KindStdio, Raw: v}, nil
	}
	if scheme, ok := remoteScheme(v); ok {
		return Ref{}, fmt.Errorf("unsupported stream %q: %s:// streams are not supported, use a local file", v, scheme)
	}
	if strings.HasPrefix(v, "arn:") {
		return Ref{}, fmt.Errorf("unsupported stream %q: ARNs are not supported, use a local file", v)
	}
	return Ref{Kind: KindLocal, Raw: v, Path: v}, nil
}

func remoteScheme(v string) (string, bool) {
	if !strings.Contains(v, "://") {
		return "", false
	}
	u, err := url.Parse(v)
	if err != nil || u.Scheme == "" || u.Scheme == "file" {
		return "", false
	}
	return u.Scheme, true
}

// LocalPath returns the file system path for ref, honoring file:// URLs.
func LocalPath(ref Ref) string {
	if after, ok := strings.CutPrefix(ref.Path, "file://"); ok {
		return after
	}
	return ref.Path
}
