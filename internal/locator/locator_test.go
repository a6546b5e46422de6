package locator

import "testing"

func TestParseStreamLocal(t *testing.T) {
	ref, err := ParseStream("data/input1.dat")
	if err != nil {
		t.Fatalf("ParseStream() error = %v", err)
	}
	if ref.Kind != KindLocal || ref.Path != "data/input1.dat" {
		t.Fatalf("unexpected ref: %+v", ref)
	}
}

func TestParseStreamStdio(t *testing.T) {
	ref, err := ParseStream("-")
	if err != nil {
		t.Fatalf("ParseStream() error = %v", err)
	}
	if ref.Kind != KindStdio {
		t.Fatalf("unexpected ref: %+v", ref)
	}
}

func TestParseStreamFileURL(t *testing.T) {
	ref, err := ParseStream("file:///tmp/a.bin")
	if err != nil {
		t.Fatalf("ParseStream() error = %v", err)
	}
	if got := LocalPath(ref); got != "/tmp/a.bin" {
		t.Fatalf("LocalPath() = %q", got)
	}
}

func TestParseStreamRejectsRemote(t *testing.T) {
	for _, v := range []string{
		"s3://bucket/key.bin",
		"https://example.com/a.bin",
		"arn:aws:s3:::my-bucket/a.bin",
		"",
	} {
		if _, err := ParseStream(v); err == nil {
			t.Fatalf("ParseStream(%q) expected error", v)
		}
	}
}
