//go:build linux

package local

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAdviseSequential(t *testing.T) {
	p := filepath.Join(t.TempDir(), "in.bin")
	if err := os.WriteFile(p, make([]byte, 4096), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close() //nolint:errcheck
	if err := adviseSequential(f); err != nil {
		t.Fatalf("adviseSequential() error = %v", err)
	}
}

func TestAdviseSequentialClosedFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "in.bin"))
	if err != nil {
		t.Fatal(err)
	}
	_ = f.Close()
	if err := adviseSequential(f); err == nil {
		t.Fatalf("expected error for closed file")
	}
}
