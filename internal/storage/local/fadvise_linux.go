//go:build linux

package local

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseSequential tells the kernel the whole file is read front to back,
// which widens readahead.
func adviseSequential(f *os.File) error {
	return unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
}
