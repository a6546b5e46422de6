//go:build !linux

package local

import "os"

func adviseSequential(*os.File) error { return nil }
