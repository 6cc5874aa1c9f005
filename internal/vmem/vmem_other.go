//go:build !linux && !darwin && !freebsd && !openbsd && !netbsd && !dragonfly && !windows

package vmem

import "os"

// Supported reports whether Reserve is backed by real OS primitives.
const Supported = false

func osPageSize() int {
	return os.Getpagesize()
}

func osReserve(int) ([]byte, func([]byte) error, error) {
	return nil, nil, ErrUnsupported
}

func osCommit([]byte) error {
	return ErrUnsupported
}

func osDecommit([]byte) error {
	return ErrUnsupported
}
