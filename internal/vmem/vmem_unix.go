//go:build linux || darwin || freebsd || openbsd || netbsd || dragonfly

package vmem

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Supported reports whether Reserve is backed by real OS primitives.
const Supported = true

func osPageSize() int {
	return unix.Getpagesize()
}

func osReserve(size int) ([]byte, func([]byte) error, error) {
	// PROT_NONE keeps the range inaccessible and unbacked until committed.
	data, err := unix.Mmap(-1, 0, size, unix.PROT_NONE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "vmem: reserve %d bytes", size)
	}

	return data, func(b []byte) error {
		return errors.Wrap(unix.Munmap(b), "vmem: release")
	}, nil
}

func osCommit(b []byte) error {
	if err := unix.Mprotect(b, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return errors.Wrapf(err, "vmem: commit %d bytes", len(b))
	}
	return nil
}

func osDecommit(b []byte) error {
	// Drop the physical pages first so a later commit observes zeroed memory.
	if err := unix.Madvise(b, unix.MADV_DONTNEED); err != nil {
		return errors.Wrapf(err, "vmem: decommit %d bytes", len(b))
	}
	if err := unix.Mprotect(b, unix.PROT_NONE); err != nil {
		return errors.Wrapf(err, "vmem: decommit %d bytes", len(b))
	}
	return nil
}
