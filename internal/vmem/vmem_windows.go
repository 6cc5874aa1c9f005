//go:build windows

package vmem

import (
	"os"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// Supported reports whether Reserve is backed by real OS primitives.
const Supported = true

func osPageSize() int {
	return os.Getpagesize()
}

func osReserve(size int) ([]byte, func([]byte) error, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "vmem: reserve %d bytes", size)
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)

	return data, func([]byte) error {
		// MEM_RELEASE requires a zero size and the base address of the reservation.
		return errors.Wrap(windows.VirtualFree(addr, 0, windows.MEM_RELEASE), "vmem: release")
	}, nil
}

func osCommit(b []byte) error {
	addr := uintptr(unsafe.Pointer(&b[0]))
	if _, err := windows.VirtualAlloc(addr, uintptr(len(b)), windows.MEM_COMMIT, windows.PAGE_READWRITE); err != nil {
		return errors.Wrapf(err, "vmem: commit %d bytes", len(b))
	}
	return nil
}

func osDecommit(b []byte) error {
	addr := uintptr(unsafe.Pointer(&b[0]))
	if err := windows.VirtualFree(addr, uintptr(len(b)), windows.MEM_DECOMMIT); err != nil {
		return errors.Wrapf(err, "vmem: decommit %d bytes", len(b))
	}
	return nil
}
