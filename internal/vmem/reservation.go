package vmem

import (
	"sync/atomic"
)

// Reservation represents a reserved virtual address range.
// It owns the underlying byte slice and is responsible for releasing it.
type Reservation struct {
	data     []byte
	size     int
	released atomic.Bool
	// release is the platform-specific function to return the range to the OS.
	release func([]byte) error
}

// PageSize returns the platform's allocation granularity for commit/decommit.
func PageSize() int {
	return osPageSize()
}

// Reserve obtains size bytes of address space with no physical backing.
// size is rounded up to a multiple of PageSize.
func Reserve(size int) (*Reservation, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	page := PageSize()
	size = (size + page - 1) &^ (page - 1)

	data, release, err := osReserve(size)
	if err != nil {
		return nil, err
	}

	return &Reservation{
		data:    data,
		size:    size,
		release: release,
	}, nil
}

// Bytes returns the full reserved range.
// Warning: only committed sub-ranges may be accessed, and the slice is
// invalid once Release is called.
func (r *Reservation) Bytes() []byte {
	if r.released.Load() {
		return nil
	}
	return r.data
}

// Size returns the size of the reservation in bytes.
func (r *Reservation) Size() int {
	return r.size
}

// Commit backs [off, off+n) with memory and makes it read/write.
// off and n must be page aligned.
func (r *Reservation) Commit(off, n int) error {
	b, err := r.span(off, n)
	if err != nil || len(b) == 0 {
		return err
	}
	return osCommit(b)
}

// Decommit returns [off, off+n) to the unbacked state. The reservation stays
// valid; the contents of the range become undefined.
func (r *Reservation) Decommit(off, n int) error {
	b, err := r.span(off, n)
	if err != nil || len(b) == 0 {
		return err
	}
	return osDecommit(b)
}

// Release returns the entire range to the OS. It is idempotent.
func (r *Reservation) Release() error {
	if r.released.Swap(true) {
		return nil
	}
	if r.release != nil && r.data != nil {
		return r.release(r.data)
	}
	return nil
}

func (r *Reservation) span(off, n int) ([]byte, error) {
	if r.released.Load() {
		return nil, ErrReleased
	}
	if off < 0 || n < 0 || off+n > r.size {
		return nil, ErrOutOfBounds
	}
	page := PageSize()
	if off%page != 0 || n%page != 0 {
		return nil, ErrUnaligned
	}
	return r.data[off : off+n : off+n], nil
}
