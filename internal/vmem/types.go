package vmem

import "errors"

var (
	// ErrUnsupported is returned when the platform has no virtual-memory primitives.
	ErrUnsupported = errors.New("vmem: virtual memory not supported on this platform")
	// ErrReleased is returned when operating on a released reservation.
	ErrReleased = errors.New("vmem: reservation is released")
	// ErrOutOfBounds is returned when a range falls outside the reservation.
	ErrOutOfBounds = errors.New("vmem: out of bounds")
	// ErrUnaligned is returned when a range is not page aligned.
	ErrUnaligned = errors.New("vmem: range not page aligned")
	// ErrInvalidSize is returned when the requested reservation size is not positive.
	ErrInvalidSize = errors.New("vmem: invalid size")
)
