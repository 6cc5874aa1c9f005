package arena

import (
	"errors"
	"math"
	"unsafe"
)

// ErrNegativeCount is returned by the array helpers for a negative length.
var ErrNegativeCount = errors.New("arena: negative element count")

// The typed helpers below place values of T inside arena memory. T must not
// contain Go pointers (pointers, slices, strings, maps, interfaces, funcs):
// arena memory is invisible to the garbage collector.

// PushStruct returns a pointer to an uninitialized T stored in the arena.
func PushStruct[T any](a *Arena) (*T, error) {
	b, err := pushTyped[T](a, 1, false)
	if err != nil || b == nil {
		return nil, err
	}
	return (*T)(b), nil
}

// PushZeroStruct returns a pointer to a zeroed T stored in the arena.
func PushZeroStruct[T any](a *Arena) (*T, error) {
	b, err := pushTyped[T](a, 1, true)
	if err != nil || b == nil {
		return nil, err
	}
	return (*T)(b), nil
}

// PushArray allocates n uninitialized elements of T.
// Returns nil if n is 0.
func PushArray[T any](a *Arena, n int) ([]T, error) {
	b, err := pushTyped[T](a, n, false)
	if err != nil || b == nil {
		return nil, err
	}
	return unsafe.Slice((*T)(b), n), nil
}

// PushZeroArray allocates n zeroed elements of T.
// Returns nil if n is 0.
func PushZeroArray[T any](a *Arena, n int) ([]T, error) {
	b, err := pushTyped[T](a, n, true)
	if err != nil || b == nil {
		return nil, err
	}
	return unsafe.Slice((*T)(b), n), nil
}

// PushCopy copies src into the arena and returns the arena-backed copy.
func PushCopy[T any](a *Arena, src []T) ([]T, error) {
	dst, err := PushArray[T](a, len(src))
	if err != nil {
		return nil, err
	}
	copy(dst, src)
	return dst, nil
}

// pushTyped pushes room for n values of T at T's natural alignment. It
// returns nil for empty requests and for zero-sized T.
func pushTyped[T any](a *Arena, n int, zero bool) (unsafe.Pointer, error) {
	var v T
	size := uint64(unsafe.Sizeof(v))
	align := uint64(unsafe.Alignof(v))
	if n < 0 {
		return nil, ErrNegativeCount
	}
	if n == 0 {
		return nil, nil
	}
	if size == 0 {
		// Any non-nil address is valid for zero-sized values.
		return unsafe.Pointer(&zeroBase), nil
	}

	// Pad when T needs more alignment than the arena provides.
	pad := uint64(0)
	if align > a.Align() {
		pad = align - a.Align()
	}

	total := size * uint64(n)
	if total/uint64(n) != size || total > math.MaxUint64-pad {
		// Let Push report the overflow as an out-of-memory failure.
		total, pad = math.MaxUint64, 0
	}

	var (
		b   []byte
		err error
	)
	if zero {
		b, err = a.PushZero(total + pad)
	} else {
		b, err = a.Push(total + pad)
	}
	if err != nil {
		return nil, err
	}

	p := unsafe.Pointer(unsafe.SliceData(b))
	if off := uintptr(p) % uintptr(align); off != 0 {
		p = unsafe.Add(p, uintptr(align)-off)
	}
	return p, nil
}

// zeroBase is the address handed out for zero-sized values.
var zeroBase uintptr
