package arena

import (
	"errors"
	"fmt"
)

// ErrorCode classifies arena failures.
type ErrorCode int

const (
	// CodeNone means no error has been recorded.
	CodeNone ErrorCode = iota
	// CodeInitFailed means the arena could not be created: invalid
	// configuration, or the first block/node could not be obtained.
	CodeInitFailed
	// CodeCommitFailed means committing additional pages failed.
	CodeCommitFailed
	// CodeOutOfMemory means the allocation would exceed the arena capacity.
	CodeOutOfMemory
	// CodeAllocFailed means a chain node could not be allocated.
	CodeAllocFailed
	// CodeOutOfNodes means the chain node table is exhausted.
	CodeOutOfNodes
)

func (c ErrorCode) String() string {
	switch c {
	case CodeNone:
		return "none"
	case CodeInitFailed:
		return "init failed"
	case CodeCommitFailed:
		return "commit failed"
	case CodeOutOfMemory:
		return "out of memory"
	case CodeAllocFailed:
		return "alloc failed"
	case CodeOutOfNodes:
		return "out of nodes"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// ErrorCallback is invoked synchronously on the arena's goroutine whenever an
// operation fails. It must not call back into the same arena.
type ErrorCallback func(code ErrorCode, msg string)

// Error is the error type returned by failing arena operations.
//
// The underlying cause (if any) can be accessed via errors.Unwrap.
type Error struct {
	Code ErrorCode
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return "arena: " + e.Code.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("arena: %s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("arena: %s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error carrying the same code, so the sentinels below work
// with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	// ErrInitFailed matches errors with CodeInitFailed.
	ErrInitFailed = &Error{Code: CodeInitFailed}
	// ErrCommitFailed matches errors with CodeCommitFailed.
	ErrCommitFailed = &Error{Code: CodeCommitFailed}
	// ErrOutOfMemory matches errors with CodeOutOfMemory.
	ErrOutOfMemory = &Error{Code: CodeOutOfMemory}
	// ErrAllocFailed matches errors with CodeAllocFailed.
	ErrAllocFailed = &Error{Code: CodeAllocFailed}
	// ErrOutOfNodes matches errors with CodeOutOfNodes.
	ErrOutOfNodes = &Error{Code: CodeOutOfNodes}
)

var (
	// ErrClosed is returned when pushing onto a destroyed arena.
	ErrClosed = errors.New("arena: arena is destroyed")
	// ErrScratchConfigFrozen is returned by SetScratchConfig once a scratch
	// arena has been created.
	ErrScratchConfigFrozen = errors.New("arena: scratch config is frozen")
	// ErrNoScratchArena is returned when every scratch arena is excluded.
	ErrNoScratchArena = errors.New("arena: no scratch arena available")
	// ErrNoScratchPool is returned by GetScratch when the context carries no pool.
	ErrNoScratchPool = errors.New("arena: no scratch pool in context")
)
