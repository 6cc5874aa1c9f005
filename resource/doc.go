// Package resource implements a memory budget shared by arenas.
//
// A Controller tracks bytes of backing storage held by one or more arenas
// and optionally enforces a hard limit. Arenas consult it before committing
// pages or allocating chain nodes; a refusal surfaces as CommitFailed,
// AllocFailed or InitFailed on the arena.
//
// # Memory Management
//
// Tracking uses a weighted semaphore for the hard limit and atomic counters
// for usage. AcquireMemory is non-blocking and returns immediately with
// ErrMemoryLimitExceeded if the limit would be exceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(1024 * 1024); err != nil {
//	    // ErrMemoryLimitExceeded - caller decides what to do
//	}
//	defer rc.ReleaseMemory(1024 * 1024)
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use, so one Controller may
// budget the arenas of many goroutines.
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
