// Package vmem provides virtual-memory reservation primitives for the arena
// reserve/commit backend.
//
// # Overview
//
// A Reservation is a contiguous address range obtained from the OS without
// physical backing. Sub-ranges are committed (backed and made read/write) and
// decommitted (returned to the unbacked state) as the arena grows and shrinks.
// Release returns the whole range to the OS.
//
//	r, err := vmem.Reserve(64 << 20)
//	if err != nil { ... }
//	defer r.Release()
//
//	if err := r.Commit(0, vmem.PageSize()); err != nil { ... }
//	data := r.Bytes()[:vmem.PageSize()]
//
// # Platform Support
//
//   - Linux, macOS, BSD: mmap(2) with PROT_NONE, mprotect(2) and madvise(2)
//   - Windows: VirtualAlloc with MEM_RESERVE / MEM_COMMIT, VirtualFree with MEM_DECOMMIT
//   - Other platforms: Supported is false and Reserve returns ErrUnsupported
//
// # Thread Safety
//
// Release is idempotent and protected by an atomic flag. Commit and Decommit
// must not be called concurrently on overlapping ranges. Accessing a range
// that is not committed faults the process.
package vmem
