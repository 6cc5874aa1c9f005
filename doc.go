// Package arena provides a region ("arena") memory allocator for Go.
//
// An Arena is a single growable address range from which callers take
// sequential sub-allocations ("pushes") and release them in bulk or in stack
// order, instead of allocating every object from the garbage-collected heap.
//
// # Quick Start
//
//	a, err := arena.New(arena.Config{
//	    Capacity:  arena.Size(arena.MiB(4)),
//	    BlockSize: arena.Size(arena.KiB(256)),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer a.Destroy()
//
//	nums, err := arena.PushArray[int32](a, 64)
//	if err != nil {
//	    // arena.ErrOutOfMemory, arena.ErrCommitFailed, ...
//	}
//
// # Backends
//
// Two interchangeable growth strategies exist, chosen at build time:
//
//   - Reserve: the full capacity is reserved as address space once; pages
//     are committed block by block as the position advances and decommitted
//     as it retreats. The arena header lives in the first bytes of the range.
//   - Chain: a bounded table of heap-allocated nodes, one added whenever an
//     allocation does not fit the current node. Used where virtual memory
//     primitives are unavailable, or when built with -tags arena_chain.
//
// # Releasing Memory
//
//	t := a.TempBegin()
//	scratch, _ := a.Push(1024)
//	// ... use scratch ...
//	t.End() // position restored, pages past it decommitted
//
// Pop and PopTo clamp at the base position; Reset returns the arena to its
// just-created state without recreating it.
//
// # Scratch Arenas
//
// A ScratchPool holds ScratchCount arenas owned by one goroutine. Get skips
// every arena passed as an exclusion, so a function handed the caller's
// arena can allocate temporaries without aliasing it:
//
//	pool := arena.NewScratchPool()
//	defer pool.Close()
//	ctx = arena.WithScratchPool(ctx, pool)
//
//	tmp, _ := arena.GetScratch(ctx, callerArena)
//	defer tmp.End()
//
// # Errors
//
// Failures return an *Error whose Code classifies the problem; use errors.Is
// against ErrInitFailed, ErrCommitFailed, ErrOutOfMemory, ErrAllocFailed and
// ErrOutOfNodes. The error is also recorded (Err) and passed to the
// configured ErrorCallback. Nothing panics on an arena error.
//
// # Concurrency
//
// An Arena is not safe for concurrent use. Use one arena, and one
// ScratchPool, per goroutine.
package arena
