package arena

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/hupe1980/arena/internal/conv"
	"github.com/hupe1980/arena/internal/vmem"
)

// Arena is a region allocator. Allocations are taken from a single growing
// position and are released in bulk (Reset), in stack order (Pop, PopTo) or
// through Temp checkpoints.
//
// An Arena must not be used from more than one goroutine at a time; use one
// arena per goroutine, or a ScratchPool per worker.
//
// Slices returned by Push stay valid until the position is moved back below
// them or the arena is destroyed. The memory is not scanned by the garbage
// collector, so it must not be the only reference to Go pointers.
type Arena struct {
	h       *header
	be      backend
	onError ErrorCallback
	lastErr *Error
	opts    options
}

// New creates an arena with the build-time default backend.
func New(cfg Config, opts ...Option) (*Arena, error) {
	return newArena(cfg, DefaultBackend(), opts)
}

func newArena(cfg Config, kind Backend, opts []Option) (*Arena, error) {
	o := buildOptions(opts)
	o.logger = o.logger.WithBackend(kind)

	a := &Arena{
		h:       &header{},
		onError: cfg.ErrorCallback,
		opts:    o,
	}

	minPage := uint64(1)
	if kind == BackendReserve {
		minPage = uint64(vmem.PageSize())
	}

	l, err := cfg.resolve(minPage)
	if err != nil {
		e := &Error{Code: CodeInitFailed, Msg: err.Error()}
		o.logger.LogCreate(uint64(cfg.Capacity), uint64(cfg.BlockSize), uint64(cfg.Align), e)
		a.record(e)
		return nil, e
	}

	bg := budget{acquirer: o.acquirer, metrics: o.metrics, logger: o.logger}

	var (
		be backend
		e  *Error
	)
	switch kind {
	case BackendReserve:
		be, e = newReserveBackend(l, bg)
	default:
		be, e = newChainBackend(l, bg)
	}
	if e != nil {
		o.logger.LogCreate(l.capacity, l.blockSize, l.align, e)
		a.record(e)
		return nil, e
	}

	a.be = be
	a.h = be.header()
	o.logger.LogCreate(l.capacity, l.blockSize, l.align, nil)
	return a, nil
}

// Destroy releases all backing storage. Slices obtained from the arena must
// not be used afterwards. Destroy is idempotent.
func (a *Arena) Destroy() error {
	if a.be == nil {
		return nil
	}

	err := a.be.destroy()
	a.opts.logger.LogDestroy(err)

	// The header may live in the released range.
	a.h = &header{}
	a.be = nil
	return err
}

// Push returns size uninitialized bytes at the next aligned position and
// advances the position past them. A zero size returns nil without changing
// the arena.
//
// On failure the position is unchanged, the error is recorded (see Err) and
// the error callback is invoked before Push returns. After Destroy, Push
// returns ErrClosed without recording it or invoking the callback.
func (a *Arena) Push(size uint64) ([]byte, error) {
	if a.be == nil {
		return nil, ErrClosed
	}
	if size == 0 {
		return nil, nil
	}

	h := a.h
	aligned := conv.AlignUp(h.pos, uint64(h.align))
	if size > h.size || aligned > h.size-size {
		return nil, a.pushFailed(size, &Error{Code: CodeOutOfMemory, Msg: "arena ran out of memory"})
	}

	b, e := a.be.push(size)
	if e != nil {
		return nil, a.pushFailed(size, e)
	}

	a.opts.metrics.RecordPush(size, nil)
	return b, nil
}

// PushZero is like Push but zero-fills the returned bytes.
func (a *Arena) PushZero(size uint64) ([]byte, error) {
	b, err := a.Push(size)
	if err != nil {
		return nil, err
	}
	clear(b)
	return b, nil
}

func (a *Arena) pushFailed(size uint64, e *Error) error {
	a.opts.logger.LogFailure("push", a.h.pos, size, e)
	a.opts.metrics.RecordPush(size, e)
	a.record(e)
	return e
}

// record stores e as the last error and then notifies the callback.
func (a *Arena) record(e *Error) {
	a.lastErr = e
	if a.onError != nil {
		a.onError(e.Code, e.Msg)
	}
}

// Pop moves the position back by size bytes. Popping more than is allocated
// clamps the position to Base.
func (a *Arena) Pop(size uint64) {
	if a.be == nil {
		return
	}

	base := a.be.base()
	target := base
	if used := a.h.pos - base; size < used {
		target = a.h.pos - size
	}
	a.popTo(target)
}

// PopTo moves the position back to pos. Positions below Base clamp to Base;
// positions at or above the current position are a no-op.
func (a *Arena) PopTo(pos uint64) {
	if a.be == nil || pos >= a.h.pos {
		return
	}
	a.popTo(max(pos, a.be.base()))
}

// Reset returns the arena to its just-created position, keeping the first
// block of backing storage.
func (a *Arena) Reset() {
	if a.be == nil {
		return
	}
	a.popTo(a.be.base())
}

func (a *Arena) popTo(pos uint64) {
	old := a.h.pos
	if pos >= old {
		return
	}
	a.be.popTo(pos)
	a.opts.metrics.RecordPop(old - pos)
}

// Err returns the last recorded error, or nil if no operation has failed.
// Successful operations do not clear it.
func (a *Arena) Err() *Error {
	return a.lastErr
}

// Pos returns the current position in bytes from the arena start.
func (a *Arena) Pos() uint64 { return a.h.pos }

// Base returns the position of a freshly created or reset arena.
func (a *Arena) Base() uint64 {
	if a.be == nil {
		return 0
	}
	return a.be.base()
}

// Capacity returns the maximum size the arena may grow to.
func (a *Arena) Capacity() uint64 { return a.h.size }

// BlockSize returns the granularity at which backing storage changes.
func (a *Arena) BlockSize() uint64 { return uint64(a.h.blockSize) }

// Align returns the alignment of every allocation.
func (a *Arena) Align() uint64 { return uint64(a.h.align) }

// Committed returns the number of backing bytes currently held: the commit
// boundary for the reserve backend, the sum of live node sizes for the
// chain backend.
//
// Chain nodes are allocated up to Align-1 bytes larger than their size so
// their first byte can be aligned. That slack is not counted here nor
// charged to a MemoryAcquirer.
func (a *Arena) Committed() uint64 {
	if a.be == nil {
		return 0
	}
	return a.be.committed()
}

// Backend returns the growth strategy of the arena.
func (a *Arena) Backend() Backend {
	if a.be == nil {
		return DefaultBackend()
	}
	return a.be.kind()
}

func (a *Arena) String() string {
	if a.be == nil {
		return "Arena{destroyed}"
	}
	return fmt.Sprintf(
		"Arena{backend: %s, pos: %s, committed: %s, capacity: %s, block: %s, align: %d}",
		a.be.kind(),
		humanize.IBytes(a.h.pos),
		humanize.IBytes(a.be.committed()),
		humanize.IBytes(a.h.size),
		humanize.IBytes(uint64(a.h.blockSize)),
		a.h.align,
	)
}
