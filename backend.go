package arena

import (
	"github.com/hupe1980/arena/internal/conv"
	"github.com/hupe1980/arena/internal/vmem"
)

// Backend identifies the growth strategy behind an arena.
type Backend int

const (
	// BackendReserve reserves the full capacity once and commits pages as
	// the position advances.
	BackendReserve Backend = iota
	// BackendChain grows through a bounded table of heap-allocated nodes.
	BackendChain
)

func (b Backend) String() string {
	switch b {
	case BackendReserve:
		return "reserve"
	case BackendChain:
		return "chain"
	default:
		return "unknown"
	}
}

// DefaultBackend returns the backend New selects. It is fixed at build time:
// the chain backend is used when the platform lacks virtual-memory
// primitives or when built with the arena_chain tag.
func DefaultBackend() Backend {
	if forceChain || !vmem.Supported {
		return BackendChain
	}
	return BackendReserve
}

// header is the arena control record. It holds no Go pointers so that the
// reserve backend can place it at the start of its own reserved range.
type header struct {
	pos       uint64
	size      uint64
	blockSize uint32
	align     uint32
}

// backend is the growth strategy. The core checks capacity before calling
// push; backends handle the storage side.
type backend interface {
	kind() Backend
	header() *header
	// base is the lowest position the arena can return to.
	base() uint64
	// committed is the number of backing bytes currently held.
	committed() uint64
	// push places size bytes at the aligned position. On failure the
	// position is left unchanged.
	push(size uint64) ([]byte, *Error)
	// popTo lowers the position to pos, base() <= pos <= current position.
	popTo(pos uint64)
	destroy() error
}

// budget routes storage changes to the memory acquirer, metrics and logger.
type budget struct {
	acquirer MemoryAcquirer
	metrics  MetricsCollector
	logger   *Logger
}

func (b budget) acquire(n uint64) error {
	if b.acquirer == nil || n == 0 {
		return nil
	}
	v, err := conv.Uint64ToInt64(n)
	if err != nil {
		return err
	}
	return b.acquirer.AcquireMemory(v)
}

func (b budget) refund(n uint64) {
	if b.acquirer == nil || n == 0 {
		return
	}
	v, err := conv.Uint64ToInt64(n)
	if err != nil {
		return
	}
	b.acquirer.ReleaseMemory(v)
}

func (b budget) grew(from, to uint64) {
	b.metrics.RecordGrow(to - from)
	b.logger.LogGrow(from, to)
}

func (b budget) shrank(from, to uint64) {
	b.refund(from - to)
	b.metrics.RecordShrink(from - to)
	b.logger.LogShrink(from, to)
}
