package arena

import (
	"unsafe"

	"github.com/hupe1980/arena/internal/conv"
	"github.com/hupe1980/arena/internal/vmem"
)

// reserveBase is the first user position of a reserve arena: the header
// occupies the start of the reserved range, padded to 64 bytes.
const reserveBase = (uint64(unsafe.Sizeof(header{})) + 63) &^ 63

// reserveBackend owns one contiguous reservation. The committed prefix
// [0, commitPos) is always block aligned (or equal to the capacity) and
// never smaller than the position.
type reserveBackend struct {
	res       *vmem.Reservation
	hdr       *header
	commitPos uint64
	budget    budget
}

func newReserveBackend(l layout, bg budget) (*reserveBackend, *Error) {
	size, err := conv.Uint64ToInt(l.capacity)
	if err != nil {
		return nil, &Error{Code: CodeInitFailed, Msg: "capacity exceeds addressable range", Err: err}
	}

	if err := bg.acquire(l.blockSize); err != nil {
		return nil, &Error{Code: CodeInitFailed, Msg: "memory budget refused initial block", Err: err}
	}

	res, err := vmem.Reserve(size)
	if err != nil {
		bg.refund(l.blockSize)
		return nil, &Error{Code: CodeInitFailed, Msg: "failed to reserve address space", Err: err}
	}

	if err := res.Commit(0, int(l.blockSize)); err != nil {
		_ = res.Release()
		bg.refund(l.blockSize)
		return nil, &Error{Code: CodeInitFailed, Msg: "failed to commit initial memory for arena", Err: err}
	}

	hdr := (*header)(unsafe.Pointer(unsafe.SliceData(res.Bytes())))
	*hdr = header{
		pos:       reserveBase,
		size:      l.capacity,
		blockSize: uint32(l.blockSize),
		align:     uint32(l.align),
	}

	r := &reserveBackend{
		res:       res,
		hdr:       hdr,
		commitPos: l.blockSize,
		budget:    bg,
	}
	bg.grew(0, l.blockSize)
	return r, nil
}

func (r *reserveBackend) kind() Backend     { return BackendReserve }
func (r *reserveBackend) header() *header   { return r.hdr }
func (r *reserveBackend) base() uint64      { return reserveBase }
func (r *reserveBackend) committed() uint64 { return r.commitPos }

func (r *reserveBackend) push(size uint64) ([]byte, *Error) {
	h := r.hdr
	aligned := conv.AlignUp(h.pos, uint64(h.align))
	end := aligned + size

	if end > r.commitPos {
		target := min(conv.AlignUp(end, uint64(h.blockSize)), h.size)
		if err := r.commit(target); err != nil {
			return nil, &Error{Code: CodeCommitFailed, Msg: "failed to commit memory", Err: err}
		}
	}

	h.pos = end
	return r.res.Bytes()[aligned:end:end], nil
}

func (r *reserveBackend) commit(target uint64) error {
	from := r.commitPos
	delta := target - from

	if err := r.budget.acquire(delta); err != nil {
		return err
	}
	if err := r.res.Commit(int(from), int(delta)); err != nil {
		r.budget.refund(delta)
		return err
	}

	r.commitPos = target
	r.budget.grew(from, target)
	return nil
}

func (r *reserveBackend) popTo(pos uint64) {
	h := r.hdr
	h.pos = pos

	target := min(conv.AlignUp(pos, uint64(h.blockSize)), h.size)
	if target >= r.commitPos {
		return
	}

	from := r.commitPos
	if err := r.res.Decommit(int(target), int(from-target)); err != nil {
		// The range stays committed, which keeps commitPos >= pos.
		r.budget.logger.LogFailure("decommit", pos, from-target, err)
		return
	}
	r.commitPos = target
	r.budget.shrank(from, target)
}

func (r *reserveBackend) destroy() error {
	committed := r.commitPos
	r.commitPos = 0
	r.hdr = nil

	err := r.res.Release()
	r.budget.shrank(committed, 0)
	return err
}
