package arena

import (
	"unsafe"

	"github.com/hupe1980/arena/internal/conv"
)

// node is one heap block of a chain arena.
type node struct {
	buf  []byte
	base uint64 // arena position of buf[0]
	pos  uint64 // bytes used in buf
}

// chainBackend grows through a bounded table of nodes. The arena position
// is nodes[cur].base + nodes[cur].pos; the unused tail of a node that was
// skipped for a larger allocation is never revisited.
type chainBackend struct {
	hdr     header
	nodes   []node
	cur     int
	backing uint64
	budget  budget
}

func newChainBackend(l layout, bg budget) (*chainBackend, *Error) {
	if _, err := conv.Uint64ToInt(l.capacity); err != nil {
		return nil, &Error{Code: CodeInitFailed, Msg: "capacity exceeds addressable range", Err: err}
	}

	c := &chainBackend{
		hdr: header{
			size:      l.capacity,
			blockSize: uint32(l.blockSize),
			align:     uint32(l.align),
		},
		nodes:  make([]node, l.capacity/l.blockSize+1),
		budget: bg,
	}

	if err := c.allocNode(0, 0, l.blockSize); err != nil {
		return nil, &Error{Code: CodeInitFailed, Msg: "failed to allocate initial node", Err: err}
	}
	return c, nil
}

func (c *chainBackend) kind() Backend     { return BackendChain }
func (c *chainBackend) header() *header   { return &c.hdr }
func (c *chainBackend) base() uint64      { return 0 }
func (c *chainBackend) committed() uint64 { return c.backing }

func (c *chainBackend) push(size uint64) ([]byte, *Error) {
	h := &c.hdr
	n := &c.nodes[c.cur]
	local := conv.AlignUp(n.pos, uint64(h.align))

	if local+size > uint64(len(n.buf)) {
		base := n.base + uint64(len(n.buf))
		if size > h.size || base > h.size-size {
			return nil, &Error{Code: CodeOutOfMemory, Msg: "arena ran out of memory"}
		}

		next := c.cur + 1
		if next >= len(c.nodes) {
			return nil, &Error{Code: CodeOutOfNodes, Msg: "arena node table exhausted"}
		}

		block := uint64(h.blockSize)
		if err := c.allocNode(next, base, conv.AlignUp(max(block, size), block)); err != nil {
			return nil, &Error{Code: CodeAllocFailed, Msg: "failed to allocate arena node", Err: err}
		}

		c.cur = next
		n = &c.nodes[next]
		local = 0
	}

	n.pos = local + size
	h.pos = n.base + n.pos
	return n.buf[local:n.pos:n.pos], nil
}

func (c *chainBackend) allocNode(i int, base, capacity uint64) error {
	if err := c.budget.acquire(capacity); err != nil {
		return err
	}

	// Over-allocate so the first byte can be moved to an aligned address.
	align := uintptr(c.hdr.align)
	raw := make([]byte, uintptr(capacity)+align-1)
	off := (align - uintptr(unsafe.Pointer(unsafe.SliceData(raw)))%align) % align

	c.nodes[i] = node{
		buf:  raw[off : off+uintptr(capacity) : off+uintptr(capacity)],
		base: base,
	}

	from := c.backing
	c.backing += capacity
	c.budget.grew(from, c.backing)
	return nil
}

func (c *chainBackend) freeNode(i int) {
	capacity := uint64(len(c.nodes[i].buf))
	c.nodes[i] = node{}

	from := c.backing
	c.backing -= capacity
	c.budget.shrank(from, c.backing)
}

func (c *chainBackend) popTo(pos uint64) {
	// Free every node whose whole extent lies at or above pos.
	for c.cur > 0 && pos <= c.nodes[c.cur].base {
		c.freeNode(c.cur)
		c.cur--
	}

	n := &c.nodes[c.cur]
	n.pos = pos - n.base
	c.hdr.pos = pos
}

func (c *chainBackend) destroy() error {
	for i := c.cur; i >= 0; i-- {
		c.freeNode(i)
	}
	c.nodes = nil
	c.cur = 0
	return nil
}
