package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arena/resource"
)

func chainOf(t *testing.T, a *Arena) *chainBackend {
	t.Helper()
	c, ok := a.be.(*chainBackend)
	require.True(t, ok)
	return c
}

var chainTestConfig = Config{
	Capacity:  Size(MiB(1)),
	BlockSize: Size(KiB(64)),
	PageSize:  4096,
}

func TestChain_NodeGrowth(t *testing.T) {
	a := mustArena(t, chainTestConfig, BackendChain)
	c := chainOf(t, a)

	assert.Len(t, c.nodes, 17, "capacity/block + 1 node slots")
	assert.Equal(t, KiB(64), a.Committed())

	_, err := a.Push(KiB(60))
	require.NoError(t, err)
	assert.Equal(t, 0, c.cur)

	b, err := a.Push(KiB(8))
	require.NoError(t, err)
	assert.Len(t, b, int(KiB(8)))
	assert.Equal(t, 1, c.cur)
	assert.Equal(t, KiB(64), c.nodes[1].base)
	assert.Equal(t, KiB(64)+KiB(8), a.Pos(), "the unused tail of the first node is skipped")
	assert.Equal(t, KiB(128), a.Committed())
}

func TestChain_OversizedNode(t *testing.T) {
	a := mustArena(t, chainTestConfig, BackendChain)
	c := chainOf(t, a)

	_, err := a.Push(KiB(200))
	require.NoError(t, err)

	assert.Equal(t, 1, c.cur)
	assert.Len(t, c.nodes[1].buf, int(KiB(256)), "node size is the request rounded up to the block size")
	assert.Equal(t, KiB(64)+KiB(256), a.Committed())
}

func TestChain_PopFreesNodes(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	a := mustArena(t, chainTestConfig, BackendChain, WithMetrics(metrics))
	c := chainOf(t, a)

	for range 4 {
		_, err := a.Push(KiB(40))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, c.cur)
	assert.Equal(t, KiB(256), a.Committed())

	a.Pop(KiB(40))
	assert.Equal(t, 2, c.cur)
	assert.Equal(t, KiB(192), a.Committed())
	assert.Equal(t, 3*KiB(64), a.Pos(), "position is the end of the previous node")

	a.Reset()
	assert.Equal(t, 0, c.cur)
	assert.Equal(t, KiB(64), a.Committed())
	for i := 1; i < len(c.nodes); i++ {
		assert.Nil(t, c.nodes[i].buf, "node %d", i)
	}

	stats := metrics.GetStats()
	assert.Equal(t, int64(KiB(64)), stats.BackingBytes)
	assert.Equal(t, KiB(256), stats.GrownBytes)
	assert.Equal(t, KiB(192), stats.ShrunkBytes)
}

func TestChain_PopToNodeBoundary(t *testing.T) {
	a := mustArena(t, chainTestConfig, BackendChain)
	c := chainOf(t, a)

	_, err := a.Push(KiB(64))
	require.NoError(t, err)
	mark := a.Pos()

	_, err = a.Push(KiB(10))
	require.NoError(t, err)
	require.Equal(t, 1, c.cur)

	a.PopTo(mark)
	assert.Equal(t, 0, c.cur)
	assert.Equal(t, mark, a.Pos())

	// The first node is full, so the next push starts a new node.
	_, err = a.Push(8)
	require.NoError(t, err)
	assert.Equal(t, 1, c.cur)
}

func TestChain_NodeAlignment(t *testing.T) {
	cfg := chainTestConfig
	cfg.Align = 64
	a := mustArena(t, cfg, BackendChain)

	for range 200 {
		b, err := a.Push(1000)
		require.NoError(t, err)
		assert.Zero(t, addr(b)%64)
	}
}

func TestChain_CommittedIgnoresAlignSlack(t *testing.T) {
	ctrl := resource.NewController(resource.Config{})
	cfg := chainTestConfig
	cfg.Align = 4096
	a := mustArena(t, cfg, BackendChain, WithMemoryAcquirer(ctrl))

	b, err := a.Push(KiB(100))
	require.NoError(t, err)
	assert.Zero(t, addr(b)%4096)

	c := chainOf(t, a)
	var nominal uint64
	for _, n := range c.nodes[:c.cur+1] {
		assert.Equal(t, len(n.buf), cap(n.buf))
		nominal += uint64(len(n.buf))
	}
	assert.Equal(t, nominal, a.Committed())
	assert.Equal(t, int64(nominal), ctrl.MemoryUsage())
}

func TestChain_OutOfMemoryAcrossNodes(t *testing.T) {
	a := mustArena(t, chainTestConfig, BackendChain)

	_, err := a.Push(KiB(10))
	require.NoError(t, err)
	pos := a.Pos()

	// Fits by position, but not after skipping the rest of the first node.
	_, err = a.Push(MiB(1) - KiB(20))
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, pos, a.Pos())
}

func TestChain_OutOfNodes(t *testing.T) {
	var codes []ErrorCode
	cfg := chainTestConfig
	cfg.ErrorCallback = func(code ErrorCode, _ string) { codes = append(codes, code) }

	a := mustArena(t, cfg, BackendChain)
	c := chainOf(t, a)
	c.nodes = c.nodes[:2]

	_, err := a.Push(KiB(64))
	require.NoError(t, err)
	_, err = a.Push(KiB(64))
	require.NoError(t, err)
	pos := a.Pos()

	_, err = a.Push(KiB(64))
	assert.ErrorIs(t, err, ErrOutOfNodes)
	assert.Equal(t, pos, a.Pos())
	assert.Equal(t, []ErrorCode{CodeOutOfNodes}, codes)
	assert.Equal(t, CodeOutOfNodes, a.Err().Code)
}

func TestChain_AllocFailed(t *testing.T) {
	ctrl := resource.NewController(resource.Config{MemoryLimitBytes: int64(KiB(128))})
	a, err := newArena(chainTestConfig, BackendChain, []Option{WithMemoryAcquirer(ctrl)})
	require.NoError(t, err)
	assert.Equal(t, int64(KiB(64)), ctrl.MemoryUsage())

	_, err = a.Push(KiB(64))
	require.NoError(t, err)
	pos := a.Pos()

	_, err = a.Push(KiB(200))
	assert.ErrorIs(t, err, ErrAllocFailed)
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	assert.Equal(t, pos, a.Pos())
	assert.Equal(t, KiB(64), a.Committed())

	// A node that fits the budget still succeeds.
	_, err = a.Push(KiB(10))
	require.NoError(t, err)
	assert.Equal(t, int64(KiB(128)), ctrl.MemoryUsage())

	require.NoError(t, a.Destroy())
	assert.Zero(t, ctrl.MemoryUsage())
	assert.Equal(t, int64(KiB(128)), ctrl.MemoryPeak())
}

func TestChain_InitFailed(t *testing.T) {
	ctrl := resource.NewController(resource.Config{MemoryLimitBytes: int64(KiB(16))})

	a, err := newArena(chainTestConfig, BackendChain, []Option{WithMemoryAcquirer(ctrl)})
	assert.Nil(t, a)
	assert.ErrorIs(t, err, ErrInitFailed)
	assert.Zero(t, ctrl.MemoryUsage())
}
