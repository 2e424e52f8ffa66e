package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testBlockSize = 20

// newTestPool creates a pool with the given block size and no options.
func newTestPool[T any](t testing.TB, blockSize int) *Pool[T] {
	t.Helper()

	p, err := New[T](blockSize, nil)
	require.NoError(t, err)
	return p
}

// acquireRaw checks out n slots one at a time, constructing each from
// its index, and returns the raw slots in acquisition order.
func acquireRaw(t testing.TB, p *Pool[int], n int) []*Slot[int] {
	t.Helper()

	slots := make([]*Slot[int], 0, n)
	for i := range n {
		h, err := p.AcquireOneWith(i)
		require.NoError(t, err)
		s := h.Release()
		require.NotNil(t, s)
		slots = append(slots, s)
	}
	return slots
}

// assertInvariants checks the accounting invariants of p by walking its
// free list and blocks.
func assertInvariants[T any](t testing.TB, p *Pool[T]) {
	t.Helper()

	require.Equal(t, len(p.blocks)*p.blockSize, p.Allocated(), "allocated must equal blocks * block size")
	require.GreaterOrEqual(t, p.Allocated(), p.Available(), "allocated must be >= available")
	require.Equal(t, p.Allocated()-p.Available(), p.InUse())

	// Walk the free list: length must match its count, the last node must
	// be the tail, and every member must live in one of our blocks.
	owned := make(map[*Slot[T]]bool, p.Allocated())
	for _, b := range p.blocks {
		require.Len(t, b, p.blockSize)
		for i := range b {
			owned[&b[i]] = true
		}
	}

	seen := make(map[*Slot[T]]bool, p.Available())
	var last *Slot[T]
	for s := p.free.head; s != nil; s = s.next {
		require.True(t, owned[s], "free slot not from this pool")
		require.False(t, seen[s], "free slot listed twice")
		seen[s] = true
		last = s
	}
	require.Len(t, seen, p.free.Len())
	require.Equal(t, last, p.free.tail, "tail must be the last free slot")
}
