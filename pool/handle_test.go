package pool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingReleaser records every release it receives.
type countingReleaser struct {
	slots  []*Slot[int]
	stacks int
	slotsN int
}

func (c *countingReleaser) Release(s *Slot[int]) {
	c.slots = append(c.slots, s)
}

func (c *countingReleaser) ReleaseStack(st *Stack[int]) {
	c.stacks++
	c.slotsN += st.Len()
	st.Take()
}

func TestHandle_CloseIsExactlyOnce(t *testing.T) {
	var slot Slot[int]
	rel := &countingReleaser{}
	h := &Handle[int]{slot: &slot, owner: rel}

	require.True(t, h.Owned())
	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
	require.NoError(t, h.Close())

	assert.Equal(t, []*Slot[int]{&slot}, rel.slots)
	assert.False(t, h.Owned())
	assert.Nil(t, h.Slot())
}

func TestHandle_ZeroValueIsEmpty(t *testing.T) {
	var h Handle[int]
	assert.False(t, h.Owned())
	assert.NoError(t, h.Close())
	assert.Nil(t, h.Release())

	var nilHandle *Handle[int]
	assert.False(t, nilHandle.Owned())
	assert.NoError(t, nilHandle.Close())
	assert.Nil(t, nilHandle.Release())
	assert.False(t, nilHandle.Move().Owned())
}

func TestHandle_Move(t *testing.T) {
	p := newTestPool[int](t, testBlockSize)

	src, err := p.AcquireOneWith(7)
	require.NoError(t, err)
	slot := src.Slot()

	dst := src.Move()

	assert.False(t, src.Owned())
	assert.True(t, dst.Owned())
	assert.Same(t, slot, dst.Slot())
	assert.Equal(t, 7, *dst.Val())

	// Closing the moved-from handle must not release anything.
	require.NoError(t, src.Close())
	assert.Equal(t, 1, p.InUse())

	require.NoError(t, dst.Close())
	assert.Equal(t, 0, p.InUse())
	assertInvariants(t, p)
}

func TestHandle_ReleaseExtractsWithoutReturning(t *testing.T) {
	p := newTestPool[int](t, testBlockSize)

	h, err := p.AcquireOneWith(3)
	require.NoError(t, err)
	raw := h.Release()

	require.NoError(t, h.Close())
	assert.Equal(t, 1, p.InUse(), "extracted slot stays checked out")
	assert.Equal(t, 3, *raw.Val())

	p.Release(raw)
	assert.Equal(t, 0, p.InUse())
}

// TestHandle_DeferReleasesOnErrorPath checks that a deferred Close returns
// the slot when the function exits early with an error.
func TestHandle_DeferReleasesOnErrorPath(t *testing.T) {
	p := newTestPool[int](t, testBlockSize)
	errBoom := errors.New("boom")

	work := func() error {
		h, err := p.AcquireOne()
		if err != nil {
			return err
		}
		defer h.Close()

		*h.Val() = 1
		return errBoom
	}

	require.ErrorIs(t, work(), errBoom)
	assert.Equal(t, p.Allocated(), p.Available())
}

func TestHandle_DeferReleasesOnPanic(t *testing.T) {
	p := newTestPool[int](t, testBlockSize)

	assert.Panics(t, func() {
		g, err := p.Acquire(5)
		require.NoError(t, err)
		defer g.Close()
		panic("boom")
	})
	assert.Equal(t, p.Allocated(), p.Available())
}

func TestGroupHandle_CloseIsExactlyOnce(t *testing.T) {
	slots := newSlots(3)
	rel := &countingReleaser{}
	g := &GroupHandle[int]{owner: rel}
	for i := range slots {
		g.stack.Push(&slots[i])
	}

	require.NoError(t, g.Close())
	require.NoError(t, g.Close())

	assert.Equal(t, 1, rel.stacks)
	assert.Equal(t, 3, rel.slotsN)
	assert.True(t, g.Empty())
	assert.False(t, g.Owned())
}

func TestGroupHandle_Move(t *testing.T) {
	p := newTestPool[int](t, testBlockSize)

	src, err := p.Acquire(25)
	require.NoError(t, err)

	dst := src.Move()

	assert.False(t, src.Owned())
	assert.True(t, src.Empty())
	assert.True(t, dst.Owned())
	assert.Equal(t, 25, dst.Len())

	require.NoError(t, src.Close())
	assert.Equal(t, 25, p.InUse())

	require.NoError(t, dst.Close())
	assert.Equal(t, 0, p.InUse())
	assertInvariants(t, p)
}

func TestGroupHandle_ReleaseExtractsStack(t *testing.T) {
	p := newTestPool[int](t, testBlockSize)

	g, err := p.Acquire(40)
	require.NoError(t, err)
	stack := g.Release()

	assert.Equal(t, 40, stack.Len())
	assert.False(t, g.Owned())
	assert.True(t, g.Empty())
	require.NoError(t, g.Close())
	assert.Equal(t, 40, p.InUse())

	p.ReleaseStack(&stack)
	assert.True(t, stack.Empty())
	assert.Equal(t, 0, p.InUse())
}

func TestGroupHandle_NilSafe(t *testing.T) {
	var g *GroupHandle[int]
	assert.Equal(t, 0, g.Len())
	assert.True(t, g.Empty())
	assert.False(t, g.Owned())
	assert.NoError(t, g.Close())
	st := g.Release()
	assert.True(t, st.Empty())
	assert.False(t, g.Move().Owned())

	n := 0
	for range g.All() {
		n++
	}
	assert.Zero(t, n)
}
