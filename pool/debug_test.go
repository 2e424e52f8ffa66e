//go:build debug

package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebug_DoubleReleasePanics(t *testing.T) {
	require.True(t, debugChecks)
	p := newTestPool[int](t, testBlockSize)

	h, err := p.AcquireOne()
	require.NoError(t, err)
	raw := h.Release()
	p.Release(raw)

	assert.PanicsWithError(t, "release: "+ErrDoubleRelease.Error(), func() {
		p.Release(raw)
	})
}

func TestDebug_ForeignReleasePanics(t *testing.T) {
	a := newTestPool[int](t, testBlockSize)
	b := newTestPool[int](t, testBlockSize)

	h, err := a.AcquireOne()
	require.NoError(t, err)
	raw := h.Release()

	assert.PanicsWithError(t, "release: "+ErrForeignSlot.Error(), func() {
		b.Release(raw)
	})

	a.Release(raw)
}

func TestDebug_ForeignStackReleasePanics(t *testing.T) {
	a := newTestPool[int](t, testBlockSize)
	b := newTestPool[int](t, testBlockSize)

	g, err := a.Acquire(3)
	require.NoError(t, err)
	st := g.Release()

	assert.Panics(t, func() { b.ReleaseStack(&st) })
}

func TestDebug_ReadingFreeSlotPanics(t *testing.T) {
	p := newTestPool[int](t, testBlockSize)

	h, err := p.AcquireOne()
	require.NoError(t, err)
	raw := h.Slot()
	require.NoError(t, h.Close())

	assert.PanicsWithValue(t, ErrNotCheckedOut, func() {
		_ = raw.Val()
	})
}

func TestDebug_LockedTracksInnerPool(t *testing.T) {
	l, err := NewLocked[int](testBlockSize, nil)
	require.NoError(t, err)

	h, err := l.AcquireOne()
	require.NoError(t, err)
	assert.NotPanics(t, func() { h.Close() })
}
