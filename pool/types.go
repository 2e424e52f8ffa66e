package pool

import "log/slog"

// Releaser takes checked-out slots back.
//
// Implementations:
//   - Pool: single-owner pool, no locking
//   - Locked: mutex-guarded wrapper around a Pool
//
// Handles remember the Releaser that issued them so Close always returns
// the resource through the same path it came out of.
type Releaser[T any] interface {
	// Release resets the slot's value and returns the slot to the free list.
	Release(s *Slot[T])

	// ReleaseStack resets every value in st, splices st onto the free list
	// and leaves st empty.
	ReleaseStack(st *Stack[T])
}

// Options controls pool construction. A nil *Options means defaults.
type Options[T any] struct {
	// Init runs on every slot handed out by AcquireOne and Acquire, after
	// the value has been set to the zero T. It is not run by
	// AcquireOneWith, which constructs the value from its argument.
	// If Init panics, every slot of that acquire is released (running
	// Reset, also on slots Init never reached) before the panic continues.
	// Init must not call back into the pool.
	Init func(*T)

	// Reset runs on every slot being released, before the value is zeroed.
	// Use it to hand back resources owned by T. Reset must not call back
	// into the pool.
	Reset func(*T)

	// MaxBlocks caps the number of blocks the pool may ever allocate.
	// Acquires that would need more fail with ErrExhausted.
	// Zero means unlimited.
	MaxBlocks int

	// Prealloc is the number of blocks allocated eagerly by New.
	// Zero keeps allocation lazy.
	Prealloc int

	// Logger receives growth (Debug) and exhaustion (Warn) records.
	// If nil, records are discarded unless SPLICE_LOG_GROW is set.
	Logger *slog.Logger
}
