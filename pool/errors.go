package pool

import "errors"

var (
	// ErrBlockSize indicates a pool was configured with a block size <= 0.
	ErrBlockSize = errors.New("pool: block size must be positive")

	// ErrBadOptions indicates inconsistent Options (negative limits, or a
	// preallocation larger than the block limit).
	ErrBadOptions = errors.New("pool: invalid options")

	// ErrNegativeCount indicates Acquire was asked for fewer than zero slots.
	ErrNegativeCount = errors.New("pool: negative acquire count")

	// ErrGrowFail indicates that adding blocks to satisfy an acquire failed.
	// The pool state is unchanged when it is returned.
	ErrGrowFail = errors.New("pool: grow failed")

	// ErrExhausted indicates growth would exceed Options.MaxBlocks.
	// It is always wrapped together with ErrGrowFail.
	ErrExhausted = errors.New("pool: block limit reached")

	// ErrDoubleRelease is the panic value when a free slot is released again.
	// Only checked in builds tagged debug.
	ErrDoubleRelease = errors.New("pool: slot released while free")

	// ErrForeignSlot is the panic value when a slot is released to a pool
	// that did not issue it. Only checked in builds tagged debug.
	ErrForeignSlot = errors.New("pool: slot belongs to another pool")

	// ErrNotCheckedOut is the panic value when a free slot's value is read.
	// Only checked in builds tagged debug.
	ErrNotCheckedOut = errors.New("pool: slot is not checked out")
)
