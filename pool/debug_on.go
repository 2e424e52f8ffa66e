//go:build debug

package pool

import "fmt"

// debugChecks reports whether per-slot ownership is tracked.
const debugChecks = true

// slotDebug records which pool issued a slot and whether it is checked out.
type slotDebug struct {
	owner any
	out   bool
}

func (d *slotDebug) adopt(owner any) {
	d.owner = owner
}

func (d *slotDebug) checkOut(owner any) {
	if d.owner != owner {
		panic(fmt.Errorf("acquire: %w", ErrForeignSlot))
	}
	if d.out {
		panic(fmt.Errorf("acquire: slot already checked out: %w", ErrDoubleRelease))
	}
	d.out = true
}

func (d *slotDebug) checkIn(owner any) {
	if d.owner != owner {
		panic(fmt.Errorf("release: %w", ErrForeignSlot))
	}
	if !d.out {
		panic(fmt.Errorf("release: %w", ErrDoubleRelease))
	}
	d.out = false
}

func (d *slotDebug) checkLive() {
	if !d.out {
		panic(ErrNotCheckedOut)
	}
}
