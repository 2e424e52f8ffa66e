//go:build !debug

package pool

// debugChecks reports whether per-slot ownership is tracked.
const debugChecks = false

// slotDebug carries no state in release builds; ownership violations are
// undefined behaviour there.
type slotDebug struct{}

func (*slotDebug) adopt(any)    {}
func (*slotDebug) checkOut(any) {}
func (*slotDebug) checkIn(any)  {}
func (*slotDebug) checkLive()   {}
