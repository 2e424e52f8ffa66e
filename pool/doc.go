// Package pool provides a generic, block-growing object pool with an
// intrusive free list that supports constant-time bulk release.
//
// # Overview
//
// A Pool[T] carves fixed-size slots out of blocks of storage. Callers
// check slots out one at a time or in groups, use the values in place,
// and give them back either one by one or as a whole group. Slots never
// move, so pointers to them stay valid while they are checked out; this
// makes the pool a good fit for short-lived, high-frequency values such as
// tree nodes or tile records whose heap churn would otherwise dominate.
//
// # Components
//
//   - Slot: one cell holding a T plus an intrusive next link
//   - Stack: singly linked LIFO group of slots with head, tail and count
//   - Pool: owns every block and the free Stack, implements growth
//   - Handle / GroupHandle: move-only owners that return their slot or
//     group to the pool exactly once on Close
//   - Locked: mutex-guarded Pool for shared use
//
// # Usage Example
//
//	p, err := pool.New[Node](64, nil)
//	if err != nil {
//	    return err
//	}
//
//	// One slot, returned on every exit path
//	h, err := p.AcquireOneWith(Node{Key: 7})
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//	h.Val().Key++
//
//	// A batch of slots, returned in one splice
//	g, err := p.Acquire(128)
//	if err != nil {
//	    return err
//	}
//	defer g.Close()
//
// # Growth
//
// Nothing is allocated up front (unless Options.Prealloc says so). When an
// acquire needs more free slots than the free list holds, the pool adds
// ceil(deficit/blockSize) whole blocks and pushes their slots onto the
// free list. Blocks are never resized, moved or freed; Options.MaxBlocks
// caps their number. A growth that would exceed the cap fails with
// ErrExhausted before allocating anything.
//
// # Bulk Release
//
// Because the order of the free list carries no meaning, ReleaseStack
// links the released group's tail onto the free list and is O(1) apart
// from resetting each value. This relies on Stack tracking its tail.
//
// # Values
//
// A free slot always holds the zero T. Acquire and AcquireOne hand out the
// zero value (then run Options.Init), AcquireOneWith stores its argument.
// Release runs Options.Reset and zeroes the value, so released slots keep
// nothing reachable and a re-acquired slot never sees its previous value.
//
// # Ownership
//
// Releasing a slot twice, releasing it to another pool, or reading a free
// slot are caller errors. Release builds do not detect them. Building
// with -tags debug makes the pool track each slot's owner and state and
// panic with ErrDoubleRelease, ErrForeignSlot or ErrNotCheckedOut.
// The handlecheck analyzer reports handles that are dropped or not
// released on every path.
//
// # Thread Safety
//
// Pool instances are not thread-safe. Callers must synchronize access
// externally or use Locked.
package pool
