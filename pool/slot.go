package pool

// Slot is one storage cell of a pool. It holds a single T plus the
// intrusive link used while the slot sits in a Stack.
//
// A slot's address never changes once its block is allocated, so a
// *Slot[T] obtained from a handle stays valid for as long as the caller
// holds it. The value is only meaningful while the slot is checked out;
// free slots always hold the zero T.
type Slot[T any] struct {
	slotDebug // zero-size unless built with -tags debug

	val  T
	next *Slot[T]
}

// Val returns a pointer to the slot's value. The slot must be checked out.
func (s *Slot[T]) Val() *T {
	s.checkLive()
	return &s.val
}
