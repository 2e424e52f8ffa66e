package pool

import (
	"io"
	"iter"
)

// Handle owns one checked-out slot.
//
// Close returns the slot to the pool that issued it, exactly once; the
// usual pattern is
//
//	h, err := p.AcquireOne()
//	if err != nil {
//		return err
//	}
//	defer h.Close()
//
// Release hands the raw slot to the caller instead, who must then give it
// back with Pool.Release. A Handle is move-only: pass ownership on with
// Move rather than copying the struct. The zero Handle owns nothing and
// its Close is a no-op.
type Handle[T any] struct {
	slot  *Slot[T]
	owner Releaser[T]
}

var _ io.Closer = (*Handle[int])(nil)

// Val returns a pointer to the owned value. The handle must own a slot.
func (h *Handle[T]) Val() *T {
	return h.slot.Val()
}

// Slot returns the owned slot without giving up ownership, or nil.
func (h *Handle[T]) Slot() *Slot[T] {
	if h == nil {
		return nil
	}
	return h.slot
}

// Owned reports whether the handle still owns a slot.
func (h *Handle[T]) Owned() bool {
	return h != nil && h.slot != nil
}

// Release gives up ownership and returns the raw slot without returning
// it to the pool. The handle is left empty.
func (h *Handle[T]) Release() *Slot[T] {
	if h == nil {
		return nil
	}
	s := h.slot
	h.slot, h.owner = nil, nil
	return s
}

// Move transfers ownership to a new handle and leaves h empty.
func (h *Handle[T]) Move() *Handle[T] {
	out := &Handle[T]{}
	if h != nil {
		out.slot, out.owner = h.slot, h.owner
		h.slot, h.owner = nil, nil
	}
	return out
}

// Close returns the slot to its pool if h still owns one. It always
// returns nil.
func (h *Handle[T]) Close() error {
	if h == nil || h.slot == nil {
		return nil
	}
	s, owner := h.slot, h.owner
	h.slot, h.owner = nil, nil
	owner.Release(s)
	return nil
}

// GroupHandle owns a Stack of checked-out slots obtained from Acquire.
// It follows the same rules as Handle: Close returns the whole group in
// one splice, Release extracts the Stack, Move transfers ownership.
type GroupHandle[T any] struct {
	stack Stack[T]
	owner Releaser[T]
}

var _ io.Closer = (*GroupHandle[int])(nil)

// Len returns the number of slots in the group.
func (g *GroupHandle[T]) Len() int {
	if g == nil {
		return 0
	}
	return g.stack.Len()
}

// Empty reports whether the group holds no slots.
func (g *GroupHandle[T]) Empty() bool {
	return g.Len() == 0
}

// All yields the slots of the group from top to bottom.
func (g *GroupHandle[T]) All() iter.Seq[*Slot[T]] {
	if g == nil {
		return func(func(*Slot[T]) bool) {}
	}
	return g.stack.All()
}

// Owned reports whether the handle still owns its group. A group of zero
// slots from Acquire(0) is owned.
func (g *GroupHandle[T]) Owned() bool {
	return g != nil && g.owner != nil
}

// Release gives up ownership and returns the group's Stack without
// returning it to the pool. The handle is left empty.
func (g *GroupHandle[T]) Release() Stack[T] {
	if g == nil {
		return Stack[T]{}
	}
	g.owner = nil
	return g.stack.Take()
}

// Move transfers ownership to a new handle and leaves g empty.
func (g *GroupHandle[T]) Move() *GroupHandle[T] {
	out := &GroupHandle[T]{}
	if g != nil {
		out.stack, out.owner = g.stack.Take(), g.owner
		g.owner = nil
	}
	return out
}

// Close returns every slot of the group to its pool if g still owns it.
// It always returns nil.
func (g *GroupHandle[T]) Close() error {
	if g == nil || g.owner == nil {
		return nil
	}
	owner := g.owner
	g.owner = nil
	st := g.stack.Take()
	owner.ReleaseStack(&st)
	return nil
}
