package pool

import "iter"

// Stack is a singly linked LIFO group of slots.
//
// It serves both as a pool's free list and as a caller-held batch of
// checked-out slots. Besides the head it tracks the tail, which lets
// Concat splice two stacks together in constant time; element order in a
// free list carries no meaning, so linking one tail to the other head is
// enough.
//
// A slot may be a member of at most one stack at a time. Take and Concat
// move slots between stacks and leave their source empty, which keeps
// that true by construction. Copying a non-empty Stack value aliases its
// slots; use Take instead.
//
// The zero value is an empty stack ready to use.
type Stack[T any] struct {
	head *Slot[T]
	tail *Slot[T]
	n    int
}

// Push adds s on top of the stack. s must not be a member of any stack.
func (st *Stack[T]) Push(s *Slot[T]) {
	if s == nil {
		panic("pool: push of nil slot")
	}
	s.next = st.head
	st.head = s
	if st.n == 0 {
		st.tail = s
	}
	st.n++
}

// Pop removes and returns the top slot, or nil when the stack is empty.
func (st *Stack[T]) Pop() *Slot[T] {
	s := st.head
	if s == nil {
		return nil
	}
	st.head = s.next
	s.next = nil
	st.n--
	if st.n == 0 {
		st.tail = nil
	}
	return s
}

// Peek returns the top slot without removing it, or nil when empty.
func (st *Stack[T]) Peek() *Slot[T] {
	return st.head
}

// Len returns the number of slots in the stack.
func (st *Stack[T]) Len() int {
	return st.n
}

// Empty reports whether the stack holds no slots.
func (st *Stack[T]) Empty() bool {
	return st.n == 0
}

// Take moves the contents of st into a new Stack and leaves st empty.
func (st *Stack[T]) Take() Stack[T] {
	out := *st
	*st = Stack[T]{}
	return out
}

// Concat appends every slot of other below the slots of st and leaves
// other empty. It runs in O(1) regardless of either stack's length.
func (st *Stack[T]) Concat(other *Stack[T]) {
	if other == st {
		panic("pool: concat of a stack with itself")
	}
	if other.n == 0 {
		return
	}
	if st.n == 0 {
		*st = other.Take()
		return
	}
	st.tail.next = other.head
	st.tail = other.tail
	st.n += other.n
	*other = Stack[T]{}
}

// All yields the slots from top to bottom without modifying the stack.
// The stack must not be mutated during iteration.
func (st *Stack[T]) All() iter.Seq[*Slot[T]] {
	return func(yield func(*Slot[T]) bool) {
		s := st.head
		for range st.n {
			next := s.next
			if !yield(s) {
				return
			}
			s = next
		}
	}
}
