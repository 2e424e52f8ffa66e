package pool

import (
	"sync"

	"golang.org/x/sys/cpu"
)

// Locked is a Pool guarded by a mutex, for pools shared between
// goroutines. Growth and free-list mutation happen inside one critical
// section. Handles issued by a Locked pool release through the lock.
//
// Options.Init and Options.Reset run while the lock is held. A panic in
// either unlocks before it propagates.
type Locked[T any] struct {
	_  cpu.CacheLinePad
	mu sync.Mutex
	p  *Pool[T]
	_  cpu.CacheLinePad
}

var _ Releaser[int] = (*Locked[int])(nil)

// NewLocked creates a mutex-guarded pool. See New for the parameters.
func NewLocked[T any](blockSize int, opts *Options[T]) (*Locked[T], error) {
	p, err := New(blockSize, opts)
	if err != nil {
		return nil, err
	}
	return &Locked[T]{p: p}, nil
}

// AcquireOne is the locked form of Pool.AcquireOne.
func (l *Locked[T]) AcquireOne() (*Handle[T], error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	h, err := l.p.AcquireOne()
	if err != nil {
		return nil, err
	}
	h.owner = l
	return h, nil
}

// AcquireOneWith is the locked form of Pool.AcquireOneWith.
func (l *Locked[T]) AcquireOneWith(v T) (*Handle[T], error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	h, err := l.p.AcquireOneWith(v)
	if err != nil {
		return nil, err
	}
	h.owner = l
	return h, nil
}

// Acquire is the locked form of Pool.Acquire.
func (l *Locked[T]) Acquire(n int) (*GroupHandle[T], error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	g, err := l.p.Acquire(n)
	if err != nil {
		return nil, err
	}
	g.owner = l
	return g, nil
}

// Release is the locked form of Pool.Release.
func (l *Locked[T]) Release(s *Slot[T]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.p.Release(s)
}

// ReleaseStack is the locked form of Pool.ReleaseStack.
func (l *Locked[T]) ReleaseStack(st *Stack[T]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.p.ReleaseStack(st)
}

// Allocated is the locked form of Pool.Allocated.
func (l *Locked[T]) Allocated() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Allocated()
}

// Available is the locked form of Pool.Available.
func (l *Locked[T]) Available() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Available()
}

// Stats is the locked form of Pool.Stats.
func (l *Locked[T]) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Stats()
}
