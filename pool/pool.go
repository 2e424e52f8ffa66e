package pool

import (
	"fmt"
	"log/slog"
	"math"
)

// Pool hands out slots of T carved from blocks of blockSize slots.
//
// Blocks are allocated lazily, a whole block at a time, whenever an
// acquire needs more free slots than the free list holds. They are never
// moved, shrunk or freed while the pool is reachable, which is what keeps
// slot pointers stable.
//
// Invariants:
//   - Allocated() == Blocks() * BlockSize()
//   - Allocated() >= Available()
//   - Allocated() - Available() == slots currently checked out
//
// A Pool is not safe for concurrent use; see Locked.
type Pool[T any] struct {
	blockSize int
	blocks    [][]Slot[T]
	free      Stack[T]
	allocated int

	init      func(*T)
	reset     func(*T)
	maxBlocks int
	log       *slog.Logger

	stats poolStats

	// Test hook: called with the number of blocks about to be added.
	onGrow func(nblocks int)
}

var _ Releaser[int] = (*Pool[int])(nil)

// New creates a pool whose blocks hold blockSize slots each.
//
// Parameters:
//   - blockSize: slots per block, must be > 0
//   - opts: hooks, limits and logging (can be nil)
//
// Nothing is allocated unless opts.Prealloc asks for it.
func New[T any](blockSize int, opts *Options[T]) (*Pool[T], error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBlockSize, blockSize)
	}

	p := &Pool[T]{
		blockSize: blockSize,
		log:       defaultLogger(),
	}

	prealloc := 0
	if opts != nil {
		if opts.MaxBlocks < 0 || opts.Prealloc < 0 {
			return nil, fmt.Errorf("%w: max blocks %d, prealloc %d",
				ErrBadOptions, opts.MaxBlocks, opts.Prealloc)
		}
		if opts.MaxBlocks > 0 && opts.Prealloc > opts.MaxBlocks {
			return nil, fmt.Errorf("%w: prealloc %d exceeds max blocks %d",
				ErrBadOptions, opts.Prealloc, opts.MaxBlocks)
		}
		p.init = opts.Init
		p.reset = opts.Reset
		p.maxBlocks = opts.MaxBlocks
		if opts.Logger != nil {
			p.log = opts.Logger
		}
		prealloc = opts.Prealloc
	}

	if prealloc > 0 {
		p.grow(prealloc, 0)
	}

	return p, nil
}

// AcquireOne checks out one slot holding a freshly initialised T
// (the zero value, then Options.Init).
func (p *Pool[T]) AcquireOne() (*Handle[T], error) {
	s, err := p.take()
	if err != nil {
		return nil, err
	}
	if p.init != nil {
		p.initOne(s)
	}
	return &Handle[T]{slot: s, owner: p}, nil
}

// AcquireOneWith checks out one slot holding v.
func (p *Pool[T]) AcquireOneWith(v T) (*Handle[T], error) {
	s, err := p.take()
	if err != nil {
		return nil, err
	}
	s.val = v
	return &Handle[T]{slot: s, owner: p}, nil
}

// Acquire checks out n slots as one group. A single call may add several
// blocks. n == 0 yields an empty group without growing.
func (p *Pool[T]) Acquire(n int) (*GroupHandle[T], error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeCount, n)
	}
	if err := p.reserve(n); err != nil {
		return nil, err
	}

	g := &GroupHandle[T]{owner: p}
	for range n {
		s := p.free.Pop()
		s.checkOut(p)
		g.stack.Push(s)
	}
	p.stats.acquires += n

	if p.init != nil {
		p.initGroup(&g.stack)
	}

	return g, nil
}

// Release resets the value in s and returns s to the free list in O(1).
// s must have been issued by this pool and be checked out. A nil s is
// ignored.
func (p *Pool[T]) Release(s *Slot[T]) {
	if s == nil {
		return
	}
	s.checkIn(p)
	p.destroy(s)
	p.free.Push(s)
	p.stats.releases++
}

// ReleaseStack resets the value of every slot in st, then splices st onto
// the free list in O(1) and leaves st empty. Every slot in st must have
// been issued by this pool and be checked out.
func (p *Pool[T]) ReleaseStack(st *Stack[T]) {
	if st == nil || st.Empty() {
		return
	}
	for s := range st.All() {
		s.checkIn(p)
		p.destroy(s)
	}
	n := st.Len()
	p.free.Concat(st)
	p.stats.releases += n
	p.stats.bulkReleases++
}

// Allocated returns the number of slots in all blocks ever allocated.
func (p *Pool[T]) Allocated() int {
	return p.allocated
}

// Available returns the number of free slots.
func (p *Pool[T]) Available() int {
	return p.free.Len()
}

// InUse returns the number of checked-out slots.
func (p *Pool[T]) InUse() int {
	return p.allocated - p.free.Len()
}

// Blocks returns the number of blocks allocated so far.
func (p *Pool[T]) Blocks() int {
	return len(p.blocks)
}

// BlockSize returns the number of slots per block.
func (p *Pool[T]) BlockSize() int {
	return p.blockSize
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		BlockSize:    p.blockSize,
		Blocks:       len(p.blocks),
		Allocated:    p.allocated,
		Available:    p.free.Len(),
		InUse:        p.InUse(),
		Grows:        p.stats.grows,
		Acquires:     p.stats.acquires,
		Releases:     p.stats.releases,
		BulkReleases: p.stats.bulkReleases,
	}
}

// take pops one free slot, growing first if the free list is empty.
func (p *Pool[T]) take() (*Slot[T], error) {
	if err := p.reserve(1); err != nil {
		return nil, err
	}
	s := p.free.Pop()
	s.checkOut(p)
	p.stats.acquires++
	return s, nil
}

// reserve makes sure at least n slots are free. The block limit is checked
// before anything is allocated, so a failure leaves the pool untouched.
func (p *Pool[T]) reserve(n int) error {
	deficit := n - p.free.Len()
	if deficit <= 0 {
		return nil
	}

	need := deficit / p.blockSize
	if deficit%p.blockSize != 0 {
		need++
	}

	// Compare by subtraction so huge requests cannot wrap around.
	if p.maxBlocks > 0 && need > p.maxBlocks-len(p.blocks) {
		p.log.Warn("pool exhausted",
			"need", n,
			"available", p.free.Len(),
			"blocks", len(p.blocks),
			"max_blocks", p.maxBlocks,
		)
		return fmt.Errorf("%w: need %d more blocks, have %d of %d: %w",
			ErrGrowFail, need, len(p.blocks), p.maxBlocks, ErrExhausted)
	}

	if need > (math.MaxInt-p.allocated)/p.blockSize {
		return fmt.Errorf("%w: %d more blocks of %d slots overflow the slot count",
			ErrGrowFail, need, p.blockSize)
	}

	p.grow(need, n)
	return nil
}

// grow appends nblocks fresh blocks and pushes all their slots onto the
// free list. Slots are pushed back to front so a block hands out its
// slots in address order.
func (p *Pool[T]) grow(nblocks, need int) {
	if nblocks <= 0 {
		return
	}
	if p.onGrow != nil {
		p.onGrow(nblocks)
	}

	for range nblocks {
		b := make([]Slot[T], p.blockSize)
		for i := len(b) - 1; i >= 0; i-- {
			b[i].adopt(p)
			p.free.Push(&b[i])
		}
		p.blocks = append(p.blocks, b)
		p.allocated += p.blockSize
	}
	p.stats.grows++

	p.log.Debug("pool grew",
		"added", nblocks,
		"blocks", len(p.blocks),
		"block_size", p.blockSize,
		"allocated", p.allocated,
		"available", p.free.Len(),
		"need", need,
	)
}

// initOne runs the init hook on a freshly taken slot. If the hook panics,
// the slot goes back to the free list before the panic continues.
func (p *Pool[T]) initOne(s *Slot[T]) {
	done := false
	defer func() {
		if !done {
			p.Release(s)
		}
	}()
	p.init(&s.val)
	done = true
}

// initGroup runs the init hook on every slot of a freshly acquired group.
// If the hook panics, the whole group goes back to the free list before
// the panic continues.
func (p *Pool[T]) initGroup(st *Stack[T]) {
	done := false
	defer func() {
		if !done {
			p.ReleaseStack(st)
		}
	}()
	for s := range st.All() {
		p.init(&s.val)
	}
	done = true
}

// destroy runs the reset hook and zeroes the value so a free slot keeps
// nothing reachable.
func (p *Pool[T]) destroy(s *Slot[T]) {
	if p.reset != nil {
		p.reset(&s.val)
	}
	var zero T
	s.val = zero
}
