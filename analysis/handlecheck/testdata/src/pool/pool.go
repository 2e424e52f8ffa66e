package pool

type Slot[T any] struct{ val T }

type Stack[T any] struct{}

type Handle[T any] struct{ slot *Slot[T] }

func (h *Handle[T]) Close() error     { return nil }
func (h *Handle[T]) Release() *Slot[T] { return h.slot }

type GroupHandle[T any] struct{}

func (g *GroupHandle[T]) Close() error { return nil }

type Pool[T any] struct{}

func New[T any](blockSize int) (*Pool[T], error) { return &Pool[T]{}, nil }

func (p *Pool[T]) AcquireOne() (*Handle[T], error)        { return &Handle[T]{}, nil }
func (p *Pool[T]) AcquireOneWith(v T) (*Handle[T], error) { return &Handle[T]{}, nil }
func (p *Pool[T]) Acquire(n int) (*GroupHandle[T], error) { return &GroupHandle[T]{}, nil }
func (p *Pool[T]) Release(s *Slot[T])                     {}
