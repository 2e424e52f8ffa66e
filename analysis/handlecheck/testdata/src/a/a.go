package a

import "pool"

var p, _ = pool.New[int](8)

func discardedBlank() {
	_, _ = p.AcquireOne() // want "the handle returned by AcquireOne should be closed, not discarded, to avoid leaking pool slots"
}

func discardedBlankWithOwned() {
	_, _ = p.AcquireOne() //pool:owned
}

func discardedGroup() {
	var _, err = p.Acquire(4) // want "the handle returned by Acquire should be closed, not discarded, to avoid leaking pool slots"
	_ = err
}

func deferClose() error {
	h, err := p.AcquireOne()
	if err != nil {
		return err
	}
	defer h.Close()
	return nil
}

func errEqualNil() {
	h, err := p.AcquireOneWith(3)
	if err == nil {
		h.Close()
	}
}

func directRelease() {
	h, err := p.AcquireOne()
	if err != nil {
		return
	}
	p.Release(h.Release())
}

func conditionalClose(flag bool) {
	h, err := p.AcquireOne() // want "the handle is not closed or released on all paths"
	if err != nil {
		return
	}
	if flag {
		h.Close()
	}
}

func ignoredError() {
	h, _ := p.AcquireOne() // want "the handle is not closed or released on all paths"
	_ = 1
	if true {
		return
	}
	h.Close()
}

func returned() (*pool.Handle[int], error) {
	h, err := p.AcquireOne()
	if err != nil {
		return nil, err
	}
	return h, nil
}

func passedToFunction() {
	g, err := p.Acquire(2)
	if err != nil {
		return
	}
	consume(g)
}

func consume(g *pool.GroupHandle[int]) {
	g.Close()
}

func storedInStruct() {
	type holder struct {
		h *pool.Handle[int]
	}

	var hl holder
	hl.h, _ = p.AcquireOne()
	hl.h.Close()
}

func closure(flag bool) {
	func() {
		g, err := p.Acquire(1) // want "the handle is not closed or released on all paths"
		if err != nil {
			return
		}
		if flag {
			g.Close()
		}
	}()
}

func multipleReturns(flag bool) {
	h, err := p.AcquireOne()
	if err != nil {
		return
	}
	if flag {
		h.Close()
		return
	}
	h.Close()
}

func parenthesizedCheck() {
	h, err := p.AcquireOne()
	if (err) != nil {
		return
	}
	h.Close()
}

func usedInClosure() {
	h, err := p.AcquireOne()
	if err != nil {
		return
	}
	defer func() {
		h.Close()
	}()
}

func reassigned(flag bool) {
	var h *pool.Handle[int]
	var err error
	h, err = p.AcquireOne() // want "the handle is not closed or released on all paths"
	if err != nil {
		return
	}
	if flag {
		return
	}
	h.Close()
}

func explicitInstantiation() {
	_, _ = pool.New[int](4)
}
