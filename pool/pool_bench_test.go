package pool

import (
	"fmt"
	"sync"
	"testing"
)

type benchNode struct {
	key         int
	left, right *benchNode
	payload     [6]int64
}

// Benchmark names follow <Benchmark>/<op>/<impl> so that
// scripts/benchmark_parser.go can line implementations up side by side.

func BenchmarkAcquireRelease(b *testing.B) {
	b.Run("single/splice", func(b *testing.B) {
		p, err := New[benchNode](256, nil)
		if err != nil {
			b.Fatal(err)
		}
		b.ReportAllocs()
		for i := range b.N {
			h, err := p.AcquireOneWith(benchNode{key: i})
			if err != nil {
				b.Fatal(err)
			}
			h.Close()
		}
	})

	b.Run("single/syncpool", func(b *testing.B) {
		sp := sync.Pool{New: func() any { return new(benchNode) }}
		b.ReportAllocs()
		for i := range b.N {
			n := sp.Get().(*benchNode)
			n.key = i
			*n = benchNode{}
			sp.Put(n)
		}
	})

	b.Run("single/heap", func(b *testing.B) {
		b.ReportAllocs()
		var sink *benchNode
		for i := range b.N {
			sink = &benchNode{key: i}
		}
		_ = sink
	})
}

func BenchmarkBulk(b *testing.B) {
	const n = 1024

	b.Run("group/splice", func(b *testing.B) {
		p, err := New[benchNode](256, nil)
		if err != nil {
			b.Fatal(err)
		}
		b.ReportAllocs()
		for range b.N {
			g, err := p.Acquire(n)
			if err != nil {
				b.Fatal(err)
			}
			g.Close()
		}
	})

	b.Run("group/syncpool", func(b *testing.B) {
		sp := sync.Pool{New: func() any { return new(benchNode) }}
		batch := make([]*benchNode, n)
		b.ReportAllocs()
		for range b.N {
			for i := range batch {
				batch[i] = sp.Get().(*benchNode)
			}
			for i := range batch {
				*batch[i] = benchNode{}
				sp.Put(batch[i])
			}
		}
	})
}

// BenchmarkReleaseStack shows that returning a group costs the reset pass
// plus a constant-time splice, independent of the free list's length.
func BenchmarkReleaseStack(b *testing.B) {
	for _, blocks := range []int{1, 64, 4096} {
		b.Run(fmt.Sprintf("free=%d", blocks*256), func(b *testing.B) {
			p, err := New[int](256, &Options[int]{Prealloc: blocks})
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			for range b.N {
				g, err := p.Acquire(8)
				if err != nil {
					b.Fatal(err)
				}
				st := g.Release()
				p.ReleaseStack(&st)
			}
		})
	}
}
