package main

import (
	"fmt"
	"time"

	"github.com/eapache/queue"
	"github.com/spf13/cobra"

	"github.com/joshuapare/splicekit/cmd/splicectl/logger"
	"github.com/joshuapare/splicekit/pool"
)

var (
	benchConfig    string
	benchBlockSize int
	benchCount     int
	benchRounds    int
	benchMode      string
	benchOrder     string
	benchMaxBlocks int
	benchPrealloc  int
)

func init() {
	cmd := newBenchCmd()
	def := defaultWorkload()
	cmd.Flags().StringVar(&benchConfig, "config", "", "TOML workload file")
	cmd.Flags().IntVar(&benchBlockSize, "block-size", def.BlockSize, "Slots per block")
	cmd.Flags().IntVar(&benchCount, "count", def.Count, "Slots held at once per round")
	cmd.Flags().IntVar(&benchRounds, "rounds", def.Rounds, "Acquire/release rounds")
	cmd.Flags().StringVar(&benchMode, "mode", def.Mode, "single (one slot per call) or bulk (one group per round)")
	cmd.Flags().StringVar(&benchOrder, "order", def.Order, "Release order in single mode: lifo or fifo")
	cmd.Flags().IntVar(&benchMaxBlocks, "max-blocks", 0, "Block limit (0 = unlimited)")
	cmd.Flags().IntVar(&benchPrealloc, "prealloc", 0, "Blocks allocated up front")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run an acquire/release workload against a pool",
		Long: `The bench command fills a pool with Count slots, then gives them back,
for the given number of rounds. In single mode each slot is acquired and
released on its own, in lifo or fifo order. In bulk mode each round is one
group acquire and one splice release.

Example:
  splicectl bench --count 100000 --rounds 5
  splicectl bench --mode bulk --block-size 256 --json
  splicectl bench --config workload.toml --order fifo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := workloadFromFlags(cmd)
			if err != nil {
				return err
			}
			return runBench(w)
		},
	}
	return cmd
}

// workloadFromFlags starts from --config (or the defaults) and applies
// every flag the user set explicitly.
func workloadFromFlags(cmd *cobra.Command) (Workload, error) {
	w := defaultWorkload()
	if benchConfig != "" {
		var err error
		if w, err = loadWorkload(benchConfig); err != nil {
			return w, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("block-size") {
		w.BlockSize = benchBlockSize
	}
	if flags.Changed("count") {
		w.Count = benchCount
	}
	if flags.Changed("rounds") {
		w.Rounds = benchRounds
	}
	if flags.Changed("mode") {
		w.Mode = benchMode
	}
	if flags.Changed("order") {
		w.Order = benchOrder
	}
	if flags.Changed("max-blocks") {
		w.MaxBlocks = benchMaxBlocks
	}
	if flags.Changed("prealloc") {
		w.Prealloc = benchPrealloc
	}

	return w, nil
}

// record is the pooled value. It is big enough that heap churn would show.
type record struct {
	ID      int
	Round   int
	Payload [6]uint64
}

// BenchResult is what bench reports.
type BenchResult struct {
	Workload Workload   `json:"workload"`
	Elapsed  string     `json:"elapsed"`
	NsPerOp  float64    `json:"ns_per_op"`
	Ops      int        `json:"ops"`
	Stats    pool.Stats `json:"stats"`
}

func runBench(w Workload) error {
	if err := w.validate(); err != nil {
		return err
	}

	printVerbose("Workload: mode=%s order=%s block size=%d count=%d rounds=%d\n",
		w.Mode, w.Order, w.BlockSize, w.Count, w.Rounds)

	res, err := benchmark(w)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(res)
	}

	st := res.Stats
	printInfo("\nPool Bench: %s/%s\n", w.Mode, w.Order)
	printInfo("  Rounds: %d x %d slots\n", w.Rounds, w.Count)
	printInfo("  Elapsed: %s (%.1f ns/op over %d ops)\n\n", res.Elapsed, res.NsPerOp, res.Ops)
	printInfo("Pool:\n")
	printInfo("  Block Size: %d\n", st.BlockSize)
	printInfo("  Blocks: %d (grew %d times)\n", st.Blocks, st.Grows)
	printInfo("  Allocated: %d\n", st.Allocated)
	printInfo("  Available: %d\n", st.Available)
	printInfo("  In Use: %d\n", st.InUse)
	printInfo("  Acquires: %d\n", st.Acquires)
	printInfo("  Releases: %d (%d bulk)\n", st.Releases, st.BulkReleases)

	return nil
}

// benchmark runs w and returns the timing and final pool counters.
func benchmark(w Workload) (*BenchResult, error) {
	p, err := pool.New(w.BlockSize, &pool.Options[record]{
		MaxBlocks: w.MaxBlocks,
		Prealloc:  w.Prealloc,
		Logger:    logger.L.With("component", "pool"),
	})
	if err != nil {
		return nil, err
	}

	round := singleRound
	if w.Mode == modeBulk {
		round = bulkRound
	}

	start := time.Now()
	for r := range w.Rounds {
		if err := round(p, w, r); err != nil {
			return nil, fmt.Errorf("round %d: %w", r, err)
		}
		logger.L.Debug("round done", "round", r, "allocated", p.Allocated())
	}
	elapsed := time.Since(start)

	// One acquire and one release per slot
	ops := 2 * w.Count * w.Rounds
	res := &BenchResult{
		Workload: w,
		Elapsed:  elapsed.String(),
		Ops:      ops,
		Stats:    p.Stats(),
	}
	if ops > 0 {
		res.NsPerOp = float64(elapsed.Nanoseconds()) / float64(ops)
	}
	return res, nil
}

// singleRound acquires w.Count slots one by one and releases them in
// w.Order, checking that every value survived.
func singleRound(p *pool.Pool[record], w Workload, round int) error {
	var held holder
	if w.Order == orderFIFO {
		held = &fifoHolder{q: queue.New()}
	} else {
		held = &lifoHolder{}
	}

	for i := range w.Count {
		h, err := p.AcquireOneWith(record{ID: i, Round: round})
		if err != nil {
			// Give back what this round holds before failing.
			drain(held)
			return err
		}
		h.Val().Payload[0] = uint64(i)
		held.put(h)
	}

	for held.len() > 0 {
		h := held.next()
		v := h.Val()
		if v.Round != round || v.Payload[0] != uint64(v.ID) {
			h.Close()
			drain(held)
			return fmt.Errorf("slot %d holds a value from round %d", v.ID, v.Round)
		}
		h.Close()
	}

	return nil
}

// bulkRound acquires w.Count slots as one group and splices them back.
func bulkRound(p *pool.Pool[record], w Workload, round int) error {
	g, err := p.Acquire(w.Count)
	if err != nil {
		return err
	}
	defer g.Close()

	i := 0
	for s := range g.All() {
		*s.Val() = record{ID: i, Round: round}
		i++
	}

	return nil
}

// holder keeps the handles of one round until release.
type holder interface {
	put(h *pool.Handle[record])
	next() *pool.Handle[record]
	len() int
}

type lifoHolder struct {
	hs []*pool.Handle[record]
}

func (l *lifoHolder) put(h *pool.Handle[record]) { l.hs = append(l.hs, h) }
func (l *lifoHolder) len() int                   { return len(l.hs) }

func (l *lifoHolder) next() *pool.Handle[record] {
	h := l.hs[len(l.hs)-1]
	l.hs = l.hs[:len(l.hs)-1]
	return h
}

type fifoHolder struct {
	q *queue.Queue
}

func (f *fifoHolder) put(h *pool.Handle[record]) { f.q.Add(h) }
func (f *fifoHolder) len() int                   { return f.q.Length() }

func (f *fifoHolder) next() *pool.Handle[record] {
	return f.q.Remove().(*pool.Handle[record])
}

func drain(held holder) {
	for held.len() > 0 {
		held.next().Close()
	}
}
