package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// baselineImpl is the implementation every other one is measured against.
const baselineImpl = "splice"

// BenchmarkResult represents a parsed benchmark result.
type BenchmarkResult struct {
	Name        string
	Operation   string // e.g. "AcquireRelease/single"
	Impl        string // "splice", "syncpool", "heap" or "" when not split
	Iterations  int
	NsPerOp     float64
	BytesPerOp  int64
	AllocsPerOp int64
}

// ComparisonResult lines up one operation across implementations.
type ComparisonResult struct {
	Operation string
	Splice    BenchmarkResult
	Others    []BenchmarkResult // sorted by name
}

// Speedup returns how many times faster splice is than other.
func (c ComparisonResult) Speedup(other BenchmarkResult) float64 {
	if c.Splice.NsPerOp == 0 {
		return 0
	}
	return other.NsPerOp / c.Splice.NsPerOp
}

var (
	inputFile = flag.String(
		"input",
		"",
		"Input file with benchmark output (stdin if not specified)",
	)
	outputFile = flag.String("output", "", "Output markdown file (stdout if not specified)")
	quiet      = flag.Bool("quiet", false, "Suppress progress output")
)

var printer = message.NewPrinter(language.English)

// Regex to parse benchmark output lines
// BenchmarkAcquireRelease/single/splice-8    10000000    12.45 ns/op    0 B/op    0 allocs/op
var benchmarkRegex = regexp.MustCompile(
	`^(Benchmark\S+)\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+([\d.]+)\s+B/op)?(?:\s+([\d.]+)\s+allocs/op)?`,
)

var knownImpls = map[string]bool{
	"splice":   true,
	"syncpool": true,
	"heap":     true,
}

func main() {
	flag.Parse()

	var in io.Reader = os.Stdin
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	results := parseBenchmarks(bufio.NewScanner(in))
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Parsed %d benchmark results\n", len(results))
	}

	comparisons := generateComparisons(results)
	report := generateMarkdownReport(comparisons, time.Now())

	if *outputFile == "" {
		fmt.Fprint(os.Stdout, report)
		return
	}
	if err := os.WriteFile(*outputFile, []byte(report), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
		os.Exit(1)
	}
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
	}
}

func parseBenchmarks(scanner *bufio.Scanner) []BenchmarkResult {
	var results []BenchmarkResult

	for scanner.Scan() {
		line := scanner.Text()

		// Try to parse as JSON (from -json flag)
		var testEvent map[string]any
		if err := json.Unmarshal([]byte(line), &testEvent); err == nil {
			if output, ok := testEvent["Output"].(string); ok {
				line = output
			}
		}

		matches := benchmarkRegex.FindStringSubmatch(strings.TrimSpace(line))
		if matches == nil {
			continue
		}

		r := BenchmarkResult{Name: matches[1]}
		r.Iterations, _ = strconv.Atoi(matches[2])
		r.NsPerOp, _ = strconv.ParseFloat(matches[3], 64)
		if matches[4] != "" {
			r.BytesPerOp, _ = strconv.ParseInt(matches[4], 10, 64)
		}
		if matches[5] != "" {
			r.AllocsPerOp, _ = strconv.ParseInt(matches[5], 10, 64)
		}
		r.Operation, r.Impl = splitName(r.Name)

		results = append(results, r)
	}

	return results
}

// splitName splits Benchmark<Op>/<case>/<impl>-<procs> into "<Op>/<case>"
// and "<impl>". Names whose last element is not a known implementation
// keep it in the operation and get an empty impl.
func splitName(name string) (operation, impl string) {
	name = strings.TrimPrefix(name, "Benchmark")
	if dash := strings.LastIndex(name, "-"); dash > 0 {
		if _, err := strconv.Atoi(name[dash+1:]); err == nil {
			name = name[:dash]
		}
	}

	parts := strings.Split(name, "/")
	last := parts[len(parts)-1]
	if len(parts) > 1 && knownImpls[last] {
		return strings.Join(parts[:len(parts)-1], "/"), last
	}
	return name, ""
}

func generateComparisons(results []BenchmarkResult) []ComparisonResult {
	grouped := make(map[string]map[string]BenchmarkResult)
	for _, r := range results {
		impl := r.Impl
		if impl == "" {
			impl = baselineImpl
		}
		if grouped[r.Operation] == nil {
			grouped[r.Operation] = make(map[string]BenchmarkResult)
		}
		grouped[r.Operation][impl] = r
	}

	var comparisons []ComparisonResult
	for op, impls := range grouped {
		splice, ok := impls[baselineImpl]
		if !ok {
			continue
		}
		c := ComparisonResult{Operation: op, Splice: splice}
		for impl, r := range impls {
			if impl != baselineImpl {
				c.Others = append(c.Others, r)
			}
		}
		sort.Slice(c.Others, func(i, j int) bool { return c.Others[i].Impl < c.Others[j].Impl })
		comparisons = append(comparisons, c)
	}

	sort.Slice(comparisons, func(i, j int) bool {
		return comparisons[i].Operation < comparisons[j].Operation
	})

	return comparisons
}

func generateMarkdownReport(comparisons []ComparisonResult, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Pool Benchmark Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format("2006-01-02 15:04:05")))

	faster, slower, spliceOnly := 0, 0, 0
	for _, c := range comparisons {
		if len(c.Others) == 0 {
			spliceOnly++
		}
		for _, o := range c.Others {
			if c.Speedup(o) >= 1.0 {
				faster++
			} else {
				slower++
			}
		}
	}

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Operations**: %d\n", len(comparisons)))
	sb.WriteString(fmt.Sprintf("- **splice faster**: %d\n", faster))
	sb.WriteString(fmt.Sprintf("- **splice slower**: %d\n", slower))
	sb.WriteString(fmt.Sprintf("- **splice only**: %d\n\n", spliceOnly))

	sb.WriteString("## Detailed Results\n\n")
	sb.WriteString("| Operation | Impl | ns/op | Speedup | B/op | Allocs |\n")
	sb.WriteString("|-----------|------|-------|---------|------|--------|\n")

	for _, c := range comparisons {
		writeRow(&sb, c.Operation, c.Splice, "-")
		for _, o := range c.Others {
			indicator := "✓"
			if c.Speedup(o) < 1.0 {
				indicator = "✗"
			}
			writeRow(&sb, c.Operation, o, fmt.Sprintf("%.2fx %s", c.Speedup(o), indicator))
		}
	}

	sb.WriteString("\n## Notes\n\n")
	sb.WriteString("- **Speedup**: other ns/op divided by splice ns/op; > 1.0 means splice is faster ✓\n")
	sb.WriteString("- **Memory and allocations**: lower is better\n")

	return sb.String()
}

func writeRow(sb *strings.Builder, op string, r BenchmarkResult, speedup string) {
	impl := r.Impl
	if impl == "" {
		impl = baselineImpl
	}
	sb.WriteString(printer.Sprintf("| %s | %s | %.1f | %s | %d | %d |\n",
		op, impl, r.NsPerOp, speedup, r.BytesPerOp, r.AllocsPerOp))
}
