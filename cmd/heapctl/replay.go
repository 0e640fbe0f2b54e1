package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/heaplab/heapkit/heap"
	"github.com/heaplab/heapkit/heap/alloc"
	"github.com/heaplab/heapkit/internal/trace"
)

var (
	replayMaxHeap int
	replayChunk   int
	replayCheck   bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <trace-file>...",
	Short: "Replay allocation trace files against a fresh heap",
	Long: `Replay parses allocation trace scripts (a/r/f operations) and applies
them to a fresh heap per file. Payloads are filled with per-allocation
patterns, so overlapping placements surface as errors.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().IntVar(&replayMaxHeap, "max-heap", 256<<20, "Maximum heap size in bytes")
	replayCmd.Flags().IntVar(&replayChunk, "chunk", 0, "Heap growth chunk in bytes (0 = default 4KB)")
	replayCmd.Flags().
		BoolVar(&replayCheck, "check", false, "Verify heap invariants after every operation")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(_ *cobra.Command, args []string) error {
	log := newLogger()
	defer func() { _ = log.Sync() }()

	for _, path := range args {
		if err := replayFile(log, path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func replayFile(log *zap.Logger, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ops, err := trace.Parse(f)
	if err != nil {
		return err
	}
	return runOps(log, path, ops)
}

// runOps replays a parsed op list on a fresh heap and prints the summary.
func runOps(log *zap.Logger, name string, ops []trace.Op) error {
	r, err := heap.New(replayMaxHeap)
	if err != nil {
		return err
	}
	defer r.Close()

	var opts []alloc.Option
	if replayChunk > 0 {
		opts = append(opts, alloc.WithChunkSize(replayChunk))
	}
	h, err := alloc.New(r, opts...)
	if err != nil {
		return err
	}

	sum, err := trace.NewReplayer(h, log, replayCheck).Run(ops)
	if err != nil {
		return err
	}
	printSummary(name, sum, h.Stats())
	return nil
}

func printSummary(name string, sum trace.Summary, st alloc.Stats) {
	if quiet {
		return
	}
	p := message.NewPrinter(language.English)
	p.Printf("%s: %d ops (%d alloc / %d realloc / %d free)\n",
		name, sum.Ops, sum.Allocs, sum.Reallocs, sum.Frees)
	p.Printf("  requested %s, heap grew to %s in %d extends\n",
		humanize.IBytes(uint64(sum.BytesRequested)),
		humanize.IBytes(uint64(sum.HeapSize)),
		st.ExtendCalls)
	p.Printf("  %d splits, %d coalesces (next %d / prev %d / both %d), %d blocks scanned\n",
		st.SplitCount,
		st.CoalesceNext+st.CoalescePrev+st.CoalesceBoth,
		st.CoalesceNext, st.CoalescePrev, st.CoalesceBoth,
		st.BlocksScanned)
	if sum.LiveAtEnd > 0 {
		p.Printf("  %d allocations still live at end of trace\n", sum.LiveAtEnd)
	}
}
