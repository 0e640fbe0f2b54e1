package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/heaplab/heapkit/internal/trace"
)

var (
	churnOps     int
	churnSeed    int64
	churnMaxSize int
)

var churnCmd = &cobra.Command{
	Use:   "churn",
	Short: "Run a seeded random alloc/free/realloc workload",
	Long: `Churn generates a deterministic random workload and replays it. The same
seed always produces the same operations, making placement regressions
easy to bisect.`,
	Args: cobra.NoArgs,
	RunE: runChurn,
}

func init() {
	churnCmd.Flags().IntVar(&churnOps, "ops", 100000, "Number of operations to run")
	churnCmd.Flags().Int64Var(&churnSeed, "seed", 1, "Workload seed")
	churnCmd.Flags().IntVar(&churnMaxSize, "max-size", 4096, "Largest request size in bytes")
	churnCmd.Flags().IntVar(&replayMaxHeap, "max-heap", 256<<20, "Maximum heap size in bytes")
	churnCmd.Flags().IntVar(&replayChunk, "chunk", 0, "Heap growth chunk in bytes (0 = default 4KB)")
	churnCmd.Flags().
		BoolVar(&replayCheck, "check", false, "Verify heap invariants after every operation")
	rootCmd.AddCommand(churnCmd)
}

func runChurn(_ *cobra.Command, _ []string) error {
	if churnOps <= 0 || churnMaxSize <= 0 {
		return fmt.Errorf("ops and max-size must be positive")
	}

	log := newLogger()
	defer func() { _ = log.Sync() }()

	ops := genChurnOps(rand.New(rand.NewSource(churnSeed)), churnOps, churnMaxSize)
	name := fmt.Sprintf("churn(seed=%d)", churnSeed)
	return runOps(log, name, ops)
}

// genChurnOps builds a mixed workload: roughly half allocations, a third
// frees, the rest reallocations, always valid with respect to live ids.
func genChurnOps(rng *rand.Rand, n, maxSize int) []trace.Op {
	ops := make([]trace.Op, 0, n)
	var live []int
	nextID := 0

	for len(ops) < n {
		switch choice := rng.Intn(10); {
		case choice < 5 || len(live) == 0:
			ops = append(ops, trace.Op{
				Kind: trace.OpAlloc,
				ID:   nextID,
				Size: uint32(rng.Intn(maxSize) + 1),
			})
			live = append(live, nextID)
			nextID++
		case choice < 8:
			idx := rng.Intn(len(live))
			ops = append(ops, trace.Op{Kind: trace.OpFree, ID: live[idx]})
			live = append(live[:idx], live[idx+1:]...)
		default:
			idx := rng.Intn(len(live))
			ops = append(ops, trace.Op{
				Kind: trace.OpRealloc,
				ID:   live[idx],
				Size: uint32(rng.Intn(maxSize) + 1),
			})
		}
	}
	return ops
}
