package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heaplab/heapkit/heap"
)

// newTestHeap builds a heap over a 1MB region with the default chunk size.
func newTestHeap(t testing.TB, opts ...Option) *Heap {
	t.Helper()
	return newTestHeapMax(t, 1<<20, opts...)
}

// newTestHeapMax builds a heap over a region capped at maxBytes.
func newTestHeapMax(t testing.TB, maxBytes int, opts ...Option) *Heap {
	t.Helper()
	r, err := heap.New(maxBytes)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	h, err := New(r, opts...)
	require.NoError(t, err)
	return h
}

// collectBlocks snapshots the implicit list in address order.
func collectBlocks(h *Heap) []Block {
	var blocks []Block
	h.Walk(func(b Block) bool {
		blocks = append(blocks, b)
		return true
	})
	return blocks
}

// assertInvariants fails the test when any heap invariant is violated.
func assertInvariants(t testing.TB, h *Heap) {
	t.Helper()
	require.NoError(t, h.Check())
}

// blockAt returns the block whose payload starts at ref, failing if absent.
func blockAt(t testing.TB, h *Heap, ref Ref) Block {
	t.Helper()
	var found *Block
	h.Walk(func(b Block) bool {
		if b.Ref == ref {
			cp := b
			found = &cp
			return false
		}
		return true
	})
	require.NotNil(t, found, "no block with ref %d", ref)
	return *found
}
