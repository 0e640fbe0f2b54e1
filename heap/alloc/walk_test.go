package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heaplab/heapkit/internal/format"
)

func TestWalkVisitsBlocksInAddressOrder(t *testing.T) {
	h := newTestHeap(t)

	for i := 0; i < 4; i++ {
		_, _, err := h.Allocate(32)
		require.NoError(t, err)
	}

	var last Ref
	var total int
	h.Walk(func(b Block) bool {
		assert.Greater(t, b.Ref, last)
		last = b.Ref
		total += b.Size
		return true
	})
	// Blocks tile the heap exactly: everything after the sentinels.
	assert.Equal(t, h.Region().Size()-4*format.WordSize, total)
}

func TestWalkStopsWhenCallbackReturnsFalse(t *testing.T) {
	h := newTestHeap(t)

	for i := 0; i < 4; i++ {
		_, _, err := h.Allocate(32)
		require.NoError(t, err)
	}

	visited := 0
	h.Walk(func(Block) bool {
		visited++
		return visited < 2
	})
	assert.Equal(t, 2, visited)
}

func TestCheckDetectsFooterMismatch(t *testing.T) {
	h := newTestHeap(t)

	ref, _, err := h.Allocate(64)
	require.NoError(t, err)
	assertInvariants(t, h)

	// Clobber the block's footer behind the allocator's back.
	data := h.Region().Bytes()
	foot := int(ref) + blockAt(t, h, ref).Size - format.DWordSize
	format.PutTag(data, foot, 1024, true)

	assert.ErrorIs(t, h.Check(), ErrCorrupt)
}

func TestCheckDetectsClobberedPrologue(t *testing.T) {
	h := newTestHeap(t)

	data := h.Region().Bytes()
	format.PutU32(data, format.WordSize, 0)

	assert.ErrorIs(t, h.Check(), ErrCorrupt)
}

func TestCheckDetectsAdjacentFreeBlocks(t *testing.T) {
	h := newTestHeap(t)

	a, _, err := h.Allocate(32)
	require.NoError(t, err)
	b, _, err := h.Allocate(32)
	require.NoError(t, err)
	_, _, err = h.Allocate(32)
	require.NoError(t, err)

	// Flip both blocks free directly in the tags, bypassing coalescing.
	data := h.Region().Bytes()
	for _, ref := range []Ref{a, b} {
		bp := int(ref)
		size := format.SizeAt(data, bp)
		format.PutTag(data, bp-format.WordSize, size, false)
		format.PutTag(data, bp+size-format.DWordSize, size, false)
	}

	assert.ErrorIs(t, h.Check(), ErrCorrupt)
}
