package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heaplab/heapkit/internal/format"
)

func TestAllocateZeroSize(t *testing.T) {
	h := newTestHeap(t)

	before := collectBlocks(h)
	ref, payload, err := h.Allocate(0)
	assert.ErrorIs(t, err, ErrZeroSize)
	assert.Equal(t, NilRef, ref)
	assert.Nil(t, payload)
	assert.Equal(t, before, collectBlocks(h), "zero-size request must not touch the heap")
}

func TestAllocateReturnsWritablePayload(t *testing.T) {
	h := newTestHeap(t)

	ref, payload, err := h.Allocate(100)
	require.NoError(t, err)
	require.NotEqual(t, NilRef, ref)
	require.GreaterOrEqual(t, len(payload), 100)

	for i := range payload {
		payload[i] = 0xA5
	}
	got, err := h.Payload(ref)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	assertInvariants(t, h)
}

func TestAllocatedBlockTags(t *testing.T) {
	h := newTestHeap(t)

	ref, _, err := h.Allocate(100)
	require.NoError(t, err)

	b := blockAt(t, h, ref)
	assert.True(t, b.Allocated)
	assert.GreaterOrEqual(t, b.Size, 100+format.DWordSize)
	assert.Zero(t, b.Size%format.DWordSize)

	// Header and footer agreement for every block is covered by Check.
	assertInvariants(t, h)
}

func TestAdjustedSizesAcrossAlignmentBoundary(t *testing.T) {
	// A request exactly on an 8-byte boundary and one byte past it must
	// yield block sizes differing by exactly 8.
	for _, n := range []uint32{16, 64, 104, 4000} {
		h1 := newTestHeap(t)
		ref1, _, err := h1.Allocate(n)
		require.NoError(t, err)

		h2 := newTestHeap(t)
		ref2, _, err := h2.Allocate(n + 1)
		require.NoError(t, err)

		assert.Equal(t, blockAt(t, h1, ref1).Size+8, blockAt(t, h2, ref2).Size,
			"boundary at %d", n)
	}
}

func TestTinyRequestsGetMinimumBlock(t *testing.T) {
	h := newTestHeap(t)

	ref, _, err := h.Allocate(1)
	require.NoError(t, err)
	assert.Equal(t, format.MinBlockSize, blockAt(t, h, ref).Size)

	ref, _, err = h.Allocate(8)
	require.NoError(t, err)
	assert.Equal(t, format.MinBlockSize, blockAt(t, h, ref).Size)
}

func TestFirstFitPrefersEarlierBlock(t *testing.T) {
	h := newTestHeap(t)

	// Lay out: a, b, c, d allocated; free a and c to create two holes.
	a, _, err := h.Allocate(64)
	require.NoError(t, err)
	_, _, err = h.Allocate(64)
	require.NoError(t, err)
	c, _, err := h.Allocate(64)
	require.NoError(t, err)
	_, _, err = h.Allocate(64)
	require.NoError(t, err)

	require.NoError(t, h.Release(a))
	require.NoError(t, h.Release(c))

	// Both holes fit the request; first-fit must take the earlier one.
	got, _, err := h.Allocate(64)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	assertInvariants(t, h)
}

func TestAllocateGrowsWhenNoFit(t *testing.T) {
	h := newTestHeap(t, WithChunkSize(64))

	grewBefore := h.Stats().ExtendCalls
	sizeBefore := h.Region().Size()

	// Larger than anything free: forces growth by max(asize, chunk) = asize.
	ref, _, err := h.Allocate(1000)
	require.NoError(t, err)
	require.NotEqual(t, NilRef, ref)

	assert.Equal(t, grewBefore+1, h.Stats().ExtendCalls)
	assert.Equal(t, sizeBefore+format.AdjustSize(1000), h.Region().Size())
	assertInvariants(t, h)
}

func TestAllocateGrowsByChunkForSmallRequests(t *testing.T) {
	h := newTestHeap(t, WithChunkSize(256))

	// Exhaust the initial chunk.
	_, _, err := h.Allocate(256 - format.DWordSize)
	require.NoError(t, err)

	sizeBefore := h.Region().Size()
	_, _, err = h.Allocate(16)
	require.NoError(t, err)

	// The miss grows by the full chunk, not just the adjusted request.
	assert.Equal(t, sizeBefore+256, h.Region().Size())
	assertInvariants(t, h)
}

func TestAllocateOutOfMemoryLeavesHeapUnchanged(t *testing.T) {
	// Region can hold the sentinels and one 64-byte chunk, nothing more.
	h := newTestHeapMax(t, 4*format.WordSize+64, WithChunkSize(64))

	before := collectBlocks(h)
	ref, payload, err := h.Allocate(1000)
	assert.ErrorIs(t, err, ErrNoMemory)
	assert.Equal(t, NilRef, ref)
	assert.Nil(t, payload)

	assert.Equal(t, before, collectBlocks(h), "failed allocation must not mutate blocks")
	assertInvariants(t, h)

	// A fitting request still succeeds afterwards.
	ref, _, err = h.Allocate(32)
	require.NoError(t, err)
	assert.NotEqual(t, NilRef, ref)
	assertInvariants(t, h)
}
