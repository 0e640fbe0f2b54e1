package alloc

import "github.com/heaplab/heapkit/internal/format"

// Option configures a Heap at construction.
type Option func(*Heap)

// WithChunkSize overrides the default 4KB growth chunk. The value is rounded
// up to 8 bytes and clamped to the minimum block size. Small chunks make
// growth and exhaustion cheap to exercise in tests.
func WithChunkSize(n int) Option {
	return func(h *Heap) {
		if n < format.MinBlockSize {
			n = format.MinBlockSize
		}
		h.chunk = format.Align8(n)
	}
}

// WithCheck keeps a shadow set of live references so that double releases
// and releases of foreign references fail with ErrNotAllocated instead of
// corrupting the heap. This is an extension beyond the baseline contract,
// which leaves such misuse undefined; the block layout is identical either
// way.
func WithCheck() Option {
	return func(h *Heap) {
		h.live = make(map[Ref]struct{})
	}
}
