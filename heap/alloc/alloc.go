package alloc

import (
	"fmt"
	"os"

	"github.com/heaplab/heapkit/heap"
	"github.com/heaplab/heapkit/internal/format"
)

// Runtime debug flag for allocation logging - controlled by HEAPKIT_LOG_ALLOC env var.
var logAlloc = os.Getenv("HEAPKIT_LOG_ALLOC") != ""

// Ref is a block reference: the payload offset of a block within the region.
type Ref = uint32

// NilRef is the null reference. Offset 0 holds the alignment padding word,
// so no payload ever starts there.
const NilRef Ref = 0

// Heap manages an implicit free list inside a heap.Region. All block
// metadata lives in the region bytes; Heap itself only tracks where the
// sentinel blocks sit and accumulates statistics.
//
// A Heap is not safe for concurrent use.
type Heap struct {
	r     *heap.Region
	base  int // payload offset of the prologue sentinel
	chunk int // growth unit in bytes

	// Shadow set of live references, nil unless WithCheck was given.
	live map[Ref]struct{}

	stats Stats
}

// New initializes an allocator over an empty region: it writes the alignment
// padding, the prologue header/footer and the epilogue header, then grows the
// heap by one chunk to create the first free block. Any failure leaves no
// usable heap behind.
func New(r *heap.Region, opts ...Option) (*Heap, error) {
	h := &Heap{r: r, chunk: format.ChunkSize}
	for _, opt := range opts {
		opt(h)
	}

	if r.Size() != 0 {
		return nil, ErrRegionInUse
	}
	if _, err := r.Extend(4 * format.WordSize); err != nil {
		return nil, fmt.Errorf("alloc: init: %w", err)
	}

	data := r.Bytes()
	format.PutU32(data, 0, 0)                                      // alignment padding
	format.PutTag(data, format.WordSize, format.DWordSize, true)   // prologue header
	format.PutTag(data, 2*format.WordSize, format.DWordSize, true) // prologue footer
	format.PutTag(data, 3*format.WordSize, 0, true)                // epilogue header
	h.base = 2 * format.WordSize

	if _, err := h.extend(h.chunk / format.WordSize); err != nil {
		return nil, fmt.Errorf("alloc: init: %w", err)
	}
	return h, nil
}

// Allocate carves out a block whose payload holds at least size bytes and
// returns its reference together with the payload slice. A zero size returns
// ErrZeroSize without touching the heap. When neither the free list nor a
// grown heap can satisfy the request, ErrNoMemory is returned and the heap
// is unchanged.
func (h *Heap) Allocate(size uint32) (Ref, []byte, error) {
	h.stats.AllocCalls++
	if size == 0 {
		return NilRef, nil, ErrZeroSize
	}

	asize := format.AdjustSize(size)

	bp, ok := h.findFit(asize)
	if !ok {
		ext := max(asize, h.chunk)
		if logAlloc {
			fmt.Fprintf(os.Stderr, "[alloc] no fit for %d bytes, growing by %d\n", asize, ext)
		}
		nbp, err := h.extend(ext / format.WordSize)
		if err != nil {
			return NilRef, nil, ErrNoMemory
		}
		bp = nbp
	}

	h.place(bp, asize)

	data := h.r.Bytes()
	got := format.SizeAt(data, bp)
	h.stats.BytesAllocated += int64(got)
	if h.live != nil {
		h.live[Ref(bp)] = struct{}{}
	}
	return Ref(bp), data[bp : bp+got-format.DWordSize], nil
}

// Release returns the block at ref to the free list and merges it with any
// free neighbors. The reference must come from a prior Allocate or
// Reallocate and must still be live; without WithCheck, violations are
// undefined behavior.
func (h *Heap) Release(ref Ref) error {
	h.stats.FreeCalls++

	bp := int(ref)
	data := h.r.Bytes()
	if bp < format.MinBlockSize || bp%format.DWordSize != 0 || bp >= len(data) {
		return ErrBadRef
	}
	if h.live != nil {
		if _, ok := h.live[ref]; !ok {
			return ErrNotAllocated
		}
		delete(h.live, ref)
	}

	size := format.SizeAt(data, bp)
	format.PutTag(data, bp-format.WordSize, size, false)
	format.PutTag(data, bp+size-format.DWordSize, size, false)
	h.stats.BytesFreed += int64(size)

	h.coalesce(bp)
	return nil
}

// Reallocate moves the allocation at ref to a block of at least size bytes.
// A NilRef behaves exactly like Allocate; a zero size behaves exactly like
// Release and returns NilRef. Otherwise a new block is allocated, the common
// prefix of the payloads is copied, and the old block is released. No
// in-place growth is attempted.
func (h *Heap) Reallocate(ref Ref, size uint32) (Ref, []byte, error) {
	h.stats.ReallocCalls++

	if ref == NilRef {
		return h.Allocate(size)
	}
	if size == 0 {
		if err := h.Release(ref); err != nil {
			return NilRef, nil, err
		}
		return NilRef, nil, nil
	}

	bp := int(ref)
	data := h.r.Bytes()
	if bp < format.MinBlockSize || bp%format.DWordSize != 0 || bp >= len(data) {
		return NilRef, nil, ErrBadRef
	}
	oldPayload := format.SizeAt(data, bp) - format.DWordSize

	newRef, payload, err := h.Allocate(size)
	if err != nil {
		return NilRef, nil, err
	}

	n := min(int(size), oldPayload)
	data = h.r.Bytes() // Allocate may have grown the region
	copy(payload[:n], data[bp:bp+n])

	if err := h.Release(ref); err != nil {
		return NilRef, nil, err
	}
	return newRef, payload, nil
}

// Payload returns the payload bytes of a live allocation.
func (h *Heap) Payload(ref Ref) ([]byte, error) {
	bp := int(ref)
	data := h.r.Bytes()
	if bp < format.MinBlockSize || bp%format.DWordSize != 0 || bp >= len(data) {
		return nil, ErrBadRef
	}
	if !format.AllocatedAt(data, bp) {
		return nil, ErrNotAllocated
	}
	size := format.SizeAt(data, bp)
	return data[bp : bp+size-format.DWordSize], nil
}

// Region exposes the underlying region, mainly so harnesses can report heap
// growth.
func (h *Heap) Region() *heap.Region {
	return h.r
}
