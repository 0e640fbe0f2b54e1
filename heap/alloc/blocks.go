package alloc

import (
	"fmt"
	"os"

	"github.com/heaplab/heapkit/internal/format"
)

// extend grows the heap by the given number of machine words and returns the
// payload offset of the resulting free block. The new block's header lands on
// the old epilogue tag and a fresh epilogue is written past the new footer,
// so the heap stays terminated at all times. The new block is coalesced with
// a free block that previously ended the heap.
func (h *Heap) extend(words int) (int, error) {
	if words%2 != 0 {
		words++ // keep block sizes 8-byte aligned
	}
	size := words * format.WordSize

	off, err := h.r.Extend(size)
	if err != nil {
		return 0, err
	}
	h.stats.ExtendCalls++
	h.stats.ExtendBytes += int64(size)

	data := h.r.Bytes()
	bp := off
	format.PutTag(data, bp-format.WordSize, size, false)
	format.PutTag(data, bp+size-format.DWordSize, size, false)
	format.PutTag(data, bp+size-format.WordSize, 0, true) // new epilogue header

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[alloc] extend: +%d bytes, heap now %d\n", size, h.r.Size())
	}
	return h.coalesce(bp), nil
}

// findFit scans the implicit list from the first real block and returns the
// first free block of at least asize bytes. The scan follows each block's
// encoded size and stops at the epilogue; reaching it means the caller must
// grow the heap.
func (h *Heap) findFit(asize int) (int, bool) {
	data := h.r.Bytes()
	for bp := format.Next(data, h.base); ; bp = format.Next(data, bp) {
		w := format.ReadU32(data, bp-format.WordSize)
		size := format.Size(w)
		if size == 0 {
			return 0, false
		}
		h.stats.BlocksScanned++
		if !format.Allocated(w) && size >= asize {
			return bp, true
		}
	}
}

// place marks the free block at bp as allocated with asize bytes. When the
// remainder can form a legal block (>= MinBlockSize) the block is split and
// the tail becomes a new free block; otherwise the whole block is used,
// accepting the internal fragmentation.
func (h *Heap) place(bp, asize int) {
	data := h.r.Bytes()
	csize := format.SizeAt(data, bp)

	if csize-asize >= format.MinBlockSize {
		h.stats.SplitCount++
		format.PutTag(data, bp-format.WordSize, asize, true)
		format.PutTag(data, bp+asize-format.DWordSize, asize, true)

		rest := bp + asize
		format.PutTag(data, rest-format.WordSize, csize-asize, false)
		format.PutTag(data, rest+(csize-asize)-format.DWordSize, csize-asize, false)
	} else {
		format.PutTag(data, bp-format.WordSize, csize, true)
		format.PutTag(data, bp+csize-format.DWordSize, csize, true)
	}
}

// coalesce merges the free block at bp with free neighbors and returns the
// payload offset of the merged block. The predecessor is inspected through
// its footer directly before bp's header, the successor through its header
// directly after bp's footer; the sentinels guarantee both reads stay inside
// the heap.
func (h *Heap) coalesce(bp int) int {
	data := h.r.Bytes()
	prevAlloc := format.Allocated(format.ReadU32(data, bp-format.DWordSize))
	next := format.Next(data, bp)
	nextAlloc := format.AllocatedAt(data, next)
	size := format.SizeAt(data, bp)

	switch {
	case prevAlloc && nextAlloc:
		return bp

	case prevAlloc && !nextAlloc:
		h.stats.CoalesceNext++
		size += format.SizeAt(data, next)
		format.PutTag(data, bp-format.WordSize, size, false)
		format.PutTag(data, bp+size-format.DWordSize, size, false)

	case !prevAlloc && nextAlloc:
		h.stats.CoalescePrev++
		prev := format.Prev(data, bp)
		size += format.SizeAt(data, prev)
		format.PutTag(data, prev-format.WordSize, size, false)
		format.PutTag(data, prev+size-format.DWordSize, size, false)
		bp = prev

	default: // both free
		h.stats.CoalesceBoth++
		prev := format.Prev(data, bp)
		size += format.SizeAt(data, prev) + format.SizeAt(data, next)
		format.PutTag(data, prev-format.WordSize, size, false)
		format.PutTag(data, prev+size-format.DWordSize, size, false)
		bp = prev
	}
	return bp
}
