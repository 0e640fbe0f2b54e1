package alloc

import (
	"fmt"

	"github.com/heaplab/heapkit/internal/format"
)

// Block describes one block of the implicit list as seen by Walk.
type Block struct {
	Ref       Ref  // payload offset
	Size      int  // total size including header and footer
	Allocated bool // allocation flag
}

// Walk visits every real block between the sentinels in address order.
// Traversal stops when fn returns false.
func (h *Heap) Walk(fn func(Block) bool) {
	data := h.r.Bytes()
	for bp := format.Next(data, h.base); ; bp = format.Next(data, bp) {
		w := format.ReadU32(data, bp-format.WordSize)
		size := format.Size(w)
		if size == 0 {
			return
		}
		if !fn(Block{Ref: Ref(bp), Size: size, Allocated: format.Allocated(w)}) {
			return
		}
	}
}

// Check walks the whole heap and verifies the structural invariants: intact
// sentinels, 8-byte aligned sizes of at least the minimum, header/footer
// agreement, no two adjacent free blocks, and an epilogue that sits exactly
// at the heap end. Errors wrap ErrCorrupt.
func (h *Heap) Check() error {
	data := h.r.Bytes()

	prologue := format.Pack(format.DWordSize, true)
	if format.ReadU32(data, h.base-format.WordSize) != prologue ||
		format.ReadU32(data, h.base) != prologue {
		return fmt.Errorf("%w: bad prologue tags", ErrCorrupt)
	}

	prevFree := false
	for bp := format.Next(data, h.base); ; {
		hw := format.ReadU32(data, bp-format.WordSize)
		size := format.Size(hw)
		if size == 0 {
			if !format.Allocated(hw) {
				return fmt.Errorf("%w: epilogue not allocated", ErrCorrupt)
			}
			if bp != len(data) {
				return fmt.Errorf("%w: epilogue at %d, heap ends at %d", ErrCorrupt, bp-format.WordSize, len(data))
			}
			return nil
		}

		if bp%format.DWordSize != 0 {
			return fmt.Errorf("%w: block %d misaligned", ErrCorrupt, bp)
		}
		if size < format.MinBlockSize || size%format.DWordSize != 0 {
			return fmt.Errorf("%w: block %d has bad size %d", ErrCorrupt, bp, size)
		}
		if bp+size > len(data) {
			return fmt.Errorf("%w: block %d overruns heap end", ErrCorrupt, bp)
		}
		if fw := format.ReadU32(data, bp+size-format.DWordSize); fw != hw {
			return fmt.Errorf("%w: block %d header %#x != footer %#x", ErrCorrupt, bp, hw, fw)
		}

		free := !format.Allocated(hw)
		if free && prevFree {
			return fmt.Errorf("%w: adjacent free blocks at %d", ErrCorrupt, bp)
		}
		prevFree = free
		bp += size
	}
}
