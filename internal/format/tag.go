package format

import "github.com/heaplab/heapkit/internal/buf"

// Pack encodes a boundary tag from a block size and its allocation flag.
// The size occupies the high bits; bit 0 carries the flag. Sizes are
// multiples of 8, so the low three bits of size are always clear.
func Pack(size int, allocated bool) uint32 {
	w := uint32(size)
	if allocated {
		w |= allocBit
	}
	return w
}

// Size extracts the total block size from a tag.
func Size(w uint32) int {
	return int(w &^ uint32(AlignMask))
}

// Allocated reports whether a tag marks its block as allocated.
func Allocated(w uint32) bool {
	return w&allocBit != 0
}

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int) int {
	return (n + AlignMask) & ^AlignMask
}

// AdjustSize converts a caller-requested payload size into the total block
// size the allocator must carve out: header+footer overhead added, rounded
// up to 8, never below MinBlockSize.
func AdjustSize(size uint32) int {
	if size <= DWordSize {
		return MinBlockSize
	}
	return Align8(int(size) + DWordSize)
}

// ReadU32 reads the tag word at off.
func ReadU32(b []byte, off int) uint32 {
	return buf.U32LE(b[off:])
}

// PutU32 writes the tag word at off.
func PutU32(b []byte, off int, v uint32) {
	buf.PutU32LE(b[off:], v)
}

// PutTag writes a packed boundary tag at off.
func PutTag(b []byte, off, size int, allocated bool) {
	PutU32(b, off, Pack(size, allocated))
}
