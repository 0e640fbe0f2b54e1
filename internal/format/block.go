package format

// Block navigation over a heap byte slice. A block handle bp is the offset
// of its payload; the header sits at bp-WordSize and the footer at
// bp+size-DWordSize. These mirror the tag layout documented in consts.go.

// SizeAt returns the total size of the block whose payload starts at bp.
func SizeAt(b []byte, bp int) int {
	return Size(ReadU32(b, bp-WordSize))
}

// AllocatedAt reports the allocation flag of the block at bp.
func AllocatedAt(b []byte, bp int) bool {
	return Allocated(ReadU32(b, bp-WordSize))
}

// FooterOff returns the offset of the footer tag of the block at bp.
func FooterOff(b []byte, bp int) int {
	return bp + SizeAt(b, bp) - DWordSize
}

// Next returns the payload offset of the block following bp.
func Next(b []byte, bp int) int {
	return bp + SizeAt(b, bp)
}

// Prev returns the payload offset of the block preceding bp, located through
// the predecessor's footer directly before bp's header.
func Prev(b []byte, bp int) int {
	return bp - Size(ReadU32(b, bp-DWordSize))
}
