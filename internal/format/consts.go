// Package format defines the boundary-tag layout shared by every component
// that touches heap bytes.
//
// Every block is delimited by two identical tags: a header word immediately
// before the payload and a footer word immediately after it. A tag packs the
// total block size (a multiple of 8) with the allocation flag in bit 0.
// The duplication is what makes backward traversal possible without any
// stored pointers.
package format

const (
	// WordSize is the size of one boundary tag in bytes.
	WordSize = 4

	// DWordSize is the combined header+footer overhead of a block, and the
	// alignment every block size must satisfy.
	DWordSize = 8

	// MinBlockSize is the smallest legal block: header + footer + the
	// smallest aligned payload. Split remainders below this are absorbed.
	MinBlockSize = 16

	// ChunkSize is the default unit of heap growth.
	ChunkSize = 1 << 12

	// AlignMask strips the low bits of a tag to recover the size.
	AlignMask = DWordSize - 1

	// allocBit is the allocation flag stored in bit 0 of a tag.
	allocBit = 0x1
)
