package alloc

import "errors"

var (
	// ErrZeroSize indicates an Allocate call with size zero. Benign; the
	// heap is unchanged.
	ErrZeroSize = errors.New("alloc: zero-size request")

	// ErrNoMemory indicates the region could not supply more heap. The heap
	// is left exactly as before the failed call.
	ErrNoMemory = errors.New("alloc: out of memory")

	// ErrBadRef indicates a reference that cannot be a payload offset.
	ErrBadRef = errors.New("alloc: bad block reference")

	// ErrNotAllocated indicates a release of a block that is not live.
	// Only detected when the heap was built with WithCheck.
	ErrNotAllocated = errors.New("alloc: block not allocated")

	// ErrRegionInUse indicates New was given a region that already grew.
	ErrRegionInUse = errors.New("alloc: region already contains data")

	// ErrCorrupt is wrapped by Check when an invariant does not hold.
	ErrCorrupt = errors.New("alloc: heap corrupt")
)
