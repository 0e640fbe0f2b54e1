package heap

import "errors"

var (
	// ErrRegionFull indicates the region reached its reserved maximum and
	// cannot grow further.
	ErrRegionFull = errors.New("heap: region full")

	// ErrClosed indicates an operation on a closed region.
	ErrClosed = errors.New("heap: region closed")

	// ErrBadSize indicates a non-positive size argument.
	ErrBadSize = errors.New("heap: size must be positive")
)
