// Package heap provides the growable byte region the allocator manages.
//
// A Region models the platform growth primitive: a single contiguous,
// monotonically growing span of memory with an implementation-defined
// maximum size. It only ever grows; nothing is handed back. On unix the
// maximum is reserved as address space up front and pages are committed on
// demand, so the backing array never moves and offsets into it stay valid
// for the life of the region.
package heap

import "fmt"

// Region is a contiguous byte span that grows toward a fixed maximum.
//
// A Region is not safe for concurrent use.
type Region struct {
	b      *backing
	max    int
	size   int
	closed bool
}

// New reserves a region able to grow to at most max bytes.
func New(max int) (*Region, error) {
	if max <= 0 {
		return nil, ErrBadSize
	}
	b, err := reserve(max)
	if err != nil {
		return nil, fmt.Errorf("heap: reserve %d bytes: %w", max, err)
	}
	return &Region{b: b, max: max}, nil
}

// Extend grows the region by n bytes and returns the offset at which the
// new bytes begin. On failure the region is unchanged.
func (r *Region) Extend(n int) (int, error) {
	if r.closed {
		return 0, ErrClosed
	}
	if n <= 0 {
		return 0, ErrBadSize
	}
	if r.size+n > r.max {
		return 0, ErrRegionFull
	}
	if err := r.b.commit(r.size + n); err != nil {
		return 0, fmt.Errorf("heap: commit: %w", err)
	}
	off := r.size
	r.size += n
	return off, nil
}

// Bytes returns the grown portion of the region. The slice stays valid
// across Extend calls; only its length changes.
func (r *Region) Bytes() []byte {
	return r.b.buf()[:r.size]
}

// Size returns the number of bytes grown so far.
func (r *Region) Size() int {
	return r.size
}

// Cap returns the maximum size the region can reach.
func (r *Region) Cap() int {
	return r.max
}

// Close releases the underlying reservation. The region is unusable
// afterwards. Closing twice is a no-op.
func (r *Region) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.b.release()
}
