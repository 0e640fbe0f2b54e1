// Package alloc implements a dynamic memory allocator over a single growable
// byte region, using an implicit free list with boundary tags.
//
// # Overview
//
// Every block carries two identical tags: a 4-byte header directly before the
// payload and a 4-byte footer directly after it, each packing the total block
// size with an allocation flag in bit 0. The duplicated tag is what allows a
// block to find its predecessor without any stored pointers, which in turn
// makes constant-time coalescing of adjacent free blocks possible. There is
// no bookkeeping structure outside the heap bytes themselves.
//
// The heap is bounded by two sentinels laid down at construction: an
// allocated 8-byte prologue at the low end and a size-zero allocated
// epilogue header at the high end. They terminate coalescing and traversal
// at the heap edges without special cases.
//
// # Usage
//
//	r, err := heap.New(64 << 20)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	h, err := alloc.New(r)
//	if err != nil {
//	    return err
//	}
//
//	ref, buf, err := h.Allocate(100)
//	if err != nil {
//	    return err
//	}
//	copy(buf, payload)
//
//	// Later, release the block.
//	err = h.Release(ref)
//
// # Placement policy
//
// Allocation uses first-fit: a linear scan from the start of the heap returns
// the first free block large enough. This trades placement quality for a
// constant-time decision per candidate; scan cost degrades as the heap
// fragments. When no block fits, the heap grows by at least ChunkSize (4KB)
// and the request is placed in the new space. Located blocks are split when
// the remainder can form a legal block of at least 16 bytes; smaller
// remainders are absorbed into the allocation.
//
// Released blocks are eagerly merged with free neighbors, so no two adjacent
// blocks are ever both free.
//
// # References
//
// Block references are uint32 payload offsets into the region. NilRef (0) is
// never a valid payload offset and serves as the null reference. Reallocate
// treats a NilRef like Allocate and a zero size like Release.
//
// # Caller contract
//
// Release and Reallocate must be given references returned by a prior
// Allocate or Reallocate that have not been released since. The baseline
// allocator does not detect violations; releasing a stale or foreign
// reference corrupts the heap metadata. The WithCheck option adds a shadow
// set of live references that turns such misuse into an error, as an opt-in
// extension beyond the baseline contract.
//
// # Thread safety
//
// A Heap is not safe for concurrent use. Block boundaries depend on their
// neighbors' tags, so callers needing concurrency must serialize every
// operation behind a single lock spanning the whole heap.
package alloc
