package alloc

// Stats holds internal allocator counters, for instrumentation and tests.
type Stats struct {
	AllocCalls   int // Allocate calls, including those made by Reallocate
	FreeCalls    int // Release calls, including those made by Reallocate
	ReallocCalls int // Reallocate calls

	ExtendCalls int   // heap growth operations
	ExtendBytes int64 // total bytes added by growth

	SplitCount    int // placements that split a free block
	CoalesceNext  int // merges with the successor only
	CoalescePrev  int // merges with the predecessor only
	CoalesceBoth  int // merges with both neighbors
	BlocksScanned int64

	BytesAllocated int64 // total block bytes handed out (including tags)
	BytesFreed     int64 // total block bytes released
}

// Stats returns a copy of the current counters.
func (h *Heap) Stats() Stats {
	return h.stats
}
