package trace

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/heaplab/heapkit/heap/alloc"
)

// binding records a live trace allocation: the ref it resolved to and how
// many payload bytes carry the integrity pattern.
type binding struct {
	ref alloc.Ref
	n   int
}

// Summary reports what a replay did.
type Summary struct {
	Ops      int
	Allocs   int
	Reallocs int
	Frees    int

	BytesRequested int64 // sum of requested sizes
	HeapSize       int   // final region size; the region never shrinks, so this is also the peak
	LiveAtEnd      int   // bindings never freed by the trace
}

// Replayer applies trace operations to a heap, tracking id bindings and
// filling every payload with a per-id pattern so that overlapping or
// clobbered allocations are caught at release time.
type Replayer struct {
	h     *alloc.Heap
	log   *zap.Logger
	check bool

	refs map[int]binding
	sum  Summary
}

// NewReplayer wires a replayer to a heap. A nil logger disables logging.
// When check is set the structural invariants are verified after every
// operation, which is slow but precise about which op broke the heap.
func NewReplayer(h *alloc.Heap, log *zap.Logger, check bool) *Replayer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Replayer{h: h, log: log, check: check, refs: make(map[int]binding)}
}

// Run applies all ops in order and returns the summary. The first failing
// op aborts the replay.
func (r *Replayer) Run(ops []Op) (Summary, error) {
	for i, op := range ops {
		if err := r.Apply(op); err != nil {
			return r.sum, fmt.Errorf("trace: op %d (%s %d): %w", i, op.Kind, op.ID, err)
		}
	}
	r.sum.HeapSize = r.h.Region().Size()
	r.sum.LiveAtEnd = len(r.refs)
	return r.sum, nil
}

// Apply executes one operation.
func (r *Replayer) Apply(op Op) error {
	r.sum.Ops++

	var err error
	switch op.Kind {
	case OpAlloc:
		err = r.applyAlloc(op)
	case OpRealloc:
		err = r.applyRealloc(op)
	case OpFree:
		err = r.applyFree(op)
	default:
		err = fmt.Errorf("unknown op kind %d", op.Kind)
	}
	if err != nil {
		return err
	}

	if r.check {
		if cerr := r.h.Check(); cerr != nil {
			return cerr
		}
	}
	return nil
}

func (r *Replayer) applyAlloc(op Op) error {
	if _, ok := r.refs[op.ID]; ok {
		return fmt.Errorf("id %d already live", op.ID)
	}
	ref, payload, err := r.h.Allocate(op.Size)
	if err != nil {
		return err
	}
	fill(payload, op.Size, ref)
	r.refs[op.ID] = binding{ref: ref, n: int(op.Size)}
	r.sum.Allocs++
	r.sum.BytesRequested += int64(op.Size)
	r.log.Debug("alloc",
		zap.Int("id", op.ID),
		zap.Uint32("size", op.Size),
		zap.Uint32("ref", ref))
	return nil
}

func (r *Replayer) applyRealloc(op Op) error {
	b, ok := r.refs[op.ID]
	if !ok {
		return fmt.Errorf("id %d not live", op.ID)
	}
	if err := r.verify(b); err != nil {
		return err
	}
	ref, payload, err := r.h.Reallocate(b.ref, op.Size)
	if err != nil {
		return err
	}
	if ref == alloc.NilRef { // realloc to zero frees the binding
		delete(r.refs, op.ID)
		r.sum.Reallocs++
		return nil
	}
	fill(payload, op.Size, ref)
	r.refs[op.ID] = binding{ref: ref, n: int(op.Size)}
	r.sum.Reallocs++
	r.sum.BytesRequested += int64(op.Size)
	r.log.Debug("realloc",
		zap.Int("id", op.ID),
		zap.Uint32("size", op.Size),
		zap.Uint32("from", b.ref),
		zap.Uint32("to", ref))
	return nil
}

func (r *Replayer) applyFree(op Op) error {
	b, ok := r.refs[op.ID]
	if !ok {
		return fmt.Errorf("id %d not live", op.ID)
	}
	if err := r.verify(b); err != nil {
		return err
	}
	if err := r.h.Release(b.ref); err != nil {
		return err
	}
	delete(r.refs, op.ID)
	r.sum.Frees++
	r.log.Debug("free", zap.Int("id", op.ID), zap.Uint32("ref", b.ref))
	return nil
}

// verify checks the integrity pattern of a live binding.
func (r *Replayer) verify(b binding) error {
	payload, err := r.h.Payload(b.ref)
	if err != nil {
		return err
	}
	want := pattern(b.ref)
	for i := 0; i < b.n; i++ {
		if payload[i] != want {
			return errors.New("payload corrupted: allocations overlapped")
		}
	}
	return nil
}

// fill writes the integrity pattern over the first n requested bytes.
func fill(payload []byte, n uint32, ref alloc.Ref) {
	if int(n) > len(payload) {
		n = uint32(len(payload))
	}
	b := pattern(ref)
	for i := uint32(0); i < n; i++ {
		payload[i] = b
	}
}

// pattern derives the fill byte for a binding from its ref, which is unique
// among live allocations.
func pattern(ref alloc.Ref) byte {
	return byte(ref>>3) | 1
}
