// Package trace parses and replays allocation traces against a heap.
//
// A trace is a line-oriented script of allocator operations:
//
//	a <id> <size>   allocate <size> bytes and bind the result to <id>
//	r <id> <size>   reallocate the block bound to <id> to <size> bytes
//	f <id>          release the block bound to <id>
//
// Blank lines and lines starting with '#' are ignored. Lines consisting only
// of integers are skipped too, so the count headers that some trace
// generators emit pass through harmlessly.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// OpKind identifies one trace operation.
type OpKind uint8

const (
	OpAlloc OpKind = iota + 1
	OpRealloc
	OpFree
)

// String returns the trace mnemonic for the kind.
func (k OpKind) String() string {
	switch k {
	case OpAlloc:
		return "a"
	case OpRealloc:
		return "r"
	case OpFree:
		return "f"
	}
	return "?"
}

// Op is one parsed trace operation.
type Op struct {
	Kind OpKind
	ID   int
	Size uint32 // unused for OpFree
}

// Parse reads a trace script from r.
func Parse(r io.Reader) ([]Op, error) {
	var ops []Op
	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if isNumericHeader(fields) {
			continue
		}

		op, err := parseOp(fields)
		if err != nil {
			return nil, fmt.Errorf("trace: line %d: %w", lineno, err)
		}
		ops = append(ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("trace: read: %w", err)
	}
	return ops, nil
}

func parseOp(fields []string) (Op, error) {
	var kind OpKind
	var want int
	switch fields[0] {
	case "a":
		kind, want = OpAlloc, 3
	case "r":
		kind, want = OpRealloc, 3
	case "f":
		kind, want = OpFree, 2
	default:
		return Op{}, fmt.Errorf("unknown operation %q", fields[0])
	}
	if len(fields) != want {
		return Op{}, fmt.Errorf("%q takes %d fields, got %d", fields[0], want, len(fields))
	}

	id, err := strconv.Atoi(fields[1])
	if err != nil || id < 0 {
		return Op{}, fmt.Errorf("bad id %q", fields[1])
	}
	op := Op{Kind: kind, ID: id}

	if want == 3 {
		size, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return Op{}, fmt.Errorf("bad size %q", fields[2])
		}
		op.Size = uint32(size)
	}
	return op, nil
}

func isNumericHeader(fields []string) bool {
	for _, f := range fields {
		if _, err := strconv.Atoi(f); err != nil {
			return false
		}
	}
	return true
}
