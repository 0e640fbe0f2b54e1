//go:build unix

package heap

import (
	"os"

	"golang.org/x/sys/unix"
)

// backing reserves the full span as inaccessible anonymous memory and
// commits pages as the region grows. mprotect only ever widens the
// accessible prefix, so the mapping never moves.
type backing struct {
	full      []byte
	committed int
}

func reserve(max int) (*backing, error) {
	n := pageAlign(max)
	full, err := unix.Mmap(-1, 0, n, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	return &backing{full: full}, nil
}

func (b *backing) commit(upto int) error {
	end := pageAlign(upto)
	if end <= b.committed {
		return nil
	}
	if err := unix.Mprotect(b.full[b.committed:end], unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return err
	}
	b.committed = end
	return nil
}

func (b *backing) buf() []byte {
	return b.full
}

func (b *backing) release() error {
	if b.full == nil {
		return nil
	}
	err := unix.Munmap(b.full)
	b.full = nil
	return err
}

func pageAlign(n int) int {
	page := os.Getpagesize()
	return (n + page - 1) &^ (page - 1)
}
