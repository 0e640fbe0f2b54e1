//go:build !unix

package heap

// backing on platforms without the mmap path: one allocation of the full
// maximum, grown by reslicing so the array never moves.
type backing struct {
	full []byte
}

func reserve(max int) (*backing, error) {
	return &backing{full: make([]byte, max)}, nil
}

func (b *backing) commit(int) error {
	return nil
}

func (b *backing) buf() []byte {
	return b.full
}

func (b *backing) release() error {
	b.full = nil
	return nil
}
