package parallel

import "crypto/sha256"
import "encoding/binary"
import "sync"

// Hasher fingerprints a vector of outputs written concurrently in any order.
// Equal vectors give equal sums regardless of write order.
type Hasher struct {
	mut    sync.Mutex
	data   []byte
	filled []bool
}

// NewUint16Hasher creates a hasher for n uint16 outputs
func NewUint16Hasher(n int) *Hasher {
	return &Hasher{
		data:   make([]byte, 2*n),
		filled: make([]bool, n),
	}
}

// MustPutUint16 stores the n-th output. Writing the same position twice panics.
func (h *Hasher) MustPutUint16(n int, value uint16) {
	h.mut.Lock()
	defer h.mut.Unlock()
	if h.filled[n] {
		panic("duplicate write")
	}
	h.filled[n] = true
	binary.LittleEndian.PutUint16(h.data[2*n:], value)
}

// Sum returns the sha256 of all outputs, missing outputs count as zero
func (h *Hasher) Sum() (ret [32]byte) {
	h.mut.Lock()
	defer h.mut.Unlock()
	return sha256.Sum256(h.data)
}
