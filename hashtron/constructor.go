package hashtron

import "math/rand"

import "github.com/neurlang/quaternary"
import "github.com/pkg/errors"

// MaxBits is the widest output a hashtron can produce
const MaxBits = 16

// ErrBits is returned when the requested output width is unsupported
var ErrBits = errors.New("hashtron bits out of range")

// New creates an untrained hashtron with a random salt. Bits of 0 means 1.
func New(bits byte) (h *Hashtron, err error) {
	return NewSalted(rand.Uint32(), bits)
}

// NewSalted creates an untrained hashtron with salt.
func NewSalted(salt uint32, bits byte) (h *Hashtron, err error) {
	if bits == 0 {
		bits = 1
	}
	if bits > MaxBits {
		return nil, errors.Wrapf(ErrBits, "new hashtron: %d", bits)
	}
	return &Hashtron{salt: salt, bits: bits}, nil
}

// NewTrained creates a trained hashtron. Value i is returned for inputs
// hashing to i using salt and modulo len(values). Bits of the values above
// bits are dropped.
func NewTrained(salt uint32, bits byte, values []uint16) (h *Hashtron, err error) {
	h, err = NewSalted(salt, bits)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return h, nil
	}
	h.modulo = uint32(len(values))
	h.quaternary = make([]quaternary.Filter, h.bits)
	for j := range h.quaternary {
		set := make(map[uint32]bool, len(values))
		for i, v := range values {
			set[uint32(i)] = (v>>j)&1 != 0
		}
		h.quaternary[j] = quaternary.Make(set)
	}
	return h, nil
}
