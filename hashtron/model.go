// Package hashtron implements a hashtron (classifier)
package hashtron

import "github.com/neurlang/quaternary"

// Hashtron represents individual hashtron (classifier) in memory.
// An untrained hashtron (zero modulo) is a random boolean function of its input.
// A trained hashtron maps its input through the salted hash to a slot, and keeps
// one quaternary filter per output bit answering that bit for every slot.
type Hashtron struct {
	salt   uint32
	modulo uint32
	bits   byte

	quaternary []quaternary.Filter
}

// Salt gets the hashing salt
func (h Hashtron) Salt() uint32 {
	return h.salt
}

// Modulo gets the size of the value filter, zero when untrained
func (h Hashtron) Modulo() uint32 {
	return h.modulo
}

// Trained reports whether the hashtron holds learned values
func (h Hashtron) Trained() bool {
	return h.modulo != 0
}

// LenQ gets the size of learned data in bytes
func (h Hashtron) LenQ() (n int) {
	for _, q := range h.quaternary {
		n += len(q)
	}
	return
}

// Bits determines the number of output bits returned by hashtron using Forward
func (h Hashtron) Bits() byte {
	return h.bits
}

// SetBits sets the number of output bits returned by hashtron using Forward.
// Learned values wider than bits are truncated on read.
func (h *Hashtron) SetBits(bits byte) {
	if h.Trained() {
		return
	}
	h.bits = bits
}

func (h Hashtron) mask() uint16 {
	return uint16(uint32(1)<<h.bits - 1)
}
