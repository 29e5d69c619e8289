package hashtron

import "github.com/neurlang/endtoend/hash"

// Forward computes the hashtron output for command. Negate flips every output bit.
func (h Hashtron) Forward(command uint32, negate bool) (out uint16) {
	if h.bits == 0 {
		return
	}
	if h.modulo == 0 {
		out = uint16(hash.Hash(command, h.salt, uint32(1)<<h.bits))
	} else {
		out = h.slot(hash.Hash(command, h.salt, h.modulo))
	}
	if negate {
		out ^= h.mask()
	}
	return
}

func (h Hashtron) slot(i uint32) (out uint16) {
	for j, q := range h.quaternary {
		if q.GetUint32(i) {
			out |= 1 << j
		}
	}
	return
}
