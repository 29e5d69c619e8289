// Package datasets implements the training set types shared by the end to end scenarios
package datasets

// Datamap maps a feature to the value a hashtron should output
type Datamap map[uint32]uint16

// Bits reports how many output bits are needed to hold every value
func (d Datamap) Bits() (bits byte) {
	bits = 1
	for _, v := range d {
		for v>>bits != 0 {
			bits++
		}
	}
	return
}

// Dataset maps a feature to the boolean a one bit hashtron should output
type Dataset map[uint32]bool

// Datamap widens the booleans to the values 0 and 1
func (d Dataset) Datamap() Datamap {
	out := make(Datamap, len(d))
	for k, v := range d {
		if v {
			out[k] = 1
		} else {
			out[k] = 0
		}
	}
	return out
}
