// Package acoustic generates utterances of quantized acoustic frames with
// per frame phone labels
package acoustic

import "math/rand"

// Phones is the number of phone labels
const Phones = 8

// Dims is the number of feature dimensions of a frame, 4 bits each
const Dims = 8

// Utterance is a sequence of frames with one phone label per frame
type Utterance struct {
	Frames []uint32
	Phones []uint16
}

// Prototype returns the noiseless quantized frame of phone p
func Prototype(p uint16) (o uint32) {
	for d := 0; d < Dims; d++ {
		v := uint32(p)*7 + uint32(d)*3
		o |= (v % 16) << uint(4*d)
	}
	return
}

// Frame returns a noisy frame of phone p, each dimension moves by at most one step
func Frame(p uint16, rng *rand.Rand) (o uint32) {
	proto := Prototype(p)
	for d := 0; d < Dims; d++ {
		v := int(proto>>uint(4*d)) & 15
		v += rng.Intn(3) - 1
		if v < 0 {
			v = 0
		} else if v > 15 {
			v = 15
		}
		o |= uint32(v) << uint(4*d)
	}
	return
}

// Synthetic generates n utterances of segments phones, each phone lasting 2..5 frames
func Synthetic(n, segments int, rng *rand.Rand) []Utterance {
	out := make([]Utterance, n)
	for i := range out {
		var u Utterance
		for s := 0; s < segments; s++ {
			p := uint16(rng.Intn(Phones))
			for k := 2 + rng.Intn(4); k > 0; k-- {
				u.Frames = append(u.Frames, Frame(p, rng))
				u.Phones = append(u.Phones, p)
			}
		}
		out[i] = u
	}
	return out
}

// Flatten lists all frames and labels of the utterances
func Flatten(us []Utterance) (frames []uint32, phones []uint16) {
	for _, u := range us {
		frames = append(frames, u.Frames...)
		phones = append(phones, u.Phones...)
	}
	return
}
