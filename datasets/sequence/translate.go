package sequence

import "math/rand"

// Reserved target tokens
const (
	BOS = 0
	EOS = 1
)

// Targets is the size of the target vocabulary including BOS and EOS
const Targets = 16

// Pair is a source sequence with its translation
type Pair struct {
	Source []uint32
	Target []uint16
}

// Transliterate maps a source symbol to its target token
func Transliterate(s uint32) uint16 {
	return uint16(s*5%(Targets-2)) + 2
}

// Translate reverses source and transliterates every symbol
func Translate(source []uint32) []uint16 {
	out := make([]uint16, len(source))
	for i, s := range source {
		out[len(source)-1-i] = Transliterate(s)
	}
	return out
}

// Translation generates n pairs with sources of length minLen..maxLen
func Translation(n, minLen, maxLen int, rng *rand.Rand) []Pair {
	out := make([]Pair, n)
	for i := range out {
		src := make([]uint32, minLen+rng.Intn(maxLen-minLen+1))
		for j := range src {
			src[j] = uint32(rng.Intn(Targets - 2))
		}
		out[i] = Pair{Source: src, Target: Translate(src)}
	}
	return out
}
