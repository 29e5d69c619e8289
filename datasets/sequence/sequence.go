// Package sequence generates symbol sequence datasets for recurrent networks
package sequence

import "math/rand"

// Classes is the number of sequence labels
const Classes = 4

// Vocabulary is the number of input symbols
const Vocabulary = 8

// Labelled is a sequence with its label
type Labelled struct {
	Tokens []uint32
	Label  uint16
}

// Label returns the most frequent symbol of tokens among the first Classes
// symbols, ties go to the smaller symbol
func Label(tokens []uint32) uint16 {
	var count [Classes]int
	for _, t := range tokens {
		if t < Classes {
			count[t]++
		}
	}
	var best uint16
	for c := 1; c < Classes; c++ {
		if count[c] > count[best] {
			best = uint16(c)
		}
	}
	return best
}

// Classification generates n sequences of length minLen..maxLen
func Classification(n, minLen, maxLen int, rng *rand.Rand) []Labelled {
	out := make([]Labelled, n)
	for i := range out {
		tokens := make([]uint32, minLen+rng.Intn(maxLen-minLen+1))
		for j := range tokens {
			tokens[j] = uint32(rng.Intn(Vocabulary))
		}
		out[i] = Labelled{Tokens: tokens, Label: Label(tokens)}
	}
	return out
}
