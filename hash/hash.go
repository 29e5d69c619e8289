// Package hash implements the fast salted modular hash every hashtron is built on
package hash

// Hash mixes n with salt s and reduces the result into the range 0..max-1.
// Hash(n, s, 0) is always 0.
func Hash(n uint32, s uint32, max uint32) uint32 {
	// mix input with salt using subtraction
	var m = n - s

	// xorshift with prime shift amounts, bijective on uint32
	m ^= m << 2
	m ^= m << 3
	m ^= m >> 5
	m ^= m >> 7
	m ^= m << 11
	m ^= m << 13
	m ^= m >> 17
	m ^= m << 19

	// mix salt back in
	m += s

	// multiply shift range reduction by Daniel Lemire
	// https://lemire.me/blog/2016/06/27/a-fast-alternative-to-the-modulo-reduction/
	return uint32((uint64(m) * uint64(max)) >> 32)
}

// Combine folds a sequence of values into a single feature, position dependent.
func Combine(values ...uint32) (o uint32) {
	for i, v := range values {
		o = Hash(o^v, uint32(i)+1, 0xffffffff)
	}
	return
}
