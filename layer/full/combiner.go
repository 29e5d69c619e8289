package full

// Put inserts a boolean at position n.
func (f *Full) Put(n int, v bool) {
	f.vec[n] = v
}

// Feature returns bits n*bits.. of the input, first bit lowest.
func (f *Full) Feature(n int) (o uint32) {
	start := n * int(f.bits)
	for pos := start; pos < start+int(f.bits) && pos < len(f.vec); pos++ {
		if f.vec[pos] {
			o |= 1 << uint(pos-start)
		}
	}
	return
}

// Disregard is always false, every bit reaches a feature.
func (f *Full) Disregard(n int) bool {
	return false
}
