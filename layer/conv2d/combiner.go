package conv2d

// Put inserts a boolean at position n, row major plane after plane.
func (f *Conv2D) Put(n int, v bool) {
	f.vec[n] = v
}

// Feature returns the bits of window n packed row major, first bit lowest.
func (f *Conv2D) Feature(n int) (o uint32) {
	per := f.columns() * f.rows()
	plane := (n / per) % f.repeat * f.width * f.height
	n %= per
	x0 := (n % f.columns()) * f.stride
	y0 := (n / f.columns()) * f.stride
	var bit uint
	for y := 0; y < f.subheight; y++ {
		for x := 0; x < f.subwidth; x++ {
			if f.vec[plane+(y0+y)*f.width+x0+x] {
				o |= 1 << bit
			}
			bit++
		}
	}
	return
}

// Disregard reports whether position n lies outside of every window.
func (f *Conv2D) Disregard(n int) bool {
	n %= f.width * f.height
	x, y := n%f.width, n/f.width
	return x >= (f.columns()-1)*f.stride+f.subwidth || y >= (f.rows()-1)*f.stride+f.subheight
}
