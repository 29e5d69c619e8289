package majpool2d

// Put sets the n-th bool. Inputs are row major over the
// (width*subwidth) x (height*subheight) grid, repeat after repeat.
func (s *MajPool2D) Put(n int, v bool) {
	s.vec[n] = v
}

func (s *MajPool2D) block(n int) (base, bx, by int) {
	rowlen := s.width * s.subwidth
	plane := rowlen * s.height * s.subheight
	base = (n / plane) * plane
	n %= plane
	return base, (n % rowlen) / s.subwidth, (n / rowlen) / s.subheight
}

// vote sums the block at bx, by as +1 for true and -1 for false, skipping skip
func (s *MajPool2D) vote(base, bx, by, skip int) (w int) {
	rowlen := s.width * s.subwidth
	for y := 0; y < s.subheight; y++ {
		for x := 0; x < s.subwidth; x++ {
			pos := base + (by*s.subheight+y)*rowlen + bx*s.subwidth + x
			if pos == skip {
				continue
			}
			if s.vec[pos] {
				w++
			} else {
				w--
			}
		}
	}
	return
}

// Disregard tells whether the majority of the block holding n is decided without n.
func (s *MajPool2D) Disregard(n int) bool {
	base, bx, by := s.block(n)
	w := s.vote(base, bx, by, n)
	return w >= 2 || w <= -1
}

// Feature returns the majority bits of repeat m, block (x, y) at bit y*width+x.
// Ties are false.
func (s *MajPool2D) Feature(m int) (o uint32) {
	plane := s.width * s.subwidth * s.height * s.subheight
	base := (m % s.repeat) * plane
	for by := 0; by < s.height; by++ {
		for bx := 0; bx < s.width; bx++ {
			if s.vote(base, bx, by, -1) > 0 {
				o |= 1 << uint(by*s.width+bx)
			}
		}
	}
	return
}
