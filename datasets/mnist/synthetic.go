package mnist

import "math/rand"

// segments of a seven segment digit: top, upper left, upper right, middle,
// lower left, lower right, bottom
var segments = [Classes][7]bool{
	{true, true, true, false, true, true, true},
	{false, false, true, false, false, true, false},
	{true, false, true, true, true, false, true},
	{true, false, true, true, false, true, true},
	{false, true, true, true, false, true, false},
	{true, true, false, true, false, true, true},
	{true, true, false, true, true, true, true},
	{true, false, true, false, false, true, false},
	{true, true, true, true, true, true, true},
	{true, true, true, true, false, true, true},
}

// Render draws digit shifted by dx, dy with the given stroke thickness
func Render(digit byte, dx, dy, thickness int) (img Input) {
	const left, right, top, middle, bottom = 8, 19, 5, 13, 22
	hline := func(y int) {
		for t := 0; t < thickness; t++ {
			for x := left; x <= right; x++ {
				img.set(x+dx, y+t+dy)
			}
		}
	}
	vline := func(x, y0, y1 int) {
		for t := 0; t < thickness; t++ {
			for y := y0; y <= y1; y++ {
				img.set(x+t+dx, y+dy)
			}
		}
	}
	s := segments[digit%Classes]
	if s[0] {
		hline(top)
	}
	if s[1] {
		vline(left, top, middle)
	}
	if s[2] {
		vline(right, top, middle)
	}
	if s[3] {
		hline(middle)
	}
	if s[4] {
		vline(left, middle, bottom)
	}
	if s[5] {
		vline(right, middle, bottom)
	}
	if s[6] {
		hline(bottom)
	}
	return
}

func (i *Input) set(x, y int) {
	if x >= 0 && y >= 0 && x < ImgSize && y < ImgSize {
		i[y*ImgSize+x] = 255
	}
}

// Synthetic renders n digits with random shift, stroke and pixel noise
func Synthetic(n int, rng *rand.Rand) (s Set) {
	s.Images = make([]Input, n)
	s.Labels = make([]byte, n)
	for i := 0; i < n; i++ {
		digit := byte(rng.Intn(Classes))
		img := Render(digit, rng.Intn(5)-2, rng.Intn(5)-2, 1+rng.Intn(2))
		for k := 0; k < 16; k++ {
			img[rng.Intn(len(img))] ^= 255
		}
		s.Images[i] = img
		s.Labels[i] = digit
	}
	return
}

// LoadOrSynthetic loads the real dataset from dir, falling back to synthetic
// sets of ntrain and ninfer samples
func LoadOrSynthetic(dir string, ntrain, ninfer int, rng *rand.Rand) (train, infer Set, synthetic bool) {
	if dir != "" {
		var err error
		train, infer, err = Load(dir)
		if err == nil {
			return train.Head(ntrain), infer.Head(ninfer), false
		}
	}
	return Synthetic(ntrain, rng), Synthetic(ninfer, rng), true
}
