// Package cifar renders a small colour image dataset of shapes
package cifar

import "math/rand"

import "github.com/neurlang/endtoend/hash"

// ImgSize is the width and height of an image
const ImgSize = 32

// Channels is the number of colour channels
const Channels = 3

// Classes are square, cross, ring and diagonal
const Classes = 4

// Cells is the side of the grid of 8x8 patches
const Cells = ImgSize / 8

// Shortcuts is the number of quadrant colour features following the patches
const Shortcuts = 4

// Input is one RGB image, channel planes one after another
type Input [Channels * ImgSize * ImgSize]byte

func (i *Input) at(c, x, y int) byte {
	return i[c*ImgSize*ImgSize+y*ImgSize+x]
}

func (i *Input) set(x, y int, rgb [Channels]byte) {
	if x < 0 || y < 0 || x >= ImgSize || y >= ImgSize {
		return
	}
	for c := 0; c < Channels; c++ {
		i[c*ImgSize*ImgSize+y*ImgSize+x] = rgb[c]
	}
}

// Feature returns patch n of the Cells x Cells grid for n below Cells*Cells
// and the coarse colour of quadrant n-Cells*Cells after that.
func (i *Input) Feature(n int) uint32 {
	n %= Cells*Cells + Shortcuts
	if n >= Cells*Cells {
		q := n - Cells*Cells
		x0, y0 := (q%2)*ImgSize/2, (q/2)*ImgSize/2
		var o uint32
		for c := 0; c < Channels; c++ {
			var sum int
			for y := y0; y < y0+ImgSize/2; y++ {
				for x := x0; x < x0+ImgSize/2; x++ {
					sum += int(i.at(c, x, y))
				}
			}
			o = o<<4 | uint32(sum/(ImgSize*ImgSize/4)>>4)
		}
		return hash.Combine(o, uint32(n))
	}
	x0, y0 := (n%Cells)*8, (n/Cells)*8
	var words [Channels * 2]uint32
	for c := 0; c < Channels; c++ {
		var bit uint
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				if i.at(c, x0+x, y0+y) >= 128 {
					words[2*c+int(bit/32)] |= 1 << (bit % 32)
				}
				bit++
			}
		}
	}
	return hash.Combine(append(words[:], uint32(n))...)
}

// Set is a labelled set of images
type Set struct {
	Images []Input
	Labels []byte
}

// Len returns the number of samples
func (s Set) Len() int {
	return len(s.Labels)
}

var palette = [Classes][Channels]byte{
	{255, 64, 64},
	{64, 255, 64},
	{64, 64, 255},
	{255, 255, 64},
}

// Render draws shape class at centre cx, cy with half size r
func Render(class byte, cx, cy, r int, rgb [Channels]byte) (img Input) {
	switch class % Classes {
	case 0:
		for y := -r; y <= r; y++ {
			for x := -r; x <= r; x++ {
				img.set(cx+x, cy+y, rgb)
			}
		}
	case 1:
		for d := -r; d <= r; d++ {
			img.set(cx+d, cy, rgb)
			img.set(cx, cy+d, rgb)
			img.set(cx+d, cy+1, rgb)
			img.set(cx+1, cy+d, rgb)
		}
	case 2:
		for y := -r; y <= r; y++ {
			for x := -r; x <= r; x++ {
				if d := x*x + y*y; d <= r*r && d >= (r-2)*(r-2) {
					img.set(cx+x, cy+y, rgb)
				}
			}
		}
	case 3:
		for d := -r; d <= r; d++ {
			img.set(cx+d, cy+d, rgb)
			img.set(cx+d+1, cy+d, rgb)
		}
	}
	return
}

// Synthetic renders n images, the colour mostly follows the class
func Synthetic(n int, rng *rand.Rand) (s Set) {
	s.Images = make([]Input, n)
	s.Labels = make([]byte, n)
	for i := 0; i < n; i++ {
		class := byte(rng.Intn(Classes))
		rgb := palette[class]
		if rng.Intn(4) == 0 {
			rgb = palette[rng.Intn(Classes)]
		}
		img := Render(class, 12+rng.Intn(9), 12+rng.Intn(9), 6+rng.Intn(4), rgb)
		for k := 0; k < 24; k++ {
			img[rng.Intn(len(img))] ^= 0x80
		}
		s.Images[i] = img
		s.Labels[i] = class
	}
	return
}
