// Package majpool2d implements a 2D majority pooling layer and combiner
package majpool2d

import "github.com/pkg/errors"

import "github.com/neurlang/endtoend/layer"

// MajPool2DLayer pools subwidth x subheight blocks of a width x height grid of blocks
type MajPool2DLayer struct {
	width, height, subwidth, subheight, repeat int
}

// MajPool2D is the combiner of MajPool2DLayer
type MajPool2D struct {
	vec []bool
	*MajPool2DLayer
}

// New creates a new MajPool2D layer with size, subsize and repeat. The output is
// one feature per repeat holding width*height majority bits.
func New(width, height, subwidth, subheight, repeat int) (o *MajPool2DLayer, err error) {
	if width <= 0 || height <= 0 || subwidth <= 0 || subheight <= 0 || repeat <= 0 {
		return nil, errors.New("new majpool2d: non positive dimension")
	}
	if width*height > 32 {
		return nil, errors.Errorf("new majpool2d: %dx%d output does not fit a feature", width, height)
	}
	return &MajPool2DLayer{width, height, subwidth, subheight, repeat}, nil
}

// MustNew creates a new MajPool2D layer with size, subsize and repeat
func MustNew(width, height, subwidth, subheight, repeat int) *MajPool2DLayer {
	o, err := New(width, height, subwidth, subheight, repeat)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// Lay turns MajPool2D layer into a combiner
func (i *MajPool2DLayer) Lay() layer.Combiner {
	return &MajPool2D{vec: make([]bool, i.Inputs()), MajPool2DLayer: i}
}

// Inputs reports the number of bits taken
func (i *MajPool2DLayer) Inputs() int {
	return i.width * i.height * i.subwidth * i.subheight * i.repeat
}

// Outputs reports the number of features, one per repeat
func (i *MajPool2DLayer) Outputs() int {
	return i.repeat
}
