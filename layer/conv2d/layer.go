// Package conv2d implements a 2D bit-convolution layer and combiner
package conv2d

import "github.com/pkg/errors"

import "github.com/neurlang/endtoend/layer"

// Conv2DLayer slides a subwidth x subheight window over repeat width x height bit planes
type Conv2DLayer struct {
	width, height, subwidth, subheight, repeat, stride int
}

// Conv2D is the combiner of Conv2DLayer
type Conv2D struct {
	vec []bool
	*Conv2DLayer
}

// MustNew creates a new Conv2D layer with size, subsize, repeat and stride
func MustNew(width, height, subwidth, subheight, repeat, stride int) *Conv2DLayer {
	o, err := New(width, height, subwidth, subheight, repeat, stride)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new Conv2D layer with size, subsize, repeat and stride
func New(width, height, subwidth, subheight, repeat, stride int) (o *Conv2DLayer, err error) {
	if width < subwidth {
		return nil, errors.Errorf("new conv2d: width %d is lower than subwidth %d", width, subwidth)
	}
	if height < subheight {
		return nil, errors.Errorf("new conv2d: height %d is lower than subheight %d", height, subheight)
	}
	if subwidth*subheight > 32 {
		return nil, errors.Errorf("new conv2d: %dx%d window does not fit a feature", subwidth, subheight)
	}
	if subwidth <= 0 || subheight <= 0 || repeat <= 0 || stride <= 0 {
		return nil, errors.New("new conv2d: non positive dimension")
	}
	return &Conv2DLayer{width, height, subwidth, subheight, repeat, stride}, nil
}

// Lay turns Conv2D layer into a combiner
func (i *Conv2DLayer) Lay() layer.Combiner {
	return &Conv2D{vec: make([]bool, i.Inputs()), Conv2DLayer: i}
}

// Inputs reports the number of bits taken
func (i *Conv2DLayer) Inputs() int {
	return i.width * i.height * i.repeat
}

// Outputs reports the number of windows over all planes
func (i *Conv2DLayer) Outputs() int {
	return i.columns() * i.rows() * i.repeat
}

func (i *Conv2DLayer) columns() int {
	return (i.width-i.subwidth)/i.stride + 1
}

func (i *Conv2DLayer) rows() int {
	return (i.height-i.subheight)/i.stride + 1
}
