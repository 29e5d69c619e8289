// Package full implements a fully connected layer and combiner
package full

import "github.com/pkg/errors"

import "github.com/neurlang/endtoend/layer"

// FullLayer packs groups of bits into features
type FullLayer struct {
	size int
	bits byte
}

// Full is the combiner of FullLayer
type Full struct {
	vec  []bool
	bits byte
}

// MustNew creates a new full layer of size inputs packed bits at a time
func MustNew(size int, bits byte) *FullLayer {
	o, err := New(size, bits)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new full layer of size inputs packed bits at a time
func New(size int, bits byte) (o *FullLayer, err error) {
	if bits == 0 || bits > 32 {
		return nil, errors.Errorf("new full: %d bits per feature", bits)
	}
	if size <= 0 {
		return nil, errors.Errorf("new full: size %d", size)
	}
	return &FullLayer{size: size, bits: bits}, nil
}

// Lay turns full layer into a combiner
func (i *FullLayer) Lay() layer.Combiner {
	return &Full{vec: make([]bool, i.size), bits: i.bits}
}

// Inputs reports the number of bits taken
func (i *FullLayer) Inputs() int {
	return i.size
}

// Outputs reports the number of packed features
func (i *FullLayer) Outputs() int {
	return (i.size + int(i.bits) - 1) / int(i.bits)
}
