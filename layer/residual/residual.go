// Package residual implements a skip connection around another combiner layer.
// The first Inner.Inputs() bits feed the inner combiner, the remaining bits
// are the shortcut and get added (xor) onto the inner features one bit each.
package residual

import "github.com/neurlang/endtoend/layer"

// ResidualLayer wraps an inner layer with a shortcut
type ResidualLayer struct {
	inner layer.Layer
}

// Residual is the combiner of ResidualLayer
type Residual struct {
	inner    layer.Combiner
	offset   int
	shortcut []bool
}

// New wraps inner with a shortcut of one bit per inner feature
func New(inner layer.Layer) *ResidualLayer {
	return &ResidualLayer{inner: inner}
}

// Lay turns the residual layer into a combiner
func (r *ResidualLayer) Lay() layer.Combiner {
	return &Residual{
		inner:    r.inner.Lay(),
		offset:   r.inner.Inputs(),
		shortcut: make([]bool, r.inner.Outputs()),
	}
}

// Inputs reports the inner bits plus the shortcut bits
func (r *ResidualLayer) Inputs() int {
	return r.inner.Inputs() + r.inner.Outputs()
}

// Outputs reports the inner features
func (r *ResidualLayer) Outputs() int {
	return r.inner.Outputs()
}

// Put routes the bit to the inner combiner or the shortcut
func (r *Residual) Put(n int, v bool) {
	if n < r.offset {
		r.inner.Put(n, v)
		return
	}
	r.shortcut[n-r.offset] = v
}

// Feature returns the inner feature with the shortcut bit added
func (r *Residual) Feature(n int) uint32 {
	o := r.inner.Feature(n)
	if r.shortcut[n%len(r.shortcut)] {
		o ^= 1
	}
	return o
}

// Disregard asks the inner combiner, shortcut bits always matter
func (r *Residual) Disregard(n int) bool {
	if n < r.offset {
		return r.inner.Disregard(n)
	}
	return false
}
