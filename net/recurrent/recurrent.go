// Package recurrent implements a recurrent network of hashtrons.
//
// The state is a word of one bit hashtron cells, each cell reads the
// previous state and the current token. The cells stay untrained and act as
// a fixed random reservoir, only the output hashtron reading the final state
// is trained.
package recurrent

import "github.com/pkg/errors"

import "github.com/neurlang/endtoend/hash"
import "github.com/neurlang/endtoend/hashtron"

// MaxStateBits is the widest state a network can carry
const MaxStateBits = 32

// Network is a recurrent cell followed by a single output hashtron
type Network struct {
	cells  []hashtron.Hashtron
	output []hashtron.Hashtron

	// window limits the fold to the last window tokens, 0 folds everything
	window int
}

// New creates a network with stateBits cells and an output of bits bits.
func New(stateBits int, bits byte, window int) (*Network, error) {
	if stateBits <= 0 || stateBits > MaxStateBits {
		return nil, errors.Errorf("recurrent state of %d bits", stateBits)
	}
	if window < 0 {
		return nil, errors.Errorf("recurrent window %d", window)
	}
	n := &Network{
		cells:  make([]hashtron.Hashtron, stateBits),
		output: make([]hashtron.Hashtron, 1),
		window: window,
	}
	for i := range n.cells {
		h, _ := hashtron.New(1)
		n.cells[i] = *h
	}
	out, err := hashtron.New(bits)
	if err != nil {
		return nil, err
	}
	n.output[0] = *out
	return n, nil
}

// MustNew is New which panics on error
func MustNew(stateBits int, bits byte, window int) *Network {
	n, err := New(stateBits, bits, window)
	if err != nil {
		panic(err.Error())
	}
	return n
}

// Window reports how many trailing tokens a fold reads, 0 is all of them
func (n *Network) Window() int {
	return n.window
}

// Len returns the number of hashtrons in the network
func (n *Network) Len() int {
	return len(n.cells) + len(n.output)
}

// GetHashtron gets i-th hashtron, cells first, output last
func (n *Network) GetHashtron(i int) *hashtron.Hashtron {
	if i < 0 {
		return nil
	}
	if i < len(n.cells) {
		return &n.cells[i]
	}
	i -= len(n.cells)
	if i < len(n.output) {
		return &n.output[i]
	}
	return nil
}

// Sequence lists trainable hashtrons. The cells are a fixed reservoir so only
// the output is reported.
func (n *Network) Sequence() (hidden, output []int) {
	return nil, []int{len(n.cells)}
}

// Step advances state by one token
func (n *Network) Step(state, token uint32) (next uint32) {
	for j := range n.cells {
		if n.cells[j].Forward(hash.Combine(state, token, uint32(j)), false)&1 != 0 {
			next |= 1 << uint(j)
		}
	}
	return
}

// Fold runs the cell over seq from the zero state, honoring the window
func (n *Network) Fold(seq []uint32) uint32 {
	return n.Frame(seq, len(seq)-1)
}

// Frame returns the state after token t, folded over the window ending at t
func (n *Network) Frame(seq []uint32, t int) (state uint32) {
	start := 0
	if n.window > 0 && t+1-n.window > start {
		start = t + 1 - n.window
	}
	for i := start; i <= t && i < len(seq); i++ {
		state = n.Step(state, seq[i])
	}
	return
}

// Infer runs the output hashtron on a feature
func (n *Network) Infer(feature uint32) uint16 {
	return n.output[0].Forward(feature, false)
}

// Classify predicts the label of a whole sequence
func (n *Network) Classify(seq []uint32) uint16 {
	return n.Infer(n.Fold(seq))
}
