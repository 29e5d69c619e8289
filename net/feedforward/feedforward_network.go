// Package feedforward implements a feedforward network of hashtron layers and combiners
package feedforward

import "github.com/neurlang/endtoend/hash"
import "github.com/neurlang/endtoend/hashtron"
import "github.com/neurlang/endtoend/layer"

// Intermediate is an intermediate value used as both layer input and layer output in optimization
type Intermediate interface {

	// Feature extracts n-th feature from Intermediate
	Feature(n int) uint32

	// Disregard reports whether Intermediate doesn't regard n-th bit as affecting the output
	Disregard(n int) bool
}

// SingleValue is a single value returned by the final layer
type SingleValue uint32

// Feature extracts the feature from SingleValue
func (v SingleValue) Feature(n int) uint32 {
	return uint32(v)
}

// Disregard reports whether SingleValue doesn't regard n-th bit as affecting the output
func (v SingleValue) Disregard(n int) bool {
	return false
}

// FeedforwardNetworkInput is one individual input to the feedforward network
type FeedforwardNetworkInput interface {
	Feature(n int) uint32
}

// FeedforwardNetwork is the feedforward network. Hashtron layers and combiners
// alternate, a hashtron layer not followed by a combiner is an output layer
// of a single hashtron.
type FeedforwardNetwork struct {
	layers    [][]hashtron.Hashtron
	combiners []layer.Layer
	premodulo []uint32
}

// Len returns the number of hashtrons which need to be trained inside the network.
func (f FeedforwardNetwork) Len() (o int) {
	for _, v := range f.layers {
		o += len(v)
	}
	return
}

// LenLayers returns the number of layers. Each Layer and Combiner counts as a layer here.
func (f FeedforwardNetwork) LenLayers() int {
	return len(f.layers)
}

// GetLayer gets the layer number of hashtron based on hashtron number. Returns -1 on failure.
func (f FeedforwardNetwork) GetLayer(n int) int {
	for i, v := range f.layers {
		if n < len(v) {
			return i
		}
		n -= len(v)
	}
	return -1
}

// GetPosition gets the position of hashtron within its layer based on the overall
// hashtron number. Returns -1 on failure.
func (f FeedforwardNetwork) GetPosition(n int) int {
	for _, v := range f.layers {
		if n < len(v) {
			return n
		}
		n -= len(v)
	}
	return -1
}

// GetHashtron gets n-th hashtron pointer in the network.
func (f FeedforwardNetwork) GetHashtron(n int) *hashtron.Hashtron {
	for _, v := range f.layers {
		if n < len(v) {
			return &v[n]
		}
		n -= len(v)
	}
	return nil
}

// IsOutput reports whether hashtron n lies in an output layer
func (f FeedforwardNetwork) IsOutput(n int) bool {
	l := f.GetLayer(n)
	return l >= 0 && !f.hasCombiner(l)
}

// Sequence lists the hashtron numbers, hidden layers first, output last
func (f FeedforwardNetwork) Sequence() (hidden, output []int) {
	for n := 0; n < f.Len(); n++ {
		if f.IsOutput(n) {
			output = append(output, n)
		} else {
			hidden = append(hidden, n)
		}
	}
	return
}

// NewLayer adds a hashtron layer to the end of network with n hashtrons, each recognizing bits bits.
func (f *FeedforwardNetwork) NewLayer(n int, bits byte) {
	f.NewLayerP(n, bits, 0)
}

// NewLayerP adds a hashtron layer to the end of network with n hashtrons, each recognizing bits bits,
// and input features folded by premodulo.
func (f *FeedforwardNetwork) NewLayerP(n int, bits byte, premodulo uint32) {
	var layer = make([]hashtron.Hashtron, n)
	for i := range layer {
		h, err := hashtron.New(bits)
		if err != nil {
			panic(err.Error())
		}
		layer[i] = *h
	}
	f.layers = append(f.layers, layer)
	f.combiners = append(f.combiners, nil)
	f.premodulo = append(f.premodulo, premodulo)
}

// NewCombiner adds a combiner layer to the end of network
func (f *FeedforwardNetwork) NewCombiner(layer layer.Layer) {
	f.layers = append(f.layers, nil)
	f.combiners = append(f.combiners, layer)
	f.premodulo = append(f.premodulo, 0)
}

func (f FeedforwardNetwork) hasCombiner(l int) bool {
	return len(f.combiners) > l+1 && f.combiners[l+1] != nil
}

func (f FeedforwardNetwork) feature(in FeedforwardNetworkInput, l, i int) uint32 {
	var feat = in.Feature(i)
	if f.premodulo[l] != 0 {
		feat = hash.Hash(feat, uint32(i), f.premodulo[l])
	}
	return feat
}

// Forward solves the intermediate value (net output after layer l based on that layer's input in) and the bit
// returned by worst hashtron is optionally negated (using neg == 1) and returned as computed.
func (f FeedforwardNetwork) Forward(in FeedforwardNetworkInput, l, worst, neg int) (inter Intermediate, computed bool) {
	if f.hasCombiner(l) {
		var combiner = f.combiners[l+1].Lay()
		for i := range f.layers[l] {
			var bit = f.layers[l][i].Forward(f.feature(in, l, i), (i == worst) && (neg == 1))
			combiner.Put(i, bit&1 != 0)
			if i == worst {
				computed = bit&1 != 0
			}
		}
		return combiner, computed
	}
	var val = f.layers[l][0].Forward(f.feature(in, l, 0), (worst == 0) && (neg == 1))
	return SingleValue(val), val&1 != 0
}

// Infer infers the network output based on input
func (f FeedforwardNetwork) Infer(in FeedforwardNetworkInput) uint16 {
	var out FeedforwardNetworkInput = in
	for l := 0; l < f.LenLayers(); l += 2 {
		out, _ = f.Forward(out, l, -1, 0)
	}
	return uint16(out.Feature(0))
}

// GetBits reports the number of bits predicted by this network
func (f FeedforwardNetwork) GetBits() byte {
	if len(f.layers) == 0 || len(f.layers[len(f.layers)-1]) == 0 {
		return 1
	}
	return f.layers[len(f.layers)-1][0].Bits()
}
