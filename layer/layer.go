// Package layer defines the combiner layer interfaces used between hashtron layers
package layer

// Layer is the layer which can be used for instantiating a combiner
type Layer interface {

	// Lay creates a combiner
	Lay() Combiner

	// Inputs reports how many hashtron bits the combiner takes
	Inputs() int

	// Outputs reports how many features the combiner offers to the next layer
	Outputs() int
}
