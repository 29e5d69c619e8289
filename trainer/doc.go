// Package trainer provides high-level training orchestration for hashtron networks.
// It manages training loops over datasets: tally votes for one hashtron, solve
// a replacement, keep it when the evaluation does not get worse and undo it
// otherwise. Checkpoints persist the weights together with the trainer step
// and the state of every worker.
package trainer

import "io"

import "github.com/neurlang/endtoend/hashtron"

// Network is a network of hashtrons the trainer can modify in place
type Network interface {
	Len() int
	GetHashtron(n int) *hashtron.Hashtron
	Sequence() (hidden, output []int)
	Digest() [32]byte
	WriteZlibWeights(w io.Writer) error
	ReadZlibWeights(r io.Reader) error
}
