// Package endtoend dispatches the end to end training tests by name and runs
// the distributed tests with per rank output.
package endtoend

import "context"
import "io"
import "math/rand"
import "sort"

import "go.uber.org/zap"

import "github.com/neurlang/endtoend/device"
import "github.com/neurlang/endtoend/distributed"
import "github.com/neurlang/endtoend/hash"
import "github.com/neurlang/endtoend/metrics"

// Test names recognized on the command line
const (
	CifarResNet                = "CifarResNet"
	LSTMSequenceClassifier     = "LSTMSequenceClassifier"
	MNISTClassifier            = "MNISTClassifier"
	SequenceToSequence         = "SequenceToSequence"
	TruncatedLSTMAcousticModel = "TruncatedLSTMAcousticModel"

	// Distribution runs FrameMode and DistributedCheckpointing
	Distribution = "Distribution"
)

// Scenarios run in Distribution mode
const (
	FrameMode                = "FrameMode"
	DistributedCheckpointing = "DistributedCheckpointing"
)

// Env is what a scenario may use
type Env struct {
	Log     *zap.Logger
	Config  Config
	Device  device.Selector
	Comm    distributed.Communicator
	Metrics *metrics.Metrics

	// Out receives the result tables
	Out io.Writer
}

// Rand returns the deterministic random source of scenario name
func (e *Env) Rand(name string) *rand.Rand {
	var h uint32
	for _, c := range []byte(name) {
		h = hash.Combine(h, uint32(c))
	}
	return rand.New(rand.NewSource(e.Config.Seed ^ int64(h)))
}

// Scenario is a training entry point. It returns an error when the trained
// model does not meet its threshold.
type Scenario func(ctx context.Context, env *Env) error

// Registry maps scenario names to scenarios
type Registry map[string]Scenario

// Names lists the registered scenarios in order
func (r Registry) Names() (names []string) {
	for k := range r {
		names = append(names, k)
	}
	sort.Strings(names)
	return
}

// DefaultRegistry holds the real training scenarios
func DefaultRegistry() Registry {
	return Registry{
		CifarResNet:                TrainCifarResnet,
		LSTMSequenceClassifier:     TrainLSTMSequenceClassifier,
		MNISTClassifier:            MNISTClassifierTests,
		SequenceToSequence:         TrainSequenceToSequenceTranslator,
		TruncatedLSTMAcousticModel: TrainTruncatedLSTMAcousticModelClassifier,
		FrameMode:                  TestFrameMode,
		DistributedCheckpointing:   TestDistributedCheckpointing,
	}
}
