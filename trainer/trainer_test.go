package trainer

import "bytes"
import "path/filepath"
import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"
import "go.uber.org/zap"
import "go.uber.org/zap/zaptest/observer"

import "github.com/neurlang/endtoend/datasets"
import "github.com/neurlang/endtoend/hashtron"
import "github.com/neurlang/endtoend/layer/majpool2d"
import "github.com/neurlang/endtoend/learning"
import "github.com/neurlang/endtoend/net/feedforward"

type sample uint32

func (s sample) Feature(n int) uint32 {
	return uint32(s)*2654435761 + uint32(n)
}

func setup() (feedforward.FeedforwardNetwork, func() Evaluation, func(int) func()) {
	var net feedforward.FeedforwardNetwork
	net.NewLayer(4, 0)
	net.NewCombiner(majpool2d.MustNew(2, 2, 1, 1, 1))
	net.NewLayer(1, 2)
	return bind(net)
}

func bind(net feedforward.FeedforwardNetwork) (feedforward.FeedforwardNetwork, func() Evaluation, func(int) func()) {
	const n = 120
	label := func(i int) uint16 { return uint16(i % 3) }
	evaluate := NewEvaluateFunc(n, 4, func(i int) (uint16, uint16) {
		return net.Infer(sample(i)), label(i)
	})
	h := learning.Defaults()
	train := NewTrainWorstFunc(net, h, func(worst int, tally *datasets.Tally) {
		for i := 0; i < n; i++ {
			net.Tally(sample(i), label(i), worst, tally, feedforward.Mismatch)
		}
	})
	return net, evaluate, train
}

func TestEvaluation(t *testing.T) {
	e := NewEvaluateFunc(4, 2, func(i int) (uint16, uint16) { return uint16(i), 1 })()
	assert.Equal(t, 1, e.Correct)
	assert.Equal(t, 4, e.Total)
	assert.Equal(t, 0.25, e.Accuracy())
	assert.Equal(t, byte(25), e.Percent())
	assert.Equal(t, 0.0, Evaluation{}.Accuracy())
}

func TestTrainWorstUndo(t *testing.T) {
	net, _, train := setup()
	before := net.Digest()
	undo := train(4)
	require.NotNil(t, undo)
	assert.NotEqual(t, before, net.Digest())
	undo()
	assert.Equal(t, before, net.Digest())
	assert.Nil(t, train(99))
}

func TestTrainWorstRejectsLargeFilter(t *testing.T) {
	net, _, _ := setup()
	before := net.Digest()
	h := learning.Defaults()
	h.MaxLenQ = 1
	train := NewTrainWorstFunc(net, h, func(worst int, tally *datasets.Tally) {
		for i := 0; i < 120; i++ {
			net.Tally(sample(i), uint16(i%3), worst, tally, feedforward.Mismatch)
		}
	})
	assert.Nil(t, train(4))
	assert.Equal(t, before, net.Digest())
}

func TestLoopReachesTarget(t *testing.T) {
	var single feedforward.FeedforwardNetwork
	single.NewLayer(1, 2)
	net, evaluate, train := bind(single)
	e := Loop(net, LoopConfig{Rounds: 3, Target: 1}, evaluate, train)
	assert.Equal(t, 1.0, e.Accuracy())
}

func TestValueCounts(t *testing.T) {
	defer hashtron.SetAutomaticUnpackingDisabled(hashtron.AutomaticUnpackingDisabled())
	hashtron.SetAutomaticUnpackingDisabled(false)

	net, _, train := setup()
	_, output := net.Sequence()
	require.NotNil(t, train(output[0]))
	counts, err := ValueCounts(net)
	require.NoError(t, err)
	var slots int
	for v, n := range counts {
		assert.Less(t, v, uint16(4))
		slots += n
	}
	assert.Equal(t, int(net.GetHashtron(output[0]).Modulo()), slots)

	hashtron.SetAutomaticUnpackingDisabled(true)
	_, err = ValueCounts(net)
	assert.ErrorIs(t, err, hashtron.ErrUnpackingDisabled)
}

func TestLoopLogsValueCounts(t *testing.T) {
	defer hashtron.SetAutomaticUnpackingDisabled(hashtron.AutomaticUnpackingDisabled())
	for _, disabled := range []bool{false, true} {
		hashtron.SetAutomaticUnpackingDisabled(disabled)
		core, logs := observer.New(zap.DebugLevel)
		net, evaluate, train := setup()
		Loop(net, LoopConfig{Rounds: 1, Log: zap.New(core)}, evaluate, train)
		assert.Equal(t, !disabled, logs.FilterMessage("learned output values").Len() == 1, "disabled %v", disabled)
		assert.Equal(t, disabled, logs.FilterMessage("learned output values not inspected").Len() == 1, "disabled %v", disabled)
	}
}

func TestLoopNeverWorse(t *testing.T) {
	net, evaluate, train := setup()
	initial := evaluate()
	e := Loop(net, LoopConfig{Rounds: 2}, evaluate, train)
	assert.GreaterOrEqual(t, e.Correct, initial.Correct)
	assert.Equal(t, e.State, evaluate().State)
}

func TestCheckpointRestores(t *testing.T) {
	net, evaluate, train := setup()
	Loop(net, LoopConfig{Rounds: 2, Target: 1}, evaluate, train)

	c := Checkpoint{JobID: "job", Step: 7, Workers: []WorkerState{{Rank: 1, Samples: 3, Digest: DigestString(net.Digest())}}}
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, net, c))

	other, _, _ := setup()
	got, err := Load(&buf, other)
	require.NoError(t, err)
	assert.Equal(t, net.Digest(), other.Digest())
	assert.Equal(t, 7, got.Step)
	assert.Equal(t, CheckpointVersion, got.Version)
	w, ok := got.Worker(1)
	assert.True(t, ok)
	assert.Equal(t, DigestString(net.Digest()), w.Digest)
	_, ok = got.Worker(0)
	assert.False(t, ok)
	for i := 0; i < 16; i++ {
		assert.Equal(t, net.Infer(sample(i)), other.Infer(sample(i)))
	}
}

func TestResume(t *testing.T) {
	net, _, _ := setup()
	name := filepath.Join(t.TempDir(), "model.ckpt")
	_, resumed, err := Resume(name, net)
	require.NoError(t, err)
	assert.False(t, resumed)

	require.NoError(t, SaveFile(name, net, Checkpoint{Step: 3}))
	other, _, _ := setup()
	c, resumed, err := Resume(name, other)
	require.NoError(t, err)
	assert.True(t, resumed)
	assert.Equal(t, 3, c.Step)
	assert.Equal(t, net.Digest(), other.Digest())
}
