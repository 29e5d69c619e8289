package endtoend

import "context"

import "github.com/neurlang/endtoend/datasets"
import "github.com/neurlang/endtoend/learning"
import "github.com/neurlang/endtoend/net/feedforward"
import "github.com/neurlang/endtoend/parallel"
import "github.com/neurlang/endtoend/trainer"

// job describes what a scenario trains
type job struct {
	name string
	net  trainer.Network

	// votes casts the votes of sample i for hashtron worst, for votes samples
	votes int
	vote  func(worst, i int, tally *datasets.Tally)

	// predict evaluates sample i, for samples samples
	samples int
	predict func(i int) (predicted, expected uint16)
}

func (e *Env) hyper() learning.HyperParameters {
	h := learning.Defaults()
	if e.Config.Threads > 0 {
		h.Threads = e.Config.Threads
	}
	h.Seed = e.Config.Seed
	h.Log = e.Log
	return h
}

func (e *Env) threads() int {
	if e.Config.Threads > 0 {
		return e.Config.Threads
	}
	return learning.Defaults().Threads
}

// train runs the bounded training loop of j and returns the final evaluation
func (e *Env) train(ctx context.Context, j job, sc ScenarioConfig) trainer.Evaluation {
	threads := e.threads()
	evaluate := trainer.NewEvaluateFunc(j.samples, threads, j.predict)
	trainWorst := trainer.NewTrainWorstFunc(j.net, e.hyper(), func(worst int, tally *datasets.Tally) {
		parallel.ForEach(j.votes, threads, func(i int) {
			j.vote(worst, i, tally)
		})
	})
	var trained int
	counted := func(worst int) func() {
		if ctx.Err() != nil {
			return nil
		}
		undo := trainWorst(worst)
		if undo != nil {
			trained++
		}
		return undo
	}
	eval := trainer.Loop(j.net, trainer.LoopConfig{
		Rounds: sc.Rounds,
		Target: 1,
		Rand:   e.Rand(j.name),
		Log:    e.Log,
	}, evaluate, counted)
	e.Metrics.RecordTrained(j.name, trained)
	return eval
}

// feedforwardJob trains net on n samples with the classification loss
func feedforwardJob(name string, net feedforward.FeedforwardNetwork, n int,
	input func(i int) feedforward.FeedforwardNetworkInput, label func(i int) uint16) job {
	return job{
		name:  name,
		net:   net,
		votes: n,
		vote: func(worst, i int, tally *datasets.Tally) {
			net.Tally(input(i), label(i), worst, tally, feedforward.Mismatch)
		},
		samples: n,
		predict: func(i int) (uint16, uint16) {
			return net.Infer(input(i)), label(i)
		},
	}
}

// evaluate measures net on n samples
func (e *Env) evaluate(n int, predict func(i int) (uint16, uint16)) trainer.Evaluation {
	return trainer.NewEvaluateFunc(n, e.threads(), predict)()
}
