package endtoend

import "context"
import "time"

import "github.com/neurlang/endtoend/datasets"
import "github.com/neurlang/endtoend/datasets/acoustic"
import "github.com/neurlang/endtoend/datasets/sequence"
import "github.com/neurlang/endtoend/net/recurrent"

const stateBits = 24

// TrainLSTMSequenceClassifier trains a recurrent classifier of whole sequences
func TrainLSTMSequenceClassifier(ctx context.Context, env *Env) error {
	sc := env.Config.Scenario(LSTMSequenceClassifier)
	start := time.Now()
	rng := env.Rand(LSTMSequenceClassifier)
	train := sequence.Classification(sc.Samples, 3, 10, rng)
	infer := sequence.Classification(sc.Samples/4, 3, 10, rng)

	net := recurrent.MustNew(stateBits, 2, 0)
	predict := func(set []sequence.Labelled) func(i int) (uint16, uint16) {
		return func(i int) (uint16, uint16) { return net.Classify(set[i].Tokens), set[i].Label }
	}
	trained := env.train(ctx, job{
		name:  LSTMSequenceClassifier,
		net:   net,
		votes: len(train),
		vote: func(_, i int, tally *datasets.Tally) {
			net.TallySequence(train[i].Tokens, train[i].Label, tally)
		},
		samples: len(train),
		predict: predict(train),
	}, sc)
	tested := env.evaluate(len(infer), predict(infer))

	env.printResults(LSTMSequenceClassifier, time.Since(start), sc.Threshold,
		Split{"train", trained}, Split{"infer", tested})
	return check(LSTMSequenceClassifier, sc.Threshold, trained)
}

// TrainSequenceToSequenceTranslator trains an encoder decoder which reverses
// and transliterates its input, a sample is correct when the whole greedy
// decoding matches
func TrainSequenceToSequenceTranslator(ctx context.Context, env *Env) error {
	sc := env.Config.Scenario(SequenceToSequence)
	start := time.Now()
	rng := env.Rand(SequenceToSequence)
	train := sequence.Translation(sc.Samples, 2, 6, rng)
	infer := sequence.Translation(sc.Samples/4, 2, 6, rng)

	net := recurrent.MustNew(stateBits, 4, 0)
	predict := func(set []sequence.Pair) func(i int) (uint16, uint16) {
		return func(i int) (uint16, uint16) {
			got := net.Decode(set[i].Source, sequence.BOS, sequence.EOS, len(set[i].Source)+2)
			if equal(got, set[i].Target) {
				return 1, 1
			}
			return 0, 1
		}
	}
	trained := env.train(ctx, job{
		name:  SequenceToSequence,
		net:   net,
		votes: len(train),
		vote: func(_, i int, tally *datasets.Tally) {
			net.TallyTranslation(train[i].Source, train[i].Target, sequence.BOS, sequence.EOS, tally)
		},
		samples: len(train),
		predict: predict(train),
	}, sc)
	tested := env.evaluate(len(infer), predict(infer))

	env.printResults(SequenceToSequence, time.Since(start), sc.Threshold,
		Split{"train", trained}, Split{"infer", tested})
	return check(SequenceToSequence, sc.Threshold, trained)
}

func equal(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// truncation is the number of frames the acoustic model looks back
const truncation = 4

type frameRef struct {
	utterance, frame int
}

func frames(us []acoustic.Utterance) (refs []frameRef) {
	for u := range us {
		for t := range us[u].Frames {
			refs = append(refs, frameRef{u, t})
		}
	}
	return
}

// TrainTruncatedLSTMAcousticModelClassifier trains a per frame phone classifier
// whose state only covers the last frames
func TrainTruncatedLSTMAcousticModelClassifier(ctx context.Context, env *Env) error {
	sc := env.Config.Scenario(TruncatedLSTMAcousticModel)
	start := time.Now()
	rng := env.Rand(TruncatedLSTMAcousticModel)
	train := acoustic.Synthetic(sc.Samples, 5, rng)
	infer := acoustic.Synthetic(max(sc.Samples/4, 1), 5, rng)

	net := recurrent.MustNew(stateBits, 3, truncation)
	predict := func(us []acoustic.Utterance) func(i int) (uint16, uint16) {
		refs := frames(us)
		return func(i int) (uint16, uint16) {
			u := us[refs[i].utterance]
			return net.Infer(net.Frame(u.Frames, refs[i].frame)), u.Phones[refs[i].frame]
		}
	}
	trained := env.train(ctx, job{
		name:  TruncatedLSTMAcousticModel,
		net:   net,
		votes: len(train),
		vote: func(_, i int, tally *datasets.Tally) {
			net.TallyFrames(train[i].Frames, train[i].Phones, tally)
		},
		samples: len(frames(train)),
		predict: predict(train),
	}, sc)
	tested := env.evaluate(len(frames(infer)), predict(infer))

	env.printResults(TruncatedLSTMAcousticModel, time.Since(start), sc.Threshold,
		Split{"train", trained}, Split{"infer", tested})
	return check(TruncatedLSTMAcousticModel, sc.Threshold, trained)
}
