package trainer

import "fmt"
import "math/rand"

import "go.uber.org/zap"

import "github.com/neurlang/endtoend/parallel"

// LoopConfig bounds the training loop
type LoopConfig struct {
	// Rounds is the maximum number of passes over all hashtrons
	Rounds int

	// Target stops training once reached, in the range 0..1
	Target float64

	// Rand orders the hidden hashtrons of every round
	Rand *rand.Rand

	Log *zap.Logger
}

// Loop trains the network hashtron by hashtron. Each round trains the output
// hashtrons, the hidden hashtrons in random order, then the outputs again.
// A change is kept when it does not reduce the number of correct predictions.
// Loop returns the final evaluation once the target is reached, the round
// budget is exhausted or a whole round changed nothing.
func Loop(net Network, cfg LoopConfig, evaluate func() Evaluation, trainWorst func(worst int) (undo func())) Evaluation {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(1))
	}
	if cfg.Rounds <= 0 {
		cfg.Rounds = 1
	}

	var m = parallel.NewMoveSet()
	var best = evaluate()
	cfg.Log.Debug("initial evaluation", zap.Float64("accuracy", best.Accuracy()), zap.String("state", fmt.Sprintf("%x", best.State[:8])))

	for round := 0; round < cfg.Rounds; round++ {
		if best.Accuracy() >= cfg.Target && cfg.Target > 0 {
			break
		}
		hidden, output := net.Sequence()
		shuf := append([]int(nil), hidden...)
		cfg.Rand.Shuffle(len(shuf), func(i, j int) { shuf[i], shuf[j] = shuf[j], shuf[i] })
		order := append(append(append([]int(nil), output...), shuf...), output...)

		var accepted int
		for _, worst := range order {
			if m.Exists(best.State, worst, best.Percent()) {
				continue
			}
			undo := trainWorst(worst)
			if undo == nil {
				m.Insert(best.State, worst, best.Percent())
				continue
			}
			this := evaluate()
			if this.Correct < best.Correct || this.State == best.State {
				undo()
				m.Insert(best.State, worst, best.Percent())
				continue
			}
			best = this
			accepted++
			m.Insert(best.State, worst, best.Percent())
			cfg.Log.Debug("hashtron accepted",
				zap.Int("round", round),
				zap.Int("position", worst),
				zap.Float64("accuracy", best.Accuracy()))
			if cfg.Target > 0 && best.Accuracy() >= cfg.Target {
				break
			}
		}
		cfg.Log.Info("training round done",
			zap.Int("round", round),
			zap.Int("accepted", accepted),
			zap.Float64("accuracy", best.Accuracy()))
		if accepted == 0 {
			break
		}
	}
	if ce := cfg.Log.Check(zap.DebugLevel, "learned output values"); ce != nil {
		counts, err := ValueCounts(net)
		if err != nil {
			cfg.Log.Debug("learned output values not inspected", zap.Error(err))
		} else {
			ce.Write(zap.Any("counts", counts))
		}
	}
	return best
}
