package trainer

import "go.uber.org/zap"

import "github.com/neurlang/endtoend/datasets"
import "github.com/neurlang/endtoend/learning"

// NewTrainWorstFunc returns a function which retrains hashtron worst from the votes
// cast by tallyFunc. It returns an undo function restoring the previous hashtron,
// or nil when nothing was changed.
func NewTrainWorstFunc(net Network, h learning.HyperParameters,
	tallyFunc func(worst int, tally *datasets.Tally)) func(worst int) (undo func()) {
	if h.Log == nil {
		h.Log = zap.NewNop()
	}
	return func(worst int) (undo func()) {
		ptr := net.GetHashtron(worst)
		if ptr == nil {
			return nil
		}

		var tally = datasets.NewTally()
		defer tally.Free()

		tallyFunc(worst, tally)

		if !tally.GetImprovementPossible() {
			return nil
		}

		dm := tally.Datamap()
		if len(dm) == 0 {
			return nil
		}

		h.Log.Debug("training hashtron", zap.Int("position", worst), zap.Int("job_size", len(dm)))

		params := h
		params.Bits = ptr.Bits()
		htron, err := params.Training(dm)
		if err != nil {
			h.Log.Warn("hashtron training failed", zap.Int("position", worst), zap.Error(err))
			return nil
		}
		if h.MaxLenQ > 0 && htron.LenQ() > h.MaxLenQ {
			h.Log.Debug("hashtron filter too large", zap.Int("position", worst),
				zap.Int("lenq", htron.LenQ()), zap.Int("previous_lenq", ptr.LenQ()))
			return nil
		}
		backup := *ptr
		*ptr = *htron

		return func() {
			*ptr = backup
		}
	}
}
