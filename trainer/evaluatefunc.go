package trainer

import "github.com/neurlang/endtoend/parallel"

// Evaluation is the outcome of running the network over a dataset
type Evaluation struct {
	Correct int
	Total   int

	// State fingerprints every prediction, equal states mean equal behavior on the data
	State [32]byte
}

// Accuracy reports the share of correct predictions
func (e Evaluation) Accuracy() float64 {
	if e.Total == 0 {
		return 0
	}
	return float64(e.Correct) / float64(e.Total)
}

// Percent reports the accuracy in whole percents
func (e Evaluation) Percent() byte {
	return byte(100 * e.Correct / max(e.Total, 1))
}

// NewEvaluateFunc returns a function evaluating length samples on threads
// threads. testFunc predicts sample i and reports the expected output.
func NewEvaluateFunc(length, threads int, testFunc func(i int) (predicted, expected uint16)) func() Evaluation {
	return func() Evaluation {
		hsh := parallel.NewUint16Hasher(length)
		correct := make([]bool, length)
		parallel.ForEach(length, threads, func(i int) {
			predicted, expected := testFunc(i)
			hsh.MustPutUint16(i, predicted)
			correct[i] = predicted == expected
		})
		var e = Evaluation{Total: length, State: hsh.Sum()}
		for _, c := range correct {
			if c {
				e.Correct++
			}
		}
		return e
	}
}
