package datasets

import "sort"
import "sync"

// Tally is used to count votes on dataset features and return the majority votes
type Tally struct {
	// multiway votes, each feature has a map of possible outputs with number of votes
	mapping map[uint32]map[uint16]uint64

	// votes in case the feature caused correct overall result,
	// true is +1, false is -1, the sign of the sum decides
	correct map[uint32]int64

	// votes in case the feature caused better result, overridden by correct
	improve map[uint32]int64

	mut sync.Mutex

	improvementPossible bool
}

// NewTally creates an initialized tally
func NewTally() *Tally {
	t := new(Tally)
	t.Init()
	return t
}

// Init initializes the tally structure
func (t *Tally) Init() {
	t.mapping = make(map[uint32]map[uint16]uint64)
	t.correct = make(map[uint32]int64)
	t.improve = make(map[uint32]int64)
	t.improvementPossible = false
}

// Free frees the memory occupied by the tally
func (t *Tally) Free() {
	t.mapping = nil
	t.correct = nil
	t.improve = nil
}

// GetImprovementPossible reports whether any vote could change the trained hashtron
func (t *Tally) GetImprovementPossible() bool {
	t.mut.Lock()
	defer t.mut.Unlock()
	return t.improvementPossible
}

// Len estimates the size of tally
func (t *Tally) Len() (o int) {
	t.mut.Lock()
	defer t.mut.Unlock()
	if len(t.mapping) != 0 {
		return len(t.mapping)
	}
	return len(t.correct) + len(t.improve)
}

// AddToImprove votes for a feature value which improved the overall result
func (t *Tally) AddToImprove(feature uint32, vote int8) {
	if vote == 0 {
		return
	}
	t.mut.Lock()
	t.improve[feature] += int64(vote)
	if t.improve[feature] == 0 {
		delete(t.improve, feature)
	}
	t.improvementPossible = true
	t.mut.Unlock()
}

// AddToCorrect votes for a feature value which made the overall result correct
func (t *Tally) AddToCorrect(feature uint32, vote int8, improvement bool) {
	if vote == 0 {
		return
	}
	t.mut.Lock()
	t.correct[feature] += int64(vote)
	if t.correct[feature] == 0 {
		delete(t.correct, feature)
	}
	if improvement {
		t.improvementPossible = true
	}
	t.mut.Unlock()
}

// AddToMapping votes for feature to produce output
func (t *Tally) AddToMapping(feature uint32, output uint16) {
	t.mut.Lock()
	if t.mapping[feature] == nil {
		t.mapping[feature] = make(map[uint16]uint64)
	}
	t.mapping[feature][output]++
	t.improvementPossible = true
	t.mut.Unlock()
}

// Datamap resolves the votes into the majority value of every feature.
// Ties go to the smaller value, so the result does not depend on map order.
func (t *Tally) Datamap() Datamap {
	t.mut.Lock()
	defer t.mut.Unlock()
	if len(t.mapping) > 0 {
		out := make(Datamap, len(t.mapping))
		for k, freq := range t.mapping {
			var best uint16
			var bestVotes uint64
			for v, n := range freq {
				if n > bestVotes || (n == bestVotes && v < best) {
					best, bestVotes = v, n
				}
			}
			out[k] = best
		}
		return out
	}
	set := make(Dataset, len(t.correct)+len(t.improve))
	for value, rating := range t.improve {
		set[value] = rating > 0
	}
	for value, rating := range t.correct {
		set[value] = rating > 0
	}
	return set.Datamap()
}

// Vote is one entry of a tally snapshot
type Vote struct {
	Feature uint32 `json:"f"`
	Output  uint16 `json:"o,omitempty"`
	Count   int64  `json:"c"`
	Kind    byte   `json:"k"`
}

const (
	voteMapping byte = iota
	voteCorrect
	voteImprove
)

// Snapshot exports the votes in a deterministic order, for merging tallies
// computed by different workers.
func (t *Tally) Snapshot() (votes []Vote) {
	t.mut.Lock()
	for f, freq := range t.mapping {
		for o, n := range freq {
			votes = append(votes, Vote{Feature: f, Output: o, Count: int64(n), Kind: voteMapping})
		}
	}
	for f, n := range t.correct {
		votes = append(votes, Vote{Feature: f, Count: n, Kind: voteCorrect})
	}
	for f, n := range t.improve {
		votes = append(votes, Vote{Feature: f, Count: n, Kind: voteImprove})
	}
	t.mut.Unlock()
	sort.Slice(votes, func(i, j int) bool {
		a, b := votes[i], votes[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Feature != b.Feature {
			return a.Feature < b.Feature
		}
		return a.Output < b.Output
	})
	return
}

// Merge adds the votes of a snapshot
func (t *Tally) Merge(votes []Vote) {
	t.mut.Lock()
	defer t.mut.Unlock()
	for _, v := range votes {
		switch v.Kind {
		case voteMapping:
			if t.mapping[v.Feature] == nil {
				t.mapping[v.Feature] = make(map[uint16]uint64)
			}
			t.mapping[v.Feature][v.Output] += uint64(v.Count)
		case voteCorrect:
			t.correct[v.Feature] += v.Count
		case voteImprove:
			t.improve[v.Feature] += v.Count
		}
		t.improvementPossible = true
	}
}
