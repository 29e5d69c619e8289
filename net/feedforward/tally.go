package feedforward

import "github.com/neurlang/endtoend/datasets"

// Loss measures how far actual is from expected, zero means correct
type Loss func(actual, expected uint16) uint32

// Mismatch is the classification loss
func Mismatch(actual, expected uint16) uint32 {
	if actual == expected {
		return 0
	}
	return 1
}

// Distance is the absolute difference loss
func Distance(actual, expected uint16) uint32 {
	if actual >= expected {
		return uint32(actual - expected)
	}
	return uint32(expected - actual)
}

// Tally tallies the network on an input/output pair with respect to the
// to-be-trained worst hashtron. Output hashtrons get mapping votes, hidden
// hashtrons get votes for the bit which makes (or brings closer) the expected output.
func (f *FeedforwardNetwork) Tally(in FeedforwardNetworkInput, expected uint16, worst int, tally *datasets.Tally, loss Loss) {
	if loss == nil {
		loss = Mismatch
	}
	l := f.GetLayer(worst)
	if l < 0 {
		return
	}
	pos := f.GetPosition(worst)
	for prev := 0; prev < l; prev += 2 {
		in, _ = f.Forward(in, prev, -1, 0)
	}
	feat := f.feature(in, l, pos)
	if !f.hasCombiner(l) {
		tally.AddToMapping(feat, expected)
		return
	}

	var predicted [2]uint16
	var compute [2]int8
	for neg := 0; neg < 2; neg++ {
		inter, computed := f.Forward(in, l, pos, neg)
		if neg == 0 && inter.Disregard(pos) {
			return
		}
		if computed {
			compute[neg] = 1
		} else {
			compute[neg] = -1
		}
		var out FeedforwardNetworkInput = inter
		for post := l + 2; post < f.LenLayers(); post += 2 {
			out, _ = f.Forward(out, post, -1, 0)
		}
		predicted[neg] = uint16(out.Feature(0))
	}
	l0, l1 := loss(predicted[0], expected), loss(predicted[1], expected)
	switch {
	case l0 == l1:
		// the bit does not matter for this sample
	case l0 == 0:
		tally.AddToCorrect(feat, compute[0], false)
	case l1 == 0:
		tally.AddToCorrect(feat, compute[1], true)
	case l0 < l1:
		tally.AddToImprove(feat, compute[0])
	default:
		tally.AddToImprove(feat, compute[1])
	}
}
