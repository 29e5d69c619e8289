package recurrent

import "github.com/neurlang/endtoend/datasets"
import "github.com/neurlang/endtoend/hash"

// DecoderFeature conditions the next token on the encoder state, the previous
// token and the output position
func DecoderFeature(state uint32, prev uint16, pos int) uint32 {
	return hash.Combine(state, uint32(prev), uint32(pos))
}

// Decode greedily emits tokens for the encoded src until eos or limit tokens.
// The eos token is not part of the result.
func (n *Network) Decode(src []uint32, bos, eos uint16, limit int) (out []uint16) {
	state := n.Fold(src)
	prev := bos
	for pos := 0; pos < limit; pos++ {
		tok := n.Infer(DecoderFeature(state, prev, pos))
		if tok == eos {
			return
		}
		out = append(out, tok)
		prev = tok
	}
	return
}

// TallySequence votes for label on the folded seq
func (n *Network) TallySequence(seq []uint32, label uint16, tally *datasets.Tally) {
	tally.AddToMapping(n.Fold(seq), label)
}

// TallyFrames votes for each frame label
func (n *Network) TallyFrames(seq []uint32, labels []uint16, tally *datasets.Tally) {
	for t := range seq {
		if t < len(labels) {
			tally.AddToMapping(n.Frame(seq, t), labels[t])
		}
	}
}

// TallyTranslation votes for dst followed by eos, each step conditioned on
// the previous token of dst
func (n *Network) TallyTranslation(src []uint32, dst []uint16, bos, eos uint16, tally *datasets.Tally) {
	state := n.Fold(src)
	prev := bos
	for pos := 0; pos <= len(dst); pos++ {
		next := eos
		if pos < len(dst) {
			next = dst[pos]
		}
		tally.AddToMapping(DecoderFeature(state, prev, pos), next)
		prev = next
	}
}
