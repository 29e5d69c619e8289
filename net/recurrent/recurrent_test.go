package recurrent

import "bytes"
import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/endtoend/datasets"
import "github.com/neurlang/endtoend/learning"

func train(t *testing.T, n *Network, tally *datasets.Tally, bits byte) {
	h := learning.Defaults()
	h.Bits = bits
	out, err := h.Training(tally.Datamap())
	require.NoError(t, err)
	*n.GetHashtron(n.Len() - 1) = *out
}

func TestNewValidates(t *testing.T) {
	_, err := New(0, 1, 0)
	assert.Error(t, err)
	_, err = New(33, 1, 0)
	assert.Error(t, err)
	_, err = New(8, 1, -1)
	assert.Error(t, err)
	n := MustNew(8, 2, 0)
	assert.Equal(t, 9, n.Len())
	hidden, output := n.Sequence()
	assert.Empty(t, hidden)
	assert.Equal(t, []int{8}, output)
}

func TestWindowForgets(t *testing.T) {
	n := MustNew(24, 1, 2)
	a := []uint32{1, 2, 3, 4}
	b := []uint32{9, 9, 3, 4}
	assert.Equal(t, n.Fold(a), n.Fold(b))
	assert.NotEqual(t, n.Frame(a, 1), n.Frame(b, 1))

	full := MustNew(24, 1, 0)
	assert.NotEqual(t, full.Fold(a), full.Fold(b))
}

func TestClassifierMemorizes(t *testing.T) {
	n := MustNew(24, 2, 0)
	tally := datasets.NewTally()
	var seqs [][]uint32
	for i := 0; i < 100; i++ {
		seq := []uint32{uint32(i), uint32(i * 3), uint32(i * 7 % 11)}
		seqs = append(seqs, seq)
		n.TallySequence(seq, uint16(i%4), tally)
	}
	train(t, n, tally, 2)
	for i, seq := range seqs {
		assert.Equal(t, uint16(i%4), n.Classify(seq))
	}
}

func TestDecoderMemorizes(t *testing.T) {
	const bos, eos = 0, 1
	n := MustNew(24, 4, 0)
	tally := datasets.NewTally()
	srcs := [][]uint32{{2, 3, 4}, {4, 3, 2}, {5, 5}}
	dsts := [][]uint16{{4, 3, 2}, {2, 3, 4}, {5}}
	for i := range srcs {
		n.TallyTranslation(srcs[i], dsts[i], bos, eos, tally)
	}
	train(t, n, tally, 4)
	for i := range srcs {
		assert.Equal(t, dsts[i], n.Decode(srcs[i], bos, eos, 8))
	}
}

func TestWeightsRoundtrip(t *testing.T) {
	n := MustNew(8, 3, 5)
	var buf bytes.Buffer
	require.NoError(t, n.WriteZlibWeights(&buf))
	m := MustNew(8, 3, 0)
	require.NoError(t, m.ReadZlibWeights(&buf))
	assert.Equal(t, n.Digest(), m.Digest())
	assert.Equal(t, 5, m.Window())

	buf.Reset()
	require.NoError(t, n.WriteZlibWeights(&buf))
	assert.Error(t, MustNew(9, 3, 0).ReadZlibWeights(&buf))
}
