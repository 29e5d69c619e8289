package sequence

import "math/rand"
import "testing"

import "github.com/stretchr/testify/assert"

func TestLabel(t *testing.T) {
	assert.Equal(t, uint16(2), Label([]uint32{2, 2, 1, 7, 7, 7}))
	assert.Equal(t, uint16(1), Label([]uint32{3, 1}))
	assert.Equal(t, uint16(0), Label(nil))
}

func TestClassificationLengths(t *testing.T) {
	for _, s := range Classification(50, 3, 6, rand.New(rand.NewSource(1))) {
		assert.GreaterOrEqual(t, len(s.Tokens), 3)
		assert.LessOrEqual(t, len(s.Tokens), 6)
		assert.Equal(t, Label(s.Tokens), s.Label)
	}
}

func TestTranslate(t *testing.T) {
	assert.Equal(t, []uint16{Transliterate(3), Transliterate(2)}, Translate([]uint32{2, 3}))
	for s := uint32(0); s < Targets-2; s++ {
		tok := Transliterate(s)
		assert.GreaterOrEqual(t, tok, uint16(2))
		assert.Less(t, tok, uint16(Targets))
	}
	pairs := Translation(10, 2, 4, rand.New(rand.NewSource(1)))
	assert.Len(t, pairs, 10)
	assert.Equal(t, Translate(pairs[0].Source), pairs[0].Target)
}
