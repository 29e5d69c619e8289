package acoustic

import "math/rand"
import "testing"

import "github.com/stretchr/testify/assert"

func TestFrameNearPrototype(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for p := uint16(0); p < Phones; p++ {
		proto := Prototype(p)
		f := Frame(p, rng)
		for d := 0; d < Dims; d++ {
			a, b := int(proto>>uint(4*d))&15, int(f>>uint(4*d))&15
			assert.LessOrEqual(t, a-b, 1)
			assert.LessOrEqual(t, b-a, 1)
		}
	}
}

func TestSynthetic(t *testing.T) {
	us := Synthetic(5, 3, rand.New(rand.NewSource(2)))
	assert.Len(t, us, 5)
	for _, u := range us {
		assert.Equal(t, len(u.Frames), len(u.Phones))
		assert.GreaterOrEqual(t, len(u.Frames), 6)
		assert.LessOrEqual(t, len(u.Frames), 15)
	}
	frames, phones := Flatten(us)
	assert.Equal(t, len(frames), len(phones))
}
