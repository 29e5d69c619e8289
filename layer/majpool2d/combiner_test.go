package majpool2d

import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func TestMajority(t *testing.T) {
	l := MustNew(2, 1, 3, 1, 1)
	require.Equal(t, 6, l.Inputs())
	c := l.Lay()
	c.Put(0, true)
	c.Put(1, true)
	c.Put(5, true)
	assert.Equal(t, uint32(1), c.Feature(0))
	c.Put(3, true)
	assert.Equal(t, uint32(3), c.Feature(0))
}

func TestDisregard(t *testing.T) {
	c := MustNew(1, 1, 2, 2, 1).Lay()
	c.Put(0, true)
	c.Put(1, true)
	c.Put(2, true)
	assert.True(t, c.Disregard(3), "three votes for true decide the block")

	c = MustNew(1, 1, 2, 2, 1).Lay()
	c.Put(0, true)
	c.Put(1, true)
	assert.False(t, c.Disregard(3), "bit 3 breaks the tie")
}

func TestRepeat(t *testing.T) {
	l := MustNew(1, 1, 1, 1, 3)
	c := l.Lay()
	c.Put(2, true)
	assert.Equal(t, uint32(0), c.Feature(0))
	assert.Equal(t, uint32(1), c.Feature(2))
	assert.Equal(t, 3, l.Outputs())
}

func TestNewRejectsWideOutput(t *testing.T) {
	_, err := New(8, 8, 1, 1, 1)
	assert.Error(t, err)
	assert.Panics(t, func() { MustNew(0, 1, 1, 1, 1) })
}
