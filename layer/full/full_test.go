package full

import "testing"

import "github.com/stretchr/testify/assert"

func TestFullPacks(t *testing.T) {
	l := MustNew(10, 4)
	assert.Equal(t, 3, l.Outputs())
	c := l.Lay()
	c.Put(0, true)
	c.Put(5, true)
	c.Put(9, true)
	assert.Equal(t, uint32(1), c.Feature(0))
	assert.Equal(t, uint32(2), c.Feature(1))
	assert.Equal(t, uint32(2), c.Feature(2))
	_, err := New(10, 33)
	assert.Error(t, err)
}
