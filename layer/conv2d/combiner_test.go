package conv2d

import "testing"

import "github.com/stretchr/testify/assert"

func TestWindows(t *testing.T) {
	l := MustNew(4, 4, 2, 2, 1, 2)
	assert.Equal(t, 4, l.Outputs())
	c := l.Lay()
	c.Put(0, true)  // window 0 bit 0
	c.Put(5, true)  // window 0 bit 3
	c.Put(15, true) // window 3 bit 3
	assert.Equal(t, uint32(9), c.Feature(0))
	assert.Equal(t, uint32(0), c.Feature(1))
	assert.Equal(t, uint32(8), c.Feature(3))
}

func TestPlanes(t *testing.T) {
	l := MustNew(2, 2, 2, 2, 2, 1)
	assert.Equal(t, 2, l.Outputs())
	c := l.Lay()
	c.Put(4, true)
	assert.Equal(t, uint32(0), c.Feature(0))
	assert.Equal(t, uint32(1), c.Feature(1))
}

func TestDisregardOutsideWindows(t *testing.T) {
	c := MustNew(5, 5, 2, 2, 1, 2).Lay()
	assert.False(t, c.Disregard(0))
	assert.True(t, c.Disregard(4))
	assert.True(t, c.Disregard(20))
}

func TestNewErrors(t *testing.T) {
	_, err := New(2, 2, 3, 1, 1, 1)
	assert.Error(t, err)
	_, err = New(8, 8, 8, 8, 1, 1)
	assert.Error(t, err)
	_, err = New(4, 4, 2, 2, 1, 0)
	assert.Error(t, err)
}
