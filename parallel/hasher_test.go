package parallel

import "testing"

import "github.com/stretchr/testify/assert"

func TestHasherOrderIndependent(t *testing.T) {
	a := NewUint16Hasher(100)
	for n := 0; n < 100; n++ {
		a.MustPutUint16(n, uint16(n*3))
	}
	b := NewUint16Hasher(100)
	ForEach(100, 8, func(n int) {
		b.MustPutUint16(99-n, uint16((99-n)*3))
	})
	assert.Equal(t, a.Sum(), b.Sum())

	c := NewUint16Hasher(100)
	c.MustPutUint16(5, 1)
	assert.NotEqual(t, a.Sum(), c.Sum())
}

func TestHasherDuplicatePanics(t *testing.T) {
	h := NewUint16Hasher(2)
	h.MustPutUint16(1, 1)
	assert.Panics(t, func() { h.MustPutUint16(1, 2) })
}
