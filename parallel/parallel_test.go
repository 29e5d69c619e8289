package parallel

import "sync/atomic"
import "testing"

import "github.com/stretchr/testify/assert"

func TestForEachVisitsAll(t *testing.T) {
	var seen [100]atomic.Int32
	ForEach(len(seen), 7, func(i int) {
		seen[i].Add(1)
	})
	for i := range seen {
		assert.Equal(t, int32(1), seen[i].Load(), "index %d", i)
	}
	ForEach(0, 0, func(int) { t.Fatal("called") })
}

func TestLoopUntilStops(t *testing.T) {
	var calls atomic.Int32
	found := Loop(4).LoopUntil(1000, func(i uint32, ender LoopStopper) bool {
		calls.Add(1)
		return i == 10
	})
	assert.True(t, found)
	assert.Less(t, calls.Load(), int32(1000))
}

func TestLoopUntilExhausts(t *testing.T) {
	var calls atomic.Int32
	found := Loop(3).LoopUntil(50, func(i uint32, ender LoopStopper) bool {
		calls.Add(1)
		return false
	})
	assert.False(t, found)
	assert.Equal(t, int32(50), calls.Load())
}

func TestMoveSetLevels(t *testing.T) {
	m := NewMoveSet()
	var state [32]byte
	m.Insert(state, 3, 1)
	assert.True(t, m.Exists(state, 3, 1))
	assert.False(t, m.Exists(state, 4, 1))
	assert.False(t, m.Exists(state, 3, 2))
	m.Insert(state, 4, 2)
	assert.False(t, m.Exists(state, 3, 2))
	assert.True(t, m.Exists(state, 4, 2))
}
