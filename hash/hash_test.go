package hash

import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func BenchmarkHash(b *testing.B) {
	n := uint32(0)
	for i := 0; i < b.N; i++ {
		n = Hash(n, uint32(i), 1<<20)
	}
}

func TestHashRange(t *testing.T) {
	for _, max := range []uint32{1, 2, 3, 7, 1000, 1 << 31} {
		for n := uint32(0); n < 5000; n++ {
			require.Less(t, Hash(n, n*7, max), max)
		}
	}
	assert.Zero(t, Hash(12345, 678, 0))
}

// loop length sanity check, higher count is better
func TestHashCycles(t *testing.T) {
	var count uint64
	for max := uint32(2); max <= 1<<16; max <<= 1 {
		var visited = make([]bool, max)
		var current uint32
		for s := uint32(0); s < 2000; s++ {
			current = Hash(current, s, max)
			if current == 0 || visited[current] {
				visited = make([]bool, max)
				continue
			}
			visited[current] = true
			count++
		}
	}
	assert.Greater(t, count, uint64(1000))
}

func TestBatchMatchesHash(t *testing.T) {
	in := make([]uint32, 37)
	for i := range in {
		in[i] = uint32(i * 31337)
	}
	out := make([]uint32, len(in))
	Batch(out, in, 99, 1021)
	for i := range in {
		assert.Equal(t, Hash(in[i], 99, 1021), out[i], "index %d", i)
	}
	assert.NotZero(t, BatchParallelism())
}

func TestCombineOrderDependent(t *testing.T) {
	assert.NotEqual(t, Combine(1, 2, 3), Combine(3, 2, 1))
	assert.Equal(t, Combine(1, 2, 3), Combine(1, 2, 3))
}

func FuzzHash(f *testing.F) {
	f.Add(uint32(0), uint32(0), uint32(0))
	f.Fuzz(func(t *testing.T, n, s, max uint32) {
		out := Hash(n, s, max)
		if max == 0 && out != 0 {
			t.Errorf("Hash(%d, %d, 0) == %d", n, s, out)
		}
		if max > 0 && out >= max {
			t.Errorf("Hash(%d, %d, %d) == %d out of range", n, s, max, out)
		}
	})
}
