package cifar

import "math/rand"
import "testing"

import "github.com/stretchr/testify/assert"

func TestShapesDiffer(t *testing.T) {
	seen := make(map[Input]struct{})
	for c := byte(0); c < Classes; c++ {
		seen[Render(c, 16, 16, 8, palette[0])] = struct{}{}
	}
	assert.Len(t, seen, Classes)
}

func TestSynthetic(t *testing.T) {
	a := Synthetic(10, rand.New(rand.NewSource(3)))
	b := Synthetic(10, rand.New(rand.NewSource(3)))
	assert.Equal(t, a, b)
	for _, l := range a.Labels {
		assert.Less(t, l, byte(Classes))
	}
}

func TestFeatures(t *testing.T) {
	img := Render(0, 16, 16, 8, palette[0])
	var empty Input
	assert.NotEqual(t, empty.Feature(5), img.Feature(5))
	// quadrant colour tells palettes apart
	red := Render(0, 8, 8, 2, palette[0])
	green := Render(0, 8, 8, 2, palette[1])
	assert.NotEqual(t, red.Feature(Cells*Cells), green.Feature(Cells*Cells))
	assert.Equal(t, img.Feature(3), img.Feature(3+Cells*Cells+Shortcuts))
}
