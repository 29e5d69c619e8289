package mnist

import "bytes"
import "math/rand"
import "os"
import "path/filepath"
import "testing"

import "github.com/klauspost/compress/gzip"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func TestRenderDistinguishesDigits(t *testing.T) {
	seen := make(map[Input]byte)
	for d := byte(0); d < Classes; d++ {
		img := Render(d, 0, 0, 2)
		_, dup := seen[img]
		assert.False(t, dup, "digit %d", d)
		seen[img] = d
	}
}

func TestSyntheticDeterministic(t *testing.T) {
	a := Synthetic(20, rand.New(rand.NewSource(5)))
	b := Synthetic(20, rand.New(rand.NewSource(5)))
	assert.Equal(t, a, b)
	assert.Equal(t, 20, a.Len())
	assert.Equal(t, 5, a.Head(5).Len())
	assert.Equal(t, 20, a.Head(50).Len())
}

func TestFeatureDependsOnPatch(t *testing.T) {
	var img Input
	f := img.Feature(0)
	img[0] = 255
	assert.NotEqual(t, f, img.Feature(0))
	assert.Equal(t, img.Feature(Grid*Grid-1), img.Feature(-1+Grid*Grid*2))
}

func TestLoadMissing(t *testing.T) {
	_, _, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrNotFound)

	train, _, synthetic := LoadOrSynthetic(t.TempDir(), 10, 5, rand.New(rand.NewSource(1)))
	assert.True(t, synthetic)
	assert.Equal(t, 10, train.Len())
}

func TestLoadRejectsWrongDigest(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write(make([]byte, 16))
	require.NoError(t, zw.Close())
	for _, name := range []string{trainSetImg, trainSetVal, inferSetImg, inferSetVal} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644))
	}
	_, _, err := Load(dir)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestParse(t *testing.T) {
	raw := make([]byte, 16+2*ImgSize*ImgSize)
	raw[16] = 7
	imgs, err := parseImages(raw)
	require.NoError(t, err)
	assert.Len(t, imgs, 2)
	assert.Equal(t, byte(7), imgs[0][0])
	_, err = parseLabels([]byte{1})
	assert.Error(t, err)
}
