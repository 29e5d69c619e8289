// Package mnist provides the handwritten digit dataset. The real idx files are
// used when present, otherwise synthetic seven segment glyphs are rendered.
package mnist

import "bytes"
import "crypto/sha256"
import "fmt"
import "io"
import "math/rand"
import "os"
import "path/filepath"

import "github.com/klauspost/compress/gzip"
import "github.com/pkg/errors"

import "github.com/neurlang/endtoend/hash"

const inferSetImg = "t10k-images-idx3-ubyte.gz"
const inferSetVal = "t10k-labels-idx1-ubyte.gz"
const trainSetImg = "train-images-idx3-ubyte.gz"
const trainSetVal = "train-labels-idx1-ubyte.gz"
const inferDigImg = "8d422c7b0a1c1c79245a5bcf07fe86e33eeafee792b84584aec276f5a2dbc4e6"
const inferDigVal = "f7ae60f92e00ec6debd23a6088c31dbd2371eca3ffa0defaefb259924204aec6"
const trainDigImg = "440fcabf73cc546fa21475e81ea370265605f56be210a4024d2ca8f203523609"
const trainDigVal = "3552534a0a558bbed6aed32b30c495cca23d567ec52cac8be1a0730e8010255c"

// ErrNotFound is returned by Load when the idx files are not in the directory
var ErrNotFound = errors.New("mnist dataset not found")

// ImgSize is the width and height of an image
const ImgSize = 28

// Patch geometry: a Grid x Grid grid of Patch x Patch windows, Stride apart
const (
	Patch  = 7
	Stride = 3
	Grid   = (ImgSize-Patch)/Stride + 1
)

// Classes is the number of digits
const Classes = 10

// Input is one grayscale image
type Input [ImgSize * ImgSize]byte

// Feature returns the binarized patch n of the Grid x Grid patch grid
func (i *Input) Feature(n int) uint32 {
	n %= Grid * Grid
	x0, y0 := (n%Grid)*Stride, (n/Grid)*Stride
	var lo, hi uint32
	var bit uint
	for y := 0; y < Patch; y++ {
		for x := 0; x < Patch; x++ {
			if i[(y0+y)*ImgSize+x0+x] >= 128 {
				if bit < 32 {
					lo |= 1 << bit
				} else {
					hi |= 1 << (bit - 32)
				}
			}
			bit++
		}
	}
	return hash.Combine(lo, hi, uint32(n))
}

// Set is a labelled set of images
type Set struct {
	Images []Input
	Labels []byte
}

// Len returns the number of samples
func (s Set) Len() int {
	return len(s.Labels)
}

// Head returns the first n samples
func (s Set) Head(n int) Set {
	if n <= 0 || n >= s.Len() {
		return s
	}
	return Set{Images: s.Images[:n], Labels: s.Labels[:n]}
}

// Shuffle shuffles the set
func (s Set) Shuffle(rng *rand.Rand) {
	rng.Shuffle(s.Len(), func(i, j int) {
		s.Labels[i], s.Labels[j] = s.Labels[j], s.Labels[i]
		s.Images[i], s.Images[j] = s.Images[j], s.Images[i]
	})
}

// Load reads the train and infer sets from the gzipped idx files in dir
func Load(dir string) (train, infer Set, err error) {
	var files = []struct {
		name, digest string
		images       bool
		set          *Set
	}{
		{trainSetImg, trainDigImg, true, &train},
		{trainSetVal, trainDigVal, false, &train},
		{inferSetImg, inferDigImg, true, &infer},
		{inferSetVal, inferDigVal, false, &infer},
	}
	for _, f := range files {
		name := filepath.Join(dir, f.name)
		data, err := os.ReadFile(name)
		if os.IsNotExist(err) {
			return train, infer, errors.Wrapf(ErrNotFound, "file '%s' does not exist", name)
		} else if err != nil {
			return train, infer, errors.Wrapf(err, "read '%s'", name)
		}
		if fmt.Sprintf("%x", sha256.Sum256(data)) != f.digest {
			return train, infer, errors.Errorf("file hash for file '%s' is incorrect", name)
		}
		raw, err := gunzip(data)
		if err != nil {
			return train, infer, errors.Wrapf(err, "gzip file '%s'", name)
		}
		if f.images {
			f.set.Images, err = parseImages(raw)
		} else {
			f.set.Labels, err = parseLabels(raw)
		}
		if err != nil {
			return train, infer, errors.Wrapf(err, "parse '%s'", name)
		}
	}
	if len(train.Images) != len(train.Labels) || len(infer.Images) != len(infer.Labels) {
		return train, infer, errors.New("mnist images and labels differ in count")
	}
	return train, infer, nil
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func parseImages(raw []byte) ([]Input, error) {
	if len(raw) < 16 {
		return nil, errors.New("short image header")
	}
	// skip header
	raw = raw[16:]
	set := make([]Input, len(raw)/(ImgSize*ImgSize))
	for i := range set {
		copy(set[i][:], raw[i*ImgSize*ImgSize:])
	}
	return set, nil
}

func parseLabels(raw []byte) ([]byte, error) {
	if len(raw) < 8 {
		return nil, errors.New("short label header")
	}
	// skip header
	return raw[8:], nil
}
