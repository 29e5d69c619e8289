package feedforward

import "crypto/sha256"
import "encoding/json"
import "io"

import "github.com/klauspost/compress/zlib"
import "github.com/pkg/errors"

import "github.com/neurlang/endtoend/hashtron"

// WriteZlibWeights writes model weights as zlib compressed json
func (f FeedforwardNetwork) WriteZlibWeights(w io.Writer) error {
	zw := zlib.NewWriter(w)
	all := make([]*hashtron.Hashtron, f.Len())
	for i := range all {
		all[i] = f.GetHashtron(i)
	}
	if err := json.NewEncoder(zw).Encode(all); err != nil {
		zw.Close()
		return errors.Wrap(err, "encode weights")
	}
	return zw.Close()
}

// ReadZlibWeights reads model weights written by WriteZlibWeights into a network of the same shape
func (f FeedforwardNetwork) ReadZlibWeights(r io.Reader) error {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return errors.Wrap(err, "open weights")
	}
	defer zr.Close()
	var all []hashtron.Hashtron
	if err := json.NewDecoder(zr).Decode(&all); err != nil {
		return errors.Wrap(err, "decode weights")
	}
	if len(all) != f.Len() {
		return errors.Errorf("weights hold %d hashtrons, network has %d", len(all), f.Len())
	}
	for i := range all {
		*f.GetHashtron(i) = all[i]
	}
	return nil
}

// Digest fingerprints every hashtron of the network
func (f FeedforwardNetwork) Digest() (d [32]byte) {
	s := sha256.New()
	for i := 0; i < f.Len(); i++ {
		h := f.GetHashtron(i).Digest()
		s.Write(h[:])
	}
	copy(d[:], s.Sum(nil))
	return
}
