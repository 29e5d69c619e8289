package recurrent

import "crypto/sha256"
import "encoding/json"
import "io"

import "github.com/klauspost/compress/zlib"
import "github.com/pkg/errors"

import "github.com/neurlang/endtoend/hashtron"

type weightsJSON struct {
	Cells  []hashtron.Hashtron `json:"cells"`
	Output []hashtron.Hashtron `json:"output"`
	Window int                 `json:"window"`
}

// WriteZlibWeights writes model weights as zlib compressed json
func (n *Network) WriteZlibWeights(w io.Writer) error {
	zw := zlib.NewWriter(w)
	if err := json.NewEncoder(zw).Encode(weightsJSON{n.cells, n.output, n.window}); err != nil {
		zw.Close()
		return errors.Wrap(err, "encode weights")
	}
	return zw.Close()
}

// ReadZlibWeights reads model weights of a network with the same state width
func (n *Network) ReadZlibWeights(r io.Reader) error {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return errors.Wrap(err, "open weights")
	}
	defer zr.Close()
	var j weightsJSON
	if err := json.NewDecoder(zr).Decode(&j); err != nil {
		return errors.Wrap(err, "decode weights")
	}
	if len(j.Cells) != len(n.cells) || len(j.Output) != len(n.output) {
		return errors.Errorf("weights hold %d cells, network has %d", len(j.Cells), len(n.cells))
	}
	n.cells, n.output, n.window = j.Cells, j.Output, j.Window
	return nil
}

// Digest fingerprints every hashtron and the window
func (n *Network) Digest() (d [32]byte) {
	s := sha256.New()
	for i := 0; i < n.Len(); i++ {
		h := n.GetHashtron(i).Digest()
		s.Write(h[:])
	}
	s.Write([]byte{byte(n.window), byte(n.window >> 8)})
	copy(d[:], s.Sum(nil))
	return
}
