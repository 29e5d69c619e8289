package trainer

import "bytes"
import "encoding/hex"
import "encoding/json"
import "io"
import "os"

import "github.com/klauspost/compress/zlib"
import "github.com/pkg/errors"

// CheckpointVersion is written to every checkpoint, other versions are rejected
const CheckpointVersion = 1

// ErrCheckpointVersion is returned for checkpoints of an unknown version
var ErrCheckpointVersion = errors.New("unsupported checkpoint version")

// WorkerState is the per worker progress stored in a checkpoint
type WorkerState struct {
	Rank    int `json:"rank"`
	Samples int `json:"samples"`
	Correct int `json:"correct"`

	// Digest is the hex model digest the worker held at save time
	Digest string `json:"digest"`
}

// Checkpoint is the trainer state persisted next to the weights
type Checkpoint struct {
	Version  int           `json:"version"`
	JobID    string        `json:"job_id,omitempty"`
	Step     int           `json:"step"`
	Accuracy float64       `json:"accuracy"`
	Workers  []WorkerState `json:"workers,omitempty"`
	Weights  []byte        `json:"weights"`
}

// DigestString formats a model digest the way WorkerState stores it
func DigestString(d [32]byte) string {
	return hex.EncodeToString(d[:])
}

// Worker finds the state saved for rank
func (c *Checkpoint) Worker(rank int) (WorkerState, bool) {
	for _, w := range c.Workers {
		if w.Rank == rank {
			return w, true
		}
	}
	return WorkerState{}, false
}

// Save writes the checkpoint with the current weights of net as zlib compressed json
func Save(w io.Writer, net Network, c Checkpoint) error {
	var weights bytes.Buffer
	if err := net.WriteZlibWeights(&weights); err != nil {
		return errors.Wrap(err, "save checkpoint")
	}
	c.Version = CheckpointVersion
	c.Weights = weights.Bytes()

	zw := zlib.NewWriter(w)
	if err := json.NewEncoder(zw).Encode(c); err != nil {
		zw.Close()
		return errors.Wrap(err, "save checkpoint")
	}
	return zw.Close()
}

// Load reads a checkpoint and restores its weights into net
func Load(r io.Reader, net Network) (c Checkpoint, err error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return c, errors.Wrap(err, "load checkpoint")
	}
	defer zr.Close()
	if err = json.NewDecoder(zr).Decode(&c); err != nil {
		return c, errors.Wrap(err, "load checkpoint")
	}
	if c.Version != CheckpointVersion {
		return c, errors.Wrapf(ErrCheckpointVersion, "version %d", c.Version)
	}
	if err = net.ReadZlibWeights(bytes.NewReader(c.Weights)); err != nil {
		return c, errors.Wrap(err, "load checkpoint")
	}
	return c, nil
}

// SaveFile writes the checkpoint to name through a temporary file
func SaveFile(name string, net Network, c Checkpoint) error {
	tmp := name + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(err, "save checkpoint")
	}
	err = Save(file, net, c)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, name)
}

// LoadFile reads the checkpoint stored in name
func LoadFile(name string, net Network) (Checkpoint, error) {
	file, err := os.Open(name)
	if err != nil {
		return Checkpoint{}, errors.Wrap(err, "load checkpoint")
	}
	defer file.Close()
	return Load(file, net)
}

// Resume loads the checkpoint in name when it exists. A missing file is not an error.
func Resume(name string, net Network) (c Checkpoint, resumed bool, err error) {
	if name == "" {
		return c, false, nil
	}
	if _, err := os.Stat(name); os.IsNotExist(err) {
		return c, false, nil
	}
	c, err = LoadFile(name, net)
	return c, err == nil, err
}
