// Package distributed implements the communicator used by the distributed end
// to end tests. Every collective is derived from AllGather: a websocket hub on
// rank 0 collects one payload per rank and returns all of them to every rank.
package distributed

import "context"
import "encoding/json"

import "github.com/pkg/errors"

// Worker identifies one process of the job
type Worker struct {
	GlobalRank int    `json:"global_rank"`
	Hostname   string `json:"hostname,omitempty"`
}

// Communicator exchanges data between the workers of a job
type Communicator interface {
	// CurrentWorker returns the worker of this process
	CurrentWorker() Worker

	// Workers returns every worker ordered by global rank
	Workers() []Worker

	// AllGather returns the payload of every rank, indexed by rank
	AllGather(ctx context.Context, payload []byte) ([][]byte, error)

	// AllReduce sums values element wise over all ranks
	AllReduce(ctx context.Context, values []float64) ([]float64, error)

	// Broadcast returns the payload of rank root on every rank
	Broadcast(ctx context.Context, root int, payload []byte) ([]byte, error)

	// Barrier returns once every rank called it
	Barrier(ctx context.Context) error

	// Finalize synchronizes all ranks and releases the communicator
	Finalize(ctx context.Context) error
}

// ErrFinalized is returned by collectives after Finalize
var ErrFinalized = errors.New("communicator finalized")

type gatherer interface {
	AllGather(ctx context.Context, payload []byte) ([][]byte, error)
}

// collectives derives the remaining operations from AllGather
type collectives struct {
	g gatherer
}

func (c collectives) AllReduce(ctx context.Context, values []float64) ([]float64, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return nil, errors.Wrap(err, "all reduce")
	}
	all, err := c.g.AllGather(ctx, data)
	if err != nil {
		return nil, errors.Wrap(err, "all reduce")
	}
	sum := make([]float64, len(values))
	for rank, data := range all {
		var part []float64
		if err := json.Unmarshal(data, &part); err != nil {
			return nil, errors.Wrapf(err, "all reduce: rank %d", rank)
		}
		if len(part) != len(sum) {
			return nil, errors.Errorf("all reduce: rank %d sent %d values, want %d", rank, len(part), len(sum))
		}
		for i := range part {
			sum[i] += part[i]
		}
	}
	return sum, nil
}

func (c collectives) Broadcast(ctx context.Context, root int, payload []byte) ([]byte, error) {
	all, err := c.g.AllGather(ctx, payload)
	if err != nil {
		return nil, errors.Wrap(err, "broadcast")
	}
	if root < 0 || root >= len(all) {
		return nil, errors.Errorf("broadcast: root %d out of %d ranks", root, len(all))
	}
	return all[root], nil
}

func (c collectives) Barrier(ctx context.Context) error {
	_, err := c.g.AllGather(ctx, nil)
	return errors.Wrap(err, "barrier")
}

// Local is the communicator of a single process job
type Local struct {
	collectives
	worker    Worker
	finalized bool
}

// NewLocal creates a communicator of a job with one worker
func NewLocal() *Local {
	l := &Local{worker: Worker{GlobalRank: 0, Hostname: hostname()}}
	l.collectives = collectives{l}
	return l
}

// CurrentWorker returns the only worker
func (l *Local) CurrentWorker() Worker {
	return l.worker
}

// Workers returns the only worker
func (l *Local) Workers() []Worker {
	return []Worker{l.worker}
}

// AllGather returns the payload itself
func (l *Local) AllGather(ctx context.Context, payload []byte) ([][]byte, error) {
	if l.finalized {
		return nil, ErrFinalized
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return [][]byte{payload}, nil
}

// Finalize marks the communicator finalized
func (l *Local) Finalize(ctx context.Context) error {
	if l.finalized {
		return ErrFinalized
	}
	l.finalized = true
	return nil
}
