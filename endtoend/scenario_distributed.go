package endtoend

import "bytes"
import "context"
import "encoding/json"
import "math/rand"
import "os"
import "path/filepath"
import "time"

import "github.com/google/uuid"
import "github.com/pkg/errors"
import "go.uber.org/zap"

import "github.com/neurlang/endtoend/datasets"
import "github.com/neurlang/endtoend/datasets/acoustic"
import "github.com/neurlang/endtoend/hash"
import "github.com/neurlang/endtoend/layer/full"
import "github.com/neurlang/endtoend/net/feedforward"
import "github.com/neurlang/endtoend/trainer"

const root = 0

// frame is a quantized acoustic frame as network input
type frame uint32

func (f frame) Feature(n int) uint32 {
	return hash.Combine(uint32(f), uint32(n))
}

func frameDataset(n int, rng *rand.Rand) (frames []uint32, phones []uint16) {
	frames = make([]uint32, n)
	phones = make([]uint16, n)
	for i := range frames {
		phones[i] = uint16(rng.Intn(acoustic.Phones))
		frames[i] = acoustic.Frame(phones[i], rng)
	}
	return
}

// shard lists the samples of rank
func shard(n, rank, size int) (out []int) {
	for i := rank; i < n; i += size {
		out = append(out, i)
	}
	return
}

// agree fails on every rank when any rank reports an error
func (e *Env) agree(ctx context.Context, err error) error {
	var failed float64
	if err != nil {
		failed = 1
	}
	e.Metrics.RecordCollective("all_reduce")
	sum, rerr := e.Comm.AllReduce(ctx, []float64{failed})
	if rerr != nil {
		return rerr
	}
	if err != nil {
		return err
	}
	if sum[0] > 0 {
		return errors.Errorf("%d other ranks failed", int(sum[0]))
	}
	return nil
}

// sameDigest fails unless every rank holds a model with digest d
func (e *Env) sameDigest(ctx context.Context, d [32]byte) error {
	e.Metrics.RecordCollective("all_gather")
	all, err := e.Comm.AllGather(ctx, d[:])
	if err != nil {
		return err
	}
	for rank, other := range all {
		if !bytes.Equal(other, d[:]) {
			return errors.Errorf("rank %d holds a different model", rank)
		}
	}
	return nil
}

// globalAccuracy sums the shard evaluations of all ranks
func (e *Env) globalAccuracy(ctx context.Context, local trainer.Evaluation) (trainer.Evaluation, error) {
	e.Metrics.RecordCollective("all_reduce")
	sum, err := e.Comm.AllReduce(ctx, []float64{float64(local.Correct), float64(local.Total)})
	if err != nil {
		return local, err
	}
	return trainer.Evaluation{Correct: int(sum[0]), Total: int(sum[1]), State: local.State}, nil
}

// TestFrameMode trains a frame classifier data parallel: every rank tallies
// its shard, root merges the tallies, solves the hashtron and broadcasts it
func TestFrameMode(ctx context.Context, env *Env) error {
	sc := env.Config.Scenario(FrameMode)
	start := time.Now()
	me := env.Comm.CurrentWorker().GlobalRank
	size := len(env.Comm.Workers())
	frames, phones := frameDataset(sc.Samples, env.Rand(FrameMode))
	mine := shard(len(frames), me, size)

	var net feedforward.FeedforwardNetwork
	net.NewLayer(1, 3)

	tally := datasets.NewTally()
	for _, i := range mine {
		net.Tally(frame(frames[i]), phones[i], 0, tally, nil)
	}
	snapshot, err := json.Marshal(tally.Snapshot())
	if err != nil {
		return errors.Wrap(err, "frame mode")
	}
	env.Metrics.RecordCollective("all_gather")
	all, err := env.Comm.AllGather(ctx, snapshot)
	if err != nil {
		return errors.Wrap(err, "frame mode: gather tallies")
	}

	var model []byte
	if me == root {
		model, err = solveMerged(env, all)
		if err != nil {
			env.Log.Error("frame classifier not solved", zap.Error(err))
			model = nil
		}
	}
	env.Metrics.RecordCollective("broadcast")
	model, err = env.Comm.Broadcast(ctx, root, model)
	if err != nil {
		return errors.Wrap(err, "frame mode: broadcast model")
	}
	if len(model) == 0 {
		return errors.New("frame mode: root could not solve the frame classifier")
	}
	if err := json.Unmarshal(model, net.GetHashtron(0)); err != nil {
		return errors.Wrap(err, "frame mode: decode model")
	}
	env.Metrics.RecordTrained(FrameMode, 1)

	if err := env.sameDigest(ctx, net.Digest()); err != nil {
		return errors.Wrap(err, "frame mode")
	}

	local := env.evaluate(len(mine), func(k int) (uint16, uint16) {
		i := mine[k]
		return net.Infer(frame(frames[i])), phones[i]
	})
	global, err := env.globalAccuracy(ctx, local)
	if err != nil {
		return errors.Wrap(err, "frame mode")
	}
	env.printResults(FrameMode, time.Since(start), sc.Threshold,
		Split{"global", global}, Split{"shard", local})
	return check(FrameMode, sc.Threshold, global)
}

// solveMerged merges the tally snapshots of all ranks and solves the hashtron
func solveMerged(env *Env, snapshots [][]byte) ([]byte, error) {
	merged := datasets.NewTally()
	for rank, data := range snapshots {
		var votes []datasets.Vote
		if err := json.Unmarshal(data, &votes); err != nil {
			return nil, errors.Wrapf(err, "tally of rank %d", rank)
		}
		merged.Merge(votes)
	}
	h := env.hyper()
	h.Bits = 3
	trained, err := h.Training(merged.Datamap())
	if err != nil {
		return nil, err
	}
	return json.Marshal(trained)
}

// checkpointNetwork classifies frames through 16 hidden hashtrons
func checkpointNetwork() (net feedforward.FeedforwardNetwork) {
	net.NewLayer(16, 0)
	net.NewCombiner(full.MustNew(16, 16))
	net.NewLayer(1, 3)
	return
}

// TestDistributedCheckpointing trains on root, shares the model, saves a
// checkpoint with the state of every worker and restores it on every rank
func TestDistributedCheckpointing(ctx context.Context, env *Env) error {
	sc := env.Config.Scenario(DistributedCheckpointing)
	start := time.Now()
	me := env.Comm.CurrentWorker().GlobalRank
	size := len(env.Comm.Workers())
	frames, phones := frameDataset(sc.Samples, env.Rand(DistributedCheckpointing))
	mine := shard(len(frames), me, size)
	input := func(i int) feedforward.FeedforwardNetworkInput { return frame(frames[i]) }
	label := func(i int) uint16 { return phones[i] }

	net := checkpointNetwork()
	var weights bytes.Buffer
	if me == root {
		env.train(ctx, feedforwardJob(DistributedCheckpointing, net, len(frames), input, label), sc)
		if err := net.WriteZlibWeights(&weights); err != nil {
			return errors.Wrap(err, "checkpointing")
		}
	}
	env.Metrics.RecordCollective("broadcast")
	shared, err := env.Comm.Broadcast(ctx, root, weights.Bytes())
	if err != nil {
		return errors.Wrap(err, "checkpointing: broadcast model")
	}
	if err := env.agree(ctx, net.ReadZlibWeights(bytes.NewReader(shared))); err != nil {
		return errors.Wrap(err, "checkpointing: load model")
	}

	predict := func(net feedforward.FeedforwardNetwork) func(k int) (uint16, uint16) {
		return func(k int) (uint16, uint16) {
			return net.Infer(input(mine[k])), label(mine[k])
		}
	}
	local := env.evaluate(len(mine), predict(net))
	state := trainer.WorkerState{
		Rank:    me,
		Samples: local.Total,
		Correct: local.Correct,
		Digest:  trainer.DigestString(net.Digest()),
	}
	data, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "checkpointing: encode worker state")
	}
	env.Metrics.RecordCollective("all_gather")
	all, err := env.Comm.AllGather(ctx, data)
	if err != nil {
		return errors.Wrap(err, "checkpointing: gather worker states")
	}
	global, err := env.globalAccuracy(ctx, local)
	if err != nil {
		return errors.Wrap(err, "checkpointing")
	}

	var name string
	var saveErr error
	if me == root {
		name, saveErr = env.saveCheckpoint(net, all, global, sc.Rounds)
	}
	env.Metrics.RecordCollective("broadcast")
	path, err := env.Comm.Broadcast(ctx, root, []byte(name))
	if err != nil {
		return errors.Wrap(err, "checkpointing: broadcast path")
	}
	if err := env.agree(ctx, saveErr); err != nil {
		return errors.Wrap(err, "checkpointing: save")
	}
	env.Metrics.RecordCollective("barrier")
	if err := env.Comm.Barrier(ctx); err != nil {
		return errors.Wrap(err, "checkpointing")
	}

	restored := checkpointNetwork()
	verr := verifyRestore(string(path), restored, net, state, local, func() trainer.Evaluation {
		return env.evaluate(len(mine), predict(restored))
	})
	if err := env.agree(ctx, verr); err != nil {
		return errors.Wrap(err, "checkpointing: restore")
	}
	if me == root && env.Config.CheckpointDir == "" {
		os.RemoveAll(filepath.Dir(string(path)))
	}

	env.printResults(DistributedCheckpointing, time.Since(start), sc.Threshold,
		Split{"global", global}, Split{"shard", local})
	return check(DistributedCheckpointing, sc.Threshold, global)
}

func (e *Env) saveCheckpoint(net feedforward.FeedforwardNetwork, states [][]byte, global trainer.Evaluation, step int) (string, error) {
	c := trainer.Checkpoint{
		JobID:    e.Config.JobID,
		Step:     step,
		Accuracy: global.Accuracy(),
	}
	if c.JobID == "" {
		c.JobID = uuid.New().String()
	}
	for rank, data := range states {
		var w trainer.WorkerState
		if err := json.Unmarshal(data, &w); err != nil {
			return "", errors.Wrapf(err, "worker state of rank %d", rank)
		}
		c.Workers = append(c.Workers, w)
	}
	dir := e.Config.CheckpointDir
	if dir == "" {
		var err error
		if dir, err = os.MkdirTemp("", "endtoend-"+c.JobID); err != nil {
			return "", err
		}
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := filepath.Join(dir, DistributedCheckpointing+".ckpt")
	e.Log.Info("writing checkpoint", zap.String("path", name), zap.Int("workers", len(c.Workers)))
	return name, trainer.SaveFile(name, net, c)
}

// verifyRestore loads the checkpoint into fresh and compares it with the model
// and the worker state held before saving
func verifyRestore(path string, fresh, held trainer.Network, state trainer.WorkerState,
	before trainer.Evaluation, evaluate func() trainer.Evaluation) error {
	c, resumed, err := trainer.Resume(path, fresh)
	if err != nil {
		return err
	}
	if !resumed {
		return errors.Errorf("checkpoint %q not found", path)
	}
	if fresh.Digest() != held.Digest() {
		return errors.New("restored model digest differs")
	}
	after := evaluate()
	if after.State != before.State || after.Correct != before.Correct {
		return errors.New("restored model predicts differently")
	}
	saved, ok := c.Worker(state.Rank)
	if !ok {
		return errors.Errorf("checkpoint has no state of rank %d", state.Rank)
	}
	if saved != state {
		return errors.Errorf("worker state %+v restored as %+v", state, saved)
	}
	return nil
}
