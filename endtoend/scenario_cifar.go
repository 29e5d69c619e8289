package endtoend

import "context"
import "time"

import "github.com/neurlang/endtoend/datasets/cifar"
import "github.com/neurlang/endtoend/layer/conv2d"
import "github.com/neurlang/endtoend/layer/full"
import "github.com/neurlang/endtoend/layer/residual"
import "github.com/neurlang/endtoend/net/feedforward"

// cifarNetwork is a residual block over the patch grid: 2x2 windows of patch
// bits are added to the quadrant colour bits, then widened and classified
func cifarNetwork() (net feedforward.FeedforwardNetwork) {
	block := residual.New(conv2d.MustNew(cifar.Cells, cifar.Cells, 2, 2, 1, 2))
	net.NewLayer(block.Inputs(), 0)
	net.NewCombiner(block)
	net.NewLayer(16, 0)
	net.NewCombiner(full.MustNew(16, 16))
	net.NewLayer(1, 2)
	return
}

// TrainCifarResnet trains the residual shape classifier
func TrainCifarResnet(ctx context.Context, env *Env) error {
	sc := env.Config.Scenario(CifarResNet)
	start := time.Now()
	rng := env.Rand(CifarResNet)
	train := cifar.Synthetic(sc.Samples, rng)
	infer := cifar.Synthetic(sc.Samples/4, rng)

	net := cifarNetwork()
	input := func(set cifar.Set) func(i int) feedforward.FeedforwardNetworkInput {
		return func(i int) feedforward.FeedforwardNetworkInput { return &set.Images[i] }
	}
	label := func(set cifar.Set) func(i int) uint16 {
		return func(i int) uint16 { return uint16(set.Labels[i]) }
	}

	trained := env.train(ctx, feedforwardJob(CifarResNet, net, train.Len(), input(train), label(train)), sc)
	tested := env.evaluate(infer.Len(), func(i int) (uint16, uint16) {
		return net.Infer(input(infer)(i)), label(infer)(i)
	})

	env.printResults(CifarResNet, time.Since(start), sc.Threshold,
		Split{"train", trained}, Split{"infer", tested})
	return check(CifarResNet, sc.Threshold, trained)
}
