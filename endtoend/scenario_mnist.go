package endtoend

import "context"
import "time"

import "go.uber.org/zap"

import "github.com/neurlang/endtoend/datasets/mnist"
import "github.com/neurlang/endtoend/layer/majpool2d"
import "github.com/neurlang/endtoend/learning"
import "github.com/neurlang/endtoend/net/feedforward"

// mnistPremodulo folds the patch hashes before the hidden layer reads them
var mnistPremodulo = learning.NextPrime(1 << 20)

// mnistNetwork reads every patch with one hashtron, pools them 2x2 into a
// 16 bit code and classifies the code
func mnistNetwork() (net feedforward.FeedforwardNetwork) {
	net.NewLayerP(mnist.Grid*mnist.Grid, 0, mnistPremodulo)
	net.NewCombiner(majpool2d.MustNew(mnist.Grid/2, mnist.Grid/2, 2, 2, 1))
	net.NewLayer(1, 4)
	return
}

// MNISTClassifierTests trains the digit classifier
func MNISTClassifierTests(ctx context.Context, env *Env) error {
	sc := env.Config.Scenario(MNISTClassifier)
	start := time.Now()

	train, infer, synthetic := mnist.LoadOrSynthetic(env.Config.DataDir, sc.Samples, sc.Samples/4, env.Rand(MNISTClassifier))
	env.Log.Info("dataset ready",
		zap.Bool("synthetic", synthetic),
		zap.Int("train", train.Len()),
		zap.Int("infer", infer.Len()))

	net := mnistNetwork()
	input := func(set mnist.Set) func(i int) feedforward.FeedforwardNetworkInput {
		return func(i int) feedforward.FeedforwardNetworkInput { return &set.Images[i] }
	}
	label := func(set mnist.Set) func(i int) uint16 {
		return func(i int) uint16 { return uint16(set.Labels[i]) }
	}

	trained := env.train(ctx, feedforwardJob(MNISTClassifier, net, train.Len(), input(train), label(train)), sc)
	tested := env.evaluate(infer.Len(), func(i int) (uint16, uint16) {
		return net.Infer(input(infer)(i)), label(infer)(i)
	})

	env.printResults(MNISTClassifier, time.Since(start), sc.Threshold,
		Split{"train", trained}, Split{"infer", tested})
	return check(MNISTClassifier, sc.Threshold, trained)
}
