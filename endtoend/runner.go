package endtoend

import "context"
import "fmt"
import "io"
import "os"
import "strconv"
import "time"

import "github.com/pkg/errors"
import "go.uber.org/zap"

import "github.com/neurlang/endtoend/device"
import "github.com/neurlang/endtoend/distributed"
import "github.com/neurlang/endtoend/hashtron"
import "github.com/neurlang/endtoend/metrics"

// ExitFailure is returned by Run for every failure
const ExitFailure = -1

// Runner selects and runs end to end tests
type Runner struct {
	Registry Registry
	Config   Config
	Device   device.Selector
	Metrics  *metrics.Metrics
	Log      *zap.Logger

	Stdout io.Writer
	Stderr io.Writer

	// Redirect makes name the standard output and returns it
	Redirect func(name string) (io.WriteCloser, error)

	// Communicator opens the communicator of Distribution mode
	Communicator func(ctx context.Context) (distributed.Communicator, error)

	// CrashHook routes fatal runtime reports to stderr
	CrashHook func() error
}

// NewRunner creates a runner of the real scenarios for this process
func NewRunner(cfg Config, log *zap.Logger, m *metrics.Metrics) *Runner {
	return &Runner{
		Registry: DefaultRegistry(),
		Config:   cfg,
		Device:   device.FromEnv(),
		Metrics:  m,
		Log:      log,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Redirect: func(name string) (io.WriteCloser, error) {
			return RedirectStdout(name)
		},
		Communicator: func(ctx context.Context) (distributed.Communicator, error) {
			dc, err := distributed.ConfigFromEnv(distributed.Config{
				Rank:        cfg.Rank,
				Size:        cfg.WorldSize,
				Coordinator: cfg.Coordinator,
				JobID:       cfg.JobID,
				Log:         log,
			})
			if err != nil {
				return nil, err
			}
			return distributed.New(ctx, dc)
		},
		CrashHook: InstallCrashHook,
	}
}

func flush(w io.Writer) {
	if s, ok := w.(interface{ Sync() error }); ok {
		s.Sync()
	}
}

func (r *Runner) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

// Run runs the test named by args, args[0] being the program name. It returns
// the process exit code.
func (r *Runner) Run(ctx context.Context, args []string) int {
	if r.CrashHook != nil {
		if err := r.CrashHook(); err != nil {
			fmt.Fprintf(r.Stderr, "Could not install the crash handler: %v\n", err)
			return ExitFailure
		}
	}

	// accidental unpacking of the quaternary filters would silently cost performance
	hashtron.SetAutomaticUnpackingDisabled(true)

	if r.Device.GPUBuild {
		fmt.Fprint(r.Stderr, "Run tests using GPU build.\n")
	} else {
		fmt.Fprint(r.Stderr, "Run tests using CPU-only build.\n")
	}
	for _, d := range device.All() {
		r.logger().Debug("device found",
			zap.Stringer("device", d),
			zap.Int("cores", d.Cores),
			zap.Int64("memory", d.Memory),
			zap.String("features", d.Features))
	}

	if len(args) > 2 {
		if len(args) == 3 && args[1] == Distribution {
			return r.runDistribution(ctx, args[2])
		}
		fmt.Fprint(r.Stderr, "Wrong number of arguments.\n")
		return ExitFailure
	}
	if len(args) < 2 {
		fmt.Fprint(r.Stderr, "Wrong number of arguments.\n")
		return ExitFailure
	}

	testName := args[1]
	env := r.env(r.logger(), distributed.NewLocal(), r.Stdout)

	switch testName {
	case CifarResNet:
		if r.Device.ShouldRunOnGpu() {
			fmt.Fprint(r.Stderr, "Run test on a GPU device.\n")
			if err := r.runScenario(ctx, testName, env); err != nil {
				return r.fail(testName, err)
			}
		}
		if r.Device.ShouldRunOnCpu() {
			fmt.Fprint(r.Stderr, "Cannot run TrainCifarResnet test on a CPU device.\n")
		}
	case LSTMSequenceClassifier, MNISTClassifier, SequenceToSequence, TruncatedLSTMAcousticModel:
		if _, ok := r.Registry[testName]; !ok {
			fmt.Fprint(r.Stderr, "End to end test not found.\n")
			return ExitFailure
		}
		if err := r.runScenario(ctx, testName, env); err != nil {
			return r.fail(testName, err)
		}
	default:
		fmt.Fprint(r.Stderr, "End to end test not found.\n")
		return ExitFailure
	}

	fmt.Fprintf(r.Stderr, "\nCNTKv2Library-%s tests: Passed\n", testName)
	flush(r.Stderr)
	r.writeMetrics()
	return 0
}

func (r *Runner) runDistribution(ctx context.Context, prefix string) int {
	comm, err := r.Communicator(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "Could not create the communicator: %v\n", err)
		return ExitFailure
	}
	rank := comm.CurrentWorker().GlobalRank
	out, err := r.Redirect(prefix + strconv.Itoa(rank))
	if err != nil {
		fmt.Fprint(r.Stderr, "Could not redirect stdout.\n")
		return ExitFailure
	}

	// logs follow stdout into the per rank file
	log, err := NewLogger(r.Config.LogLevel, r.Config.LogFormat, out)
	if err != nil {
		log = r.logger()
	}
	env := r.env(log.With(zap.Int("rank", rank)), comm, out)

	for _, name := range []string{FrameMode, DistributedCheckpointing} {
		if err := r.runScenario(ctx, name, env); err != nil {
			out.Close()
			return r.fail(name, err)
		}
	}

	fmt.Fprint(out, "\nCNTKv2Library-Distribution tests: Passed\n")
	flush(out)
	if err := comm.Finalize(ctx); err != nil {
		fmt.Fprintf(r.Stderr, "Could not finalize the communicator: %v\n", err)
		out.Close()
		return ExitFailure
	}
	r.writeMetrics()
	if err := out.Close(); err != nil {
		fmt.Fprintf(r.Stderr, "Could not close stdout: %v\n", err)
		return ExitFailure
	}
	return 0
}

func (r *Runner) env(log *zap.Logger, comm distributed.Communicator, out io.Writer) *Env {
	return &Env{
		Out:     out,
		Log:     log,
		Config:  r.Config,
		Device:  r.Device,
		Comm:    comm,
		Metrics: r.Metrics,
	}
}

// runScenario runs one scenario, a panic counts as a failure
func (r *Runner) runScenario(ctx context.Context, name string, env *Env) (err error) {
	scenario, ok := r.Registry[name]
	if !ok {
		return errors.Errorf("scenario %s is not registered", name)
	}
	start := time.Now()
	log := env.Log.With(zap.String("scenario", name))
	log.Info("scenario started")
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("panic: %v", p)
		}
		r.Metrics.RecordScenario(name, err == nil, time.Since(start))
		if err != nil {
			log.Error("scenario failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		} else {
			log.Info("scenario passed", zap.Duration("duration", time.Since(start)))
		}
	}()
	scoped := *env
	scoped.Log = log
	return scenario(ctx, &scoped)
}

func (r *Runner) fail(name string, err error) int {
	fmt.Fprintf(r.Stderr, "%s failed: %v\n", name, err)
	flush(r.Stderr)
	r.writeMetrics()
	return ExitFailure
}

func (r *Runner) writeMetrics() {
	if err := r.Metrics.WriteTextfile(r.Config.MetricsTextfile); err != nil {
		r.logger().Warn("could not write metrics", zap.Error(err))
	}
}
