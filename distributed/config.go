package distributed

import "context"
import "os"
import "strconv"
import "time"

import "github.com/google/uuid"
import "github.com/pkg/errors"
import "go.uber.org/zap"

// DefaultCoordinator is the hub address used when none is configured
const DefaultCoordinator = "127.0.0.1:29500"

// Config describes the place of this process in a job
type Config struct {
	Rank        int
	Size        int
	Coordinator string
	JobID       string

	// DialTimeout bounds connecting to the hub
	DialTimeout time.Duration

	Log *zap.Logger
}

var rankEnv = []string{"E2E_RANK", "OMPI_COMM_WORLD_RANK", "PMI_RANK"}
var sizeEnv = []string{"E2E_WORLD_SIZE", "OMPI_COMM_WORLD_SIZE", "PMI_SIZE"}

func firstInt(names []string) (int, bool, error) {
	for _, name := range names {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return 0, false, errors.Wrapf(err, "parse %s", name)
			}
			return n, true, nil
		}
	}
	return 0, false, nil
}

// ConfigFromEnv reads rank and size as set by the launcher. Explicit values
// in base win over the environment.
func ConfigFromEnv(base Config) (Config, error) {
	if base.Size == 0 {
		size, ok, err := firstInt(sizeEnv)
		if err != nil {
			return base, err
		}
		if ok {
			base.Size = size
		} else {
			base.Size = 1
		}
		if base.Rank == 0 {
			rank, _, err := firstInt(rankEnv)
			if err != nil {
				return base, err
			}
			base.Rank = rank
		}
	}
	if base.Coordinator == "" {
		base.Coordinator = os.Getenv("E2E_COORDINATOR")
	}
	if base.Coordinator == "" {
		base.Coordinator = DefaultCoordinator
	}
	if base.JobID == "" {
		base.JobID = os.Getenv("E2E_JOB_ID")
	}
	return base, base.validate()
}

func (c Config) validate() error {
	if c.Size < 1 {
		return errors.Errorf("world size %d", c.Size)
	}
	if c.Rank < 0 || c.Rank >= c.Size {
		return errors.Errorf("rank %d out of world size %d", c.Rank, c.Size)
	}
	return nil
}

// New returns the communicator for cfg: a Local one for a single worker,
// a websocket client otherwise. Rank 0 also hosts the hub.
func New(ctx context.Context, cfg Config) (Communicator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.Size == 1 {
		return NewLocal(), nil
	}
	if cfg.JobID == "" && cfg.Rank == 0 {
		cfg.JobID = uuid.New().String()
	}
	if cfg.Rank != 0 {
		return Dial(ctx, cfg)
	}
	hub, err := Listen(cfg.Coordinator, cfg.Size, cfg.JobID, cfg.Log)
	if err != nil {
		return nil, err
	}
	cfg.Coordinator = hub.Addr()
	client, err := Dial(ctx, cfg)
	if err != nil {
		hub.Close()
		return nil, err
	}
	client.hub = hub
	return client, nil
}

func hostname() string {
	h, _ := os.Hostname()
	return h
}
