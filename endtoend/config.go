package endtoend

import "os"
import "runtime"

import "github.com/pkg/errors"
import "github.com/urfave/cli/v2"
import "gopkg.in/yaml.v3"

import "github.com/neurlang/endtoend/endtoend/flags"

// ScenarioConfig sizes one scenario
type ScenarioConfig struct {
	// Samples is the number of training samples
	Samples int `yaml:"samples,omitempty"`

	// Rounds bounds the training loop
	Rounds int `yaml:"rounds,omitempty"`

	// Threshold is the least training accuracy, 0..1, for the scenario to pass
	Threshold float64 `yaml:"threshold,omitempty"`
}

// Config holds the application configuration
type Config struct {
	DataDir         string
	Seed            int64
	Threads         int
	LogLevel        string
	LogFormat       string
	MetricsTextfile string
	Rank            int
	WorldSize       int
	Coordinator     string
	JobID           string
	CheckpointDir   string

	Scenarios map[string]ScenarioConfig `yaml:"scenarios"`
}

var defaultScenarios = map[string]ScenarioConfig{
	CifarResNet:                {Samples: 240, Rounds: 2, Threshold: 0.5},
	LSTMSequenceClassifier:     {Samples: 300, Rounds: 1, Threshold: 0.95},
	MNISTClassifier:            {Samples: 400, Rounds: 2, Threshold: 0.8},
	SequenceToSequence:         {Samples: 120, Rounds: 1, Threshold: 0.95},
	TruncatedLSTMAcousticModel: {Samples: 40, Rounds: 1, Threshold: 0.9},
	FrameMode:                  {Samples: 600, Rounds: 1, Threshold: 0.9},
	DistributedCheckpointing:   {Samples: 200, Rounds: 2, Threshold: 0.9},
}

// DefaultConfig returns the configuration used when no flags are given
func DefaultConfig() Config {
	c := Config{
		Seed:      1,
		Threads:   runtime.NumCPU(),
		LogLevel:  "info",
		LogFormat: "text",
		Scenarios: make(map[string]ScenarioConfig, len(defaultScenarios)),
	}
	for k, v := range defaultScenarios {
		c.Scenarios[k] = v
	}
	return c
}

// Scenario returns the sizing of scenario name
func (c Config) Scenario(name string) ScenarioConfig {
	s, ok := c.Scenarios[name]
	if !ok {
		s = defaultScenarios[name]
	}
	return s
}

// LoadFile merges the scenario overrides of a yaml file into c. Zero fields keep their value.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config")
	}
	var file struct {
		Scenarios map[string]ScenarioConfig `yaml:"scenarios"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return errors.Wrapf(err, "parse config '%s'", path)
	}
	if c.Scenarios == nil {
		c.Scenarios = make(map[string]ScenarioConfig)
	}
	for name, o := range file.Scenarios {
		s := c.Scenario(name)
		if o.Samples != 0 {
			s.Samples = o.Samples
		}
		if o.Rounds != 0 {
			s.Rounds = o.Rounds
		}
		if o.Threshold != 0 {
			s.Threshold = o.Threshold
		}
		c.Scenarios[name] = s
	}
	return nil
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context) (Config, error) {
	c := DefaultConfig()
	c.DataDir = ctx.String(flags.DataDir.Name)
	c.Seed = ctx.Int64(flags.Seed.Name)
	if n := ctx.Int(flags.Threads.Name); n > 0 {
		c.Threads = n
	}
	c.LogLevel = ctx.String(flags.LogLevel.Name)
	c.LogFormat = ctx.String(flags.LogFormat.Name)
	c.MetricsTextfile = ctx.String(flags.MetricsTextfile.Name)
	c.Rank = ctx.Int(flags.Rank.Name)
	c.WorldSize = ctx.Int(flags.WorldSize.Name)
	c.Coordinator = ctx.String(flags.Coordinator.Name)
	c.JobID = ctx.String(flags.JobID.Name)
	c.CheckpointDir = ctx.String(flags.CheckpointDir.Name)
	if path := ctx.String(flags.ConfigFile.Name); path != "" {
		if err := c.LoadFile(path); err != nil {
			return c, err
		}
	}
	return c, nil
}
