package flags

import "github.com/urfave/cli/v2"

const EnvVarPrefix = "E2E"

func prefixEnvVar(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	ConfigFile = &cli.StringFlag{
		Name:    "config",
		Value:   "",
		EnvVars: prefixEnvVar("CONFIG"),
		Usage:   "Path to a yaml file with per scenario overrides (eg. 'endtoend.yaml')",
	}
	DataDir = &cli.StringFlag{
		Name:    "data-dir",
		Value:   "",
		EnvVars: prefixEnvVar("DATA_DIR"),
		Usage:   "Directory holding real datasets, synthetic data is generated when missing",
	}
	Seed = &cli.Int64Flag{
		Name:    "seed",
		Value:   1,
		EnvVars: prefixEnvVar("SEED"),
		Usage:   "Seed of the synthetic datasets and the solver",
	}
	Threads = &cli.IntFlag{
		Name:    "threads",
		Value:   0,
		EnvVars: prefixEnvVar("THREADS"),
		Usage:   "Number of training threads (0 = number of logical cores)",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log.level",
		Value:   "info",
		EnvVars: prefixEnvVar("LOG_LEVEL"),
		Usage:   "Log level: debug, info, warn or error",
	}
	LogFormat = &cli.StringFlag{
		Name:    "log.format",
		Value:   "text",
		EnvVars: prefixEnvVar("LOG_FORMAT"),
		Usage:   "Log format: text or json",
	}
	MetricsTextfile = &cli.StringFlag{
		Name:    "metrics.textfile",
		Value:   "",
		EnvVars: prefixEnvVar("METRICS_TEXTFILE"),
		Usage:   "Write prometheus metrics in text format to this file after the run",
	}
	Rank = &cli.IntFlag{
		Name:    "rank",
		Value:   0,
		EnvVars: append(prefixEnvVar("RANK"), "OMPI_COMM_WORLD_RANK", "PMI_RANK"),
		Usage:   "Global rank of this process in Distribution mode",
	}
	WorldSize = &cli.IntFlag{
		Name:    "world-size",
		Value:   0,
		EnvVars: append(prefixEnvVar("WORLD_SIZE"), "OMPI_COMM_WORLD_SIZE", "PMI_SIZE"),
		Usage:   "Number of processes in Distribution mode (0 = single process)",
	}
	Coordinator = &cli.StringFlag{
		Name:    "coordinator",
		Value:   "",
		EnvVars: prefixEnvVar("COORDINATOR"),
		Usage:   "host:port of the communicator hub, hosted by rank 0",
	}
	JobID = &cli.StringFlag{
		Name:    "job-id",
		Value:   "",
		EnvVars: prefixEnvVar("JOB_ID"),
		Usage:   "Identifier shared by all ranks of a job (random when empty)",
	}
	CheckpointDir = &cli.StringFlag{
		Name:    "checkpoint-dir",
		Value:   "",
		EnvVars: prefixEnvVar("CHECKPOINT_DIR"),
		Usage:   "Directory for distributed checkpoints (temporary directory when empty)",
	}
)

var Flags = []cli.Flag{
	ConfigFile,
	DataDir,
	Seed,
	Threads,
	LogLevel,
	LogFormat,
	MetricsTextfile,
	Rank,
	WorldSize,
	Coordinator,
	JobID,
	CheckpointDir,
}
