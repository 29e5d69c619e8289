// Command endtoend runs one end to end training test by name, or the
// distributed tests with the output of every rank redirected to its own file.
//
//	endtoend [flags] <TestName>
//	endtoend [flags] Distribution <logPathPrefix>
package main

import "fmt"
import "os"

import "github.com/urfave/cli/v2"

import "github.com/neurlang/endtoend/device"
import "github.com/neurlang/endtoend/endtoend"
import "github.com/neurlang/endtoend/endtoend/flags"
import "github.com/neurlang/endtoend/metrics"

var (
	Version   = "v0.1.0"
	GitCommit = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s", Version, GitCommit)
	app.Name = "endtoend"
	app.Usage = "End to end training tests of the hashtron framework"
	app.ArgsUsage = "<TestName> | Distribution <logPathPrefix>"
	app.Flags = flags.Flags
	app.HideHelpCommand = true
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(endtoend.ExitFailure)
	}
}

func run(c *cli.Context) error {
	cfg, err := endtoend.NewConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), endtoend.ExitFailure)
	}
	log, err := endtoend.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return cli.Exit(err.Error(), endtoend.ExitFailure)
	}

	build := "cpu"
	if device.IsGPUBuild() {
		build = "gpu"
	}
	m := metrics.New(build, cfg.JobID)
	runner := endtoend.NewRunner(cfg, log, m)

	args := append([]string{os.Args[0]}, c.Args().Slice()...)
	code := runner.Run(c.Context, args)
	log.Sync()
	if code != 0 {
		return cli.Exit("", code)
	}
	return nil
}
