package main

import (
	"context"
	"io"
	"os"

	internal "github.com/ZanzyTHEbar/vnsh/vnsh"
	"github.com/ZanzyTHEbar/vnsh/vnsh/config"
	"github.com/ZanzyTHEbar/vnsh/vnsh/ports"
	"github.com/ZanzyTHEbar/vnsh/vnsh/shell"
)

// configEnv names an explicit config file; unset searches the default locations.
const configEnv = "VNSH_CONFIG"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run interprets args as one token stream. Halting on malformed input is a normal
// ending; only configuration and output failures give a non-zero status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.LoadConfig(os.Getenv(configEnv))
	if err != nil {
		bootLogger := internal.GetLogger(stderr)
		bootLogger.Error().Err(err).Msg("failed to load configuration")
		return 1
	}

	logger, err := internal.NewLogger(stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		bootLogger := internal.GetLogger(stderr)
		bootLogger.Error().Err(err).Str("level", cfg.Log.Level).Msg("failed to build logger")
		return 1
	}

	var sink ports.LineSink = ports.NewWriterSink(stdout)
	session := shell.NewSession(sink, shell.WithConfig(cfg.Shell), shell.WithLogger(logger))

	res, err := session.Run(ctx, args)
	if flusher, ok := sink.(ports.Flusher); ok {
		if flushErr := flusher.Flush(); err == nil {
			err = flushErr
		}
	}
	if err != nil {
		logger.Error().Err(err).Msg("run failed")
		return 1
	}

	logger.Info().
		Str("outcome", res.Outcome.String()).
		Int("commands", res.Commands).
		Msg("run complete")
	return 0
}
