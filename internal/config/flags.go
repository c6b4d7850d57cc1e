package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rankbench",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Target service
	flags.String("base-url", "http://localhost:8080/api/v1", "Base URL of the leaderboard API")
	flags.Int64("game-id", 1, "Target game id")

	// Synthetic population
	flags.Int64("population", 1000000, "Size of the simulated user base for rank reads")
	flags.Int64("id-offset", 100001, "First synthetic user id")

	// Scenario sizing
	flags.Int("score-writes", 10000, "Score submissions per ingestion scenario")
	flags.Int("leader-reads", 10000, "Requests per leaderboard read scenario")
	flags.Int("rank-reads", 10000, "Requests per rank read scenario")
	flags.Int("leader-limit", 1000, "Top-K page size for leaderboard reads")
	flags.String("window", "", "Sliding window for reads (e.g. 24h); empty for all-time")

	// Load shaping
	flags.IntP("concurrency", "c", 0, "Max in-flight requests (0 means unbounded fan-out)")
	flags.IntP("rate", "r", 0, "Dispatch pacing in requests per second (0 dispatches all at once)")
	flags.Duration("timeout", 5*time.Second, "Per-request timeout")
	flags.Duration("batch-timeout", 30*time.Second, "Overall deadline for one scenario batch")
	flags.Int64("seed", 0, "Random seed for payload generation (0 derives from clock)")

	// Scenario selection
	flags.String("scenario", ScenarioAll, "Scenario to run: score, leaders, rank, or all")
	flags.String("suite", "", "Path to a YAML scenario suite file")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	// Output
	flags.Bool("json-output", false, "Emit JSON formatted reports")
	flags.Bool("log-errors", false, "Log each failed request")

	// Tracing
	flags.String("otlp-endpoint", "", "OTLP endpoint for span export (empty disables tracing)")
	flags.String("otlp-protocol", "grpc", "OTLP transport: grpc or http")
	flags.Bool("otlp-insecure", false, "Skip TLS verification for OTLP export")
	flags.Float64("trace-sample-rate", 1.0, "Trace sampling ratio between 0.0 and 1.0")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\nFlags:\n", cmd.UseLine())
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config,
// overriding values from the config file and environment.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("base-url") {
		val, err := fs.GetString("base-url")
		if err != nil {
			return err
		}
		cfg.BaseURL = strings.TrimSpace(val)
	}
	if fs.Changed("game-id") {
		val, err := fs.GetInt64("game-id")
		if err != nil {
			return err
		}
		cfg.GameID = val
	}
	if fs.Changed("population") {
		val, err := fs.GetInt64("population")
		if err != nil {
			return err
		}
		cfg.Population = val
	}
	if fs.Changed("id-offset") {
		val, err := fs.GetInt64("id-offset")
		if err != nil {
			return err
		}
		cfg.IDOffset = val
	}
	if fs.Changed("score-writes") {
		val, err := fs.GetInt("score-writes")
		if err != nil {
			return err
		}
		cfg.ScoreWrites = val
	}
	if fs.Changed("leader-reads") {
		val, err := fs.GetInt("leader-reads")
		if err != nil {
			return err
		}
		cfg.LeaderReads = val
	}
	if fs.Changed("rank-reads") {
		val, err := fs.GetInt("rank-reads")
		if err != nil {
			return err
		}
		cfg.RankReads = val
	}
	if fs.Changed("leader-limit") {
		val, err := fs.GetInt("leader-limit")
		if err != nil {
			return err
		}
		cfg.LeaderLimit = val
	}
	if fs.Changed("window") {
		val, err := fs.GetString("window")
		if err != nil {
			return err
		}
		cfg.Window = strings.TrimSpace(val)
	}
	if fs.Changed("concurrency") {
		val, err := fs.GetInt("concurrency")
		if err != nil {
			return err
		}
		cfg.Concurrency = val
	}
	if fs.Changed("rate") {
		val, err := fs.GetInt("rate")
		if err != nil {
			return err
		}
		cfg.Rate = val
	}
	if fs.Changed("timeout") {
		val, err := fs.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = val
	}
	if fs.Changed("batch-timeout") {
		val, err := fs.GetDuration("batch-timeout")
		if err != nil {
			return err
		}
		cfg.BatchTimeout = val
	}
	if fs.Changed("seed") {
		val, err := fs.GetInt64("seed")
		if err != nil {
			return err
		}
		cfg.Seed = val
	}
	if fs.Changed("scenario") {
		val, err := fs.GetString("scenario")
		if err != nil {
			return err
		}
		cfg.Scenario = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("suite") {
		val, err := fs.GetString("suite")
		if err != nil {
			return err
		}
		cfg.Suite = strings.TrimSpace(val)
	}
	if fs.Changed("json-output") {
		val, err := fs.GetBool("json-output")
		if err != nil {
			return err
		}
		cfg.JSONOutput = val
	}
	if fs.Changed("log-errors") {
		val, err := fs.GetBool("log-errors")
		if err != nil {
			return err
		}
		cfg.LogErrors = val
	}
	if fs.Changed("otlp-endpoint") {
		val, err := fs.GetString("otlp-endpoint")
		if err != nil {
			return err
		}
		cfg.Tracing.Endpoint = strings.TrimSpace(val)
	}
	if fs.Changed("otlp-protocol") {
		val, err := fs.GetString("otlp-protocol")
		if err != nil {
			return err
		}
		cfg.Tracing.Protocol = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("otlp-insecure") {
		val, err := fs.GetBool("otlp-insecure")
		if err != nil {
			return err
		}
		cfg.Tracing.Insecure = val
	}
	if fs.Changed("trace-sample-rate") {
		val, err := fs.GetFloat64("trace-sample-rate")
		if err != nil {
			return err
		}
		cfg.Tracing.SampleRate = val
	}

	return nil
}
