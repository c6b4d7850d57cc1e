// Package config holds the harness configuration and its loading from
// flags, environment variables, and optional config files.
package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Scenario selection values for Config.Scenario.
const (
	ScenarioScore   = "score"
	ScenarioLeaders = "leaders"
	ScenarioRank    = "rank"
	ScenarioAll     = "all"
)

// windowPattern matches the sliding-window format the leaderboard service
// accepts, e.g. "24h", "7d", "30m". Empty means all-time.
var windowPattern = regexp.MustCompile(`^([1-9][0-9]*[hmMdsS])?$`)

// Config describes one harness invocation.
type Config struct {
	BaseURL string `mapstructure:"base_url"`
	GameID  int64  `mapstructure:"game_id"`

	// Synthetic population parameters.
	Population int64 `mapstructure:"population"`
	IDOffset   int64 `mapstructure:"id_offset"`

	// Per-scenario request counts.
	ScoreWrites int `mapstructure:"score_writes"`
	LeaderReads int `mapstructure:"leader_reads"`
	RankReads   int `mapstructure:"rank_reads"`

	LeaderLimit int    `mapstructure:"leader_limit"`
	Window      string `mapstructure:"window"`

	// Load shaping. Concurrency 0 means unbounded fan-out.
	Concurrency  int           `mapstructure:"concurrency"`
	Rate         int           `mapstructure:"rate"`
	Timeout      time.Duration `mapstructure:"timeout"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`

	Seed     int64  `mapstructure:"seed"`
	Scenario string `mapstructure:"scenario"`
	Suite    string `mapstructure:"suite"`

	JSONOutput bool `mapstructure:"json_output"`
	LogErrors  bool `mapstructure:"log_errors"`

	Tracing TracingConfig `mapstructure:"tracing"`

	ConfigFile string `mapstructure:"-"`
}

// TracingConfig controls optional OTLP span export.
type TracingConfig struct {
	Endpoint   string  `mapstructure:"endpoint"`
	Protocol   string  `mapstructure:"protocol"` // "grpc" or "http"
	Insecure   bool    `mapstructure:"insecure"`
	SampleRate float64 `mapstructure:"sample_rate"`
	Service    string  `mapstructure:"service"`
}

// Enabled reports whether span export is configured.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != ""
}

// Validate checks the configuration for values the harness cannot run with.
func (c *Config) Validate() error {
	target := strings.TrimSpace(c.BaseURL)
	if target == "" {
		return fmt.Errorf("base URL is required")
	}
	parsed, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", target, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("base URL must use http or https, got %q", target)
	}

	if c.GameID <= 0 {
		return fmt.Errorf("game id must be positive, got %d", c.GameID)
	}
	if c.Population < 0 {
		return fmt.Errorf("population cannot be negative, got %d", c.Population)
	}
	if c.ScoreWrites < 0 || c.LeaderReads < 0 || c.RankReads < 0 {
		return fmt.Errorf("request counts cannot be negative")
	}
	if c.LeaderLimit <= 0 {
		return fmt.Errorf("leader limit must be positive, got %d", c.LeaderLimit)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency cannot be negative, got %d", c.Concurrency)
	}
	if c.Rate < 0 {
		return fmt.Errorf("rate cannot be negative, got %d", c.Rate)
	}
	if !windowPattern.MatchString(c.Window) {
		return fmt.Errorf("invalid window %q: use formats like 24h, 7d, 30m or leave empty for all-time", c.Window)
	}

	switch c.Scenario {
	case "", ScenarioScore, ScenarioLeaders, ScenarioRank, ScenarioAll:
	default:
		return fmt.Errorf("unknown scenario %q: use score, leaders, rank, or all", c.Scenario)
	}

	if t := c.Tracing; t.Enabled() {
		if t.SampleRate < 0 || t.SampleRate > 1.0 {
			return fmt.Errorf("tracing sample rate must be between 0.0 and 1.0, got %g", t.SampleRate)
		}
		switch strings.ToLower(t.Protocol) {
		case "", "grpc", "http":
		default:
			return fmt.Errorf("unsupported OTLP protocol %q: use \"grpc\" or \"http\"", t.Protocol)
		}
	}

	return nil
}
