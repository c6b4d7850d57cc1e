package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ringgrank/rankbench/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.NewLoader().Load(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.BaseURL != "http://localhost:8080/api/v1" {
		t.Fatalf("unexpected base URL %q", cfg.BaseURL)
	}
	if cfg.GameID != 1 || cfg.Population != 1000000 || cfg.IDOffset != 100001 {
		t.Fatalf("unexpected population defaults: %+v", cfg)
	}
	if cfg.ScoreWrites != 10000 || cfg.LeaderReads != 10000 || cfg.RankReads != 10000 {
		t.Fatalf("unexpected count defaults: %+v", cfg)
	}
	if cfg.LeaderLimit != 1000 {
		t.Fatalf("unexpected leader limit %d", cfg.LeaderLimit)
	}
	if cfg.Timeout != 5*time.Second || cfg.BatchTimeout != 30*time.Second {
		t.Fatalf("unexpected timeouts: %s / %s", cfg.Timeout, cfg.BatchTimeout)
	}
	if cfg.Concurrency != 0 {
		t.Fatalf("expected unbounded concurrency by default, got %d", cfg.Concurrency)
	}
	if cfg.Scenario != config.ScenarioAll {
		t.Fatalf("unexpected scenario %q", cfg.Scenario)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadFlagOverrides(t *testing.T) {
	cfg, err := config.NewLoader().Load([]string{
		"--base-url", "http://bench.internal/api/v1",
		"--game-id", "42",
		"--score-writes", "500",
		"-c", "64",
		"--timeout", "2s",
		"--window", "24h",
		"--scenario", "score",
		"--json-output",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.BaseURL != "http://bench.internal/api/v1" {
		t.Fatalf("unexpected base URL %q", cfg.BaseURL)
	}
	if cfg.GameID != 42 || cfg.ScoreWrites != 500 || cfg.Concurrency != 64 {
		t.Fatalf("flag overrides not applied: %+v", cfg)
	}
	if cfg.Timeout != 2*time.Second || cfg.Window != "24h" {
		t.Fatalf("flag overrides not applied: %+v", cfg)
	}
	if cfg.Scenario != config.ScenarioScore || !cfg.JSONOutput {
		t.Fatalf("flag overrides not applied: %+v", cfg)
	}
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("RANKBENCH_BASE_URL", "http://env.example/api/v1")
	t.Setenv("RANKBENCH_RANK_READS", "123")

	cfg, err := config.NewLoader().Load(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "http://env.example/api/v1" {
		t.Fatalf("environment base URL not applied, got %q", cfg.BaseURL)
	}
	if cfg.RankReads != 123 {
		t.Fatalf("environment rank reads not applied, got %d", cfg.RankReads)
	}
}

func TestFlagsBeatEnvironment(t *testing.T) {
	t.Setenv("RANKBENCH_GAME_ID", "5")

	cfg, err := config.NewLoader().Load([]string{"--game-id", "9"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GameID != 9 {
		t.Fatalf("flag should beat environment, got %d", cfg.GameID)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	content := "base_url: http://file.example/api/v1\nleader_reads: 77\nconcurrency: 8\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.NewLoader().Load([]string{"--config", path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "http://file.example/api/v1" || cfg.LeaderReads != 77 || cfg.Concurrency != 8 {
		t.Fatalf("config file not applied: %+v", cfg)
	}
}

func TestLoadHelp(t *testing.T) {
	_, err := config.NewLoader().Load([]string{"--help"})
	if !errors.Is(err, config.ErrHelpRequested) {
		t.Fatalf("expected help sentinel, got %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	base := func() *config.Config {
		cfg, err := config.NewLoader().Load(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty base url", func(c *config.Config) { c.BaseURL = "" }},
		{"bad scheme", func(c *config.Config) { c.BaseURL = "ftp://host/api" }},
		{"zero game id", func(c *config.Config) { c.GameID = 0 }},
		{"negative writes", func(c *config.Config) { c.ScoreWrites = -1 }},
		{"zero leader limit", func(c *config.Config) { c.LeaderLimit = 0 }},
		{"negative concurrency", func(c *config.Config) { c.Concurrency = -2 }},
		{"bad window", func(c *config.Config) { c.Window = "0h" }},
		{"bad window text", func(c *config.Config) { c.Window = "daily" }},
		{"bad scenario", func(c *config.Config) { c.Scenario = "writes" }},
		{"bad sample rate", func(c *config.Config) {
			c.Tracing.Endpoint = "localhost:4317"
			c.Tracing.SampleRate = 1.5
		}},
		{"bad otlp protocol", func(c *config.Config) {
			c.Tracing.Endpoint = "localhost:4317"
			c.Tracing.Protocol = "udp"
		}},
	}
	for _, tc := range cases {
		cfg := base()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestValidateAcceptsWindows(t *testing.T) {
	for _, window := range []string{"", "24h", "7d", "30m", "90s", "1M"} {
		cfg, err := config.NewLoader().Load(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		cfg.Window = window
		if err := cfg.Validate(); err != nil {
			t.Fatalf("window %q should validate: %v", window, err)
		}
	}
}
