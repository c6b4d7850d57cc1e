package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from files, environment variables,
// and command-line arguments. Precedence: flags > config file > environment
// > defaults.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help.
var ErrHelpRequested = errors.New("help requested")

// envPrefix namespaces the harness's environment variables, e.g.
// RANKBENCH_BASE_URL, RANKBENCH_SCORE_WRITES, RANKBENCH_CONCURRENCY.
const envPrefix = "RANKBENCH"

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments, environment, and an optional config
// file to produce a Config.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}

	configPath := flagSet.Lookup("config").Value.String()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := fromViper(v)
	cfg.ConfigFile = configPath

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Window = strings.TrimSpace(cfg.Window)
	cfg.Scenario = strings.ToLower(strings.TrimSpace(cfg.Scenario))
	if cfg.Scenario == "" {
		cfg.Scenario = ScenarioAll
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "http://localhost:8080/api/v1")
	v.SetDefault("game_id", int64(1))
	v.SetDefault("population", int64(1000000))
	v.SetDefault("id_offset", int64(100001))
	v.SetDefault("score_writes", 10000)
	v.SetDefault("leader_reads", 10000)
	v.SetDefault("rank_reads", 10000)
	v.SetDefault("leader_limit", 1000)
	v.SetDefault("window", "")
	v.SetDefault("concurrency", 0)
	v.SetDefault("rate", 0)
	v.SetDefault("timeout", 5*time.Second)
	v.SetDefault("batch_timeout", 30*time.Second)
	v.SetDefault("seed", int64(0))
	v.SetDefault("scenario", ScenarioAll)
	v.SetDefault("suite", "")
	v.SetDefault("json_output", false)
	v.SetDefault("log_errors", false)
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.protocol", "grpc")
	v.SetDefault("tracing.insecure", false)
	v.SetDefault("tracing.sample_rate", 1.0)
	v.SetDefault("tracing.service", "rankbench")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		BaseURL:      v.GetString("base_url"),
		GameID:       v.GetInt64("game_id"),
		Population:   v.GetInt64("population"),
		IDOffset:     v.GetInt64("id_offset"),
		ScoreWrites:  v.GetInt("score_writes"),
		LeaderReads:  v.GetInt("leader_reads"),
		RankReads:    v.GetInt("rank_reads"),
		LeaderLimit:  v.GetInt("leader_limit"),
		Window:       v.GetString("window"),
		Concurrency:  v.GetInt("concurrency"),
		Rate:         v.GetInt("rate"),
		Timeout:      v.GetDuration("timeout"),
		BatchTimeout: v.GetDuration("batch_timeout"),
		Seed:         v.GetInt64("seed"),
		Scenario:     v.GetString("scenario"),
		Suite:        v.GetString("suite"),
		JSONOutput:   v.GetBool("json_output"),
		LogErrors:    v.GetBool("log_errors"),
		Tracing: TracingConfig{
			Endpoint:   v.GetString("tracing.endpoint"),
			Protocol:   v.GetString("tracing.protocol"),
			Insecure:   v.GetBool("tracing.insecure"),
			SampleRate: v.GetFloat64("tracing.sample_rate"),
			Service:    v.GetString("tracing.service"),
		},
	}
}
