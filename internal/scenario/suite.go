package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ringgrank/rankbench/internal/config"
)

type suiteFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadSuite parses a YAML scenario suite file. Unknown fields are rejected
// so typos in suite files fail loudly.
func LoadSuite(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var suite suiteFile
	if err := dec.Decode(&suite); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("suite file %s is empty", path)
		}
		return nil, fmt.Errorf("parse suite file: %w", err)
	}
	if len(suite.Scenarios) == 0 {
		return nil, fmt.Errorf("suite file %s defines no scenarios", path)
	}

	for i, sc := range suite.Scenarios {
		if err := sc.Validate(); err != nil {
			return nil, fmt.Errorf("suite scenario %d: %w", i, err)
		}
	}
	return suite.Scenarios, nil
}

// DefaultSuite builds the built-in scenario list from harness configuration,
// filtered by the configured scenario selection.
func DefaultSuite(cfg *config.Config) []Scenario {
	all := []Scenario{
		{Name: "Score Ingestion", Kind: KindScore, Count: cfg.ScoreWrites, FailOnError: true},
		{Name: "Top-K Leaders Read", Kind: KindLeaders, Count: cfg.LeaderReads},
		{Name: "Player Rank Read", Kind: KindRank, Count: cfg.RankReads},
	}

	selected := make([]Scenario, 0, len(all))
	for _, sc := range all {
		if cfg.Scenario != config.ScenarioAll && cfg.Scenario != string(sc.Kind) {
			continue
		}
		if sc.Count > 0 {
			selected = append(selected, sc)
		}
	}
	return selected
}
