package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sqltally/internal/engine"
	"github.com/roach88/sqltally/internal/scope"
	"github.com/roach88/sqltally/internal/sqlkind"
)

// Scenario defines one statement-count check.
type Scenario struct {
	// Name uniquely identifies this scenario; also the golden file name.
	Name string `yaml:"name"`

	// Description explains what query budget this scenario documents.
	Description string `yaml:"description"`

	// ScopeID is an optional fixed scope ID for deterministic golden
	// comparison. When absent the runner draws a fresh ID from its
	// generator for each run.
	ScopeID string `yaml:"scope_id,omitempty"`

	// Statements are replayed through the recorder as the test body, in
	// order.
	Statements []string `yaml:"statements"`

	// Deferred statements model a write-behind persistence layer: they
	// are captured only when the engine's flush step runs.
	Deferred []string `yaml:"deferred,omitempty"`

	// Expect maps lowercase kind names (select, insert, update, delete,
	// other) to expected counts. Absent kinds must match zero.
	Expect map[string]int `yaml:"expect,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(s.Statements) == 0 && len(s.Deferred) == 0 {
		return fmt.Errorf("at least one statement (statements or deferred) is required")
	}

	if _, err := s.Expectation(); err != nil {
		return err
	}

	return nil
}

// Expectation converts the scenario's expect map into an engine
// Expectation, rejecting unknown kind names and negative counts.
func (s *Scenario) Expectation() (engine.Expectation, error) {
	expectation := make(engine.Expectation, len(s.Expect))
	for name, count := range s.Expect {
		kind, err := kindFromName(name)
		if err != nil {
			return nil, err
		}
		if count < 0 {
			return nil, fmt.Errorf("expect.%s is negative (%d)", name, count)
		}
		expectation[kind] = count
	}
	return expectation, nil
}

// EffectiveScopeID returns the scenario's pinned scope ID, or a fresh one
// from gen when the scenario does not pin one.
func (s *Scenario) EffectiveScopeID(gen scope.IDGenerator) scope.ID {
	if s.ScopeID != "" {
		return scope.ID(s.ScopeID)
	}
	return gen.Generate()
}

func kindFromName(name string) (sqlkind.Kind, error) {
	switch name {
	case "select":
		return sqlkind.Select, nil
	case "insert":
		return sqlkind.Insert, nil
	case "update":
		return sqlkind.Update, nil
	case "delete":
		return sqlkind.Delete, nil
	case "other":
		return sqlkind.Other, nil
	default:
		return "", fmt.Errorf("expect references unknown kind %q (want select, insert, update, delete or other)", name)
	}
}
