package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// Scenarios compile a set of filters against a model registry and compare
// the generated SQL (or the compile error) against a golden file. When a
// scenario carries seed rows, the query is additionally executed against a
// fresh in-memory database and the returned rows are validated.
type Scenario struct {
	// Name uniquely identifies this scenario. It doubles as the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Models is the inline CUE source defining the model registry.
	Models string `yaml:"models"`

	// PrimaryKey overrides the registry's primary key column.
	PrimaryKey string `yaml:"primary_key,omitempty"`

	// Model names the model the filters are compiled against.
	Model string `yaml:"model"`

	// Filters lists the filter expressions, one per entry.
	// Multiple entries intersect, the same way "a AND b" does.
	Filters []string `yaml:"filters"`

	// ExpectError names the compile error code the scenario expects
	// (e.g. "FIELD_NOT_FOUND"). When set, compilation must fail with
	// that code and no SQL is generated.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Seed contains rows to insert before executing the query.
	// When present, the scenario runs against a real in-memory database.
	Seed []SeedRow `yaml:"seed,omitempty"`

	// ExpectRows contains the rows the executed query must return.
	// Subset match per row - only specified columns are validated.
	// Order does not matter. Only meaningful together with Seed.
	ExpectRows []map[string]any `yaml:"expect_rows,omitempty"`
}

// SeedRow is a single row inserted during scenario setup.
type SeedRow struct {
	// Table is the table the row is inserted into.
	Table string `yaml:"table"`

	// Values maps column names to values.
	Values map[string]any `yaml:"values"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "filter:" vs "filters:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarioDir loads every *.yaml scenario under dir, sorted by file name.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Models == "" {
		return fmt.Errorf("models is required")
	}

	if s.Model == "" {
		return fmt.Errorf("model is required")
	}

	if len(s.Filters) == 0 {
		return fmt.Errorf("filters list is required and must be non-empty")
	}

	if s.ExpectError != "" && len(s.Seed) > 0 {
		return fmt.Errorf("expect_error and seed are mutually exclusive")
	}

	if len(s.ExpectRows) > 0 && len(s.Seed) == 0 {
		return fmt.Errorf("expect_rows requires seed")
	}

	for i, row := range s.Seed {
		if row.Table == "" {
			return fmt.Errorf("seed[%d]: table is required", i)
		}
		if len(row.Values) == 0 {
			return fmt.Errorf("seed[%d]: values is required", i)
		}
	}

	return nil
}
