// Package harness provides a conformance testing framework for the query
// compiler.
//
// Scenarios are YAML files pairing a model registry (inline CUE) with a list
// of filter expressions. Running a scenario compiles the filters and captures
// either the generated SQL or the compile error code; golden files under
// testdata/golden hold the expected output. Scenarios that carry seed rows
// additionally execute the query against a fresh in-memory SQLite database
// and validate the returned rows.
package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/cyroxx/androrm/internal/qbuild"
	"github.com/cyroxx/androrm/internal/schema"
	"github.com/cyroxx/androrm/internal/sqlgen"
	"github.com/cyroxx/androrm/internal/store"
)

// Result captures the outcome of running a scenario.
type Result struct {
	// SQL is the generated query text. Empty when compilation failed.
	SQL string

	// ErrorCode is the compile error code when compilation failed.
	ErrorCode string

	// ErrorMessage is the compile error text when compilation failed.
	ErrorMessage string

	// Rows holds the rows returned by executing the query.
	// Only populated for scenarios with seed data.
	Rows []map[string]any
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against its own registry, and scenarios with seed data
// get a fresh in-memory database for isolation. Compile errors from the
// path resolver are captured in the result rather than returned; any other
// failure (bad CUE, bad filter syntax, database errors) is returned as an
// error.
func Run(scenario *Scenario) (*Result, error) {
	var opts []schema.Option
	if scenario.PrimaryKey != "" {
		opts = append(opts, schema.WithPrimaryKey(scenario.PrimaryKey))
	}
	reg, err := schema.LoadString(scenario.Models, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load models: %w", err)
	}

	filters := make([]qbuild.Filter, 0, len(scenario.Filters))
	for i, expr := range scenario.Filters {
		parsed, err := qbuild.ParseFilters(expr)
		if err != nil {
			return nil, fmt.Errorf("filters[%d]: %w", i, err)
		}
		filters = append(filters, parsed...)
	}

	sel, err := qbuild.NewCompiler(reg).Compile(scenario.Model, filters)
	if err != nil {
		var cerr *qbuild.CompileError
		if errors.As(err, &cerr) {
			return &Result{
				ErrorCode:    string(cerr.Code),
				ErrorMessage: cerr.Message,
			}, nil
		}
		return nil, err
	}

	result := &Result{SQL: sel.SQL()}

	if len(scenario.Seed) > 0 {
		rows, err := executeSeeded(scenario, reg, sel)
		if err != nil {
			return nil, err
		}
		result.Rows = rows
	}

	return result, nil
}

// executeSeeded runs the compiled query against a fresh in-memory database
// populated with the scenario's seed rows.
func executeSeeded(scenario *Scenario, reg *schema.Registry, sel *sqlgen.Select) ([]map[string]any, error) {
	ctx := context.Background()

	st, err := store.OpenMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	if err := st.CreateTables(ctx, reg); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	for i, row := range scenario.Seed {
		if _, err := st.Insert(ctx, row.Table, row.Values); err != nil {
			return nil, fmt.Errorf("seed[%d]: %w", i, err)
		}
	}

	rows, err := st.Query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return store.ScanRows(rows)
}

// MatchRows reports whether got contains exactly the rows want describes.
// Each want entry must match one distinct got row on all of its columns;
// order does not matter. Returns a description of the first mismatch.
func MatchRows(want []map[string]any, got []map[string]any) error {
	if len(want) != len(got) {
		return fmt.Errorf("expected %d rows, got %d", len(want), len(got))
	}

	used := make([]bool, len(got))
	for i, expected := range want {
		found := false
		for j, actual := range got {
			if used[j] || !rowMatches(expected, actual) {
				continue
			}
			used[j] = true
			found = true
			break
		}
		if !found {
			return fmt.Errorf("expect_rows[%d]: no returned row matches %v", i, expected)
		}
	}
	return nil
}

// rowMatches reports whether actual has every column of expected with an
// equal value. Numeric values are compared as int64 since YAML decodes
// integers as int while database/sql returns int64.
func rowMatches(expected, actual map[string]any) bool {
	for col, want := range expected {
		got, ok := actual[col]
		if !ok {
			return false
		}
		if !valueEqual(want, got) {
			return false
		}
	}
	return true
}

func valueEqual(want, got any) bool {
	if wi, ok := asInt64(want); ok {
		gi, ok := asInt64(got)
		return ok && wi == gi
	}
	return want == got
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}
