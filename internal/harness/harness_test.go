package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios runs every scenario under testdata/scenarios against its
// golden file.
func TestScenarios(t *testing.T) {
	scenarios, err := LoadScenarioDir("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios, "no scenarios found")

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, scenario))
		})
	}
}

func TestRunCapturesCompileError(t *testing.T) {
	scenario := &Scenario{
		Name:        "inline-error",
		Description: "unknown field surfaces as an error code",
		Models: `model: Branch: {
			fields: {
				name: {type: "char", maxLength: 50}
			}
		}`,
		Model:   "Branch",
		Filters: []string{"colour = 'red'"},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.Equal(t, "FIELD_NOT_FOUND", result.ErrorCode)
	assert.Empty(t, result.SQL)
}

func TestRunRejectsUnknownModel(t *testing.T) {
	scenario := &Scenario{
		Name:        "inline-unknown-model",
		Description: "compiling against an unregistered model is a hard error",
		Models: `model: Branch: {
			fields: {
				name: {type: "char", maxLength: 50}
			}
		}`,
		Model:   "Warehouse",
		Filters: []string{"name = 'Acme'"},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Warehouse")
}

func TestMatchRows(t *testing.T) {
	got := []map[string]any{
		{"id": int64(1), "name": "Acme"},
		{"id": int64(2), "name": "Other"},
	}

	// Subset match, order-independent.
	assert.NoError(t, MatchRows([]map[string]any{
		{"name": "Other"},
		{"id": 1},
	}, got))

	// Count mismatch.
	assert.Error(t, MatchRows([]map[string]any{{"id": 1}}, got))

	// Value mismatch.
	assert.Error(t, MatchRows([]map[string]any{
		{"id": 1, "name": "Wrong"},
		{"id": 2},
	}, got))

	// Two expectations cannot claim the same row.
	assert.Error(t, MatchRows([]map[string]any{
		{"name": "Acme"},
		{"id": 1},
	}, got))
}
