package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares its output against a golden
// file under testdata/golden/{scenario.Name}.golden.
//
// The golden content is the generated SQL, or "error: CODE: message" when the
// scenario expects a compile error. Row expectations are validated separately
// against the scenario's expect_rows.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	if scenario.ExpectError != "" {
		if result.ErrorCode != scenario.ExpectError {
			return fmt.Errorf("expected error code %s, got %q (sql: %q)",
				scenario.ExpectError, result.ErrorCode, result.SQL)
		}
	} else if result.ErrorCode != "" {
		return fmt.Errorf("unexpected compile error %s: %s", result.ErrorCode, result.ErrorMessage)
	}

	if len(scenario.ExpectRows) > 0 {
		if err := MatchRows(scenario.ExpectRows, result.Rows); err != nil {
			return err
		}
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, []byte(goldenContent(result)))

	return nil
}

func goldenContent(result *Result) string {
	if result.ErrorCode != "" {
		return fmt.Sprintf("error: %s: %s\n", result.ErrorCode, result.ErrorMessage)
	}
	return result.SQL + "\n"
}
