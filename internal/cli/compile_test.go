package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileScalarFilter(t *testing.T) {
	models := writeModelsFile(t, testModelsCUE)

	out, err := executeCommand("compile", "--models", models, "Branch", "name = 'Acme'")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM branch WHERE name = 'Acme'\n", out)
}

func TestCompileRelationalPath(t *testing.T) {
	models := writeModelsFile(t, testModelsCUE)

	out, err := executeCommand("compile", "--models", models, "Branch", "product.name = 'Widgets'")
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT outer1.* FROM branch AS outer1 JOIN "+
			"(SELECT table0.id AS branch FROM branch AS table0 JOIN "+
			"(SELECT id AS product FROM product WHERE name = 'Widgets') AS table1 "+
			"ON table0.product = table1.product) AS outer2 "+
			"ON outer1.id = outer2.branch\n",
		out)
}

func TestCompileJSONOutput(t *testing.T) {
	models := writeModelsFile(t, testModelsCUE)

	out, err := executeCommand("--format", "json", "compile", "--models", models, "Branch", "name = 'Acme'")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Branch", data["model"])
	assert.Equal(t, "SELECT * FROM branch WHERE name = 'Acme'", data["sql"])
}

func TestCompileUnknownFieldFails(t *testing.T) {
	models := writeModelsFile(t, testModelsCUE)

	out, err := executeCommand("compile", "--models", models, "Branch", "colour = 'red'")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FIELD_NOT_FOUND")
	assert.Contains(t, out, "colour")
}

func TestCompileBadFilterSyntax(t *testing.T) {
	models := writeModelsFile(t, testModelsCUE)

	out, err := executeCommand("compile", "--models", models, "Branch", "no comparison here")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "BAD_FILTER")
}

func TestCompileMissingModelsFile(t *testing.T) {
	out, err := executeCommand("compile", "--models", "/nonexistent/models.cue", "Branch", "name = 'Acme'")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "LOAD_FAILED")
}

func TestCompilePrimaryKeyOverride(t *testing.T) {
	models := writeModelsFile(t, testModelsCUE)

	out, err := executeCommand("compile", "--models", models, "--primary-key", "pk",
		"Branch", "product.name = 'Widgets'")
	require.NoError(t, err)
	assert.Contains(t, out, "SELECT pk AS product FROM product")
	assert.False(t, strings.Contains(out, "SELECT id"), "default pk should not appear: %s", out)
}

func TestCompileVerboseLogsToStderr(t *testing.T) {
	// Verbose diagnostics must not corrupt JSON on stdout.
	models := writeModelsFile(t, testModelsCUE)

	out, err := executeCommand("--format", "json", "-v", "compile", "--models", models, "Branch", "name = 'Acme'")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 3 model(s)")

	var resp CLIResponse
	// The JSON document is the last line of combined output.
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &resp))
	assert.Equal(t, "ok", resp.Status)
}
