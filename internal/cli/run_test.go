package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenarioFixture(t *testing.T, scenarioYAML string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "project.json"), []byte(validProjectJSON), 0o644))
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o644))
	return path
}

const passingScenario = `
name: cli-walk
project: project.json
scene: scn-level
ticks:
  - repeat: 4
assertions:
  - type: position
    instance: inst-1
    x: 8
    y: 0
`

func TestRunPassingScenario(t *testing.T) {
	path := writeScenarioFixture(t, passingScenario)

	out, err := execute(t, "run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ cli-walk: 4 tick(s), 0 runtime error(s)")
}

func TestRunPassingScenarioJSON(t *testing.T) {
	path := writeScenarioFixture(t, passingScenario)

	out, err := execute(t, "--format", "json", "run", path)
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   RunResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Passed)
	assert.Equal(t, 4, resp.Data.Ticks)
	require.Len(t, resp.Data.Trace, 4)
	assert.Equal(t, int64(1), resp.Data.Trace[0].Seq)
}

func TestRunFailingAssertion(t *testing.T) {
	path := writeScenarioFixture(t, `
name: cli-wrong
project: project.json
scene: scn-level
ticks:
  - repeat: 1
assertions:
  - type: position
    instance: inst-1
    x: 500
    y: 500
`)

	out, err := execute(t, "run", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ cli-wrong")
}

func TestRunMissingScenario(t *testing.T) {
	_, err := execute(t, "run", "nope.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunUnknownSceneID(t *testing.T) {
	path := writeScenarioFixture(t, `
name: cli-ghost
project: project.json
scene: scn-ghost
ticks:
  - repeat: 1
`)

	_, err := execute(t, "run", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
