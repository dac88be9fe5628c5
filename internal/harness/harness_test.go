package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fable2d/fable/internal/value"
)

func TestWalkerScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/walker.yaml")
	require.NoError(t, err)
	assert.Equal(t, "walker", s.Name)

	res, err := Run(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, res.Trace, 3)

	inst := res.Runtime.Instance("inst-walker-1")
	require.NotNil(t, inst)
	assert.Equal(t, int64(9), inst.X)
	assert.Equal(t, int64(3), inst.Y)
	assert.Equal(t, value.Int(3), inst.Props["steps"])

	AssertGolden(t, res)
}

func TestBombScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/bomb.yaml")
	require.NoError(t, err)

	res, err := Run(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, res.Trace, 2)

	assert.Equal(t, []string{"spawn-1"}, res.Trace[0].Spawned)
	assert.Equal(t, []string{"inst-bomb-1"}, res.Trace[0].Destroyed)
	assert.Nil(t, res.Runtime.Instance("inst-bomb-1"))

	shard := res.Runtime.Instance("spawn-1")
	require.NotNil(t, shard)
	assert.Equal(t, int64(72), shard.X)
	assert.Equal(t, int64(64), shard.Y)

	AssertGolden(t, res)
}

func TestTraceIsStableAcrossRuns(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/bomb.yaml")
	require.NoError(t, err)

	first, err := Run(context.Background(), s)
	require.NoError(t, err)
	second, err := Run(context.Background(), s)
	require.NoError(t, err)

	a, err := TraceJSON(first)
	require.NoError(t, err)
	b, err := TraceJSON(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestAssertionFailureReportsIndexAndType(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/walker.yaml")
	require.NoError(t, err)

	s.Assertions = []Assertion{
		{Type: AssertPosition, Instance: "inst-walker-1", X: 999, Y: 999},
	}
	_, err = Run(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assertions[0]")
	assert.Contains(t, err.Error(), "position")
}

func TestLoadScenarioRejectsUnknownFields(t *testing.T) {
	path := writeScenario(t, `
name: typo
project: ../../testdata/projects/walker.json
scene: scn-level
tiks:
  - repeat: 1
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenarioValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "missing name",
			yaml: `
project: nowhere.json
scene: scn-level
ticks:
  - repeat: 1
`,
			wantErr: "name is required",
		},
		{
			name: "missing project file",
			yaml: `
name: ghost
project: nowhere.json
scene: scn-level
ticks:
  - repeat: 1
`,
			wantErr: "project file not found",
		},
		{
			name: "no ticks",
			yaml: `
name: still
project: walker.json
scene: scn-level
`,
			wantErr: "ticks list",
		},
		{
			name: "bad assertion type",
			yaml: `
name: odd
project: walker.json
scene: scn-level
ticks:
  - repeat: 1
assertions:
  - type: teleported
`,
			wantErr: `unknown type "teleported"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			// Most cases want a real project next to the scenario file.
			data, err := os.ReadFile("testdata/projects/walker.json")
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(filepath.Join(dir, "walker.json"), data, 0o644))

			path := filepath.Join(dir, "scenario.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			_, err = LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunUnknownScene(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/walker.yaml")
	require.NoError(t, err)

	s.Scene = "scn-nope"
	_, err = Run(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start runtime")
}

func writeScenario(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}
