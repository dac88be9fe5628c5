package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// validProjectJSON is a current-version document with one template that
// walks on step, placed once.
const validProjectJSON = `{
  "format_version": 3,
  "name": "cli fixture",
  "templates": [
    {
      "id": "tpl-walker",
      "name": "walker",
      "properties": {"steps": 0},
      "events": {
        "step": {
          "root": "root",
          "nodes": {
            "root": {"id": "root", "kind": "sequence", "children": ["move"]},
            "move": {"id": "move", "kind": "action", "op": "move_by", "params": {"dx": 2, "dy": 0}}
          }
        }
      }
    }
  ],
  "scenes": [
    {
      "id": "scn-level",
      "name": "level",
      "width": 640,
      "height": 480,
      "grid_size": 32,
      "instances": [
        {"id": "inst-1", "template": "tpl-walker", "x": 0, "y": 0}
      ]
    }
  ]
}`

// legacyProjectJSON is a v1 document using the old top-level keys.
const legacyProjectJSON = `{
  "format_version": 1,
  "name": "legacy",
  "objects": [],
  "rooms": [
    {"id": "scn-old", "name": "old room", "width": 320, "height": 240}
  ]
}`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the root command with args and returns stdout and the error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootRejectsInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "validate", "whatever.json")
	require.Error(t, err)
	require.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestRootListsSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"validate", "info", "migrate", "run", "snapshot"} {
		require.True(t, names[want], "missing subcommand %s", want)
	}
}
