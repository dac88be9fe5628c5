package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotSaveAndList(t *testing.T) {
	project := writeFixture(t, "project.json", validProjectJSON)
	db := filepath.Join(t.TempDir(), "archive.db")

	out, err := execute(t, "snapshot", "save", project, "--db", db, "--note", "first cut")
	require.NoError(t, err)
	assert.Contains(t, out, "Archived snapshot 1")

	out, err = execute(t, "snapshot", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "cli fixture")
	assert.Contains(t, out, "first cut")
}

func TestSnapshotSaveDeduplicates(t *testing.T) {
	project := writeFixture(t, "project.json", validProjectJSON)
	db := filepath.Join(t.TempDir(), "archive.db")

	_, err := execute(t, "snapshot", "save", project, "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "--format", "json", "snapshot", "save", project, "--db", db)
	require.NoError(t, err)

	var resp struct {
		Status string             `json:"status"`
		Data   SnapshotSaveResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, resp.Data.Inserted)
	assert.Equal(t, int64(1), resp.Data.ID)
}

func TestSnapshotRestoreLatest(t *testing.T) {
	project := writeFixture(t, "project.json", validProjectJSON)
	db := filepath.Join(t.TempDir(), "archive.db")
	restored := filepath.Join(t.TempDir(), "restored.json")

	_, err := execute(t, "snapshot", "save", project, "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "snapshot", "restore", "--db", db, "-o", restored)
	require.NoError(t, err)
	assert.Contains(t, out, `Restored "cli fixture"`)

	// The restored document loads and validates like the original.
	_, err = execute(t, "validate", restored)
	require.NoError(t, err)
}

func TestSnapshotRestoreEmptyArchive(t *testing.T) {
	db := filepath.Join(t.TempDir(), "empty.db")
	restored := filepath.Join(t.TempDir(), "restored.json")

	_, err := execute(t, "snapshot", "restore", "--db", db, "-o", restored)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestSnapshotPrune(t *testing.T) {
	db := filepath.Join(t.TempDir(), "archive.db")

	// Two distinct documents, then keep only the newest.
	first := writeFixture(t, "a.json", validProjectJSON)
	_, err := execute(t, "snapshot", "save", first, "--db", db)
	require.NoError(t, err)

	second := writeFixture(t, "b.json", legacyProjectJSON)
	_, err = execute(t, "snapshot", "save", second, "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "snapshot", "prune", "--db", db, "--keep", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 1 snapshot(s)")

	out, err = execute(t, "snapshot", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "legacy")
	assert.NotContains(t, out, "cli fixture")
}

func TestSnapshotRequiresDatabaseFlag(t *testing.T) {
	project := writeFixture(t, "project.json", validProjectJSON)

	_, err := execute(t, "snapshot", "save", project)
	require.Error(t, err)
}
