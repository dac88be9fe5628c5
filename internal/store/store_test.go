package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fable2d/fable/internal/project"
	"github.com/fable2d/fable/internal/value"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testProject(t *testing.T) *project.Project {
	t.Helper()
	p := project.New("demo", &project.SequentialSource{Prefix: "e"})
	tpl, err := p.CreateTemplate("player")
	require.NoError(t, err)
	require.NoError(t, p.DeclareProperty(tpl.ID, "hp", value.Int(100)))
	_, err = p.CreateScene("level1", 640, 480)
	require.NoError(t, err)
	return p
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestSaveAndLoadLatest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	p := testProject(t)

	id, hash, inserted, err := s.SaveSnapshot(ctx, p, "initial")
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotZero(t, id)
	assert.NotEmpty(t, hash)

	loaded, err := s.LoadLatest(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "demo", loaded.Name)

	tpl, err := loaded.TemplateByName("player")
	require.NoError(t, err)
	assert.Equal(t, value.Int(100), tpl.Properties["hp"])
}

func TestSaveDeduplicatesIdenticalDocuments(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	p := testProject(t)

	id1, hash1, inserted, err := s.SaveSnapshot(ctx, p, "first")
	require.NoError(t, err)
	assert.True(t, inserted)

	id2, hash2, inserted, err := s.SaveSnapshot(ctx, p, "second save, same content")
	require.NoError(t, err)
	assert.False(t, inserted, "identical document must not create a new row")
	assert.Equal(t, id1, id2)
	assert.Equal(t, hash1, hash2)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSaveNewContentCreatesNewSnapshot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	p := testProject(t)

	_, hash1, _, err := s.SaveSnapshot(ctx, p, "before")
	require.NoError(t, err)

	tpl, err := p.TemplateByName("player")
	require.NoError(t, err)
	require.NoError(t, p.DeclareProperty(tpl.ID, "hp", value.Int(42)))

	_, hash2, inserted, err := s.SaveSnapshot(ctx, p, "after")
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotEqual(t, hash1, hash2)

	// Latest reflects the edit.
	loaded, err := s.LoadLatest(ctx, nil)
	require.NoError(t, err)
	reloaded, err := loaded.TemplateByName("player")
	require.NoError(t, err)
	assert.Equal(t, value.Int(42), reloaded.Properties["hp"])

	// And the older snapshot is still reachable by hash.
	old, err := s.LoadByHash(ctx, hash1, nil)
	require.NoError(t, err)
	oldTpl, err := old.TemplateByName("player")
	require.NoError(t, err)
	assert.Equal(t, value.Int(100), oldTpl.Properties["hp"])
}

func TestLoadLatestEmptyArchive(t *testing.T) {
	s := openTestStore(t)
	_, err := s.LoadLatest(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoSnapshots)
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	p := testProject(t)

	_, _, _, err := s.SaveSnapshot(ctx, p, "v1")
	require.NoError(t, err)

	_, err = p.CreateScene("level2", 0, 0)
	require.NoError(t, err)
	_, _, _, err = s.SaveSnapshot(ctx, p, "v2")
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "v2", list[0].Note)
	assert.Equal(t, "v1", list[1].Note)
	assert.Greater(t, list[0].ID, list[1].ID)
	assert.Positive(t, list[0].Size)
}

func TestPrune(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	p := testProject(t)

	for _, name := range []string{"level2", "level3", "level4"} {
		_, err := p.CreateScene(name, 0, 0)
		require.NoError(t, err)
		_, _, _, err = s.SaveSnapshot(ctx, p, name)
		require.NoError(t, err)
	}

	removed, err := s.Prune(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "level4", list[0].Note)
}
