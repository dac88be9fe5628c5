package format

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fable2d/fable/internal/asset"
	"github.com/fable2d/fable/internal/graph"
	"github.com/fable2d/fable/internal/project"
	"github.com/fable2d/fable/internal/value"
)

// fixtureProject builds a small project with one of everything.
func fixtureProject(t *testing.T) *project.Project {
	t.Helper()
	p := project.New("demo", &project.SequentialSource{Prefix: "e"})

	spriteID, err := p.RegisterAsset(asset.KindSprite, "sprites/hero.png")
	require.NoError(t, err)
	soundID, err := p.RegisterAsset(asset.KindSound, "sounds/jump.wav")
	require.NoError(t, err)

	tpl, err := p.CreateTemplate("player")
	require.NoError(t, err)
	require.NoError(t, p.SetSprite(tpl.ID, spriteID))
	require.NoError(t, p.DeclareProperty(tpl.ID, "hp", value.Int(100)))

	g := graph.New("root",
		graph.Seq("root", "a1"),
		graph.Action("a1", "play_sound", value.Obj(value.P("sound", value.String(soundID)))),
	)
	require.NoError(t, p.SetEventGraph(tpl.ID, graph.EventStep, g))

	sc, err := p.CreateScene("level1", 640, 480)
	require.NoError(t, err)
	inst, err := p.PlaceInstance(sc.ID, tpl.ID, 64, 96)
	require.NoError(t, err)
	require.NoError(t, p.SetOverride(sc.ID, inst.ID, "hp", value.Int(50)))

	return p
}

func TestSaveGolden(t *testing.T) {
	data, err := Save(fixtureProject(t))
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "project_v3", data)
}

func TestSaveDeterministic(t *testing.T) {
	a, err := Save(fixtureProject(t))
	require.NoError(t, err)
	b, err := Save(fixtureProject(t))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRoundTrip(t *testing.T) {
	p := fixtureProject(t)
	data, err := Save(p)
	require.NoError(t, err)

	loaded, err := Load(data, nil)
	require.NoError(t, err)

	// Reserializing the loaded project reproduces the original bytes.
	again, err := Save(loaded)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))

	tpl, err := loaded.TemplateByName("player")
	require.NoError(t, err)
	assert.Equal(t, value.Int(100), tpl.Properties["hp"])
	require.NotNil(t, tpl.Graph(graph.EventStep))
}

func TestLoadCorrupt(t *testing.T) {
	for name, input := range map[string]string{
		"truncated":        `{"format_version": 3, "name"`,
		"not json":         `hello`,
		"missing version":  `{"name": "x"}`,
		"string version":   `{"format_version": "3", "name": "x"}`,
		"fraction version": `{"format_version": 2.5, "name": "x"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load([]byte(input), nil)
			require.Error(t, err)
			assert.True(t, IsCorrupt(err), "want CorruptProjectError, got %v", err)
		})
	}
}

func TestLoadUnsupportedVersion(t *testing.T) {
	_, err := Load([]byte(`{"format_version": 99, "name": "x"}`), nil)
	require.Error(t, err)
	assert.True(t, IsUnsupportedVersion(err))

	_, err = Load([]byte(`{"format_version": 0, "name": "x"}`), nil)
	require.Error(t, err)
	assert.True(t, IsUnsupportedVersion(err))
}

func TestLoadSchemaViolation(t *testing.T) {
	// Unknown asset kind.
	doc := `{
		"format_version": 3,
		"name": "x",
		"assets": [{"id": "a", "kind": "texture", "path": "t.png"}]
	}`
	_, err := Load([]byte(doc), nil)
	require.Error(t, err)
	assert.True(t, IsInvalid(err), "want InvalidProjectError, got %v", err)
}

func TestLoadRejectsFloatProperty(t *testing.T) {
	doc := `{
		"format_version": 3,
		"name": "x",
		"templates": [{"id": "t1", "name": "player", "properties": {"speed": 1.5}}]
	}`
	_, err := Load([]byte(doc), nil)
	require.Error(t, err)
	assert.True(t, IsInvalid(err))
}

func TestLoadRejectsAssetIDMismatch(t *testing.T) {
	doc := `{
		"format_version": 3,
		"name": "x",
		"assets": [{"id": "forged", "kind": "sprite", "path": "sprites/hero.png"}]
	}`
	_, err := Load([]byte(doc), nil)
	require.Error(t, err)
	assert.True(t, IsInvalid(err))
}

func TestLoadRejectsDanglingInstance(t *testing.T) {
	doc := `{
		"format_version": 3,
		"name": "x",
		"scenes": [{
			"id": "s1", "name": "level1", "width": 640, "height": 480, "grid_size": 0,
			"instances": [{"id": "i1", "template": "ghost", "x": 0, "y": 0}]
		}]
	}`
	_, err := Load([]byte(doc), nil)
	require.Error(t, err)
	assert.True(t, IsInvalid(err))
}

func TestMigrateFromV1(t *testing.T) {
	spriteID := asset.ID(asset.KindSprite, "sprites/hero.png")
	doc := fmt.Sprintf(`{
		"format_version": 1,
		"name": "old",
		"assets": [{"id": %q, "type": "sprite", "path": "sprites/hero.png"}],
		"objects": [{"id": "t1", "name": "player"}],
		"rooms": [{
			"id": "s1", "name": "level1", "width": 640, "height": 480,
			"instances": [{"id": "i1", "template": "t1", "x": 10, "y": 20}]
		}]
	}`, spriteID)

	p, err := Load([]byte(doc), nil)
	require.NoError(t, err)

	tpl, err := p.TemplateByName("player")
	require.NoError(t, err)
	assert.Equal(t, "t1", tpl.ID)

	sc, err := p.Scene("s1")
	require.NoError(t, err)
	assert.Equal(t, int64(32), sc.GridSize, "v2 to v3 migration supplies the default grid")

	inst := sc.Instance("i1")
	require.NotNil(t, inst)
	assert.Equal(t, int64(10), inst.X, "persisted coordinates are not re-snapped")
}

func TestMigrateFromV2(t *testing.T) {
	doc := `{
		"format_version": 2,
		"name": "old",
		"templates": [{"id": "t1", "name": "player"}],
		"scenes": [{"id": "s1", "name": "level1", "width": 320, "height": 240}]
	}`
	p, err := Load([]byte(doc), nil)
	require.NoError(t, err)

	sc, err := p.Scene("s1")
	require.NoError(t, err)
	assert.Equal(t, int64(320), sc.Width)
	assert.Equal(t, int64(32), sc.GridSize)
}

func TestMigratedSaveWritesCurrentVersion(t *testing.T) {
	doc := `{
		"format_version": 2,
		"name": "old",
		"templates": [{"id": "t1", "name": "player"}]
	}`
	p, err := Load([]byte(doc), nil)
	require.NoError(t, err)

	data, err := Save(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"format_version": 3`)
}
