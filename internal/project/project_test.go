package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fable2d/fable/internal/asset"
	"github.com/fable2d/fable/internal/graph"
	"github.com/fable2d/fable/internal/value"
)

func newTestProject(t *testing.T) *Project {
	t.Helper()
	return New("test", &SequentialSource{Prefix: "e"})
}

func TestCreateTemplate(t *testing.T) {
	p := newTestProject(t)

	tpl, err := p.CreateTemplate("player")
	require.NoError(t, err)
	assert.Equal(t, "e-1", tpl.ID)
	assert.Equal(t, "player", tpl.Name)

	_, err = p.CreateTemplate("player")
	require.Error(t, err)
	assert.True(t, IsDuplicateName(err))

	byName, err := p.TemplateByName("player")
	require.NoError(t, err)
	assert.Equal(t, tpl.ID, byName.ID)
}

func TestTemplateOrder(t *testing.T) {
	p := newTestProject(t)
	for _, name := range []string{"c", "a", "b"} {
		_, err := p.CreateTemplate(name)
		require.NoError(t, err)
	}
	var names []string
	for _, tpl := range p.Templates() {
		names = append(names, tpl.Name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names, "creation order, not name order")
}

func TestRenameTemplate(t *testing.T) {
	p := newTestProject(t)
	tpl, err := p.CreateTemplate("player")
	require.NoError(t, err)
	_, err = p.CreateTemplate("enemy")
	require.NoError(t, err)

	require.NoError(t, p.RenameTemplate(tpl.ID, "hero"))
	assert.Equal(t, "hero", tpl.Name)

	byName, err := p.TemplateByName("hero")
	require.NoError(t, err)
	assert.Equal(t, tpl.ID, byName.ID)
	_, err = p.TemplateByName("player")
	assert.True(t, IsUnknownTemplate(err), "old name is released")

	err = p.RenameTemplate(tpl.ID, "enemy")
	assert.True(t, IsDuplicateName(err))

	// Renaming to the current name is a no-op.
	require.NoError(t, p.RenameTemplate(tpl.ID, "hero"))
}

func TestSetSprite(t *testing.T) {
	p := newTestProject(t)
	tpl, err := p.CreateTemplate("player")
	require.NoError(t, err)

	spriteID, err := p.RegisterAsset(asset.KindSprite, "sprites/hero.png")
	require.NoError(t, err)
	soundID, err := p.RegisterAsset(asset.KindSound, "sounds/jump.wav")
	require.NoError(t, err)

	require.NoError(t, p.SetSprite(tpl.ID, spriteID))
	assert.Equal(t, spriteID, tpl.Sprite)

	err = p.SetSprite(tpl.ID, soundID)
	require.Error(t, err, "a sound cannot be a sprite")

	require.NoError(t, p.SetSprite(tpl.ID, ""))
	assert.Empty(t, tpl.Sprite)
}

func TestDeclareProperty(t *testing.T) {
	p := newTestProject(t)
	tpl, err := p.CreateTemplate("player")
	require.NoError(t, err)

	require.NoError(t, p.DeclareProperty(tpl.ID, "hp", value.Int(100)))
	assert.Equal(t, value.Int(100), tpl.Properties["hp"])

	// Redeclaring updates the default.
	require.NoError(t, p.DeclareProperty(tpl.ID, "hp", value.Int(50)))
	assert.Equal(t, value.Int(50), tpl.Properties["hp"])

	err = p.DeclareProperty(tpl.ID, "inv", value.Array{})
	require.Error(t, err, "defaults must be scalars")

	err = p.DeclareProperty("nope", "hp", value.Int(1))
	assert.True(t, IsUnknownTemplate(err))
}

func TestSetEventGraph(t *testing.T) {
	p := newTestProject(t)
	tpl, err := p.CreateTemplate("player")
	require.NoError(t, err)

	g := graph.New("root",
		graph.Seq("root", "a1"),
		graph.Action("a1", "move_by", value.Obj(
			value.P("dx", value.Int(1)),
			value.P("dy", value.Int(0)),
		)),
	)
	require.NoError(t, p.SetEventGraph(tpl.ID, graph.EventStep, g))
	require.NotNil(t, tpl.Graph(graph.EventStep))

	// Committed graph is a clone: mutating the argument is harmless.
	g.Nodes["a1"] = graph.Action("a1", "destroy", nil)
	assert.Equal(t, "move_by", tpl.Graph(graph.EventStep).Nodes["a1"].Op)
}

func TestSetEventGraphRejectsInvalid(t *testing.T) {
	p := newTestProject(t)
	tpl, err := p.CreateTemplate("player")
	require.NoError(t, err)

	good := graph.New("root", graph.Seq("root", "a1"), graph.Action("a1", "destroy", nil))
	require.NoError(t, p.SetEventGraph(tpl.ID, graph.EventStep, good))

	bad := graph.New("root", graph.Seq("root", "ghost"))
	err = p.SetEventGraph(tpl.ID, graph.EventStep, bad)
	require.Error(t, err)
	assert.True(t, IsInvalidGraph(err))

	// Atomic: the previous graph survives a rejected commit.
	assert.Equal(t, "destroy", tpl.Graph(graph.EventStep).Nodes["a1"].Op)
}

func TestSetEventGraphUnknownEvent(t *testing.T) {
	p := newTestProject(t)
	tpl, err := p.CreateTemplate("player")
	require.NoError(t, err)

	g := graph.New("root", graph.Seq("root"))
	err = p.SetEventGraph(tpl.ID, graph.EventType("draw"), g)
	require.Error(t, err)
	var me *ModelError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, ErrCodeInvalidEvent, me.Code)
}

func TestSetEventGraphChecksAssetClosure(t *testing.T) {
	p := newTestProject(t)
	tpl, err := p.CreateTemplate("player")
	require.NoError(t, err)

	g := graph.New("root",
		graph.Seq("root", "a1"),
		graph.Action("a1", "play_sound", value.Obj(value.P("sound", value.String("missing")))),
	)
	err = p.SetEventGraph(tpl.ID, graph.EventCreate, g)
	assert.True(t, IsInvalidGraph(err))

	sndID, err := p.RegisterAsset(asset.KindSound, "sounds/jump.wav")
	require.NoError(t, err)
	g.Nodes["a1"] = graph.Action("a1", "play_sound", value.Obj(value.P("sound", value.String(sndID))))
	require.NoError(t, p.SetEventGraph(tpl.ID, graph.EventCreate, g))
}

func TestDeleteTemplateInUseByInstance(t *testing.T) {
	p := newTestProject(t)
	tpl, err := p.CreateTemplate("player")
	require.NoError(t, err)
	sc, err := p.CreateScene("level1", 0, 0)
	require.NoError(t, err)
	inst, err := p.PlaceInstance(sc.ID, tpl.ID, 0, 0)
	require.NoError(t, err)

	err = p.DeleteTemplate(tpl.ID)
	require.Error(t, err)
	assert.True(t, IsTemplateInUse(err))

	require.NoError(t, p.RemoveInstance(sc.ID, inst.ID))
	require.NoError(t, p.DeleteTemplate(tpl.ID))
	_, err = p.Template(tpl.ID)
	assert.True(t, IsUnknownTemplate(err))
}

func TestDeleteTemplateInUseBySpawn(t *testing.T) {
	p := newTestProject(t)
	bullet, err := p.CreateTemplate("bullet")
	require.NoError(t, err)
	gun, err := p.CreateTemplate("gun")
	require.NoError(t, err)

	g := graph.New("root",
		graph.Seq("root", "a1"),
		graph.Action("a1", "spawn", value.Obj(value.P("template", value.String(bullet.ID)))),
	)
	require.NoError(t, p.SetEventGraph(gun.ID, graph.EventStep, g))

	err = p.DeleteTemplate(bullet.ID)
	assert.True(t, IsTemplateInUse(err))

	require.NoError(t, p.RemoveEventGraph(gun.ID, graph.EventStep))
	require.NoError(t, p.DeleteTemplate(bullet.ID))
}

func TestUnregisterAssetInUse(t *testing.T) {
	p := newTestProject(t)
	tpl, err := p.CreateTemplate("player")
	require.NoError(t, err)
	spriteID, err := p.RegisterAsset(asset.KindSprite, "sprites/hero.png")
	require.NoError(t, err)
	require.NoError(t, p.SetSprite(tpl.ID, spriteID))

	err = p.UnregisterAsset(spriteID)
	require.Error(t, err)
	assert.True(t, asset.IsAssetInUse(err))

	require.NoError(t, p.SetSprite(tpl.ID, ""))
	require.NoError(t, p.UnregisterAsset(spriteID))
}

func TestUnregisterBackgroundInUse(t *testing.T) {
	p := newTestProject(t)
	sc, err := p.CreateScene("level1", 0, 0)
	require.NoError(t, err)
	bgID, err := p.RegisterAsset(asset.KindBackground, "bg/sky.png")
	require.NoError(t, err)
	require.NoError(t, p.SetBackground(sc.ID, bgID))

	err = p.UnregisterAsset(bgID)
	assert.True(t, asset.IsAssetInUse(err))
}

func TestCreateScene(t *testing.T) {
	p := newTestProject(t)

	sc, err := p.CreateScene("level1", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(DefaultSceneWidth), sc.Width)
	assert.Equal(t, int64(DefaultSceneHeight), sc.Height)
	assert.Equal(t, int64(DefaultGridSize), sc.GridSize)

	_, err = p.CreateScene("level1", 100, 100)
	assert.True(t, IsDuplicateName(err))

	wide, err := p.CreateScene("level2", 1280, 720)
	require.NoError(t, err)
	assert.Equal(t, int64(1280), wide.Width)
}

func TestPlaceInstanceSnapsToGrid(t *testing.T) {
	p := newTestProject(t)
	tpl, err := p.CreateTemplate("player")
	require.NoError(t, err)
	sc, err := p.CreateScene("level1", 0, 0)
	require.NoError(t, err)

	inst, err := p.PlaceInstance(sc.ID, tpl.ID, 37, 95)
	require.NoError(t, err)
	assert.Equal(t, int64(32), inst.X)
	assert.Equal(t, int64(64), inst.Y)

	// Negative coordinates snap toward negative infinity.
	neg, err := p.PlaceInstance(sc.ID, tpl.ID, -1, -33)
	require.NoError(t, err)
	assert.Equal(t, int64(-32), neg.X)
	assert.Equal(t, int64(-64), neg.Y)

	// Grid off: exact placement.
	require.NoError(t, p.SetGridSize(sc.ID, 0))
	free, err := p.PlaceInstance(sc.ID, tpl.ID, 37, 95)
	require.NoError(t, err)
	assert.Equal(t, int64(37), free.X)
	assert.Equal(t, int64(95), free.Y)
}

func TestPlaceInstanceUnknownTemplate(t *testing.T) {
	p := newTestProject(t)
	sc, err := p.CreateScene("level1", 0, 0)
	require.NoError(t, err)

	_, err = p.PlaceInstance(sc.ID, "nope", 0, 0)
	assert.True(t, IsUnknownTemplate(err))
}

func TestInstanceOrder(t *testing.T) {
	p := newTestProject(t)
	tpl, err := p.CreateTemplate("player")
	require.NoError(t, err)
	sc, err := p.CreateScene("level1", 0, 0)
	require.NoError(t, err)

	a, err := p.PlaceInstance(sc.ID, tpl.ID, 0, 0)
	require.NoError(t, err)
	b, err := p.PlaceInstance(sc.ID, tpl.ID, 32, 0)
	require.NoError(t, err)
	c, err := p.PlaceInstance(sc.ID, tpl.ID, 64, 0)
	require.NoError(t, err)

	require.NoError(t, p.RemoveInstance(sc.ID, b.ID))
	insts := sc.Instances()
	require.Len(t, insts, 2)
	assert.Equal(t, []string{a.ID, c.ID}, []string{insts[0].ID, insts[1].ID})
}

func TestRaiseInstance(t *testing.T) {
	p := newTestProject(t)
	tpl, err := p.CreateTemplate("player")
	require.NoError(t, err)
	sc, err := p.CreateScene("level1", 0, 0)
	require.NoError(t, err)

	a, err := p.PlaceInstance(sc.ID, tpl.ID, 0, 0)
	require.NoError(t, err)
	b, err := p.PlaceInstance(sc.ID, tpl.ID, 32, 0)
	require.NoError(t, err)
	c, err := p.PlaceInstance(sc.ID, tpl.ID, 64, 0)
	require.NoError(t, err)

	require.NoError(t, p.RaiseInstance(sc.ID, a.ID))
	insts := sc.Instances()
	require.Len(t, insts, 3)
	assert.Equal(t, []string{b.ID, c.ID, a.ID},
		[]string{insts[0].ID, insts[1].ID, insts[2].ID})

	err = p.RaiseInstance(sc.ID, "nope")
	assert.True(t, IsUnknownInstance(err))
}

func TestSetOverride(t *testing.T) {
	p := newTestProject(t)
	tpl, err := p.CreateTemplate("player")
	require.NoError(t, err)
	require.NoError(t, p.DeclareProperty(tpl.ID, "hp", value.Int(100)))
	sc, err := p.CreateScene("level1", 0, 0)
	require.NoError(t, err)
	inst, err := p.PlaceInstance(sc.ID, tpl.ID, 0, 0)
	require.NoError(t, err)

	require.NoError(t, p.SetOverride(sc.ID, inst.ID, "hp", value.Int(25)))
	assert.Equal(t, value.Int(25), inst.Overrides["hp"])

	err = p.SetOverride(sc.ID, inst.ID, "mana", value.Int(10))
	require.Error(t, err)
	assert.True(t, IsUnknownProperty(err))

	require.NoError(t, p.ClearOverride(sc.ID, inst.ID, "hp"))
	assert.NotContains(t, inst.Overrides, "hp")
}

func TestMoveInstance(t *testing.T) {
	p := newTestProject(t)
	tpl, err := p.CreateTemplate("player")
	require.NoError(t, err)
	sc, err := p.CreateScene("level1", 0, 0)
	require.NoError(t, err)
	inst, err := p.PlaceInstance(sc.ID, tpl.ID, 0, 0)
	require.NoError(t, err)

	require.NoError(t, p.MoveInstance(sc.ID, inst.ID, 70, 70))
	assert.Equal(t, int64(64), inst.X)

	err = p.MoveInstance(sc.ID, "nope", 0, 0)
	assert.True(t, IsUnknownInstance(err))
}

func TestCheckInvariantsCleanProject(t *testing.T) {
	p := newTestProject(t)
	tpl, err := p.CreateTemplate("player")
	require.NoError(t, err)
	sc, err := p.CreateScene("level1", 0, 0)
	require.NoError(t, err)
	_, err = p.PlaceInstance(sc.ID, tpl.ID, 0, 0)
	require.NoError(t, err)

	assert.NoError(t, p.CheckInvariants())
}

func TestCheckInvariantsCatchesRestoredDanglingTemplate(t *testing.T) {
	p := newTestProject(t)
	sc, err := p.CreateScene("level1", 0, 0)
	require.NoError(t, err)

	// Restore bypasses reference checks, as a corrupt document would.
	require.NoError(t, p.RestoreInstance(sc.ID, Instance{ID: "i-1", Template: "ghost"}))

	err = p.CheckInvariants()
	require.Error(t, err)
	assert.True(t, IsUnknownTemplate(err))
}

func TestRestoreRoundTripPreservesIDs(t *testing.T) {
	p := newTestProject(t)
	require.NoError(t, p.RestoreTemplate(&ObjectTemplate{ID: "tpl-7", Name: "player"}))

	tpl, err := p.Template("tpl-7")
	require.NoError(t, err)
	assert.Equal(t, "player", tpl.Name)

	sc, err := p.RestoreScene("scn-3", "level1", 640, 480, 16, "")
	require.NoError(t, err)
	assert.Equal(t, int64(16), sc.GridSize)

	// Restored coordinates are authoritative, no snapping.
	require.NoError(t, p.RestoreInstance("scn-3", Instance{ID: "i-9", Template: "tpl-7", X: 37, Y: 95}))
	inst := sc.Instance("i-9")
	require.NotNil(t, inst)
	assert.Equal(t, int64(37), inst.X)
}
