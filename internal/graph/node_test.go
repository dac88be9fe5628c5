package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fable2d/fable/internal/value"
)

func soundGraph(soundID string) *Graph {
	return New("root",
		Seq("root", "a1"),
		Action("a1", "play_sound", value.Obj(value.P("sound", value.String(soundID)))),
	)
}

func TestCloneIsDeep(t *testing.T) {
	g := soundGraph("snd-1")
	c := g.Clone()

	n := c.Nodes["a1"]
	n.Params["sound"] = value.String("snd-2")
	c.Nodes["a1"] = n
	c.Nodes["extra"] = Action("extra", "destroy", nil)

	assert.Equal(t, value.String("snd-1"), g.Nodes["a1"].Params["sound"])
	assert.NotContains(t, g.Nodes, "extra")
}

func TestCloneNil(t *testing.T) {
	var g *Graph
	assert.Nil(t, g.Clone())
}

func TestHashDeterministic(t *testing.T) {
	a, err := soundGraph("snd-1").Hash()
	require.NoError(t, err)
	b, err := soundGraph("snd-1").Hash()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other, err := soundGraph("snd-2").Hash()
	require.NoError(t, err)
	assert.NotEqual(t, a, other)
}

func TestHashIgnoresMapOrder(t *testing.T) {
	// Same logical graph assembled in a different insertion order.
	g1 := New("root",
		Seq("root", "a1", "a2"),
		Action("a1", "destroy", nil),
		Action("a2", "destroy", nil),
	)
	g2 := New("root",
		Action("a2", "destroy", nil),
		Action("a1", "destroy", nil),
		Seq("root", "a1", "a2"),
	)
	h1, err := g1.Hash()
	require.NoError(t, err)
	h2, err := g2.Hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestAssetRefs(t *testing.T) {
	g := New("root",
		Seq("root", "a1", "a2", "a3"),
		Action("a1", "play_sound", value.Obj(value.P("sound", value.String("snd-1")))),
		Action("a2", "play_sound", value.Obj(value.P("sound", value.String("snd-1")))),
		Action("a3", "run_script", value.Obj(value.P("script", value.String("scr-1")))),
	)
	refs := g.AssetRefs()
	assert.Equal(t, map[string]int{"snd-1": 2, "scr-1": 1}, refs)
}

func TestTemplateRefs(t *testing.T) {
	g := New("root",
		Seq("root", "a1"),
		Action("a1", "spawn", value.Obj(value.P("template", value.String("tpl-1")))),
	)
	assert.Equal(t, map[string]int{"tpl-1": 1}, g.TemplateRefs())

	var nilGraph *Graph
	assert.Empty(t, nilGraph.TemplateRefs())
	assert.Empty(t, nilGraph.AssetRefs())
}

func TestOpKindSplit(t *testing.T) {
	conds := ConditionOps()
	acts := ActionOps()
	assert.Contains(t, conds, "prop_eq")
	assert.Contains(t, acts, "spawn")
	assert.Len(t, conds, 7)
	assert.Len(t, acts, 8)
}
