package project

import (
	"github.com/fable2d/fable/internal/graph"
	"github.com/fable2d/fable/internal/value"
)

// ObjectTemplate is a reusable object definition: a sprite, declared
// properties with default values, and one event graph per event type.
// Instances placed in scenes reference a template by ID and may override
// declared properties only.
type ObjectTemplate struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Sprite string `json:"sprite,omitempty"` // sprite asset ID, optional

	// Properties maps declared property names to default values.
	Properties value.Object `json:"properties,omitempty"`

	// Events maps event types to committed, validated graphs.
	Events map[graph.EventType]*graph.Graph `json:"events,omitempty"`
}

// HasProperty reports whether the template declares the named property.
func (t *ObjectTemplate) HasProperty(name string) bool {
	_, ok := t.Properties[name]
	return ok
}

// Graph returns the committed graph for an event, or nil.
func (t *ObjectTemplate) Graph(event graph.EventType) *graph.Graph {
	return t.Events[event]
}

// clone returns a deep copy.
func (t *ObjectTemplate) clone() *ObjectTemplate {
	out := &ObjectTemplate{
		ID:         t.ID,
		Name:       t.Name,
		Sprite:     t.Sprite,
		Properties: t.Properties.Clone(),
	}
	if t.Events != nil {
		out.Events = make(map[graph.EventType]*graph.Graph, len(t.Events))
		for ev, g := range t.Events {
			out.Events[ev] = g.Clone()
		}
	}
	return out
}

// assetRefs accumulates this template's asset references (sprite plus graph
// parameters) into refs.
func (t *ObjectTemplate) assetRefs(refs map[string]int) {
	if t.Sprite != "" {
		refs[t.Sprite]++
	}
	for _, g := range t.Events {
		for id, n := range g.AssetRefs() {
			refs[id] += n
		}
	}
}

// templateRefs accumulates this template's spawn references into refs.
func (t *ObjectTemplate) templateRefs(refs map[string]int) {
	for _, g := range t.Events {
		for id, n := range g.TemplateRefs() {
			refs[id] += n
		}
	}
}
