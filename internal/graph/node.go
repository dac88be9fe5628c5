// Package graph defines the logic-block graph: the executable representation
// of a drag-and-drop event handler. A graph is a DAG of typed nodes rooted at
// a sequence node. The GUI layer edits graphs only through the project API,
// which validates them with this package before committing.
package graph

import (
	"github.com/fable2d/fable/internal/value"
)

// NodeKind tags the variant of a logic node.
type NodeKind string

const (
	// KindSequence runs its children in order.
	KindSequence NodeKind = "sequence"
	// KindBranch evaluates condition arms left to right and runs the first
	// arm whose condition holds; a trailing non-condition child is the else
	// arm.
	KindBranch NodeKind = "branch"
	// KindCondition guards a branch arm; its children are the arm body.
	KindCondition NodeKind = "condition"
	// KindAction applies a named effect to the dispatching instance.
	KindAction NodeKind = "action"
)

// ValidNodeKinds defines the allowed node kinds.
var ValidNodeKinds = map[NodeKind]bool{
	KindSequence:  true,
	KindBranch:    true,
	KindCondition: true,
	KindAction:    true,
}

// EventType names a trigger that dispatches a graph.
//
// Draw is deliberately absent: rendering is driven by the external game
// loop, which reads instance state directly.
type EventType string

const (
	EventCreate     EventType = "create"
	EventStep       EventType = "step"
	EventCollision  EventType = "collision"
	EventKeyPress   EventType = "key_press"
	EventMousePress EventType = "mouse_press"
	EventDestroy    EventType = "destroy"
)

// ValidEventTypes defines the allowed event types.
var ValidEventTypes = map[EventType]bool{
	EventCreate:     true,
	EventStep:       true,
	EventCollision:  true,
	EventKeyPress:   true,
	EventMousePress: true,
	EventDestroy:    true,
}

// Node is one logic block. Op names a builtin operation for condition and
// action nodes; structural nodes (sequence, branch) leave it empty. Params
// carry the block's configured arguments. Children are ordered node IDs.
type Node struct {
	ID       string       `json:"id"`
	Kind     NodeKind     `json:"kind"`
	Op       string       `json:"op,omitempty"`
	Params   value.Object `json:"params,omitempty"`
	Children []string     `json:"children,omitempty"`
}

// Graph is a complete event handler: a set of nodes and the root sequence
// to start the depth-first walk from.
type Graph struct {
	Root  string          `json:"root"`
	Nodes map[string]Node `json:"nodes"`
}

// Clone returns a deep copy. SetEventGraph clones on commit so later editor
// mutations of the argument cannot bypass validation.
func (g *Graph) Clone() *Graph {
	if g == nil {
		return nil
	}
	out := &Graph{
		Root:  g.Root,
		Nodes: make(map[string]Node, len(g.Nodes)),
	}
	for id, n := range g.Nodes {
		c := Node{
			ID:     n.ID,
			Kind:   n.Kind,
			Op:     n.Op,
			Params: n.Params.Clone(),
		}
		if n.Children != nil {
			c.Children = make([]string, len(n.Children))
			copy(c.Children, n.Children)
		}
		out.Nodes[id] = c
	}
	return out
}

// Hash computes the content-addressed hash of the graph's canonical form.
// Equal graphs hash equal regardless of map iteration order.
func (g *Graph) Hash() (string, error) {
	nodes := make(value.Object, len(g.Nodes))
	for id, n := range g.Nodes {
		children := make(value.Array, len(n.Children))
		for i, c := range n.Children {
			children[i] = value.String(c)
		}
		entry := value.Object{
			"kind":     value.String(string(n.Kind)),
			"children": children,
		}
		if n.Op != "" {
			entry["op"] = value.String(n.Op)
		}
		if len(n.Params) > 0 {
			entry["params"] = n.Params
		}
		nodes[id] = entry
	}
	return value.HashObject(value.DomainGraph, value.Object{
		"root":  value.String(g.Root),
		"nodes": nodes,
	})
}

// AssetRefs returns the asset IDs referenced by op parameters, keyed by ID
// with occurrence counts. Used by the project to refuse unregistering assets
// that live graphs still point at.
func (g *Graph) AssetRefs() map[string]int {
	refs := make(map[string]int)
	if g == nil {
		return refs
	}
	for _, n := range g.Nodes {
		spec, ok := opSpecs[n.Op]
		if !ok {
			continue
		}
		for _, p := range spec.params {
			if p.assetKind == "" {
				continue
			}
			if s, ok := n.Params[p.name].(value.String); ok {
				refs[string(s)]++
			}
		}
	}
	return refs
}

// TemplateRefs returns the template IDs referenced by spawn parameters,
// keyed by ID with occurrence counts.
func (g *Graph) TemplateRefs() map[string]int {
	refs := make(map[string]int)
	if g == nil {
		return refs
	}
	for _, n := range g.Nodes {
		spec, ok := opSpecs[n.Op]
		if !ok {
			continue
		}
		for _, p := range spec.params {
			if !p.templateRef {
				continue
			}
			if s, ok := n.Params[p.name].(value.String); ok {
				refs[string(s)]++
			}
		}
	}
	return refs
}
