package graph

import "github.com/fable2d/fable/internal/value"

// Constructors for assembling graphs in code. The editor front end builds
// node maps directly; these exist for tests and for programmatic callers.

// Seq returns a sequence node.
func Seq(id string, children ...string) Node {
	return Node{ID: id, Kind: KindSequence, Children: children}
}

// Branch returns a branch node.
func Branch(id string, children ...string) Node {
	return Node{ID: id, Kind: KindBranch, Children: children}
}

// Cond returns a condition node guarding an arm body.
func Cond(id, op string, params value.Object, children ...string) Node {
	return Node{ID: id, Kind: KindCondition, Op: op, Params: params, Children: children}
}

// Action returns an action leaf.
func Action(id, op string, params value.Object) Node {
	return Node{ID: id, Kind: KindAction, Op: op, Params: params}
}

// New assembles a graph from nodes, keyed by their IDs.
func New(root string, nodes ...Node) *Graph {
	g := &Graph{Root: root, Nodes: make(map[string]Node, len(nodes))}
	for _, n := range nodes {
		g.Nodes[n.ID] = n
	}
	return g
}
