package graph

import (
	"fmt"
	"strings"

	"github.com/fable2d/fable/internal/asset"
	"github.com/fable2d/fable/internal/value"
)

// Validation error codes (E200-E299).
const (
	ErrEmptyGraph       = "E200" // graph has no nodes
	ErrMissingRoot      = "E201" // root reference absent or unknown
	ErrRootNotSequence  = "E202" // root node must be a sequence
	ErrUnknownChild     = "E203" // child reference to a missing node
	ErrCycleDetected    = "E204" // graph contains a cycle
	ErrInvalidKind      = "E205" // node kind outside the known variants
	ErrUnknownOp        = "E206" // op name not in the builtin vocabulary
	ErrOpKindMismatch   = "E207" // condition op on an action node or vice versa
	ErrBadParam         = "E208" // missing or mistyped op parameter
	ErrDanglingAsset    = "E209" // op references an unregistered asset
	ErrDanglingTemplate = "E210" // spawn references an unknown template
	ErrNodeIDMismatch   = "E211" // node's ID field disagrees with its map key
	ErrBadChildKind     = "E212" // child kind not allowed under this parent
	ErrUnreachableNode  = "E213" // node not reachable from the root
)

// ValidationError represents a rejected graph edit.
type ValidationError struct {
	NodeID  string `json:"node_id,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("[%s] node %s: %s", e.Code, e.NodeID, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Refs resolves external references during validation. The project
// aggregate implements it; tests use stubs.
type Refs interface {
	// HasAsset reports whether an asset of the given kind exists.
	HasAsset(id string, kind asset.Kind) bool
	// HasTemplate reports whether an object template exists.
	HasTemplate(id string) bool
}

// Validate checks a graph against the full edit-time rule set: structure,
// op vocabulary, parameter types, reference closure, and acyclicity.
// Returns all errors found (does not fail fast). A nil or empty slice means
// the graph is safe to commit.
//
// The cycle pass is the same check rerun by Project.CheckInvariants at load
// time, so nothing persisted can reintroduce a cycle unnoticed.
func Validate(g *Graph, refs Refs) []ValidationError {
	var errs []ValidationError

	if g == nil || len(g.Nodes) == 0 {
		return []ValidationError{{
			Message: "graph must contain at least one node",
			Code:    ErrEmptyGraph,
		}}
	}

	root, ok := g.Nodes[g.Root]
	if !ok {
		errs = append(errs, ValidationError{
			Field:   "root",
			Message: fmt.Sprintf("root node %q not found", g.Root),
			Code:    ErrMissingRoot,
		})
	} else if root.Kind != KindSequence {
		errs = append(errs, ValidationError{
			NodeID:  g.Root,
			Field:   "root",
			Message: fmt.Sprintf("root must be a sequence, got %s", root.Kind),
			Code:    ErrRootNotSequence,
		})
	}

	for id, n := range g.Nodes {
		errs = append(errs, validateNode(id, n, g, refs)...)
	}

	// Structural errors make the cycle and reachability passes unreliable;
	// report them only on otherwise well-formed graphs.
	if len(errs) == 0 {
		if path := findCycle(g); path != nil {
			errs = append(errs, ValidationError{
				NodeID:  path[0],
				Message: fmt.Sprintf("cycle detected: %s", strings.Join(path, " -> ")),
				Code:    ErrCycleDetected,
			})
		} else {
			errs = append(errs, checkReachability(g)...)
		}
	}

	return errs
}

// validateNode checks one node's kind, op, parameters, and child kinds.
func validateNode(id string, n Node, g *Graph, refs Refs) []ValidationError {
	var errs []ValidationError

	if n.ID != "" && n.ID != id {
		errs = append(errs, ValidationError{
			NodeID:  id,
			Field:   "id",
			Message: fmt.Sprintf("node ID %q disagrees with its key %q", n.ID, id),
			Code:    ErrNodeIDMismatch,
		})
	}

	if !ValidNodeKinds[n.Kind] {
		errs = append(errs, ValidationError{
			NodeID:  id,
			Field:   "kind",
			Message: fmt.Sprintf("unknown node kind %q", n.Kind),
			Code:    ErrInvalidKind,
		})
		return errs
	}

	switch n.Kind {
	case KindCondition, KindAction:
		errs = append(errs, validateOp(id, n, refs)...)
	default:
		if n.Op != "" {
			errs = append(errs, ValidationError{
				NodeID:  id,
				Field:   "op",
				Message: fmt.Sprintf("%s nodes carry no op", n.Kind),
				Code:    ErrOpKindMismatch,
			})
		}
	}

	errs = append(errs, validateChildren(id, n, g)...)
	return errs
}

// validateOp checks the op name, its node-kind pairing, parameter presence
// and types, and asset/template reference closure.
func validateOp(id string, n Node, refs Refs) []ValidationError {
	var errs []ValidationError

	spec, ok := opSpecs[n.Op]
	if !ok {
		errs = append(errs, ValidationError{
			NodeID:  id,
			Field:   "op",
			Message: fmt.Sprintf("unknown op %q", n.Op),
			Code:    ErrUnknownOp,
		})
		return errs
	}
	if spec.kind != n.Kind {
		errs = append(errs, ValidationError{
			NodeID:  id,
			Field:   "op",
			Message: fmt.Sprintf("op %q is a %s op, node is %s", n.Op, spec.kind, n.Kind),
			Code:    ErrOpKindMismatch,
		})
	}

	for _, p := range spec.params {
		v, present := n.Params[p.name]
		if !present {
			if !p.optional {
				errs = append(errs, ValidationError{
					NodeID:  id,
					Field:   "params." + p.name,
					Message: fmt.Sprintf("op %q requires parameter %q", n.Op, p.name),
					Code:    ErrBadParam,
				})
			}
			continue
		}
		if !checkParamType(v, p.typ) {
			errs = append(errs, ValidationError{
				NodeID:  id,
				Field:   "params." + p.name,
				Message: fmt.Sprintf("parameter %q has wrong type for op %q", p.name, n.Op),
				Code:    ErrBadParam,
			})
			continue
		}
		errs = append(errs, validateParamRef(id, n.Op, p, v, refs)...)
	}

	return errs
}

// validateParamRef checks asset and template references against the
// resolver. A nil resolver skips closure checks (used by tests that only
// exercise structure).
func validateParamRef(id, op string, p paramSpec, v value.Value, refs Refs) []ValidationError {
	if refs == nil {
		return nil
	}
	s, ok := v.(value.String)
	if !ok {
		return nil
	}
	str := string(s)
	switch {
	case p.assetKind != "":
		if !refs.HasAsset(str, p.assetKind) {
			return []ValidationError{{
				NodeID:  id,
				Field:   "params." + p.name,
				Message: fmt.Sprintf("op %q references unknown %s asset %q", op, p.assetKind, str),
				Code:    ErrDanglingAsset,
			}}
		}
	case p.templateRef:
		if !refs.HasTemplate(str) {
			return []ValidationError{{
				NodeID:  id,
				Field:   "params." + p.name,
				Message: fmt.Sprintf("op %q references unknown template %q", op, str),
				Code:    ErrDanglingTemplate,
			}}
		}
	}
	return nil
}

// validateChildren checks child references exist and that child kinds are
// allowed under the parent:
//   - sequence: sequence, branch, action
//   - branch: condition arms, plus at most one trailing non-condition else
//   - condition: sequence, branch, action (the arm body)
//   - action: no children
func validateChildren(id string, n Node, g *Graph) []ValidationError {
	var errs []ValidationError

	if n.Kind == KindAction && len(n.Children) > 0 {
		errs = append(errs, ValidationError{
			NodeID:  id,
			Field:   "children",
			Message: "action nodes are leaves",
			Code:    ErrBadChildKind,
		})
		return errs
	}

	for i, childID := range n.Children {
		child, ok := g.Nodes[childID]
		if !ok {
			errs = append(errs, ValidationError{
				NodeID:  id,
				Field:   fmt.Sprintf("children[%d]", i),
				Message: fmt.Sprintf("child %q not found", childID),
				Code:    ErrUnknownChild,
			})
			continue
		}

		switch n.Kind {
		case KindSequence, KindCondition:
			if child.Kind == KindCondition {
				errs = append(errs, ValidationError{
					NodeID:  id,
					Field:   fmt.Sprintf("children[%d]", i),
					Message: "condition nodes may only appear under a branch",
					Code:    ErrBadChildKind,
				})
			}
		case KindBranch:
			if child.Kind != KindCondition && i != len(n.Children)-1 {
				errs = append(errs, ValidationError{
					NodeID:  id,
					Field:   fmt.Sprintf("children[%d]", i),
					Message: "only the last branch child may be a non-condition else arm",
					Code:    ErrBadChildKind,
				})
			}
		}
	}

	return errs
}

// checkReachability reports nodes the depth-first walk can never visit.
// Detached fragments are rejected rather than silently persisted; the
// editor keeps work-in-progress copies outside the committed graph.
func checkReachability(g *Graph) []ValidationError {
	reached := make(map[string]bool, len(g.Nodes))
	var walk func(id string)
	walk = func(id string) {
		if reached[id] {
			return
		}
		reached[id] = true
		for _, c := range g.Nodes[id].Children {
			walk(c)
		}
	}
	walk(g.Root)

	var errs []ValidationError
	for _, id := range sortedNodeIDs(g) {
		if !reached[id] {
			errs = append(errs, ValidationError{
				NodeID:  id,
				Message: "node is not reachable from the root",
				Code:    ErrUnreachableNode,
			})
		}
	}
	return errs
}
