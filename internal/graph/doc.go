// Package graph defines the logic-block graph: the tree-shaped program a
// user wires together in the editor for one event handler.
//
// Nodes come in four kinds. Sequence runs its children in order. Branch
// evaluates condition-kind children left to right and runs the body of the
// first one that holds; a trailing non-condition child is the else arm.
// Condition and action nodes name an operation from the builtin vocabulary
// in ops.go with typed parameters.
//
// Validation happens at edit time: Validate collects every structural,
// vocabulary, cycle, and reference problem with a stable E-code, so the
// engine can interpret accepted graphs without re-checking shape.
package graph
