package graph

import "sort"

// findCycle runs a three-color depth-first search over child edges and
// returns the first cycle found as a node ID path ending where it began,
// or nil if the graph is acyclic. Node order is sorted so the reported
// cycle is stable across runs.
func findCycle(g *Graph) []string {
	const (
		white = iota // unvisited
		gray         // on the current DFS stack
		black        // fully explored
	)
	color := make(map[string]int, len(g.Nodes))

	var stack []string
	var cycle []string

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		stack = append(stack, id)
		for _, child := range g.Nodes[id].Children {
			switch color[child] {
			case gray:
				// Trim the stack down to the cycle entry point.
				start := 0
				for i, s := range stack {
					if s == child {
						start = i
						break
					}
				}
				cycle = append(append(cycle, stack[start:]...), child)
				return true
			case white:
				if visit(child) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for _, id := range sortedNodeIDs(g) {
		if color[id] == white {
			if visit(id) {
				return cycle
			}
		}
	}
	return nil
}

// sortedNodeIDs returns the graph's node IDs in lexicographic order.
func sortedNodeIDs(g *Graph) []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
