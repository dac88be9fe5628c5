package engine

// visitBudget bounds the number of graph nodes one event dispatch may
// visit. Exceeding it aborts the remaining graph with an EXEC_LIMIT error;
// the tick then moves on to the next dispatch.
type visitBudget struct {
	max  int
	used int
}

func newVisitBudget(max int) *visitBudget {
	return &visitBudget{max: max}
}

// spend consumes one visit. Returns false once the budget is exhausted.
func (b *visitBudget) spend() bool {
	b.used++
	return b.used <= b.max
}
