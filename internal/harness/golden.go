package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/fable2d/fable/internal/value"
)

// TraceJSON renders a run's trace as canonical JSON. Canonical form keeps
// golden files byte-stable: sorted keys, no float drift, no escaping noise.
func TraceJSON(res *Result) ([]byte, error) {
	events := make([]any, len(res.Trace))
	for i, ev := range res.Trace {
		m := map[string]any{
			"seq":     ev.Seq,
			"mutated": ev.Mutated,
		}
		if len(ev.Spawned) > 0 {
			m["spawned"] = toAnySlice(ev.Spawned)
		}
		if len(ev.Destroyed) > 0 {
			m["destroyed"] = toAnySlice(ev.Destroyed)
		}
		if len(ev.Errors) > 0 {
			m["errors"] = toAnySlice(ev.Errors)
		}
		events[i] = m
	}
	return value.MarshalCanonical(map[string]any{
		"scenario_name": res.Scenario.Name,
		"trace":         events,
	})
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// AssertGolden compares a run's trace against testdata/golden/<name>.golden.
// Regenerate with -update after an intentional semantics change.
func AssertGolden(t *testing.T, res *Result) {
	t.Helper()

	data, err := TraceJSON(res)
	if err != nil {
		t.Fatalf("failed to render trace: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, res.Scenario.Name, data)
}
