package harness

import (
	"context"
	"fmt"

	"github.com/fable2d/fable/internal/engine"
	"github.com/fable2d/fable/internal/format"
	"github.com/fable2d/fable/internal/project"
	"github.com/fable2d/fable/internal/value"
)

// TraceEvent is one tick's outcome, reduced to what determinism cares
// about. Two runs of the same scenario must produce identical traces.
type TraceEvent struct {
	Seq       int64    `json:"seq"`
	Mutated   bool     `json:"mutated"`
	Spawned   []string `json:"spawned,omitempty"`
	Destroyed []string `json:"destroyed,omitempty"`
	Errors    []string `json:"errors,omitempty"` // error codes only; messages may carry paths
}

// Result holds everything a scenario run produced.
type Result struct {
	Scenario *Scenario
	Runtime  *engine.Runtime
	Trace    []TraceEvent
}

// Run loads the scenario's project, plays its input stream, and checks
// its assertions. Spawned instance IDs come from a sequential source so
// traces stay stable across runs; extra options are applied after that
// default and may override it.
func Run(ctx context.Context, s *Scenario, opts ...engine.Option) (*Result, error) {
	p, err := format.LoadFile(s.Project, &project.SequentialSource{Prefix: "load"})
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	runtimeOpts := append([]engine.Option{
		engine.WithIDSource(&project.SequentialSource{Prefix: "spawn"}),
	}, opts...)
	rt, err := engine.NewRuntime(p, s.Scene, runtimeOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start runtime: %w", err)
	}

	res := &Result{Scenario: s, Runtime: rt}
	for _, step := range s.Ticks {
		repeat := step.Repeat
		if repeat <= 0 {
			repeat = 1
		}
		input := engine.Input{
			Keys:         step.Keys,
			MousePressed: step.MousePressed,
			MouseX:       step.MouseX,
			MouseY:       step.MouseY,
		}
		for i := 0; i < repeat; i++ {
			tr := rt.Tick(ctx, input)
			ev := TraceEvent{
				Seq:       tr.Seq,
				Mutated:   len(tr.Mutated) > 0,
				Spawned:   tr.Spawned,
				Destroyed: tr.Destroyed,
			}
			for _, e := range tr.Errors {
				ev.Errors = append(ev.Errors, string(e.Code))
			}
			res.Trace = append(res.Trace, ev)
		}
	}

	if err := checkAssertions(res); err != nil {
		return res, err
	}
	return res, nil
}

func checkAssertions(res *Result) error {
	for i, a := range res.Scenario.Assertions {
		if err := checkAssertion(res, a); err != nil {
			return fmt.Errorf("assertions[%d] (%s): %w", i, a.Type, err)
		}
	}
	return nil
}

func checkAssertion(res *Result, a Assertion) error {
	rt := res.Runtime
	switch a.Type {
	case AssertPosition:
		inst := rt.Instance(a.Instance)
		if inst == nil || !inst.Alive() {
			return fmt.Errorf("instance %s is not in the scene", a.Instance)
		}
		if inst.X != a.X || inst.Y != a.Y {
			return fmt.Errorf("instance %s is at (%d, %d), want (%d, %d)",
				a.Instance, inst.X, inst.Y, a.X, a.Y)
		}

	case AssertPropEquals:
		inst := rt.Instance(a.Instance)
		if inst == nil || !inst.Alive() {
			return fmt.Errorf("instance %s is not in the scene", a.Instance)
		}
		got, ok := inst.Props[a.Name]
		if !ok {
			return fmt.Errorf("instance %s has no property %q", a.Instance, a.Name)
		}
		want, err := value.FromAny(a.Value)
		if err != nil {
			return fmt.Errorf("bad expected value: %w", err)
		}
		if !value.Equal(got, want) {
			return fmt.Errorf("instance %s property %q is %v, want %v",
				a.Instance, a.Name, got, want)
		}

	case AssertInstanceCount:
		if got := len(rt.Instances()); got != a.Count {
			return fmt.Errorf("scene has %d live instances, want %d", got, a.Count)
		}

	case AssertDestroyed:
		if inst := rt.Instance(a.Instance); inst != nil && inst.Alive() {
			return fmt.Errorf("instance %s is still alive", a.Instance)
		}

	case AssertErrorCount:
		got := 0
		for _, ev := range res.Trace {
			got += len(ev.Errors)
		}
		if got != a.Count {
			return fmt.Errorf("trace has %d runtime errors, want %d", got, a.Count)
		}

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
