package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/fable2d/fable/internal/asset"
	"github.com/fable2d/fable/internal/graph"
	"github.com/fable2d/fable/internal/value"
)

// tickState accumulates one tick's effects. Destroys are queued rather
// than applied mid-walk so the instance list never changes under an
// iterating dispatch phase. Spawn requests queue on the Runtime instead,
// so requests that miss this tick's settlement cap survive into the next.
type tickState struct {
	input     *Input
	mutated   map[string]bool
	errors    []*RuntimeError
	destroys  []string
	destroyed map[string]bool
}

// touch marks an instance as mutated this tick.
func (st *tickState) touch(id string) {
	if st.mutated == nil {
		st.mutated = make(map[string]bool)
	}
	st.mutated[id] = true
}

type spawnRequest struct {
	template string
	x, y     int64
	nodeID   string
	byID     string
}

func (st *tickState) fail(e *RuntimeError) {
	st.errors = append(st.errors, e)
}

// run walks one graph for one event dispatch. Every dispatch gets a fresh
// node visit budget, so a runaway graph aborts only itself: the EXEC_LIMIT
// error is recorded and the tick moves on to the next dispatch.
func (r *Runtime) run(ctx context.Context, st *tickState, g *graph.Graph, inst *Instance) {
	r.walk(ctx, st, newVisitBudget(r.maxVisits), g, g.Root, inst)
}

func (r *Runtime) walk(ctx context.Context, st *tickState, b *visitBudget, g *graph.Graph, nodeID string, inst *Instance) bool {
	if !b.spend() {
		st.fail(&RuntimeError{
			Code:       ErrCodeExecLimit,
			Message:    fmt.Sprintf("node visit budget (%d) exhausted", b.max),
			InstanceID: inst.ID,
			NodeID:     nodeID,
		})
		return false
	}

	n := g.Nodes[nodeID]
	switch n.Kind {
	case graph.KindSequence:
		for _, child := range n.Children {
			if !inst.alive {
				return true
			}
			if !r.walk(ctx, st, b, g, child, inst) {
				return false
			}
		}

	case graph.KindBranch:
		for _, child := range n.Children {
			c := g.Nodes[child]
			if c.Kind != graph.KindCondition {
				// Trailing else arm.
				return r.walk(ctx, st, b, g, child, inst)
			}
			if !b.spend() {
				st.fail(&RuntimeError{
					Code:       ErrCodeExecLimit,
					Message:    fmt.Sprintf("node visit budget (%d) exhausted", b.max),
					InstanceID: inst.ID,
					NodeID:     child,
				})
				return false
			}
			if r.evalCondition(st, c, inst) {
				for _, body := range c.Children {
					if !inst.alive {
						return true
					}
					if !r.walk(ctx, st, b, g, body, inst) {
						return false
					}
				}
				return true
			}
		}

	case graph.KindAction:
		r.applyAction(ctx, st, n, inst)
	}
	return true
}

// evalCondition evaluates a condition node against the instance and the
// tick's input. Unknown ops and missing properties evaluate false.
func (r *Runtime) evalCondition(st *tickState, n graph.Node, inst *Instance) bool {
	props := inst.Props
	switch n.Op {
	case "always":
		return true
	case "never":
		return false
	case "prop_eq":
		name := paramString(n, "name")
		v, ok := props[name]
		return ok && value.Equal(v, n.Params["value"])
	case "prop_lt":
		cur, ok := props[paramString(n, "name")].(value.Int)
		want, wok := n.Params["value"].(value.Int)
		return ok && wok && cur < want
	case "prop_gt":
		cur, ok := props[paramString(n, "name")].(value.Int)
		want, wok := n.Params["value"].(value.Int)
		return ok && wok && cur > want
	case "has_prop":
		_, ok := props[paramString(n, "name")]
		return ok
	case "key_down":
		return st.input.keyDown(paramString(n, "key"))
	default:
		st.fail(&RuntimeError{
			Code:       ErrCodeUnknownOp,
			Message:    fmt.Sprintf("no handler for condition op %q", n.Op),
			InstanceID: inst.ID,
			NodeID:     n.ID,
		})
		return false
	}
}

// applyAction executes one action node against the dispatching instance.
func (r *Runtime) applyAction(ctx context.Context, st *tickState, n graph.Node, inst *Instance) {
	switch n.Op {
	case "set_prop":
		inst.Props[paramString(n, "name")] = value.Clone(n.Params["value"])
		st.touch(inst.ID)

	case "add_prop":
		name := paramString(n, "name")
		amount, _ := n.Params["amount"].(value.Int)
		// Missing or non-integer current values count from zero.
		cur, _ := inst.Props[name].(value.Int)
		inst.Props[name] = cur + amount
		st.touch(inst.ID)

	case "move_by":
		dx, _ := n.Params["dx"].(value.Int)
		dy, _ := n.Params["dy"].(value.Int)
		inst.X += int64(dx)
		inst.Y += int64(dy)
		st.touch(inst.ID)

	case "move_to":
		x, _ := n.Params["x"].(value.Int)
		y, _ := n.Params["y"].(value.Int)
		inst.X = int64(x)
		inst.Y = int64(y)
		st.touch(inst.ID)

	case "play_sound":
		id := paramString(n, "sound")
		a, err := r.project.Assets().ResolveKind(id, asset.KindSound)
		if err != nil {
			st.fail(&RuntimeError{
				Code:       ErrCodeUnknownOp,
				Message:    fmt.Sprintf("play_sound: %v", err),
				InstanceID: inst.ID,
				NodeID:     n.ID,
			})
			return
		}
		// Sounds are fire-and-forget; a host failure is logged, not queued.
		if err := r.host.PlaySound(ctx, a); err != nil {
			r.log.Warn("sound playback failed",
				"asset", a.Path,
				"instance", inst.ID,
				"error", err)
		}

	case "spawn":
		dx, _ := n.Params["dx"].(value.Int)
		dy, _ := n.Params["dy"].(value.Int)
		r.pendingSpawn = append(r.pendingSpawn, spawnRequest{
			template: paramString(n, "template"),
			x:        inst.X + int64(dx),
			y:        inst.Y + int64(dy),
			nodeID:   n.ID,
			byID:     inst.ID,
		})

	case "destroy":
		if inst.alive && !st.destroyed[inst.ID] {
			inst.alive = false
			st.destroyed[inst.ID] = true
			st.destroys = append(st.destroys, inst.ID)
			st.touch(inst.ID)
		}

	case "run_script":
		r.runScript(ctx, st, n, inst)

	default:
		st.fail(&RuntimeError{
			Code:       ErrCodeUnknownOp,
			Message:    fmt.Sprintf("no handler for action op %q", n.Op),
			InstanceID: inst.ID,
			NodeID:     n.ID,
		})
	}
}

// runScript invokes the host with the configured deadline. A timed-out or
// failed script is a collected error; the instance and the tick survive.
func (r *Runtime) runScript(ctx context.Context, st *tickState, n graph.Node, inst *Instance) {
	id := paramString(n, "script")
	a, err := r.project.Assets().ResolveKind(id, asset.KindScript)
	if err != nil {
		st.fail(&RuntimeError{
			Code:       ErrCodeUnknownOp,
			Message:    fmt.Sprintf("run_script: %v", err),
			InstanceID: inst.ID,
			NodeID:     n.ID,
		})
		return
	}

	scriptCtx, cancel := context.WithTimeout(ctx, r.scriptTimeout)
	defer cancel()

	err = r.host.RunScript(scriptCtx, a, inst)
	switch {
	case err == nil:
		st.touch(inst.ID)
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(scriptCtx.Err(), context.DeadlineExceeded):
		st.fail(&RuntimeError{
			Code:       ErrCodeScriptTimeout,
			Message:    fmt.Sprintf("script %s exceeded %s", a.Path, r.scriptTimeout),
			InstanceID: inst.ID,
			NodeID:     n.ID,
		})
	default:
		st.fail(&RuntimeError{
			Code:       ErrCodeScriptFailed,
			Message:    fmt.Sprintf("script %s: %v", a.Path, err),
			InstanceID: inst.ID,
			NodeID:     n.ID,
		})
	}
}

func paramString(n graph.Node, name string) string {
	s, _ := n.Params[name].(value.String)
	return string(s)
}
