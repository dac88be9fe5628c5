package engine

import (
	"context"
	"fmt"

	"github.com/fable2d/fable/internal/graph"
)

// Input is the front end's report of player activity for one tick.
type Input struct {
	// Keys pressed this tick, in press order. Drives key_press events and
	// the key_down condition.
	Keys []string `json:"keys,omitempty"`

	MousePressed bool  `json:"mouse_pressed,omitempty"`
	MouseX       int64 `json:"mouse_x,omitempty"`
	MouseY       int64 `json:"mouse_y,omitempty"`
}

func (in *Input) keyDown(key string) bool {
	for _, k := range in.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// TickResult reports what one tick did. Mutated lists the live instances
// whose state changed, in creation order, so the renderer can redraw just
// those. Errors are collected, never thrown: a broken script or exhausted
// budget degrades the tick, it does not kill the session.
type TickResult struct {
	Seq       int64           `json:"seq"`
	Mutated   []string        `json:"mutated,omitempty"`
	Spawned   []string        `json:"spawned,omitempty"`
	Destroyed []string        `json:"destroyed,omitempty"`
	Errors    []*RuntimeError `json:"errors,omitempty"`
}

// Tick advances the scene by one step.
//
// Dispatch order within a tick is fixed: create events for instances that
// materialized since the last tick, then step, key_press, mouse_press, and
// collision, each over instances in creation order. Destroys queued during
// those phases run their destroy graphs and leave the scene; spawns then
// materialize and receive create in the same tick, so a spawn chain plays
// out until done or the per-tick spawn cap defers the rest.
func (r *Runtime) Tick(ctx context.Context, input Input) TickResult {
	st := &tickState{
		input:     &input,
		destroyed: make(map[string]bool),
	}
	seq := r.clock.Next()

	r.dispatchCreates(ctx, st)
	r.dispatchAll(ctx, st, graph.EventStep)
	for range input.Keys {
		r.dispatchAll(ctx, st, graph.EventKeyPress)
	}
	if input.MousePressed {
		r.dispatchAll(ctx, st, graph.EventMousePress)
	}
	r.dispatchCollisions(ctx, st)

	spawned := r.settle(ctx, st)

	if len(st.errors) > 0 {
		r.log.Warn("tick completed with errors",
			"seq", seq,
			"errors", len(st.errors))
	}

	var mutated []string
	for _, id := range r.order {
		if st.mutated[id] {
			mutated = append(mutated, id)
		}
	}

	return TickResult{
		Seq:       seq,
		Mutated:   mutated,
		Spawned:   spawned,
		Destroyed: st.destroys,
		Errors:    st.errors,
	}
}

// dispatchCreates delivers pending create events, including to instances
// that materialized mid-loop (a create graph that spawns).
func (r *Runtime) dispatchCreates(ctx context.Context, st *tickState) {
	for len(r.pendingCreate) > 0 {
		id := r.pendingCreate[0]
		r.pendingCreate = r.pendingCreate[1:]
		inst := r.instances[id]
		if inst == nil || !inst.alive {
			continue
		}
		g := r.eventGraph(inst, graph.EventCreate)
		if g == nil {
			continue
		}
		r.run(ctx, st, g, inst)
	}
}

// dispatchAll delivers one event type to every live instance in creation
// order. The order is snapshot up front; queued spawns only materialize at
// settle, so the iteration domain stays fixed for the phase.
func (r *Runtime) dispatchAll(ctx context.Context, st *tickState, ev graph.EventType) {
	ids := append([]string(nil), r.order...)
	for _, id := range ids {
		inst := r.instances[id]
		if inst == nil || !inst.alive {
			continue
		}
		g := r.eventGraph(inst, ev)
		if g == nil {
			continue
		}
		r.run(ctx, st, g, inst)
	}
}

// dispatchCollisions finds overlapping pairs and delivers collision to
// both sides, first-placed instance first.
func (r *Runtime) dispatchCollisions(ctx context.Context, st *tickState) {
	ids := append([]string(nil), r.order...)
	for i := 0; i < len(ids); i++ {
		a := r.instances[ids[i]]
		if a == nil || !a.alive {
			continue
		}
		for j := i + 1; j < len(ids); j++ {
			b := r.instances[ids[j]]
			if b == nil || !b.alive {
				continue
			}
			if !overlaps(a, b) {
				continue
			}
			for _, self := range [2]*Instance{a, b} {
				if !self.alive {
					continue
				}
				g := r.eventGraph(self, graph.EventCollision)
				if g == nil {
					continue
				}
				r.run(ctx, st, g, self)
			}
		}
	}
}

// overlaps tests axis-aligned bounding boxes.
func overlaps(a, b *Instance) bool {
	aw, ah := a.size()
	bw, bh := b.size()
	return a.X < b.X+bw && b.X < a.X+aw &&
		a.Y < b.Y+bh && b.Y < a.Y+ah
}

// settle applies the tick's queued destroys and spawns. Destroyed
// instances run their destroy graph and leave the scene; spawned instances
// materialize and receive create immediately, which may queue further
// spawns, so the loop alternates until quiet. At most maxVisits instances
// materialize per tick; requests past the cap raise an EXEC_LIMIT error
// and carry over to the next tick, so a self-spawning template cannot hang
// a tick.
func (r *Runtime) settle(ctx context.Context, st *tickState) (spawned []string) {
	for _, id := range st.destroys {
		inst := r.instances[id]
		if inst == nil {
			continue
		}
		if g := r.eventGraph(inst, graph.EventDestroy); g != nil {
			r.run(ctx, st, g, inst)
		}
		r.removeInstance(id)
	}

	born := 0
	for {
		if len(r.pendingSpawn) > 0 && born < r.maxVisits {
			req := r.pendingSpawn[0]
			r.pendingSpawn = r.pendingSpawn[1:]
			tpl, err := r.project.Template(req.template)
			if err != nil {
				st.fail(&RuntimeError{
					Code:       ErrCodeMissingTemplate,
					Message:    "spawn references a template that no longer exists",
					InstanceID: req.byID,
					NodeID:     req.nodeID,
				})
				continue
			}
			inst := r.materialize(r.ids.NewID(), tpl, req.x, req.y)
			spawned = append(spawned, inst.ID)
			st.touch(inst.ID)
			born++
			continue
		}
		if len(r.pendingCreate) > 0 {
			r.dispatchCreates(ctx, st)
			continue
		}
		break
	}

	if len(r.pendingSpawn) > 0 {
		req := r.pendingSpawn[0]
		st.fail(&RuntimeError{
			Code:       ErrCodeExecLimit,
			Message:    fmt.Sprintf("spawn cap (%d) reached; %d request(s) deferred to the next tick", r.maxVisits, len(r.pendingSpawn)),
			InstanceID: req.byID,
			NodeID:     req.nodeID,
		})
	}

	return spawned
}

// removeInstance drops an instance from the scene, preserving creation
// order of the rest.
func (r *Runtime) removeInstance(id string) {
	delete(r.instances, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}
