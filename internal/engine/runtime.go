package engine

import (
	"log/slog"
	"time"

	"github.com/fable2d/fable/internal/graph"
	"github.com/fable2d/fable/internal/project"
	"github.com/fable2d/fable/internal/value"
)

// DefaultMaxVisits is the default node visit budget per event dispatch.
const DefaultMaxVisits = 10000

// DefaultScriptTimeout is the default deadline for one run_script call.
const DefaultScriptTimeout = time.Second

// DefaultSize is the collision box edge used when an instance declares no
// width or height property.
const DefaultSize = 32

// Instance is a live object in the running scene. Props starts as the
// template's defaults merged with the placement's overrides; actions
// mutate it freely from there.
type Instance struct {
	ID       string       `json:"id"`
	Template string       `json:"template"`
	X        int64        `json:"x"`
	Y        int64        `json:"y"`
	Props    value.Object `json:"props"`

	alive bool
}

// Alive reports whether the instance is still in the scene.
func (i *Instance) Alive() bool { return i.alive }

// size returns the instance's collision box. Integer width and height
// properties win; anything else falls back to DefaultSize.
func (i *Instance) size() (w, h int64) {
	w, h = DefaultSize, DefaultSize
	if v, ok := i.Props["width"].(value.Int); ok && v > 0 {
		w = int64(v)
	}
	if v, ok := i.Props["height"].(value.Int); ok && v > 0 {
		h = int64(v)
	}
	return w, h
}

// Runtime executes one scene of a project.
//
// Single-writer: all mutation happens inside Tick, which must be called
// from one goroutine at a time.
type Runtime struct {
	project *project.Project
	scene   *project.Scene
	clock   *Clock
	host    Host
	ids     project.IDSource
	log     *slog.Logger

	maxVisits     int
	scriptTimeout time.Duration

	instances map[string]*Instance
	order     []string
	// Instance IDs that have not yet received their create event.
	pendingCreate []string
	// Spawn requests not yet materialized. Requests past a tick's spawn
	// cap stay queued here and settle on later ticks.
	pendingSpawn []spawnRequest
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithHost sets the sound and script host. Default: NopHost.
func WithHost(h Host) Option {
	return func(r *Runtime) { r.host = h }
}

// WithMaxVisits sets the node visit budget each event dispatch gets. The
// same value caps how many spawned instances materialize in one tick.
func WithMaxVisits(n int) Option {
	return func(r *Runtime) { r.maxVisits = n }
}

// WithScriptTimeout sets the per-call run_script deadline.
func WithScriptTimeout(d time.Duration) Option {
	return func(r *Runtime) { r.scriptTimeout = d }
}

// WithIDSource sets the source for spawned instance IDs. Tests pass a
// sequential source to keep traces stable.
func WithIDSource(ids project.IDSource) Option {
	return func(r *Runtime) { r.ids = ids }
}

// WithClock sets a pre-positioned clock, for resuming a session.
func WithClock(c *Clock) Option {
	return func(r *Runtime) { r.clock = c }
}

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) { r.log = l }
}

// NewRuntime instantiates a scene. Placed instances materialize in
// placement order with template defaults merged under their overrides;
// their create events fire on the first Tick.
func NewRuntime(p *project.Project, sceneID string, opts ...Option) (*Runtime, error) {
	scene, err := p.Scene(sceneID)
	if err != nil {
		return nil, err
	}

	r := &Runtime{
		project:       p,
		scene:         scene,
		clock:         NewClock(),
		host:          NopHost{},
		ids:           project.UUIDSource{},
		log:           slog.Default(),
		maxVisits:     DefaultMaxVisits,
		scriptTimeout: DefaultScriptTimeout,
		instances:     make(map[string]*Instance),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, placed := range scene.Instances() {
		tpl, err := p.Template(placed.Template)
		if err != nil {
			return nil, err
		}
		inst := r.materialize(placed.ID, tpl, placed.X, placed.Y)
		for name, v := range placed.Overrides {
			inst.Props[name] = value.Clone(v)
		}
	}

	return r, nil
}

// materialize builds a live instance from a template and registers it.
func (r *Runtime) materialize(id string, tpl *project.ObjectTemplate, x, y int64) *Instance {
	inst := &Instance{
		ID:       id,
		Template: tpl.ID,
		X:        x,
		Y:        y,
		Props:    tpl.Properties.Clone(),
		alive:    true,
	}
	if inst.Props == nil {
		inst.Props = make(value.Object)
	}
	r.instances[id] = inst
	r.order = append(r.order, id)
	r.pendingCreate = append(r.pendingCreate, id)
	return inst
}

// Instance returns the live instance with the given ID, or nil.
func (r *Runtime) Instance(id string) *Instance {
	return r.instances[id]
}

// Instances returns live instances in creation order.
func (r *Runtime) Instances() []*Instance {
	out := make([]*Instance, 0, len(r.order))
	for _, id := range r.order {
		if inst := r.instances[id]; inst.alive {
			out = append(out, inst)
		}
	}
	return out
}

// Clock exposes the runtime's logical clock.
func (r *Runtime) Clock() *Clock {
	return r.clock
}

// eventGraph returns the template graph an instance runs for an event.
func (r *Runtime) eventGraph(inst *Instance, ev graph.EventType) *graph.Graph {
	tpl, err := r.project.Template(inst.Template)
	if err != nil {
		return nil
	}
	return tpl.Graph(ev)
}
