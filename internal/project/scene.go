package project

import (
	"github.com/fable2d/fable/internal/value"
)

// Default scene dimensions, matching a classic 640x480 playfield.
const (
	DefaultSceneWidth  = 640
	DefaultSceneHeight = 480
	DefaultGridSize    = 32
)

// Instance is one placed object in a scene. Overrides shadow the template's
// declared property defaults; only declared properties may be overridden.
type Instance struct {
	ID        string       `json:"id"`
	Template  string       `json:"template"`
	X         int64        `json:"x"`
	Y         int64        `json:"y"`
	Overrides value.Object `json:"overrides,omitempty"`
}

// Scene is a level: a bounded playfield with an optional background asset,
// a placement grid, and an ordered list of instances.
type Scene struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Width      int64  `json:"width"`
	Height     int64  `json:"height"`
	Background string `json:"background,omitempty"` // background asset ID
	// GridSize snaps placements; zero disables snapping.
	GridSize int64 `json:"grid_size"`

	instances map[string]*Instance
	order     []string
}

// newScene creates an empty scene. Non-positive dimensions fall back to the
// defaults.
func newScene(id, name string, width, height int64) *Scene {
	if width <= 0 {
		width = DefaultSceneWidth
	}
	if height <= 0 {
		height = DefaultSceneHeight
	}
	return &Scene{
		ID:        id,
		Name:      name,
		Width:     width,
		Height:    height,
		GridSize:  DefaultGridSize,
		instances: make(map[string]*Instance),
	}
}

// Instance returns the placed instance with the given ID, or nil.
func (s *Scene) Instance(id string) *Instance {
	return s.instances[id]
}

// Instances returns the scene's instances in placement order.
func (s *Scene) Instances() []*Instance {
	out := make([]*Instance, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.instances[id])
	}
	return out
}

// InstanceCount returns the number of placed instances.
func (s *Scene) InstanceCount() int {
	return len(s.order)
}

// snap rounds a coordinate down to the scene's grid. Negative coordinates
// snap toward negative infinity so the grid stays aligned across zero.
func (s *Scene) snap(v int64) int64 {
	g := s.GridSize
	if g <= 0 {
		return v
	}
	r := v % g
	if r < 0 {
		r += g
	}
	return v - r
}

// place adds an instance. Callers have already checked the template exists.
func (s *Scene) place(inst *Instance) {
	s.instances[inst.ID] = inst
	s.order = append(s.order, inst.ID)
}

// remove deletes an instance, preserving the order of the rest.
func (s *Scene) remove(id string) {
	delete(s.instances, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// raise moves an instance to the end of the order.
func (s *Scene) raise(id string) {
	for i, existing := range s.order {
		if existing == id {
			s.order = append(append(s.order[:i:i], s.order[i+1:]...), id)
			return
		}
	}
}

// templateRefs accumulates instance template references into refs.
func (s *Scene) templateRefs(refs map[string]int) {
	for _, id := range s.order {
		refs[s.instances[id].Template]++
	}
}

// clone returns a deep copy.
func (s *Scene) clone() *Scene {
	out := &Scene{
		ID:         s.ID,
		Name:       s.Name,
		Width:      s.Width,
		Height:     s.Height,
		Background: s.Background,
		GridSize:   s.GridSize,
		instances:  make(map[string]*Instance, len(s.instances)),
		order:      append([]string(nil), s.order...),
	}
	for id, inst := range s.instances {
		out.instances[id] = &Instance{
			ID:        inst.ID,
			Template:  inst.Template,
			X:         inst.X,
			Y:         inst.Y,
			Overrides: inst.Overrides.Clone(),
		}
	}
	return out
}
