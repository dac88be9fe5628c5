package project

import (
	"fmt"

	"github.com/fable2d/fable/internal/graph"
)

// Restore functions rebuild a project from a persisted document with the
// original IDs intact. They insert without reference checking; callers run
// CheckInvariants once the whole document is loaded, because documents may
// reference entities defined later in the file.

// RestoreTemplate inserts a template under its persisted ID.
func (p *Project) RestoreTemplate(t *ObjectTemplate) error {
	if t.ID == "" || t.Name == "" {
		return &ModelError{Code: ErrCodeInvalidValue, Message: "template needs an ID and a name"}
	}
	if _, ok := p.templates[t.ID]; ok {
		return &ModelError{
			Code:     ErrCodeDuplicateName,
			Message:  "duplicate template ID",
			EntityID: t.ID,
		}
	}
	if _, ok := p.templatesByName[t.Name]; ok {
		return &ModelError{
			Code:    ErrCodeDuplicateName,
			Message: fmt.Sprintf("template %q already exists", t.Name),
		}
	}
	c := t.clone()
	p.templates[c.ID] = c
	p.templatesByName[c.Name] = c.ID
	p.templateOrder = append(p.templateOrder, c.ID)
	return nil
}

// RestoreScene inserts an empty scene under its persisted ID.
func (p *Project) RestoreScene(id, name string, width, height, gridSize int64, background string) (*Scene, error) {
	if id == "" || name == "" {
		return nil, &ModelError{Code: ErrCodeInvalidValue, Message: "scene needs an ID and a name"}
	}
	if _, ok := p.scenes[id]; ok {
		return nil, &ModelError{
			Code:     ErrCodeDuplicateName,
			Message:  "duplicate scene ID",
			EntityID: id,
		}
	}
	if _, ok := p.scenesByName[name]; ok {
		return nil, &ModelError{
			Code:    ErrCodeDuplicateName,
			Message: fmt.Sprintf("scene %q already exists", name),
		}
	}
	s := newScene(id, name, width, height)
	s.GridSize = gridSize
	s.Background = background
	p.scenes[id] = s
	p.scenesByName[name] = id
	p.sceneOrder = append(p.sceneOrder, id)
	return s, nil
}

// RestoreInstance inserts a placed instance under its persisted ID, without
// grid snapping: persisted coordinates are authoritative.
func (p *Project) RestoreInstance(sceneID string, inst Instance) error {
	s, err := p.Scene(sceneID)
	if err != nil {
		return err
	}
	if inst.ID == "" {
		return &ModelError{Code: ErrCodeInvalidValue, Message: "instance needs an ID"}
	}
	if s.Instance(inst.ID) != nil {
		return &ModelError{
			Code:     ErrCodeDuplicateName,
			Message:  "duplicate instance ID",
			EntityID: inst.ID,
		}
	}
	c := &Instance{
		ID:        inst.ID,
		Template:  inst.Template,
		X:         inst.X,
		Y:         inst.Y,
		Overrides: inst.Overrides.Clone(),
	}
	s.place(c)
	return nil
}

// RestoreEventGraph attaches a persisted graph without validation. Load
// paths call CheckInvariants afterwards.
func (p *Project) RestoreEventGraph(templateID string, event graph.EventType, g *graph.Graph) error {
	t, err := p.Template(templateID)
	if err != nil {
		return err
	}
	if t.Events == nil {
		t.Events = make(map[graph.EventType]*graph.Graph)
	}
	t.Events[event] = g.Clone()
	return nil
}
