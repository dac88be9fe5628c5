package project

import (
	"fmt"

	"github.com/fable2d/fable/internal/asset"
	"github.com/fable2d/fable/internal/graph"
	"github.com/fable2d/fable/internal/value"
)

// Project is the root aggregate: assets, object templates, and scenes.
// Not safe for concurrent mutation; the editor serializes edits.
type Project struct {
	Name string

	assets *asset.Registry
	ids    IDSource

	templates       map[string]*ObjectTemplate
	templatesByName map[string]string
	templateOrder   []string

	scenes       map[string]*Scene
	scenesByName map[string]string
	sceneOrder   []string
}

// New creates an empty project. A nil ids falls back to UUIDv7.
func New(name string, ids IDSource) *Project {
	if ids == nil {
		ids = UUIDSource{}
	}
	return &Project{
		Name:            name,
		assets:          asset.NewRegistry(),
		ids:             ids,
		templates:       make(map[string]*ObjectTemplate),
		templatesByName: make(map[string]string),
		scenes:          make(map[string]*Scene),
		scenesByName:    make(map[string]string),
	}
}

// Assets exposes the asset registry for read access. Mutations go through
// RegisterAsset and UnregisterAsset so reference counting stays enforced.
func (p *Project) Assets() *asset.Registry {
	return p.assets
}

// RegisterAsset adds an asset and returns its content-addressed ID.
func (p *Project) RegisterAsset(kind asset.Kind, path string) (string, error) {
	return p.assets.Register(kind, path)
}

// UnregisterAsset removes an asset unless a template sprite, scene
// background, or graph parameter still references it.
func (p *Project) UnregisterAsset(id string) error {
	return p.assets.Unregister(id, func(id string) int {
		return p.assetRefCount(id)
	})
}

// assetRefCount counts live references to an asset across the project.
func (p *Project) assetRefCount(id string) int {
	refs := make(map[string]int)
	for _, tid := range p.templateOrder {
		p.templates[tid].assetRefs(refs)
	}
	for _, sid := range p.sceneOrder {
		if bg := p.scenes[sid].Background; bg != "" {
			refs[bg]++
		}
	}
	return refs[id]
}

// templateRefCount counts spawn parameters and placed instances that
// reference a template. A template's own graphs count too: a self-spawning
// template cannot be deleted without first clearing the graph.
func (p *Project) templateRefCount(id string) int {
	refs := make(map[string]int)
	for _, tid := range p.templateOrder {
		p.templates[tid].templateRefs(refs)
	}
	for _, sid := range p.sceneOrder {
		p.scenes[sid].templateRefs(refs)
	}
	return refs[id]
}

// HasAsset implements graph.Refs.
func (p *Project) HasAsset(id string, kind asset.Kind) bool {
	_, err := p.assets.ResolveKind(id, kind)
	return err == nil
}

// HasTemplate implements graph.Refs.
func (p *Project) HasTemplate(id string) bool {
	_, ok := p.templates[id]
	return ok
}

// CreateTemplate adds an object template with a unique name.
func (p *Project) CreateTemplate(name string) (*ObjectTemplate, error) {
	if name == "" {
		return nil, &ModelError{Code: ErrCodeInvalidValue, Message: "template name must be non-empty"}
	}
	if _, ok := p.templatesByName[name]; ok {
		return nil, &ModelError{
			Code:    ErrCodeDuplicateName,
			Message: fmt.Sprintf("template %q already exists", name),
		}
	}
	t := &ObjectTemplate{ID: p.ids.NewID(), Name: name}
	p.templates[t.ID] = t
	p.templatesByName[name] = t.ID
	p.templateOrder = append(p.templateOrder, t.ID)
	return t, nil
}

// Template returns the template with the given ID.
func (p *Project) Template(id string) (*ObjectTemplate, error) {
	t, ok := p.templates[id]
	if !ok {
		return nil, newUnknownTemplate(id)
	}
	return t, nil
}

// TemplateByName returns the template with the given name.
func (p *Project) TemplateByName(name string) (*ObjectTemplate, error) {
	id, ok := p.templatesByName[name]
	if !ok {
		return nil, newUnknownTemplate(name)
	}
	return p.templates[id], nil
}

// Templates returns all templates in creation order.
func (p *Project) Templates() []*ObjectTemplate {
	out := make([]*ObjectTemplate, 0, len(p.templateOrder))
	for _, id := range p.templateOrder {
		out = append(out, p.templates[id])
	}
	return out
}

// RenameTemplate gives a template a new unique name.
func (p *Project) RenameTemplate(id, name string) error {
	t, err := p.Template(id)
	if err != nil {
		return err
	}
	if name == "" {
		return &ModelError{Code: ErrCodeInvalidValue, Message: "template name must be non-empty", EntityID: id}
	}
	if existing, ok := p.templatesByName[name]; ok {
		if existing == id {
			return nil
		}
		return &ModelError{
			Code:     ErrCodeDuplicateName,
			Message:  fmt.Sprintf("template %q already exists", name),
			EntityID: id,
		}
	}
	delete(p.templatesByName, t.Name)
	t.Name = name
	p.templatesByName[name] = id
	return nil
}

// SetSprite assigns a sprite asset to a template. An empty ID clears it.
func (p *Project) SetSprite(templateID, assetID string) error {
	t, err := p.Template(templateID)
	if err != nil {
		return err
	}
	if assetID != "" {
		if _, err := p.assets.ResolveKind(assetID, asset.KindSprite); err != nil {
			return err
		}
	}
	t.Sprite = assetID
	return nil
}

// DeclareProperty declares a property with a default value, or updates the
// default of an already declared one. Defaults must be scalars.
func (p *Project) DeclareProperty(templateID, name string, def value.Value) error {
	t, err := p.Template(templateID)
	if err != nil {
		return err
	}
	if name == "" {
		return &ModelError{Code: ErrCodeInvalidValue, Message: "property name must be non-empty"}
	}
	if !isScalar(def) {
		return &ModelError{
			Code:     ErrCodeInvalidValue,
			Message:  fmt.Sprintf("property %q default must be a string, int, or bool", name),
			EntityID: templateID,
		}
	}
	if t.Properties == nil {
		t.Properties = make(value.Object)
	}
	t.Properties[name] = def
	return nil
}

// SetEventGraph validates and commits a graph for one event type. The commit
// is atomic: an invalid graph leaves the previous one in place, and the
// graph is cloned so later mutation of the argument cannot corrupt it.
func (p *Project) SetEventGraph(templateID string, event graph.EventType, g *graph.Graph) error {
	t, err := p.Template(templateID)
	if err != nil {
		return err
	}
	if !graph.ValidEventTypes[event] {
		return &ModelError{
			Code:     ErrCodeInvalidEvent,
			Message:  fmt.Sprintf("unknown event type %q", event),
			EntityID: templateID,
		}
	}
	if errs := graph.Validate(g, p); len(errs) > 0 {
		return &ModelError{
			Code:     ErrCodeInvalidGraph,
			Message:  fmt.Sprintf("graph rejected: %s (and %d more)", errs[0].Error(), len(errs)-1),
			EntityID: templateID,
		}
	}
	if t.Events == nil {
		t.Events = make(map[graph.EventType]*graph.Graph)
	}
	t.Events[event] = g.Clone()
	return nil
}

// RemoveEventGraph deletes a template's graph for one event type.
func (p *Project) RemoveEventGraph(templateID string, event graph.EventType) error {
	t, err := p.Template(templateID)
	if err != nil {
		return err
	}
	delete(t.Events, event)
	return nil
}

// DeleteTemplate removes a template unless instances or spawn blocks still
// reference it.
func (p *Project) DeleteTemplate(id string) error {
	t, ok := p.templates[id]
	if !ok {
		return newUnknownTemplate(id)
	}
	if n := p.templateRefCount(id); n > 0 {
		return &ModelError{
			Code:     ErrCodeTemplateInUse,
			Message:  fmt.Sprintf("template has %d live references", n),
			EntityID: id,
		}
	}
	delete(p.templates, id)
	delete(p.templatesByName, t.Name)
	for i, existing := range p.templateOrder {
		if existing == id {
			p.templateOrder = append(p.templateOrder[:i], p.templateOrder[i+1:]...)
			break
		}
	}
	return nil
}

// CreateScene adds a scene with a unique name. Non-positive dimensions fall
// back to the defaults.
func (p *Project) CreateScene(name string, width, height int64) (*Scene, error) {
	if name == "" {
		return nil, &ModelError{Code: ErrCodeInvalidValue, Message: "scene name must be non-empty"}
	}
	if _, ok := p.scenesByName[name]; ok {
		return nil, &ModelError{
			Code:    ErrCodeDuplicateName,
			Message: fmt.Sprintf("scene %q already exists", name),
		}
	}
	s := newScene(p.ids.NewID(), name, width, height)
	p.scenes[s.ID] = s
	p.scenesByName[name] = s.ID
	p.sceneOrder = append(p.sceneOrder, s.ID)
	return s, nil
}

// Scene returns the scene with the given ID.
func (p *Project) Scene(id string) (*Scene, error) {
	s, ok := p.scenes[id]
	if !ok {
		return nil, newUnknownScene(id)
	}
	return s, nil
}

// Scenes returns all scenes in creation order.
func (p *Project) Scenes() []*Scene {
	out := make([]*Scene, 0, len(p.sceneOrder))
	for _, id := range p.sceneOrder {
		out = append(out, p.scenes[id])
	}
	return out
}

// SetBackground assigns a background asset to a scene. An empty ID clears it.
func (p *Project) SetBackground(sceneID, assetID string) error {
	s, err := p.Scene(sceneID)
	if err != nil {
		return err
	}
	if assetID != "" {
		if _, err := p.assets.ResolveKind(assetID, asset.KindBackground); err != nil {
			return err
		}
	}
	s.Background = assetID
	return nil
}

// SetGridSize sets the placement grid. Zero disables snapping.
func (p *Project) SetGridSize(sceneID string, size int64) error {
	s, err := p.Scene(sceneID)
	if err != nil {
		return err
	}
	if size < 0 {
		return &ModelError{
			Code:     ErrCodeInvalidValue,
			Message:  "grid size must be non-negative",
			EntityID: sceneID,
		}
	}
	s.GridSize = size
	return nil
}

// DeleteScene removes a scene and all its instances.
func (p *Project) DeleteScene(id string) error {
	s, ok := p.scenes[id]
	if !ok {
		return newUnknownScene(id)
	}
	delete(p.scenes, id)
	delete(p.scenesByName, s.Name)
	for i, existing := range p.sceneOrder {
		if existing == id {
			p.sceneOrder = append(p.sceneOrder[:i], p.sceneOrder[i+1:]...)
			break
		}
	}
	return nil
}

// PlaceInstance places a template instance in a scene, snapping to the
// scene's grid, and returns the new instance.
func (p *Project) PlaceInstance(sceneID, templateID string, x, y int64) (*Instance, error) {
	s, err := p.Scene(sceneID)
	if err != nil {
		return nil, err
	}
	if _, err := p.Template(templateID); err != nil {
		return nil, err
	}
	inst := &Instance{
		ID:       p.ids.NewID(),
		Template: templateID,
		X:        s.snap(x),
		Y:        s.snap(y),
	}
	s.place(inst)
	return inst, nil
}

// MoveInstance repositions a placed instance, snapping to the grid.
func (p *Project) MoveInstance(sceneID, instanceID string, x, y int64) error {
	s, err := p.Scene(sceneID)
	if err != nil {
		return err
	}
	inst := s.Instance(instanceID)
	if inst == nil {
		return newUnknownInstance(instanceID)
	}
	inst.X = s.snap(x)
	inst.Y = s.snap(y)
	return nil
}

// RaiseInstance moves a placed instance to the end of the scene's order, on
// top of everything placed before it.
func (p *Project) RaiseInstance(sceneID, instanceID string) error {
	s, err := p.Scene(sceneID)
	if err != nil {
		return err
	}
	if s.Instance(instanceID) == nil {
		return newUnknownInstance(instanceID)
	}
	s.raise(instanceID)
	return nil
}

// RemoveInstance deletes a placed instance.
func (p *Project) RemoveInstance(sceneID, instanceID string) error {
	s, err := p.Scene(sceneID)
	if err != nil {
		return err
	}
	if s.Instance(instanceID) == nil {
		return newUnknownInstance(instanceID)
	}
	s.remove(instanceID)
	return nil
}

// SetOverride overrides a declared property on a placed instance. The
// property must exist on the instance's template.
func (p *Project) SetOverride(sceneID, instanceID, name string, v value.Value) error {
	s, err := p.Scene(sceneID)
	if err != nil {
		return err
	}
	inst := s.Instance(instanceID)
	if inst == nil {
		return newUnknownInstance(instanceID)
	}
	t := p.templates[inst.Template]
	if t == nil || !t.HasProperty(name) {
		return &ModelError{
			Code:     ErrCodeUnknownProperty,
			Message:  fmt.Sprintf("property %q is not declared on the template", name),
			EntityID: instanceID,
		}
	}
	if !isScalar(v) {
		return &ModelError{
			Code:     ErrCodeInvalidValue,
			Message:  fmt.Sprintf("override %q must be a string, int, or bool", name),
			EntityID: instanceID,
		}
	}
	if inst.Overrides == nil {
		inst.Overrides = make(value.Object)
	}
	inst.Overrides[name] = v
	return nil
}

// ClearOverride removes an override, restoring the template default.
func (p *Project) ClearOverride(sceneID, instanceID, name string) error {
	s, err := p.Scene(sceneID)
	if err != nil {
		return err
	}
	inst := s.Instance(instanceID)
	if inst == nil {
		return newUnknownInstance(instanceID)
	}
	delete(inst.Overrides, name)
	return nil
}

// CheckInvariants re-verifies the whole model. Edits cannot break these, so
// a failure means the project arrived from an untrusted source (a corrupted
// or hand-edited document).
func (p *Project) CheckInvariants() error {
	for _, tid := range p.templateOrder {
		t := p.templates[tid]
		if t.Sprite != "" && !p.HasAsset(t.Sprite, asset.KindSprite) {
			return &ModelError{
				Code:     ErrCodeInvalidValue,
				Message:  fmt.Sprintf("template sprite %q is not a registered sprite", t.Sprite),
				EntityID: tid,
			}
		}
		for ev, g := range t.Events {
			if !graph.ValidEventTypes[ev] {
				return &ModelError{
					Code:     ErrCodeInvalidEvent,
					Message:  fmt.Sprintf("unknown event type %q", ev),
					EntityID: tid,
				}
			}
			if errs := graph.Validate(g, p); len(errs) > 0 {
				return &ModelError{
					Code:     ErrCodeInvalidGraph,
					Message:  fmt.Sprintf("%s graph invalid: %s", ev, errs[0].Error()),
					EntityID: tid,
				}
			}
		}
	}
	for _, sid := range p.sceneOrder {
		s := p.scenes[sid]
		if s.Background != "" && !p.HasAsset(s.Background, asset.KindBackground) {
			return &ModelError{
				Code:     ErrCodeInvalidValue,
				Message:  fmt.Sprintf("scene background %q is not a registered background", s.Background),
				EntityID: sid,
			}
		}
		for _, inst := range s.Instances() {
			t, ok := p.templates[inst.Template]
			if !ok {
				return &ModelError{
					Code:     ErrCodeUnknownTemplate,
					Message:  fmt.Sprintf("instance %q references missing template %q", inst.ID, inst.Template),
					EntityID: sid,
				}
			}
			for name := range inst.Overrides {
				if !t.HasProperty(name) {
					return &ModelError{
						Code:     ErrCodeUnknownProperty,
						Message:  fmt.Sprintf("instance %q overrides undeclared property %q", inst.ID, name),
						EntityID: sid,
					}
				}
			}
		}
	}
	return nil
}

// isScalar reports whether v is a string, int, or bool.
func isScalar(v value.Value) bool {
	switch v.(type) {
	case value.String, value.Int, value.Bool:
		return true
	}
	return false
}
