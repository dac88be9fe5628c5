package format

import (
	"github.com/fable2d/fable/internal/graph"
	"github.com/fable2d/fable/internal/value"
)

// CurrentVersion is the format this build writes. Readable history:
//
//	v1  "objects" and "rooms" top-level keys, asset entries keyed by "type"
//	v2  renamed to "templates" and "scenes", asset "type" became "kind"
//	v3  scenes gained "grid_size" and "background"
const CurrentVersion = 3

// Document is the on-disk project shape.
type Document struct {
	FormatVersion int           `json:"format_version"`
	Name          string        `json:"name"`
	Assets        []AssetDoc    `json:"assets,omitempty"`
	Templates     []TemplateDoc `json:"templates,omitempty"`
	Scenes        []SceneDoc    `json:"scenes,omitempty"`
}

// AssetDoc is one registered asset. The ID is recomputed from kind and path
// on load and must match; a mismatch means the document was edited by hand.
type AssetDoc struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Path string `json:"path"`
}

// TemplateDoc is one object template with its event graphs.
type TemplateDoc struct {
	ID         string                  `json:"id"`
	Name       string                  `json:"name"`
	Sprite     string                  `json:"sprite,omitempty"`
	Properties value.Object            `json:"properties,omitempty"`
	Events     map[string]*graph.Graph `json:"events,omitempty"`
}

// SceneDoc is one scene with its placed instances.
type SceneDoc struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Width      int64         `json:"width"`
	Height     int64         `json:"height"`
	GridSize   int64         `json:"grid_size"`
	Background string        `json:"background,omitempty"`
	Instances  []InstanceDoc `json:"instances,omitempty"`
}

// InstanceDoc is one placed instance.
type InstanceDoc struct {
	ID        string       `json:"id"`
	Template  string       `json:"template"`
	X         int64        `json:"x"`
	Y         int64        `json:"y"`
	Overrides value.Object `json:"overrides,omitempty"`
}
