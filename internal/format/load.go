package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fable2d/fable/internal/asset"
	"github.com/fable2d/fable/internal/graph"
	"github.com/fable2d/fable/internal/project"
)

// Load decodes a project document, migrating older versions forward.
// ids seeds the loaded project's ID source for subsequent edits; nil falls
// back to UUIDv7.
func Load(data []byte, ids project.IDSource) (*project.Project, error) {
	raw, version, err := decodeRaw(data)
	if err != nil {
		return nil, err
	}
	if version > CurrentVersion || version < 1 {
		return nil, &UnsupportedVersionError{Version: version, Current: CurrentVersion}
	}

	for v := version; v < CurrentVersion; v++ {
		if err := migrations[v](raw); err != nil {
			return nil, &InvalidProjectError{
				Reason: fmt.Sprintf("migrating from version %d", v),
				Err:    err,
			}
		}
		raw["format_version"] = json.Number(fmt.Sprint(v + 1))
	}

	migrated, err := json.Marshal(raw)
	if err != nil {
		return nil, &InvalidProjectError{Reason: "re-encoding migrated document", Err: err}
	}

	if err := validateSchema(migrated); err != nil {
		return nil, err
	}

	var doc Document
	dec := json.NewDecoder(bytes.NewReader(migrated))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, &InvalidProjectError{Reason: "decoding document", Err: err}
	}

	return build(&doc, ids)
}

// LoadFile reads and decodes a project document from disk.
func LoadFile(path string, ids project.IDSource) (*project.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project document: %w", err)
	}
	return Load(data, ids)
}

// decodeRaw parses the document into a generic map with numbers preserved
// verbatim, and extracts the format version.
func decodeRaw(data []byte) (map[string]any, int, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, 0, &CorruptProjectError{Reason: err.Error()}
	}
	vAny, ok := raw["format_version"]
	if !ok {
		return nil, 0, &CorruptProjectError{Reason: "missing format_version"}
	}
	num, ok := vAny.(json.Number)
	if !ok {
		return nil, 0, &CorruptProjectError{Reason: "format_version is not a number"}
	}
	version, err := num.Int64()
	if err != nil {
		return nil, 0, &CorruptProjectError{Reason: "format_version is not an integer"}
	}
	return raw, int(version), nil
}

// build reconstructs the project aggregate from a current-version document
// and verifies its referential invariants.
func build(doc *Document, ids project.IDSource) (*project.Project, error) {
	p := project.New(doc.Name, ids)

	for _, a := range doc.Assets {
		id, err := p.RegisterAsset(asset.Kind(a.Kind), a.Path)
		if err != nil {
			return nil, &InvalidProjectError{Reason: "registering asset", Err: err}
		}
		// IDs are content-addressed; a mismatch means the document was
		// edited by hand or corrupted in transit.
		if id != a.ID {
			return nil, &InvalidProjectError{
				Reason: fmt.Sprintf("asset %q has ID %q, expected %q", a.Path, a.ID, id),
			}
		}
	}

	for _, td := range doc.Templates {
		t := &project.ObjectTemplate{
			ID:         td.ID,
			Name:       td.Name,
			Sprite:     td.Sprite,
			Properties: td.Properties,
		}
		if err := p.RestoreTemplate(t); err != nil {
			return nil, &InvalidProjectError{Reason: "restoring template", Err: err}
		}
		for ev, g := range td.Events {
			if err := p.RestoreEventGraph(td.ID, graph.EventType(ev), g); err != nil {
				return nil, &InvalidProjectError{Reason: "restoring event graph", Err: err}
			}
		}
	}

	for _, sd := range doc.Scenes {
		if _, err := p.RestoreScene(sd.ID, sd.Name, sd.Width, sd.Height, sd.GridSize, sd.Background); err != nil {
			return nil, &InvalidProjectError{Reason: "restoring scene", Err: err}
		}
		for _, id := range sd.Instances {
			inst := project.Instance{
				ID:        id.ID,
				Template:  id.Template,
				X:         id.X,
				Y:         id.Y,
				Overrides: id.Overrides,
			}
			if err := p.RestoreInstance(sd.ID, inst); err != nil {
				return nil, &InvalidProjectError{Reason: "restoring instance", Err: err}
			}
		}
	}

	if err := p.CheckInvariants(); err != nil {
		return nil, &InvalidProjectError{Reason: "invariant check failed", Err: err}
	}
	return p, nil
}
