package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fable2d/fable/internal/graph"
	"github.com/fable2d/fable/internal/project"
)

// Save serializes a project to the current document version. Output is
// deterministic: struct field order is fixed and all maps marshal with
// sorted keys.
func Save(p *project.Project) ([]byte, error) {
	doc := Snapshot(p)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding project document: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveFile writes the project document to path atomically: a temp file in
// the same directory is renamed over the target, so a crash mid-write
// cannot leave a truncated project behind.
func SaveFile(p *project.Project, path string) error {
	data, err := Save(p)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".fable-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing project document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing project document: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing project document: %w", err)
	}
	return nil
}

// Snapshot builds the document form of a project without encoding it.
// The engine and the snapshot store reuse it.
func Snapshot(p *project.Project) *Document {
	doc := &Document{
		FormatVersion: CurrentVersion,
		Name:          p.Name,
	}

	for _, a := range p.Assets().List() {
		doc.Assets = append(doc.Assets, AssetDoc{
			ID:   a.ID,
			Kind: string(a.Kind),
			Path: a.Path,
		})
	}

	for _, t := range p.Templates() {
		td := TemplateDoc{
			ID:         t.ID,
			Name:       t.Name,
			Sprite:     t.Sprite,
			Properties: t.Properties,
		}
		if len(t.Events) > 0 {
			td.Events = make(map[string]*graph.Graph, len(t.Events))
			for ev, g := range t.Events {
				td.Events[string(ev)] = g
			}
		}
		doc.Templates = append(doc.Templates, td)
	}

	for _, s := range p.Scenes() {
		sd := SceneDoc{
			ID:         s.ID,
			Name:       s.Name,
			Width:      s.Width,
			Height:     s.Height,
			GridSize:   s.GridSize,
			Background: s.Background,
		}
		for _, inst := range s.Instances() {
			sd.Instances = append(sd.Instances, InstanceDoc{
				ID:        inst.ID,
				Template:  inst.Template,
				X:         inst.X,
				Y:         inst.Y,
				Overrides: inst.Overrides,
			})
		}
		doc.Scenes = append(doc.Scenes, sd)
	}

	return doc
}
