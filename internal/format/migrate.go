package format

import (
	"encoding/json"
	"fmt"
)

// migrations maps a version to the in-place step that lifts a raw document
// to the next version. Load applies them in sequence, so a v1 document
// passes through every step on its way to CurrentVersion.
var migrations = map[int]func(map[string]any) error{
	1: migrateV1toV2,
	2: migrateV2toV3,
}

// migrateV1toV2 renames the v1 top-level keys ("objects", "rooms") to their
// current names and the per-asset "type" key to "kind".
func migrateV1toV2(raw map[string]any) error {
	if objs, ok := raw["objects"]; ok {
		raw["templates"] = objs
		delete(raw, "objects")
	}
	if rooms, ok := raw["rooms"]; ok {
		raw["scenes"] = rooms
		delete(raw, "rooms")
	}
	assets, ok := raw["assets"].([]any)
	if !ok {
		return nil
	}
	for i, a := range assets {
		entry, ok := a.(map[string]any)
		if !ok {
			return fmt.Errorf("assets[%d] is not an object", i)
		}
		if typ, ok := entry["type"]; ok {
			entry["kind"] = typ
			delete(entry, "type")
		}
	}
	return nil
}

// migrateV2toV3 adds the scene fields v3 introduced: grid_size defaults to
// the editor's historical 32-pixel grid, background stays absent.
func migrateV2toV3(raw map[string]any) error {
	scenes, ok := raw["scenes"].([]any)
	if !ok {
		return nil
	}
	for i, s := range scenes {
		entry, ok := s.(map[string]any)
		if !ok {
			return fmt.Errorf("scenes[%d] is not an object", i)
		}
		if _, ok := entry["grid_size"]; !ok {
			entry["grid_size"] = json.Number("32")
		}
	}
	return nil
}
