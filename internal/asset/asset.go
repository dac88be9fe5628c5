// Package asset owns the identifiers for the opaque resources a project
// references: sprite images, sounds, scripts, and backgrounds. The registry
// maps stable content-addressed IDs to paths; decoding or playing the actual
// bytes is the front end's problem.
package asset

import (
	"github.com/fable2d/fable/internal/value"
)

// Kind classifies a registered asset.
type Kind string

const (
	KindSprite     Kind = "sprite"
	KindSound      Kind = "sound"
	KindScript     Kind = "script"
	KindBackground Kind = "background"
)

// ValidKinds defines the allowed asset kinds.
var ValidKinds = map[Kind]bool{
	KindSprite:     true,
	KindSound:      true,
	KindScript:     true,
	KindBackground: true,
}

// Asset is an immutable record of a registered resource. The path is opaque
// to the core; only the registry's uniqueness guarantee matters here.
type Asset struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`
	Path string `json:"path"`
}

// ID computes the content-addressed asset ID for a (kind, path) pair.
// IDs are stable across processes, so re-registering the same file in a
// reloaded project yields the same identity.
func ID(kind Kind, path string) string {
	return value.MustHashObject(value.DomainAsset, value.Object{
		"kind": value.String(string(kind)),
		"path": value.String(path),
	})
}
