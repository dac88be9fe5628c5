package asset

import "fmt"

// Registry holds all assets registered with a project.
//
// Assets are immutable once registered. The registry enforces ID and path
// uniqueness; reference integrity (which templates and graphs point at an
// asset) is the project aggregate's responsibility, supplied to Unregister
// as a callback so this package stays at the bottom of the import graph.
//
// Registration order is preserved for deterministic iteration and
// serialization.
type Registry struct {
	assets map[string]Asset
	byPath map[string]string
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		assets: make(map[string]Asset),
		byPath: make(map[string]string),
	}
}

// Register adds an asset and returns its content-addressed ID.
// Fails with DUPLICATE_PATH if the path is already registered and with
// INVALID_KIND for kinds outside ValidKinds.
func (r *Registry) Register(kind Kind, path string) (string, error) {
	if !ValidKinds[kind] {
		return "", &RegistryError{
			Code:    ErrCodeInvalidKind,
			Message: fmt.Sprintf("unsupported asset kind %q", kind),
			Path:    path,
		}
	}
	if path == "" {
		return "", &RegistryError{
			Code:    ErrCodeInvalidKind,
			Message: "asset path must be non-empty",
		}
	}
	if existing, ok := r.byPath[path]; ok {
		return "", newDuplicatePath(path, existing)
	}

	id := ID(kind, path)
	r.assets[id] = Asset{ID: id, Kind: kind, Path: path}
	r.byPath[path] = id
	r.order = append(r.order, id)
	return id, nil
}

// Resolve returns the asset with the given ID.
// Fails with UNKNOWN_ASSET if absent.
func (r *Registry) Resolve(id string) (Asset, error) {
	a, ok := r.assets[id]
	if !ok {
		return Asset{}, newUnknownAsset(id)
	}
	return a, nil
}

// ResolveKind is Resolve plus a kind check: referencing a sound where a
// sprite is expected is an UNKNOWN_ASSET error, not a silent mismatch.
func (r *Registry) ResolveKind(id string, kind Kind) (Asset, error) {
	a, err := r.Resolve(id)
	if err != nil {
		return Asset{}, err
	}
	if a.Kind != kind {
		return Asset{}, &RegistryError{
			Code:    ErrCodeUnknownAsset,
			Message: fmt.Sprintf("asset is a %s, expected %s", a.Kind, kind),
			AssetID: id,
		}
	}
	return a, nil
}

// Has reports whether an asset with the given ID exists.
func (r *Registry) Has(id string) bool {
	_, ok := r.assets[id]
	return ok
}

// Unregister removes an asset. refCount reports how many live references
// (template sprites, graph parameters) still point at the ID; a non-zero
// count fails with ASSET_IN_USE and leaves the registry unchanged.
func (r *Registry) Unregister(id string, refCount func(id string) int) error {
	a, ok := r.assets[id]
	if !ok {
		return newUnknownAsset(id)
	}
	if refCount != nil {
		if n := refCount(id); n > 0 {
			return newAssetInUse(id, n)
		}
	}

	delete(r.assets, id)
	delete(r.byPath, a.Path)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns all assets in registration order.
func (r *Registry) List() []Asset {
	out := make([]Asset, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.assets[id])
	}
	return out
}

// Len returns the number of registered assets.
func (r *Registry) Len() int {
	return len(r.assets)
}
