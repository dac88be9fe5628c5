// Package format serializes projects to the versioned on-disk document and
// loads them back.
//
// The document is JSON with snake_case keys and a format_version field.
// Older versions are migrated forward in memory before decoding; saving
// always writes the current version. Loaded documents pass three gates in
// order: JSON well-formedness, the embedded CUE schema, and the project's
// own referential invariants. Each gate has its own error type so callers
// can tell a truncated file from a hand-edited one.
//
// Saving is deterministic: the same project always produces the same bytes.
package format
