// Package asset tracks the media a project references: sprites, sounds,
// scripts, and backgrounds.
//
// The registry stores paths, not bytes; loading media is the front end's
// job. IDs are content-addressed from (kind, path), so the same asset gets
// the same ID in every save, and removal is guarded by a caller-supplied
// reference count.
package asset
