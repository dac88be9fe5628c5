// Package value provides the constrained value model shared by every other
// internal package: property defaults, per-instance overrides, and logic
// block parameters are all built from these types.
//
// This package contains type definitions and serialization only. All other
// internal packages import value; value imports nothing internal.
//
// Key design constraints:
//   - NO float types anywhere - coordinates and properties use int64.
//     Integer-only state keeps tick execution and save files deterministic.
//   - Canonical JSON (RFC 8785) is the only serialization used for
//     content-addressed identity (asset IDs, graph hashes, snapshot dedupe).
//   - All JSON tags use snake_case.
package value
