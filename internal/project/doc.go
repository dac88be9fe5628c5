// Package project holds the editable game model: the asset registry, object
// templates with their event graphs, and scenes with placed instances.
//
// All edits go through Project methods, which reject anything that would
// break referential integrity: a graph may not reference a missing asset or
// template, a template may not be deleted while instances or spawn blocks
// point at it, an override may not target an undeclared property. Because
// every mutation is checked on the way in, a project that loads cleanly is
// safe to hand to the runtime without re-validation; CheckInvariants exists
// to verify documents that arrived from disk.
//
// Iteration order over templates, scenes, and instances is creation order,
// so serialization and tick dispatch are deterministic.
package project
