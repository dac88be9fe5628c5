// Package harness runs YAML-described playback scenarios against the
// runtime and checks the results.
//
// A scenario names a project document and a scene, feeds a scripted input
// stream through Tick, and asserts on the final instance state. Traces are
// canonical JSON compared against golden files, so any change to dispatch
// order or effect semantics shows up as a diff.
package harness
