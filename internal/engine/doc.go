// Package engine executes a scene: it instantiates placed objects and
// dispatches their event graphs tick by tick.
//
// The runtime is a single-writer interpreter. All mutation happens inside
// Tick, instances are processed in creation order, and every tick is
// stamped by a logical clock, so the same scene with the same input stream
// always produces the same state. There is no wall-clock anywhere in the
// dispatch path; script timeouts are the one place real time enters, and a
// timeout surfaces as a collected error rather than nondeterministic state.
//
// Runtime failures never abort a tick. Script errors, unknown ops, and
// budget exhaustion are collected into TickResult.Errors; the front end
// decides whether to pause, report, or keep running.
package engine
