// Package session models one game at a table and the engine that drives it.
//
// A session moves strictly forward through waiting, playing and finished.
// The Engine is stateless over explicit *Session values: it owns the rules
// (configuration, chamber generator, item dealer) while the session holds the
// players, turn order, chamber and damage-boost marker.
//
// Sessions are not safe for concurrent use. The caller serializes every
// operation on one session, typically with a per-session lock in the table.
//
// The package holds:
//   - the status state machine and configuration,
//   - the shot resolver (damage, elimination, reload and item handout),
//   - and the events emitted for adapters to render.
package session
