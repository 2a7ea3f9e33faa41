// Package habitat holds the mutable habitat model (placed modules,
// connections, selection, derived statistics), the connection validator
// (world-space transforms, point compatibility, collision and reachability
// checks), and the placement heuristics built on top of both.
package habitat
