// Package app wires the roulette table server: engine, match history,
// gRPC TableService with health checks, and the optional HTTP API.
package app
