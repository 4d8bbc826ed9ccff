// Package tui is a hot-seat terminal client: players share one keyboard and
// take turns against an in-process table.
package tui
