// Package storage defines the persistence contracts for finished matches.
//
// Live sessions are never persisted; only the summary of a completed game is
// written, once, when the table removes the session.
package storage
