// Package table hosts every live session of a server.
//
// The table is the externally synchronized mapping from session id to
// session state. Each session carries its own lock so different sessions
// progress concurrently while actions within one session apply in arrival
// order. A player index maps each player to the one session they sit in.
//
// Lock order: a session lock may be held while taking the table lock, never
// the reverse.
package table
