// Package sqlite stores finished matches in a SQLite database through
// modernc.org/sqlite. Times are persisted as Unix milliseconds in UTC.
package sqlite
