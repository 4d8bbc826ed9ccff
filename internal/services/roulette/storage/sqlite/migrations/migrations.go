// Package migrations embeds the match history schema.
package migrations

import "embed"

// FS holds the match history migrations at its root.
//
//go:embed *.sql
var FS embed.FS
