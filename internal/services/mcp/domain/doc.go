// Package domain translates MCP tool calls into table operations.
//
// Handlers resolve defaults from the agent's current context (session,
// player, locale), call TableService over gRPC and return flat results that
// MCP clients can render.
package domain
