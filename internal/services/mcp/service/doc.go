// Package service runs the roulette MCP tools over stdio or streamable HTTP.
package service
