package domain

import "github.com/therili1/buckshot-roulette-bot/internal/platform/timeouts"

// grpcCallTimeout caps a single TableService call from a tool handler.
const grpcCallTimeout = timeouts.GRPCRequest
