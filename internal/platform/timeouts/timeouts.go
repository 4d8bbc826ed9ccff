// Package timeouts holds the durations shared by the roulette servers and
// their clients.
package timeouts

import "time"

// GRPCDial caps the wait for a TableService connection to report healthy.
const GRPCDial = 5 * time.Second

// GRPCRequest caps one unary TableService call made by a client binary.
const GRPCRequest = 3 * time.Second

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers drain in-flight work when stopping.
const Shutdown = 5 * time.Second
