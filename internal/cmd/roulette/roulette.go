// Package roulette parses table server flags and starts the server.
package roulette

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	entrypoint "github.com/therili1/buckshot-roulette-bot/internal/platform/cmd"
	"github.com/therili1/buckshot-roulette-bot/internal/platform/otel"
	server "github.com/therili1/buckshot-roulette-bot/internal/services/roulette/app"
)

// Config holds table server configuration.
type Config struct {
	Port     int    `env:"BUCKSHOT_ROULETTE_PORT" envDefault:"8090"`
	Addr     string `env:"BUCKSHOT_ROULETTE_ADDR"`
	HTTPAddr string `env:"BUCKSHOT_ROULETTE_HTTP_ADDR" envDefault:":8091"`
	DBPath   string `env:"BUCKSHOT_DB_PATH"`
	Rules    server.Rules
	OTel     otel.Config
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "matches.db")
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The gRPC server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The gRPC listen address (overrides -port)")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The HTTP listen address (empty disables HTTP)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Match history database path (empty disables history)")
	fs.IntVar(&cfg.Rules.MaxHealth, "max-health", cfg.Rules.MaxHealth, "Starting health of every player")
	fs.Int64Var(&cfg.Rules.Seed, "seed", cfg.Rules.Seed, "Random seed (0 draws one)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// GRPCAddr returns the gRPC listen address.
func (c Config) GRPCAddr() string {
	if c.Addr != "" {
		return c.Addr
	}
	return fmt.Sprintf(":%d", c.Port)
}

// Run starts the table server.
func Run(ctx context.Context, cfg Config) error {
	rules, err := cfg.Rules.SessionConfig()
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRoulette, cfg.OTel, func(ctx context.Context) error {
		return server.Run(ctx, server.Config{
			GRPCAddr: cfg.GRPCAddr(),
			HTTPAddr: cfg.HTTPAddr,
			DBPath:   cfg.DBPath,
			Rules:    rules,
			Seed:     cfg.Rules.Seed,
		})
	})
}
