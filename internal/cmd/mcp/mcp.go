// Package mcp parses MCP adapter flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"

	entrypoint "github.com/therili1/buckshot-roulette-bot/internal/platform/cmd"
	"github.com/therili1/buckshot-roulette-bot/internal/platform/otel"
	"github.com/therili1/buckshot-roulette-bot/internal/services/mcp/domain"
	mcpservice "github.com/therili1/buckshot-roulette-bot/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	Addr       string `env:"BUCKSHOT_ROULETTE_ADDR"  envDefault:"localhost:8090"`
	HTTPAddr   string `env:"BUCKSHOT_MCP_HTTP_ADDR"  envDefault:"localhost:8092"`
	Transport  string `env:"BUCKSHOT_MCP_TRANSPORT"  envDefault:"stdio"`
	PlayerID   string `env:"BUCKSHOT_MCP_PLAYER_ID"`
	PlayerName string `env:"BUCKSHOT_MCP_PLAYER_NAME"`
	Locale     string `env:"BUCKSHOT_LOCALE"         envDefault:"en-US"`
	OTel       otel.Config
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "roulette table server address")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.PlayerID, "player", cfg.PlayerID, "default player id for tool calls")
	fs.StringVar(&cfg.PlayerName, "name", cfg.PlayerName, "default display name used when joining")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for rendered event text")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, cfg.OTel, func(ctx context.Context) error {
		return mcpservice.Run(ctx, mcpservice.Config{
			GRPCAddr:  cfg.Addr,
			HTTPAddr:  cfg.HTTPAddr,
			Transport: cfg.Transport,
			Defaults: domain.Context{
				PlayerID:   cfg.PlayerID,
				PlayerName: cfg.PlayerName,
				Locale:     cfg.Locale,
			},
		})
	})
}
