// Package tui parses hot-seat client flags and runs the terminal UI.
package tui

import (
	"context"
	"flag"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	entrypoint "github.com/therili1/buckshot-roulette-bot/internal/platform/cmd"
	"github.com/therili1/buckshot-roulette-bot/internal/platform/otel"
	server "github.com/therili1/buckshot-roulette-bot/internal/services/roulette/app"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/table"
	"github.com/therili1/buckshot-roulette-bot/internal/services/tui"
)

// Config holds hot-seat client configuration.
type Config struct {
	Locale  string   `env:"BUCKSHOT_LOCALE" envDefault:"en-US"`
	Players []string `env:"BUCKSHOT_TUI_PLAYERS" envSeparator:","`
	// DBPath records finished local games when set.
	DBPath string `env:"BUCKSHOT_TUI_DB_PATH"`
	// LogPath receives log output; the terminal belongs to the UI.
	LogPath string `env:"BUCKSHOT_TUI_LOG"`
	Rules   server.Rules
	OTel    otel.Config
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "UI and event text locale")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Match history database path (empty disables history)")
	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "Log file path (empty discards logs)")
	fs.IntVar(&cfg.Rules.MaxHealth, "max-health", cfg.Rules.MaxHealth, "Starting health of every player")
	fs.Int64Var(&cfg.Rules.Seed, "seed", cfg.Rules.Seed, "Random seed (0 draws one)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Players = append(cfg.Players, fs.Args()...)
	return cfg, nil
}

// Run plays hot-seat games until the user quits.
func Run(ctx context.Context, cfg Config) error {
	rules, err := cfg.Rules.SessionConfig()
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTUI, cfg.OTel, func(ctx context.Context) error {
		engine, _, err := server.NewEngine(rules, cfg.Rules.Seed)
		if err != nil {
			return err
		}
		var opts []table.Option
		if cfg.DBPath != "" {
			store, err := server.OpenStore(ctx, cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					log.Printf("close match store: %v", err)
				}
			}()
			opts = append(opts, table.WithRecorder(store))
		}

		model := tui.New(table.New(engine, opts...), tui.Options{Locale: cfg.Locale, Players: cfg.Players})
		program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("run terminal UI: %w", err)
		}
		return nil
	})
}
