package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	tuicmd "github.com/therili1/buckshot-roulette-bot/internal/cmd/tui"
)

// main runs a hot-seat game in the terminal.
func main() {
	cfg, err := tuicmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	if cfg.LogPath != "" {
		f, err := tea.LogToFile(cfg.LogPath, "[TUI] ")
		if err != nil {
			log.Fatalf("open log file: %v", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tuicmd.Run(ctx, cfg); err != nil {
		stop()
		log.SetOutput(os.Stderr)
		log.Fatalf("tui: %v", err)
	}
}
