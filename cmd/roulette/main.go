package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	roulettecmd "github.com/therili1/buckshot-roulette-bot/internal/cmd/roulette"
)

func main() {
	cfg, err := roulettecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[ROULETTE] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := roulettecmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
