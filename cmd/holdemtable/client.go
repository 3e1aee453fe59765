package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lox/holdemtable/internal/client"
)

// ClientCmd plays at a table from the terminal.
type ClientCmd struct {
	Server string `short:"s" default:"ws://localhost:8080/ws" help:"WebSocket server URL"`
	Table  string `short:"t" default:"main" help:"Table to join"`
	Name   string `short:"n" env:"USER" help:"Display name"`
}

func (c *ClientCmd) Run(cli *CLI) error {
	level := cli.LogLevel
	if level == "" {
		level = "warn"
	}
	logger := newLogger(level)

	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = "Player"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return client.Run(ctx, client.Config{
		Server: c.Server,
		Table:  c.Table,
		Name:   name,
	}, nil, os.Stdout, client.NewRenderer(os.Stdout), logger)
}
