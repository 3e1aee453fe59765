package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lox/holdemtable/internal/history"
	"github.com/lox/holdemtable/internal/server"
)

// ServerCmd runs the websocket table server.
type ServerCmd struct {
	Config  string `short:"c" default:"holdemtable.hcl" help:"Path to HCL configuration file"`
	Address string `short:"a" help:"Address to bind to (overrides config)"`
	Port    int    `short:"p" help:"Port to listen on (overrides config)"`
	History string `help:"Path to a sqlite hand history database (overrides config)"`
}

func (c *ServerCmd) Run(cli *CLI) error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Address != "" {
		cfg.Server.Address = c.Address
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if cli.LogLevel != "" {
		cfg.Server.LogLevel = cli.LogLevel
	}
	if c.History != "" {
		cfg.History = &server.HistorySettings{Path: c.History}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cfg.Server.LogLevel)

	var opts []server.TableOption
	if cfg.History != nil && cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, server.WithRecorder(store))
		logger.Info("Recording hand history", "path", cfg.History.Path)
	}

	tables, err := server.BuildTables(cfg, logger, opts...)
	if err != nil {
		return err
	}
	for _, t := range cfg.Tables {
		logger.Info("Table ready",
			"table", t.Name,
			"seats", t.Seats,
			"blinds", fmt.Sprintf("%d/%d", t.SmallBlind, t.BigBlind),
			"evaluator", t.Evaluator,
			"timeout", t.Timeout())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(cfg.Addr(), tables, logger)
	return srv.Run(ctx)
}
