package server

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/holdemtable/poker"
)

const (
	defaultAddress         = "localhost"
	defaultPort            = 8080
	defaultLogLevel        = "info"
	defaultSeats           = 2
	defaultStartingBalance = 1000
	defaultActionTimeout   = "60s"
	maxSeats               = 10
)

// Config represents the complete server configuration
type Config struct {
	Server  *ServerSettings  `hcl:"server,block"`
	History *HistorySettings `hcl:"history,block"`
	Tables  []TableConfig    `hcl:"table,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// HistorySettings enables the sqlite hand history.
type HistorySettings struct {
	Path string `hcl:"path"`
}

// TableConfig defines a poker table
type TableConfig struct {
	Name            string `hcl:"name,label"`
	Seats           int    `hcl:"seats,optional"`
	SmallBlind      int    `hcl:"small_blind"`
	BigBlind        int    `hcl:"big_blind"`
	MinimumRaise    int    `hcl:"minimum_raise,optional"`
	StartingBalance int    `hcl:"starting_balance,optional"`
	ActionTimeout   string `hcl:"action_timeout,optional"`
	Evaluator       string `hcl:"evaluator,optional"`
	Seed            int64  `hcl:"seed,optional"`
}

// DefaultConfig returns a single heads-up table on localhost:8080.
func DefaultConfig() *Config {
	cfg := &Config{
		Tables: []TableConfig{{
			Name:       "main",
			SmallBlind: 10,
			BigBlind:   20,
		}},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig loads configuration from an HCL file. A missing file yields
// the defaults.
func LoadConfig(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(src, filename)
}

// ParseConfig decodes HCL source.
func ParseConfig(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = defaultAddress
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = defaultLogLevel
	}

	for i := range c.Tables {
		t := &c.Tables[i]
		if t.Seats == 0 {
			t.Seats = defaultSeats
		}
		if t.MinimumRaise == 0 {
			t.MinimumRaise = t.BigBlind
		}
		if t.StartingBalance == 0 {
			t.StartingBalance = defaultStartingBalance
		}
		if t.ActionTimeout == "" {
			t.ActionTimeout = defaultActionTimeout
		}
		if t.Evaluator == "" {
			t.Evaluator = poker.EvaluatorTreys
		}
	}
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	seen := make(map[string]bool)
	for _, t := range c.Tables {
		if seen[t.Name] {
			return fmt.Errorf("duplicate table name: %s", t.Name)
		}
		seen[t.Name] = true
		if err := t.Validate(); err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
	}
	return nil
}

// Validate checks one table's limits.
func (t TableConfig) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if t.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive")
	}
	if t.BigBlind <= t.SmallBlind {
		return fmt.Errorf("big blind must be greater than small blind")
	}
	if t.MinimumRaise <= 0 {
		return fmt.Errorf("minimum raise must be positive")
	}
	if t.Seats < 2 || t.Seats > maxSeats {
		return fmt.Errorf("seats must be between 2 and %d", maxSeats)
	}
	if t.StartingBalance < t.BigBlind {
		return fmt.Errorf("starting balance must cover the big blind")
	}
	if _, err := poker.NewEvaluator(t.Evaluator); err != nil {
		return err
	}
	d, err := time.ParseDuration(t.ActionTimeout)
	if err != nil {
		return fmt.Errorf("invalid action timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("action timeout must be positive")
	}
	return nil
}

// Timeout returns the parsed per-turn action timeout.
func (t TableConfig) Timeout() time.Duration {
	d, err := time.ParseDuration(t.ActionTimeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(defaultActionTimeout)
	}
	return d
}
