package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// Config holds the line client's settings.
type Config struct {
	Server string
	Table  string
	Name   string
}

// Run connects to a table and runs the interactive client until the user
// quits, the server hangs up or ctx is cancelled. A nil in reads from the
// terminal.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer, renderer *Renderer, logger *log.Logger) error {
	c, err := Dial(ctx, cfg.Server, logger)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	if err := c.Connect(cfg.Table, cfg.Name); err != nil {
		return fmt.Errorf("failed to send connect: %w", err)
	}
	logger.Debug("Joining table", "table", cfg.Table, "name", cfg.Name)

	model := NewModel(c, renderer)
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(out)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		if ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return fmt.Errorf("client: %w", err)
	}
	return model.Err()
}
