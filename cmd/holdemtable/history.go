package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lox/holdemtable/internal/history"
)

// HistoryCmd lists hands recorded by a server running with a history store.
type HistoryCmd struct {
	Database string `arg:"" help:"Path to the sqlite hand history database"`
	Table    string `short:"t" default:"main" help:"Table to list"`
}

func (c *HistoryCmd) Run() error {
	store, err := history.Open(c.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	hands, err := store.Hands(context.Background(), c.Table)
	if err != nil {
		return fmt.Errorf("failed to read hands: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tSTARTED\tHAND\tPOT\tBOARD\tSHOWDOWN\tWINNERS")
	for _, h := range hands {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%t\t%s\n",
			h.SessionID, h.SessionStart.Format(time.DateTime), h.HandNumber, h.Pot, h.Board, h.Showdown, winners(h.Winners))
	}
	return w.Flush()
}

func winners(m map[string]int) string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s:%d", name, m[name])
	}
	return strings.Join(parts, " ")
}
