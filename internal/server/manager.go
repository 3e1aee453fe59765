package server

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// TableManager tracks the tables a server hosts.
type TableManager struct {
	logger *log.Logger
	mu     sync.RWMutex
	tables map[string]*Table
	order  []string
}

// NewTableManager constructs an empty manager.
func NewTableManager(logger *log.Logger) *TableManager {
	return &TableManager{
		logger: logger.WithPrefix("tables"),
		tables: make(map[string]*Table),
	}
}

// Add registers a table. Table ids must be unique.
func (m *TableManager) Add(t *Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tables[t.ID()]; ok {
		return fmt.Errorf("table %s already registered", t.ID())
	}
	m.tables[t.ID()] = t
	m.order = append(m.order, t.ID())
	m.logger.Info("Registered table", "id", t.ID())
	return nil
}

// Get returns a table by id.
func (m *TableManager) Get(id string) (*Table, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[id]
	return t, ok
}

// Tables returns every table in registration order.
func (m *TableManager) Tables() []*Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Table, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.tables[id])
	}
	return out
}

// Summaries lists every table.
func (m *TableManager) Summaries() []TableSummary {
	tables := m.Tables()
	out := make([]TableSummary, 0, len(tables))
	for _, t := range tables {
		out = append(out, t.Summary())
	}
	return out
}

// Close stops every table's timers.
func (m *TableManager) Close() {
	for _, t := range m.Tables() {
		t.Close()
	}
}

// BuildTables creates a manager holding every table in cfg.
func BuildTables(cfg *Config, logger *log.Logger, opts ...TableOption) (*TableManager, error) {
	m := NewTableManager(logger)
	opts = append([]TableOption{WithLogger(logger)}, opts...)
	for _, tc := range cfg.Tables {
		t, err := NewTable(tc, opts...)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", tc.Name, err)
		}
		if err := m.Add(t); err != nil {
			return nil, err
		}
	}
	return m, nil
}
