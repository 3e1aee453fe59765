package server

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/holdemtable/internal/game"
	"github.com/lox/holdemtable/internal/gameid"
	"github.com/lox/holdemtable/internal/protocol"
)

// Sender delivers server messages to a connected client.
type Sender interface {
	Send(msg any) error
}

// Handler binds player ids to tables and answers protocol requests. It is
// independent of the transport.
type Handler struct {
	tables *TableManager
	logger *log.Logger

	mu          sync.RWMutex
	bindings    map[string]*Table
	subscribers map[string]Sender
}

// NewHandler creates a handler serving every table in tables.
func NewHandler(tables *TableManager, logger *log.Logger) *Handler {
	h := &Handler{
		tables:      tables,
		logger:      logger.WithPrefix("handler"),
		bindings:    make(map[string]*Table),
		subscribers: make(map[string]Sender),
	}
	for _, t := range tables.Tables() {
		t.SetListener(h.push)
	}
	return h
}

// Connect seats name at a table and returns the handshake response.
func (h *Handler) Connect(tableID, name string) (*protocol.Connected, error) {
	t, ok := h.tables.Get(tableID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}
	p, err := t.Join(name)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.bindings[p.ID] = t
	h.mu.Unlock()

	h.logger.Info("Player connected", "player", name, "table", tableID, "id", p.ID)
	return &protocol.Connected{
		Type:     protocol.TypeConnected,
		Status:   protocol.StatusOK,
		PlayerID: p.ID,
		Table:    tableID,
		Seat:     p.Seat,
	}, nil
}

// GetState returns the player's current view.
func (h *Handler) GetState(playerID string) *protocol.State {
	t, err := h.table(playerID)
	if err != nil {
		return stateError(game.View{}, err)
	}
	view, err := t.View(playerID)
	if err != nil {
		return stateError(view, err)
	}
	return &protocol.State{Type: protocol.TypeState, View: protocol.NewView(view)}
}

// SubmitAction applies a move and returns the resulting view. A rejected
// move returns the unchanged view with the error.
func (h *Handler) SubmitAction(playerID, move string, amount int) *protocol.State {
	t, err := h.table(playerID)
	if err != nil {
		return stateError(game.View{}, err)
	}
	m, err := game.ParseMove(move)
	if err != nil {
		view, _ := t.View(playerID)
		return stateError(view, err)
	}
	view, err := t.Submit(playerID, m, amount)
	if err != nil {
		return stateError(view, err)
	}
	return &protocol.State{Type: protocol.TypeState, View: protocol.NewView(view)}
}

// Subscribe routes pushed state updates for playerID to s.
func (h *Handler) Subscribe(playerID string, s Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[playerID] = s
}

// Disconnect drops the player's binding and marks their seat disconnected.
func (h *Handler) Disconnect(playerID string) {
	h.mu.Lock()
	t := h.bindings[playerID]
	delete(h.bindings, playerID)
	delete(h.subscribers, playerID)
	h.mu.Unlock()

	if t == nil {
		return
	}
	if err := t.Leave(playerID); err != nil {
		h.logger.Debug("Leave failed", "player", playerID, "error", err)
	}
}

func (h *Handler) table(playerID string) (*Table, error) {
	if err := gameid.Validate(playerID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlayerNotFound, err)
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	t, ok := h.bindings[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return t, nil
}

func (h *Handler) push(playerID string, view game.View) {
	h.mu.RLock()
	s := h.subscribers[playerID]
	h.mu.RUnlock()
	if s == nil {
		return
	}
	msg := &protocol.State{Type: protocol.TypeState, View: protocol.NewView(view)}
	if err := s.Send(msg); err != nil {
		h.logger.Debug("Failed to push state", "player", playerID, "error", err)
	}
}

func stateError(view game.View, err error) *protocol.State {
	return &protocol.State{
		Type:  protocol.TypeState,
		View:  protocol.NewView(view),
		Code:  errorCode(err),
		Error: err.Error(),
	}
}
