package server

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/holdemtable/internal/gameid"
	"github.com/lox/holdemtable/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	msgs []any
}

func (s *recordingSender) Send(msg any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return nil
}

func (s *recordingSender) last() *protocol.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.msgs) - 1; i >= 0; i-- {
		if st, ok := s.msgs[i].(*protocol.State); ok {
			return st
		}
	}
	return nil
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	logger := log.New(io.Discard)
	tables := NewTableManager(logger)
	table, err := NewTable(testTableConfig(), WithLogger(logger), WithClock(quartz.NewMock(t)))
	require.NoError(t, err)
	require.NoError(t, tables.Add(table))
	t.Cleanup(tables.Close)
	return NewHandler(tables, logger)
}

func TestHandlerConnect(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.Connect("missing", "Alice")
	assert.True(t, errors.Is(err, ErrTableNotFound))
	assert.Equal(t, protocol.CodeTableNotFound, errorCode(err))

	connected, err := h.Connect("main", "Alice")
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusOK, connected.Status)
	assert.Equal(t, protocol.TypeConnected, connected.Type)
	assert.Equal(t, "main", connected.Table)
	assert.Equal(t, 0, connected.Seat)
	assert.NotEmpty(t, connected.PlayerID)

	state := h.GetState(connected.PlayerID)
	assert.Empty(t, state.Error)
	assert.Equal(t, protocol.StageWaiting, state.View.Stage)

	state = h.SubmitAction(connected.PlayerID, "check", 0)
	assert.Equal(t, protocol.CodeWaiting, state.Code)
}

func TestHandlerUnknownPlayer(t *testing.T) {
	h := newTestHandler(t)

	for _, id := range []string{"ghost", "", gameid.Generate()} {
		state := h.GetState(id)
		assert.Equal(t, protocol.CodePlayerNotFound, state.Code, "id %q", id)
		assert.NotEmpty(t, state.Error)

		state = h.SubmitAction(id, "fold", 0)
		assert.Equal(t, protocol.CodePlayerNotFound, state.Code, "id %q", id)
	}

	_, err := h.table("not-a-player-id")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	assert.Contains(t, err.Error(), "invalid id length")
}

func TestHandlerSubmitAction(t *testing.T) {
	h := newTestHandler(t)
	alice, err := h.Connect("main", "Alice")
	require.NoError(t, err)
	bob, err := h.Connect("main", "Bob")
	require.NoError(t, err)

	aliceSender := &recordingSender{}
	h.Subscribe(alice.PlayerID, aliceSender)

	state := h.SubmitAction(bob.PlayerID, "shove", 0)
	assert.Equal(t, protocol.CodeInvalidMove, state.Code)
	assert.Equal(t, 30, state.View.Pot)

	state = h.SubmitAction(alice.PlayerID, "check", 0)
	assert.Equal(t, protocol.CodeOutOfTurn, state.Code)
	assert.Equal(t, 30, state.View.Pot)
	assert.Empty(t, state.View.ValidActions)

	state = h.SubmitAction(bob.PlayerID, "check", 0)
	assert.Equal(t, protocol.CodeIllegalCheck, state.Code)
	assert.Equal(t, []string{"fold", "call", "raise"}, state.View.ValidActions)

	state = h.SubmitAction(bob.PlayerID, "raise", 30)
	assert.Equal(t, protocol.CodeInvalidAmount, state.Code)

	state = h.SubmitAction(bob.PlayerID, "call", 0)
	assert.Empty(t, state.Error)
	assert.Equal(t, 40, state.View.Pot)
	assert.Equal(t, "pre-flop", state.View.Stage)

	// the other player sees the change both when asking and via push
	aliceState := h.GetState(alice.PlayerID)
	assert.Equal(t, 40, aliceState.View.Pot)
	assert.True(t, aliceState.View.IsTurn)
	assert.Equal(t, []string{"fold", "check", "raise"}, aliceState.View.ValidActions)
	assert.Equal(t, []string{"??", "??"}, aliceState.View.Opponents[0].Cards)
	assert.Len(t, aliceState.View.HoleCards, 2)

	pushed := aliceSender.last()
	require.NotNil(t, pushed)
	assert.Equal(t, aliceState.View, pushed.View)

	state = h.SubmitAction(alice.PlayerID, "check", 0)
	assert.Empty(t, state.Error)
	assert.Equal(t, "flop", state.View.Stage)
	assert.Len(t, state.View.Community, 3)
}

func TestHandlerDisconnect(t *testing.T) {
	h := newTestHandler(t)
	alice, err := h.Connect("main", "Alice")
	require.NoError(t, err)
	bob, err := h.Connect("main", "Bob")
	require.NoError(t, err)

	h.Disconnect(bob.PlayerID)
	state := h.GetState(bob.PlayerID)
	assert.Equal(t, protocol.CodePlayerNotFound, state.Code)

	// Bob was on the clock, so he is folded straight away
	aliceState := h.GetState(alice.PlayerID)
	assert.Equal(t, 2, aliceState.View.HandNumber)
	assert.Contains(t, aliceState.View.Log, "Bob folded")

	again, err := h.Connect("main", "Bob")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Seat)
	assert.Empty(t, h.GetState(again.PlayerID).Error)
}
