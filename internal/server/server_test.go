package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/holdemtable/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	cfg := DefaultConfig()
	cfg.Tables[0].Seed = 42
	tables, err := BuildTables(cfg, logger, WithClock(quartz.NewMock(t)))
	require.NoError(t, err)

	srv := NewServer(cfg.Addr(), tables, logger)
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(func() {
		ts.Close()
		srv.closeConnections()
		tables.Close()
	})
	return ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg any) {
	t.Helper()
	data, err := protocol.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, data))
}

func receive(t *testing.T, conn *websocket.Conn) any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	kind, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, kind)
	msg, err := protocol.Decode(data)
	require.NoError(t, err)
	return msg
}

func TestServerHandshake(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, &protocol.Connect{Type: protocol.TypeConnect, Table: "main", Name: "Alice"})

	connected, ok := receive(t, conn).(*protocol.Connected)
	require.True(t, ok)
	assert.Equal(t, protocol.StatusOK, connected.Status)
	assert.NotEmpty(t, connected.PlayerID)

	state, ok := receive(t, conn).(*protocol.State)
	require.True(t, ok)
	assert.Equal(t, "Alice", state.View.Player)
	assert.Equal(t, protocol.StageWaiting, state.View.Stage)

	send(t, conn, &protocol.Connect{Type: protocol.TypeConnect, Table: "main", Name: "Alice"})
	errMsg, ok := receive(t, conn).(*protocol.Error)
	require.True(t, ok)
	assert.Equal(t, protocol.CodeProtocolViolation, errMsg.Code)
}

func TestServerRequiresConnectFirst(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, &protocol.GetState{Type: protocol.TypeGetState})
	errMsg, ok := receive(t, conn).(*protocol.Error)
	require.True(t, ok)
	assert.Equal(t, protocol.CodeProtocolViolation, errMsg.Code)

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0xc1}))
	errMsg, ok = receive(t, conn).(*protocol.Error)
	require.True(t, ok)
	assert.Equal(t, protocol.CodeInvalidMessage, errMsg.Code)

	send(t, conn, &protocol.Connect{Type: protocol.TypeConnect, Table: "nope", Name: "Alice"})
	errMsg, ok = receive(t, conn).(*protocol.Error)
	require.True(t, ok)
	assert.Equal(t, protocol.CodeTableNotFound, errMsg.Code)
}

func TestServerPlay(t *testing.T) {
	ts := newTestServer(t)
	alice := dial(t, ts)
	bob := dial(t, ts)

	send(t, alice, &protocol.Connect{Type: protocol.TypeConnect, Table: "main", Name: "Alice"})
	receive(t, alice) // connected
	receive(t, alice) // waiting state

	send(t, bob, &protocol.Connect{Type: protocol.TypeConnect, Table: "main", Name: "Bob"})
	receive(t, bob) // connected

	// the hand started on Bob's join; Alice is pushed the new view
	pushed, ok := receive(t, alice).(*protocol.State)
	require.True(t, ok)
	assert.Equal(t, "pre-flop", pushed.View.Stage)
	assert.Equal(t, 30, pushed.View.Pot)

	// Bob subscribes after joining, so his first state is the handshake one
	state, ok := receive(t, bob).(*protocol.State)
	require.True(t, ok)
	assert.True(t, state.View.IsTurn)

	send(t, bob, &protocol.PlayerAction{Type: protocol.TypePlayerAction, Move: "call"})
	var reply *protocol.State
	for reply == nil || reply.View.Pot != 40 {
		reply, ok = receive(t, bob).(*protocol.State)
		require.True(t, ok)
	}
	assert.Empty(t, reply.Error)

	pushed, ok = receive(t, alice).(*protocol.State)
	require.True(t, ok)
	assert.Equal(t, 40, pushed.View.Pot)
	assert.True(t, pushed.View.IsTurn)
}

func TestServerHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestServerTables(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/tables")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var tables []TableSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tables))
	require.Len(t, tables, 1)
	assert.Equal(t, "main", tables[0].ID)
	assert.Equal(t, "waiting", tables[0].Status)
	assert.Empty(t, tables[0].Players)

	post, err := http.Post(ts.URL+"/tables", "application/json", nil)
	require.NoError(t, err)
	defer post.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)
}
