package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/holdemtable/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = errors.New("connection closed")

// Connection is one websocket client.
type Connection struct {
	conn      *websocket.Conn
	send      chan []byte
	handler   *Handler
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu       sync.RWMutex
	playerID string
}

// NewConnection wraps an upgraded websocket.
func NewConnection(conn *websocket.Conn, handler *Handler, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:    conn,
		send:    make(chan []byte, 256),
		handler: handler,
		logger:  logger.WithPrefix("conn"),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection shuts down.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection and releases the player's seat.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
		if id := c.PlayerID(); id != "" {
			c.handler.Disconnect(id)
		}
	})
	return err
}

// Send queues a message for the client.
func (c *Connection) Send(msg any) error {
	data, err := protocol.Marshal(msg)
	if err != nil {
		return err
	}
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}
	select {
	case c.send <- data:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection", "player", c.PlayerID())
		go func() { _ = c.Close() }()
		return ErrConnectionClosed
	}
}

func (c *Connection) PlayerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

func (c *Connection) setPlayerID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = id
}

func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.handleMessage(data)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Connection) handleMessage(data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		c.logger.Debug("Undecodable message", "error", err)
		c.sendError(protocol.CodeInvalidMessage, err.Error())
		return
	}

	playerID := c.PlayerID()
	if playerID == "" {
		connect, ok := msg.(*protocol.Connect)
		if !ok {
			c.sendError(protocol.CodeProtocolViolation, ErrNotConnected.Error())
			return
		}
		c.handleConnect(connect)
		return
	}

	switch m := msg.(type) {
	case *protocol.GetState:
		c.reply(c.handler.GetState(playerID))
	case *protocol.PlayerAction:
		c.reply(c.handler.SubmitAction(playerID, m.Move, m.Amount))
	case *protocol.Connect:
		c.sendError(protocol.CodeProtocolViolation, "already connected")
	default:
		c.sendError(protocol.CodeInvalidMessage, "unexpected message type")
	}
}

func (c *Connection) handleConnect(m *protocol.Connect) {
	connected, err := c.handler.Connect(m.Table, m.Name)
	if err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	c.setPlayerID(connected.PlayerID)
	c.reply(connected)
	c.handler.Subscribe(connected.PlayerID, c)
	c.reply(c.handler.GetState(connected.PlayerID))
}

func (c *Connection) reply(msg any) {
	if err := c.Send(msg); err != nil {
		c.logger.Debug("Failed to send reply", "error", err)
	}
}

func (c *Connection) sendError(code, message string) {
	c.reply(&protocol.Error{Type: protocol.TypeError, Code: code, Message: message})
}
