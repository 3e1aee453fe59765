package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/holdemtable/internal/protocol"
)

const writeWait = 10 * time.Second

var ErrClosed = errors.New("client closed")

// Client is a websocket connection to a table server.
type Client struct {
	conn     *websocket.Conn
	logger   *log.Logger
	incoming chan any

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects to the server. http and https URLs are converted to their
// websocket schemes and an empty path defaults to /ws.
func Dial(ctx context.Context, serverURL string, logger *log.Logger) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	c := &Client{
		conn:     conn,
		logger:   logger.WithPrefix("client"),
		incoming: make(chan any, 64),
		done:     make(chan struct{}),
	}
	go c.readPump()
	return c, nil
}

// Messages delivers every decoded server message. It is closed when the
// connection ends.
func (c *Client) Messages() <-chan any {
	return c.incoming
}

// Connect asks for a seat at table.
func (c *Client) Connect(table, name string) error {
	return c.Send(&protocol.Connect{Type: protocol.TypeConnect, Table: table, Name: name})
}

// GetState requests the current view.
func (c *Client) GetState() error {
	return c.Send(&protocol.GetState{Type: protocol.TypeGetState})
}

// Act submits a move.
func (c *Client) Act(move string, amount int) error {
	return c.Send(&protocol.PlayerAction{Type: protocol.TypePlayerAction, Move: move, Amount: amount})
}

// Send writes one message to the server.
func (c *Client) Send(msg any) error {
	data, err := protocol.Marshal(msg)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.BinaryMessage, data)
}

// Close sends a close frame and shuts the connection.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

func (c *Client) readPump() {
	defer close(c.incoming)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			c.logger.Warn("Dropping undecodable message", "error", err)
			continue
		}

		select {
		case c.incoming <- msg:
		case <-c.done:
			return
		}
	}
}
