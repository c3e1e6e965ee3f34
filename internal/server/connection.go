package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// ErrConnectionClosed is returned when sending on a closed connection.
var ErrConnectionClosed = errors.New("connection closed")

// Connection is one WebSocket subscriber to a session's state pushes.
// The stream is one-way: actions arrive over HTTP, state goes out here.
type Connection struct {
	conn      *websocket.Conn
	send      chan []byte
	viewer    string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection wraps an upgraded WebSocket for the given viewer.
func NewConnection(conn *websocket.Conn, viewer string, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:   conn,
		send:   make(chan []byte, 64),
		viewer: viewer,
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Viewer returns the player name this connection sees the table as. Empty
// means a full observer.
func (c *Connection) Viewer() string { return c.viewer }

// Start begins the read and write pumps.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed when the connection shuts down.
func (c *Connection) Done() <-chan struct{} { return c.ctx.Done() }

// Close tears the connection down. Safe to call more than once.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// Send queues a frame for the client. A client too slow to drain its
// buffer is disconnected rather than allowed to block broadcasts.
func (c *Connection) Send(data []byte) error {
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
		c.logger.Warn("send buffer full, dropping connection", "viewer", c.viewer)
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// readPump drains the client. Inbound frames carry no meaning; reading is
// still required to process pongs and observe the close handshake.
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("read error", "viewer", c.viewer, "error", err)
			}
			return
		}
	}
}

// writePump forwards queued frames and keeps the connection alive with
// pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
