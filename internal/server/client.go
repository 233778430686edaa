// Package server manages individual WebSocket clients, handling read/write
// pumps, rate limiting, and lifecycle control for each connection.
package server

import (
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/driftline/driftchat/internal/chat"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 54 * time.Second
	writeWait    = 10 * time.Second
)

// Client is the transport side of one chat connection. It owns the WebSocket
// read/write pumps and implements chat.Peer so the hub can deliver events
// and tear the connection down without knowing about WebSockets.
type Client struct {
	conn           *websocket.Conn
	send           chan []byte
	hub            *chat.Hub
	id             string
	addr           string
	done           chan struct{}
	closeOnce      sync.Once
	maxMessageSize int64
	rateLimiter    *rateLimiter
	rateLimit      RateLimitConfig
}

// NewClient creates a Client for an upgraded connection, minting a fresh
// connection identifier. The send channel is buffered so the hub's
// fire-and-forget delivery never blocks on a slow reader.
func NewClient(conn *websocket.Conn, hub *chat.Hub, addr string) *Client {
	cfg := currentConfig()
	if conn != nil {
		conn.SetReadLimit(cfg.MaxMessageSize)
	}

	return &Client{
		conn:           conn,
		send:           make(chan []byte, 256),
		hub:            hub,
		id:             uuid.NewString(),
		addr:           addr,
		done:           make(chan struct{}),
		maxMessageSize: cfg.MaxMessageSize,
		rateLimiter:    newRateLimiter(cfg.RateLimit.Burst, cfg.RateLimit.RefillInterval),
		rateLimit:      cfg.RateLimit,
	}
}

// ID returns the connection identifier.
func (c *Client) ID() string {
	return c.id
}

// Deliver queues an encoded event for the write pump. It never blocks; false
// means the client is closed or its buffer is full, and the hub will evict it.
func (c *Client) Deliver(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// Close shuts the connection down exactly once. Both pumps observe the done
// channel and exit.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
				log.Printf("Error closing connection from %s: %v", c.addr, err)
			}
		}
	})
}

// Start launches the read and write pumps. The caller must have posted the
// connect event to the hub first so the hub knows the peer before any of its
// traffic arrives.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// setupReadConnection configures read deadlines and the pong handler.
func (c *Client) setupReadConnection() {
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Error setting initial read deadline for %s: %v", c.addr, err)
	}
	c.conn.SetPongHandler(func(string) error {
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Error setting read deadline in pong handler for %s: %v", c.addr, err)
		}
		return nil
	})
}

// handleReadError logs an appropriate message for a read failure and reports
// whether the read loop should stop.
func (c *Client) handleReadError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, websocket.ErrReadLimit) {
		log.Printf("Message from %s exceeded maximum size of %d bytes", c.addr, c.maxMessageSize)
		return true
	}

	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure) {
		log.Printf("Client %s disconnected: %v", c.addr, err)
		return true
	}

	if errors.Is(err, io.EOF) || isExpectedCloseError(err) {
		log.Printf("Client %s connection closed: %v", c.addr, err)
		return true
	}

	log.Printf("WebSocket read error from %s: %v", c.addr, err)
	return true
}

// checkRateLimit reports whether the client may send another message.
func (c *Client) checkRateLimit() bool {
	if c.rateLimiter != nil && !c.rateLimiter.allow() {
		log.Printf("Rate limit exceeded for %s (%d messages per %s); discarding message", c.addr, c.rateLimit.Burst, c.rateLimit.RefillInterval)
		return false
	}
	return true
}

// processInbound decodes one raw envelope and hands the typed event to the
// hub. Malformed input is answered with an invalid_message error and dropped.
func (c *Client) processInbound(raw []byte) {
	ev, err := chat.ParseEvent(c.id, raw)
	if err != nil {
		log.Printf("Invalid message from %s: %v", c.addr, err)
		c.sendInvalidMessage()
		return
	}
	c.hub.Post(ev)
}

func (c *Client) sendInvalidMessage() {
	payload, err := chat.EncodeEvent(chat.EventError, chat.ErrorPayload{
		Code:    chat.ErrCodeInvalidMessage,
		Message: "malformed or unknown message",
	})
	if err != nil {
		log.Printf("Error encoding error event for %s: %v", c.addr, err)
		return
	}
	c.Deliver(payload)
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Post(chat.DisconnectEvent{ConnID: c.id})
		c.Close()
	}()

	c.setupReadConnection()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if c.handleReadError(err) {
				break
			}
		}

		if !c.checkRateLimit() {
			continue
		}

		c.processInbound(raw)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			if !c.writeMessage(payload) {
				return
			}
		case <-ticker.C:
			if !c.writePing() {
				return
			}
		case <-c.done:
			c.writeClose()
			return
		}
	}
}

// writeMessage sends one payload plus anything else already queued, each as
// its own WebSocket text message.
func (c *Client) writeMessage(payload []byte) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Error setting write deadline for %s: %v", c.addr, err)
		return false
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		if !isExpectedCloseError(err) {
			log.Printf("Error writing message to %s: %v", c.addr, err)
		}
		return false
	}

	queued := len(c.send)
	for i := 0; i < queued; i++ {
		if err := c.conn.WriteMessage(websocket.TextMessage, <-c.send); err != nil {
			if !isExpectedCloseError(err) {
				log.Printf("Error writing queued message to %s: %v", c.addr, err)
			}
			return false
		}
	}
	return true
}

func (c *Client) writePing() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Error setting write deadline for ping to %s: %v", c.addr, err)
		return false
	}
	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		if !isExpectedCloseError(err) {
			log.Printf("Error writing ping message to %s: %v", c.addr, err)
		}
		return false
	}
	return true
}

func (c *Client) writeClose() {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return
	}
	if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
		if !isExpectedCloseError(err) {
			log.Printf("Error writing close message to %s: %v", c.addr, err)
		}
	}
}

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
