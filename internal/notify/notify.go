// Package notify pushes transcript and evaluation deltas to dashboard
// observers over a websocket room channel.
//
// The channel is purely for observers; the store remains the source of
// truth. Publishing is therefore best-effort: a failed send marks the
// connection dead, logs, and moves on.
package notify

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Conn is the subset of a websocket connection the client needs. The real
// implementation is *websocket.Conn; tests inject fakes.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Dialer opens a Conn to the push server.
type Dialer func(url string) (Conn, error)

func wsDial(url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// frame is the wire shape of every pushed event.
type frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Client maintains at most one outbound connection to the push channel.
type Client struct {
	url       string
	agentName string
	agentID   string
	joinEvent string
	dial      Dialer

	mu        sync.Mutex
	conn      Conn
	connected bool
}

// Opts holds parameters for creating a Client.
type Opts struct {
	URL       string
	AgentName string
	JoinEvent string // room-join event name, defaults to "join-session"
	Dialer    Dialer // defaults to a gorilla/websocket dialer
}

// New creates a Client. It does not connect; Connect is lazy and idempotent.
func New(opts Opts) *Client {
	dial := opts.Dialer
	if dial == nil {
		dial = wsDial
	}
	name := opts.AgentName
	if name == "" {
		name = "inbound-agent"
	}
	joinEvent := opts.JoinEvent
	if joinEvent == "" {
		joinEvent = "join-session"
	}
	return &Client{
		url:       opts.URL,
		agentName: name,
		agentID:   uuid.NewString(),
		joinEvent: joinEvent,
		dial:      dial,
	}
}

// AgentID returns this process's notifier identity.
func (c *Client) AgentID() string { return c.agentID }

// Connect establishes the connection if not already connected.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked()
}

func (c *Client) connectLocked() error {
	if c.connected {
		return nil
	}
	conn, err := c.dial(c.url)
	if err != nil {
		return fmt.Errorf("notify: connect %s: %w", c.url, err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("notify: connected to %s", c.url)
	return nil
}

// JoinRoom announces presence in the room keyed by the session id and
// identifies this agent to the room. The join event name is per-variant:
// "join-session" for emergency calls, "join-interview" for interviews.
func (c *Client) JoinRoom(sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.connectLocked(); err != nil {
		return err
	}
	if err := c.writeLocked(frame{Event: c.joinEvent, Data: sessionID}); err != nil {
		return fmt.Errorf("notify: join room %s: %w", sessionID, err)
	}
	identify := map[string]any{
		"agentId":   c.agentID,
		"sessionId": sessionID,
		"name":      c.agentName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if err := c.writeLocked(frame{Event: "agent-identify", Data: identify}); err != nil {
		return fmt.Errorf("notify: identify in %s: %w", sessionID, err)
	}
	return nil
}

// Publish sends a named event to the room, best-effort. Failures are
// logged and swallowed; a failed send marks the connection for redial on
// the next call.
func (c *Client) Publish(event string, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.connectLocked(); err != nil {
		log.Printf("notify: publish %s skipped: %v", event, err)
		return
	}
	if err := c.writeLocked(frame{Event: event, Data: payload}); err != nil {
		log.Printf("notify: publish %s failed: %v", event, err)
	}
}

// writeLocked sends one frame; on failure the connection is torn down so
// the next operation redials. Callers must hold mu.
func (c *Client) writeLocked(f frame) error {
	if err := c.conn.WriteJSON(f); err != nil {
		c.conn.Close()
		c.conn = nil
		c.connected = false
		return err
	}
	return nil
}

// Close tears down the connection. Safe to call when never connected.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.connected = false
	return err
}
