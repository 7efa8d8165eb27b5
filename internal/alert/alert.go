// Package alert pushes emergency events to control-room chat channels
// (Slack, Discord, etc.).
package alert

import "context"

// Adapter is the interface that platform-specific implementations must
// satisfy. Each adapter handles connection management and message delivery
// for a single chat platform.
type Adapter interface {
	// Connect establishes a connection to the chat platform.
	Connect(ctx context.Context) error

	// Send delivers an outbound message to the platform.
	Send(ctx context.Context, msg Message) error

	// Close gracefully shuts down the adapter connection.
	Close() error
}

// Message represents an alert to be posted to a chat platform.
type Message struct {
	ChannelID string           // target channel (empty for the adapter default)
	Text      string           // plain-text fallback
	Events    []FormattedEvent // structured event attachments
}

// FormattedEvent represents an emergency event formatted for display in chat.
type FormattedEvent struct {
	Title    string  // event headline (e.g. "Responder FIRE-201 dispatched")
	Body     string  // detail text
	Severity string  // "info", "warning", "error", "success"
	Color    string  // sidebar color hint (e.g. "#d50200" for emergencies)
	Fields   []Field // key-value metadata pairs
}

// Field is a key-value pair displayed in an event attachment.
type Field struct {
	Name  string
	Value string
	Short bool // hint: render side-by-side with another field
}
