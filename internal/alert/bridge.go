package alert

import (
	"context"
	"sync"

	"github.com/lifeline-ai/lifeline/internal/models"
)

// Forwarder is the realtime notifier the bridge wraps.
type Forwarder interface {
	JoinRoom(id string) error
	Publish(event string, payload any)
}

// ResponderLookup resolves a responder by id for alert formatting.
type ResponderLookup func(id string) (*models.Responder, error)

// Bridge sits between the session controller and its realtime notifier,
// mirroring noteworthy events into the alert hub. Alert delivery never
// interferes with the realtime stream.
type Bridge struct {
	next   Forwarder
	hub    *Hub
	lookup ResponderLookup

	mu      sync.Mutex
	alerted map[string]models.SessionStatus // last session status we alerted on
}

// NewBridge creates a Bridge. lookup may be nil; dispatch alerts then fall
// back to the raw responder id.
func NewBridge(next Forwarder, hub *Hub, lookup ResponderLookup) *Bridge {
	return &Bridge{
		next:    next,
		hub:     hub,
		lookup:  lookup,
		alerted: map[string]models.SessionStatus{},
	}
}

// JoinRoom forwards to the wrapped notifier.
func (b *Bridge) JoinRoom(id string) error { return b.next.JoinRoom(id) }

// Publish forwards the event, then mirrors it into the hub.
func (b *Bridge) Publish(event string, payload any) {
	b.next.Publish(event, payload)

	ctx := context.Background()
	switch event {
	case "dispatch-created":
		dispatch, ok := payload.(*models.Dispatch)
		if !ok {
			return
		}
		responder := &models.Responder{Identifier: dispatch.ResponderID}
		if b.lookup != nil {
			if found, err := b.lookup(dispatch.ResponderID); err == nil && found != nil {
				responder = found
			}
		}
		b.hub.Notify(ctx, Message{
			Events: []FormattedEvent{FormatDispatchCreated(dispatch, responder)},
		})

	case "session-updated":
		session, ok := payload.(*models.Session)
		if !ok {
			return
		}
		if !b.statusChanged(session.ID, session.Status) {
			return
		}
		switch {
		case session.Status == models.SessionEmergencyVerified:
			b.hub.Notify(ctx, Message{
				Events: []FormattedEvent{FormatEmergencyVerified(session)},
			})
		case session.Status.IsTerminal():
			b.hub.Notify(ctx, Message{
				Events: []FormattedEvent{FormatSessionClosed(session)},
			})
		}
	}
}

func (b *Bridge) statusChanged(id string, status models.SessionStatus) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.alerted[id] == status {
		return false
	}
	b.alerted[id] = status
	return true
}
