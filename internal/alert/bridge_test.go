package alert

import (
	"context"
	"testing"

	"github.com/lifeline-ai/lifeline/internal/models"
)

type recordingForwarder struct {
	events []string
}

func (r *recordingForwarder) JoinRoom(string) error { return nil }
func (r *recordingForwarder) Publish(event string, payload any) {
	r.events = append(r.events, event)
}

func newBridgeFixture(t *testing.T) (*Bridge, *recordingForwarder, *MockAdapter) {
	t.Helper()
	fwd := &recordingForwarder{}
	mock := NewMockAdapter()
	hub := NewHub(mock)
	if err := hub.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	lookup := func(id string) (*models.Responder, error) {
		return &models.Responder{
			ID:            id,
			Identifier:    "AMB-001",
			ResponderType: models.ResponderAmbulance,
		}, nil
	}
	return NewBridge(fwd, hub, lookup), fwd, mock
}

func TestBridgeForwardsAllEvents(t *testing.T) {
	bridge, fwd, _ := newBridgeFixture(t)

	bridge.Publish("session-updated", &models.Session{ID: "s", Status: models.SessionActive})
	bridge.Publish("transcript", "hello")

	if len(fwd.events) != 2 {
		t.Fatalf("forwarded %d events", len(fwd.events))
	}
}

func TestBridgeAlertsOnDispatchCreated(t *testing.T) {
	bridge, _, mock := newBridgeFixture(t)

	bridge.Publish("dispatch-created", &models.Dispatch{
		ID:          "d-1",
		SessionID:   "s-1",
		ResponderID: "r-1",
	})

	sent := mock.Sent()
	if len(sent) != 1 {
		t.Fatalf("alerts: %d", len(sent))
	}
	if sent[0].Events[0].Title != "Responder AMB-001 dispatched" {
		t.Fatalf("title: %q", sent[0].Events[0].Title)
	}
}

func TestBridgeAlertsOnceGoingTerminal(t *testing.T) {
	bridge, _, mock := newBridgeFixture(t)
	session := &models.Session{ID: "s-1", Status: models.SessionCompleted}

	bridge.Publish("session-updated", session)
	bridge.Publish("session-updated", session)

	if got := len(mock.Sent()); got != 1 {
		t.Fatalf("alerts: %d, want 1", got)
	}
}

func TestBridgeAlertsOnEmergencyVerified(t *testing.T) {
	bridge, _, mock := newBridgeFixture(t)

	bridge.Publish("session-updated", &models.Session{
		ID:            "s-1",
		EmergencyType: models.EmergencyFire,
		Status:        models.SessionEmergencyVerified,
	})

	sent := mock.Sent()
	if len(sent) != 1 {
		t.Fatalf("alerts: %d", len(sent))
	}
	if sent[0].Events[0].Color != colorError {
		t.Fatalf("color: %q", sent[0].Events[0].Color)
	}
}

func TestBridgeIgnoresActiveSessions(t *testing.T) {
	bridge, _, mock := newBridgeFixture(t)

	bridge.Publish("session-updated", &models.Session{ID: "s-1", Status: models.SessionActive})

	if got := len(mock.Sent()); got != 0 {
		t.Fatalf("alerts: %d, want 0", got)
	}
}
