package slack

import (
	"context"
	"sync"
	"testing"

	"github.com/lifeline-ai/lifeline/internal/alert"
	slackapi "github.com/slack-go/slack"
)

type mockClient struct {
	mu     sync.Mutex
	posted []string // channel IDs
	opts   [][]slackapi.MsgOption
}

func (m *mockClient) AuthTest() (*slackapi.AuthTestResponse, error) {
	return &slackapi.AuthTestResponse{UserID: "UBOT"}, nil
}

func (m *mockClient) PostMessage(channelID string, options ...slackapi.MsgOption) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posted = append(m.posted, channelID)
	m.opts = append(m.opts, options)
	return channelID, "1234.5678", nil
}

func newConnected(t *testing.T) (*Adapter, *mockClient) {
	t.Helper()
	client := &mockClient{}
	a, err := New(AdapterOpts{ChannelID: "C-ALERTS", Client: client})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return a, client
}

func TestNewRequiresToken(t *testing.T) {
	if _, err := New(AdapterOpts{}); err == nil {
		t.Fatal("expected error without token or client")
	}
}

func TestConnectSetsBotUserID(t *testing.T) {
	a, _ := newConnected(t)
	if a.BotUserID() != "UBOT" {
		t.Fatalf("bot user id: %q", a.BotUserID())
	}
}

func TestSendUsesDefaultChannel(t *testing.T) {
	a, client := newConnected(t)

	err := a.Send(context.Background(), alert.Message{
		Text: "fallback",
		Events: []alert.FormattedEvent{
			{Title: "Responder AMB-001 dispatched", Color: "#439fe0"},
		},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(client.posted) != 1 || client.posted[0] != "C-ALERTS" {
		t.Fatalf("posted: %v", client.posted)
	}
}

func TestSendRequiresChannel(t *testing.T) {
	client := &mockClient{}
	a, err := New(AdapterOpts{Client: client})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := a.Send(context.Background(), alert.Message{Text: "hi"}); err == nil {
		t.Fatal("expected error without a channel")
	}
}

func TestSendBeforeConnectFails(t *testing.T) {
	a, err := New(AdapterOpts{ChannelID: "C", Client: &mockClient{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Send(context.Background(), alert.Message{Text: "hi"}); err == nil {
		t.Fatal("expected not-connected error")
	}
}

func TestSendAfterCloseFails(t *testing.T) {
	a, _ := newConnected(t)
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := a.Send(context.Background(), alert.Message{Text: "hi"}); err == nil {
		t.Fatal("expected error after close")
	}
}

func TestEventToAttachment(t *testing.T) {
	att := eventToAttachment(alert.FormattedEvent{
		Title: "Session closed: COMPLETED",
		Body:  "resolved",
		Color: "#36a64f",
		Fields: []alert.Field{
			{Name: "Session", Value: "s-1", Short: true},
		},
	})
	if att.Title != "Session closed: COMPLETED" || att.Color != "#36a64f" {
		t.Fatalf("attachment: %+v", att)
	}
	if len(att.Fields) != 1 || att.Fields[0].Title != "Session" {
		t.Fatalf("fields: %+v", att.Fields)
	}
	if att.Fallback != att.Title {
		t.Fatalf("fallback: %q", att.Fallback)
	}
}
