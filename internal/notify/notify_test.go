package notify

import (
	"errors"
	"testing"
)

type fakeConn struct {
	frames []frame
	failOn int // fail the nth write (1-based), 0 = never
	writes int
	closed bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.writes++
	if f.failOn != 0 && f.writes == f.failOn {
		return errors.New("broken pipe")
	}
	f.frames = append(f.frames, v.(frame))
	return nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func newTestClient(conn *fakeConn, dialErr error) (*Client, *int) {
	dials := 0
	c := New(Opts{
		URL:       "ws://test/ws",
		AgentName: "test-agent",
		Dialer: func(url string) (Conn, error) {
			dials++
			if dialErr != nil {
				return nil, dialErr
			}
			return conn, nil
		},
	})
	return c, &dials
}

func TestConnect_Idempotent(t *testing.T) {
	c, dials := newTestClient(&fakeConn{}, nil)
	if err := c.Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := c.Connect(); err != nil {
		t.Fatalf("second Connect: %v", err)
	}
	if *dials != 1 {
		t.Errorf("dials = %d, want 1 (memoized connection)", *dials)
	}
}

func TestJoinRoom_EmitsJoinAndIdentify(t *testing.T) {
	conn := &fakeConn{}
	c, _ := newTestClient(conn, nil)
	if err := c.JoinRoom("S1"); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	if len(conn.frames) != 2 {
		t.Fatalf("frames = %d, want join + identify", len(conn.frames))
	}
	if conn.frames[0].Event != "join-session" || conn.frames[0].Data != "S1" {
		t.Errorf("first frame = %+v", conn.frames[0])
	}
	if conn.frames[1].Event != "agent-identify" {
		t.Errorf("second frame = %+v", conn.frames[1])
	}
	identify := conn.frames[1].Data.(map[string]any)
	if identify["sessionId"] != "S1" || identify["agentId"] != c.AgentID() {
		t.Errorf("identify payload = %+v", identify)
	}
}

func TestJoinRoom_InterviewJoinEvent(t *testing.T) {
	conn := &fakeConn{}
	c := New(Opts{
		URL:       "ws://test/ws",
		AgentName: "test-agent",
		JoinEvent: "join-interview",
		Dialer:    func(url string) (Conn, error) { return conn, nil },
	})
	if err := c.JoinRoom("I1"); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	if conn.frames[0].Event != "join-interview" || conn.frames[0].Data != "I1" {
		t.Errorf("first frame = %+v", conn.frames[0])
	}
}

func TestPublish_BestEffortOnWriteFailure(t *testing.T) {
	conn := &fakeConn{failOn: 1}
	c, _ := newTestClient(conn, nil)

	// Must not panic or return anything; the connection is marked dead.
	c.Publish("new-transcript", map[string]string{"content": "x"})
	if !conn.closed {
		t.Error("failed write should tear down the connection")
	}

	// Next publish redials and succeeds.
	c.Publish("new-transcript", map[string]string{"content": "y"})
	if len(conn.frames) != 1 {
		t.Errorf("frames after recovery = %d, want 1", len(conn.frames))
	}
}

func TestPublish_SwallowsDialFailure(t *testing.T) {
	c, dials := newTestClient(nil, errors.New("refused"))
	c.Publish("new-transcript", "x")
	c.Publish("new-transcript", "y")
	if *dials != 2 {
		t.Errorf("dials = %d, want a redial attempt per publish", *dials)
	}
}

func TestClose_SafeWhenNeverConnected(t *testing.T) {
	c, _ := newTestClient(&fakeConn{}, nil)
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestClose_TearsDown(t *testing.T) {
	conn := &fakeConn{}
	c, _ := newTestClient(conn, nil)
	c.Connect()
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !conn.closed {
		t.Error("underlying conn not closed")
	}
}
