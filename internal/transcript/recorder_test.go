package transcript

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lifeline-ai/lifeline/internal/models"
)

type captureSink struct {
	mu      sync.Mutex
	entries []string
	fail    bool
}

func (c *captureSink) Append(id string, speaker models.SpeakerType, content string, ts time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("store down")
	}
	c.entries = append(c.entries, string(speaker)+":"+content)
	return nil
}

func (c *captureSink) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.entries...)
}

func TestRecorder_AppendsInOrder(t *testing.T) {
	sink := &captureSink{}
	rec := New(sink, 8)

	rec.Record("S1", models.SpeakerAgent, "hello", time.Time{})
	rec.Record("S1", models.SpeakerCaller, "fire!", time.Time{})
	rec.Record("S1", models.SpeakerSystem, "session ended", time.Time{})
	rec.Close()

	got := sink.snapshot()
	want := []string{"AGENT:hello", "CALLER:fire!", "SYSTEM:session ended"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRecorder_SinkFailureIsSwallowed(t *testing.T) {
	sink := &captureSink{fail: true}
	rec := New(sink, 8)

	// Must not panic or block the caller in any way.
	rec.Record("S1", models.SpeakerAgent, "hello", time.Time{})
	rec.Close()

	if len(sink.snapshot()) != 0 {
		t.Error("failed appends should record nothing")
	}
}

func TestRecorder_FullQueueDropsWithoutBlocking(t *testing.T) {
	block := make(chan struct{})
	var once sync.Once
	slow := SinkFunc(func(id string, speaker models.SpeakerType, content string, ts time.Time) error {
		<-block
		return nil
	})
	rec := New(slow, 1)
	defer once.Do(func() { close(block) })

	// First entry occupies the worker, second fills the queue; the rest
	// must drop immediately rather than block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			rec.Record("S1", models.SpeakerCaller, "x", time.Time{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a full queue")
	}
	once.Do(func() { close(block) })
	rec.Close()
}

func TestRecorder_CloseIsIdempotent(t *testing.T) {
	rec := New(&captureSink{}, 4)
	rec.Close()
	rec.Close()
}
