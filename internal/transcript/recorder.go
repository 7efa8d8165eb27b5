// Package transcript persists speaker-tagged utterances in the background.
//
// Transcript writes are the audit trail of a call, not its source of truth:
// they must never delay or disrupt the conversation. The recorder therefore
// decouples callers from storage with a bounded queue drained by a single
// worker goroutine; append failures are logged and dropped.
package transcript

import (
	"log"
	"sync"
	"time"

	"github.com/lifeline-ai/lifeline/internal/models"
)

// DefaultQueueSize bounds the pending-append queue.
const DefaultQueueSize = 64

// Sink receives transcript entries. The store's AppendTranscript (wrapped
// in a SinkFunc) is the production sink.
type Sink interface {
	Append(id string, speaker models.SpeakerType, content string, ts time.Time) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(id string, speaker models.SpeakerType, content string, ts time.Time) error

func (f SinkFunc) Append(id string, speaker models.SpeakerType, content string, ts time.Time) error {
	return f(id, speaker, content, ts)
}

type entry struct {
	id      string
	speaker models.SpeakerType
	content string
	ts      time.Time
}

// Recorder appends transcript entries asynchronously.
type Recorder struct {
	sink  Sink
	queue chan entry

	closeOnce sync.Once
	done      chan struct{}
}

// New creates a Recorder and starts its worker. queueSize <= 0 selects
// DefaultQueueSize.
func New(sink Sink, queueSize int) *Recorder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	r := &Recorder{
		sink:  sink,
		queue: make(chan entry, queueSize),
		done:  make(chan struct{}),
	}
	go r.run()
	return r
}

// Record enqueues one utterance without blocking. When the queue is full
// the entry is dropped and logged; the conversation always wins over the
// audit trail.
func (r *Recorder) Record(id string, speaker models.SpeakerType, content string, ts time.Time) {
	if ts.IsZero() {
		ts = time.Now()
	}
	select {
	case r.queue <- entry{id: id, speaker: speaker, content: content, ts: ts}:
	default:
		log.Printf("transcript: queue full, dropping %s entry for %s", speaker, id)
	}
}

// Close drains pending entries and stops the worker. Safe to call once;
// Record after Close panics by design (the recorder outlives every call).
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		close(r.queue)
		<-r.done
	})
}

func (r *Recorder) run() {
	defer close(r.done)
	for e := range r.queue {
		if err := r.sink.Append(e.id, e.speaker, e.content, e.ts); err != nil {
			log.Printf("transcript: append for %s failed: %v", e.id, err)
		}
	}
}
