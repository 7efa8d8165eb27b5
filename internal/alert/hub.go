package alert

import (
	"context"
	"errors"
	"log"
	"sync"
)

// Hub fans alerts out to every configured adapter. Delivery is best-effort:
// a failing platform is logged and skipped, it never blocks call handling.
type Hub struct {
	mu       sync.Mutex
	adapters []Adapter
}

// NewHub creates a Hub over the given adapters.
func NewHub(adapters ...Adapter) *Hub {
	return &Hub{adapters: adapters}
}

// Register adds an adapter to the hub.
func (h *Hub) Register(a Adapter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.adapters = append(h.adapters, a)
}

// Connect connects every adapter, collecting errors.
func (h *Hub) Connect(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	var errs []error
	for _, a := range h.adapters {
		if err := a.Connect(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Notify sends the message to every adapter, logging failures.
func (h *Hub) Notify(ctx context.Context, msg Message) {
	h.mu.Lock()
	adapters := make([]Adapter, len(h.adapters))
	copy(adapters, h.adapters)
	h.mu.Unlock()

	for _, a := range adapters {
		if err := a.Send(ctx, msg); err != nil {
			log.Printf("alert: send failed: %v", err)
		}
	}
}

// Close shuts down every adapter, collecting errors.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	var errs []error
	for _, a := range h.adapters {
		if err := a.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
