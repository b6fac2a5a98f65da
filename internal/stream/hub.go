// Package stream fans published snapshots out to long-lived
// subscribers.
package stream

import (
	"sync"

	"github.com/chaofengh/stock-price-analyze-Backend/internal/domain/models"
	drepo "github.com/chaofengh/stock-price-analyze-Backend/internal/domain/repository"
	applogger "github.com/chaofengh/stock-price-analyze-Backend/pkg/logger"
)

// Subscription is one subscriber's lazy, non-restartable snapshot
// sequence. The first value is the snapshot current at subscribe time,
// or nil when no cycle has completed yet (the "no data yet" marker).
type Subscription struct {
	ch  chan *models.Snapshot
	hub *Hub
}

// Updates returns the delivery channel. It is closed when the
// subscription ends, whether by Close or by being dropped as a slow
// consumer.
func (s *Subscription) Updates() <-chan *models.Snapshot {
	return s.ch
}

// Close unsubscribes and releases the subscription's resources.
// Safe to call more than once.
func (s *Subscription) Close() {
	s.hub.remove(s)
}

// Hub implements the snapshot store's Notifier and manages the
// subscriber set under concurrent connect/disconnect. Broadcast never
// blocks: a subscriber whose buffer is full is dropped instead of
// stalling publication for everyone else.
type Hub struct {
	mu      sync.Mutex
	subs    map[*Subscription]struct{}
	last    *models.Snapshot
	buffer  int
	metrics drepo.Metrics
	logger  *applogger.Logger
}

// NewHub creates a hub. buffer is the per-subscriber queue depth.
func NewHub(buffer int, metrics drepo.Metrics, logger *applogger.Logger) *Hub {
	if buffer < 1 {
		buffer = 8
	}
	return &Hub{
		subs:    make(map[*Subscription]struct{}),
		buffer:  buffer,
		metrics: metrics,
		logger:  logger,
	}
}

// Subscribe registers a subscriber and immediately queues the current
// snapshot (or the nil no-data marker).
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{
		ch:  make(chan *models.Snapshot, h.buffer),
		hub: h,
	}

	h.mu.Lock()
	sub.ch <- h.last // buffer is at least 1, cannot block
	h.subs[sub] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.SetSubscribers(n)
	}
	return sub
}

// Notify delivers snap to every subscriber. Subscribers that cannot
// keep up are disconnected.
func (h *Hub) Notify(snap *models.Snapshot) {
	h.mu.Lock()
	h.last = snap
	var dropped []*Subscription
	for sub := range h.subs {
		select {
		case sub.ch <- snap:
		default:
			dropped = append(dropped, sub)
		}
	}
	for _, sub := range dropped {
		delete(h.subs, sub)
		close(sub.ch)
	}
	n := len(h.subs)
	h.mu.Unlock()

	if len(dropped) > 0 && h.logger != nil {
		h.logger.Warn("dropped slow subscribers", applogger.Int("count", len(dropped)))
	}
	if h.metrics != nil {
		h.metrics.SetSubscribers(n)
	}
}

// Len returns the current subscriber count.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	if ok {
		delete(h.subs, sub)
		close(sub.ch)
	}
	n := len(h.subs)
	h.mu.Unlock()

	if ok && h.metrics != nil {
		h.metrics.SetSubscribers(n)
	}
}
