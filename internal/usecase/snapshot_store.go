package usecase

import (
	"sync"

	"github.com/chaofengh/stock-price-analyze-Backend/internal/domain/models"
	drepo "github.com/chaofengh/stock-price-analyze-Backend/internal/domain/repository"
)

// Notifier receives every published snapshot, in publish order.
// Implementations must not block the caller.
type Notifier interface {
	Notify(snap *models.Snapshot)
}

// SnapshotStore owns the current snapshot. Publish atomically replaces
// it and fans out a notification; Latest never blocks on an in-flight
// publish and never observes a half-built snapshot.
type SnapshotStore struct {
	mu       sync.RWMutex
	current  *models.Snapshot
	seq      uint64
	notifier Notifier
	metrics  drepo.Metrics
}

// NewSnapshotStore creates an empty store. The notifier may be nil.
func NewSnapshotStore(notifier Notifier, metrics drepo.Metrics) *SnapshotStore {
	return &SnapshotStore{notifier: notifier, metrics: metrics}
}

// Publish assigns the next sequence number, swaps the current snapshot,
// and notifies subscribers. Sequence numbers strictly increase; a cycle
// that never reaches Publish does not advance them. Notification runs
// under the write lock so snapshots reach the notifier in publish
// order; delivery itself is non-blocking.
func (s *SnapshotStore) Publish(snap *models.Snapshot) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	snap.Sequence = s.seq
	s.current = snap

	if s.metrics != nil {
		s.metrics.SetSnapshotSequence(s.seq)
	}
	if s.notifier != nil {
		s.notifier.Notify(snap)
	}
	return s.seq
}

// Latest returns the current snapshot, or false before the first
// successful cycle. The returned snapshot is shared and immutable.
func (s *SnapshotStore) Latest() (*models.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	return s.current, true
}
