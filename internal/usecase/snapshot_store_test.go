package usecase

import (
	"sync"
	"testing"
	"time"

	"github.com/chaofengh/stock-price-analyze-Backend/internal/domain/models"
)

type recordingNotifier struct {
	mu    sync.Mutex
	snaps []*models.Snapshot
}

func (n *recordingNotifier) Notify(snap *models.Snapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.snaps = append(n.snaps, snap)
}

func mkSnapshot() *models.Snapshot {
	now := time.Now().UTC()
	return &models.Snapshot{
		ScanStartedAt:   now.Add(-time.Second),
		ScanCompletedAt: now,
		Results:         map[string]*models.ScanResult{},
	}
}

func TestLatestBeforeFirstPublish(t *testing.T) {
	store := NewSnapshotStore(nil, noopMetrics{})
	if snap, ok := store.Latest(); ok || snap != nil {
		t.Fatalf("empty store must report no snapshot")
	}
}

func TestPublishAssignsIncreasingSequence(t *testing.T) {
	store := NewSnapshotStore(nil, noopMetrics{})

	for want := uint64(1); want <= 3; want++ {
		snap := mkSnapshot()
		got := store.Publish(snap)
		if got != want {
			t.Fatalf("expected sequence %d, got %d", want, got)
		}
		if snap.Sequence != want {
			t.Fatalf("snapshot should carry its sequence, got %d", snap.Sequence)
		}
		latest, ok := store.Latest()
		if !ok || latest != snap {
			t.Fatalf("latest should be the just-published snapshot")
		}
	}
}

func TestPublishNotifiesInOrder(t *testing.T) {
	notifier := &recordingNotifier{}
	store := NewSnapshotStore(notifier, noopMetrics{})

	first := mkSnapshot()
	second := mkSnapshot()
	store.Publish(first)
	store.Publish(second)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.snaps) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifier.snaps))
	}
	if notifier.snaps[0] != first || notifier.snaps[1] != second {
		t.Fatalf("notifications out of publish order")
	}
	if notifier.snaps[0].Sequence != 1 || notifier.snaps[1].Sequence != 2 {
		t.Fatalf("notified snapshots carry wrong sequences")
	}
}

func TestConcurrentPublishAndRead(t *testing.T) {
	store := NewSnapshotStore(&recordingNotifier{}, noopMetrics{})

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				store.Publish(mkSnapshot())
			}
		}()
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var last uint64
			for i := 0; i < 200; i++ {
				snap, ok := store.Latest()
				if !ok {
					continue
				}
				if snap.Sequence < last {
					t.Errorf("sequence went backwards: %d after %d", snap.Sequence, last)
					return
				}
				last = snap.Sequence
			}
		}()
	}
	wg.Wait()

	latest, ok := store.Latest()
	if !ok || latest.Sequence != 200 {
		t.Fatalf("expected final sequence 200, got %v", latest)
	}
}
