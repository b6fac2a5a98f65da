package stream

import (
	"testing"
	"time"

	"github.com/chaofengh/stock-price-analyze-Backend/internal/domain/models"
	applogger "github.com/chaofengh/stock-price-analyze-Backend/pkg/logger"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func recv(t *testing.T, sub *Subscription) (*models.Snapshot, bool) {
	t.Helper()
	select {
	case snap, ok := <-sub.Updates():
		return snap, ok
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for snapshot")
		return nil, false
	}
}

func TestSubscribeBeforeFirstCycle(t *testing.T) {
	hub := NewHub(4, nil, testLogger(t))
	sub := hub.Subscribe()
	defer sub.Close()

	snap, ok := recv(t, sub)
	if !ok {
		t.Fatalf("channel closed unexpectedly")
	}
	if snap != nil {
		t.Fatalf("expected nil no-data marker, got %+v", snap)
	}
}

func TestSubscribeAfterPublishGetsCurrent(t *testing.T) {
	hub := NewHub(4, nil, testLogger(t))
	current := &models.Snapshot{Sequence: 7}
	hub.Notify(current)

	sub := hub.Subscribe()
	defer sub.Close()

	snap, _ := recv(t, sub)
	if snap != current {
		t.Fatalf("late subscriber should get the current snapshot")
	}
}

func TestNotifyFansOut(t *testing.T) {
	hub := NewHub(4, nil, testLogger(t))
	a := hub.Subscribe()
	b := hub.Subscribe()
	defer a.Close()
	defer b.Close()

	// Drain the initial markers.
	recv(t, a)
	recv(t, b)

	snap := &models.Snapshot{Sequence: 1}
	hub.Notify(snap)

	if got, _ := recv(t, a); got != snap {
		t.Fatalf("subscriber a missed the snapshot")
	}
	if got, _ := recv(t, b); got != snap {
		t.Fatalf("subscriber b missed the snapshot")
	}
}

func TestSlowSubscriberDropped(t *testing.T) {
	hub := NewHub(1, nil, testLogger(t))
	slow := hub.Subscribe() // never reads; initial marker fills the buffer

	hub.Notify(&models.Snapshot{Sequence: 1})
	if hub.Len() != 0 {
		t.Fatalf("slow subscriber should be dropped, have %d", hub.Len())
	}

	// The channel drains its queued marker, then reports closed.
	if _, ok := recv(t, slow); !ok {
		t.Fatalf("expected queued marker before close")
	}
	if _, ok := recv(t, slow); ok {
		t.Fatalf("expected closed channel after drop")
	}
}

func TestDroppedSubscriberDoesNotStallOthers(t *testing.T) {
	hub := NewHub(1, nil, testLogger(t))
	slow := hub.Subscribe()
	_ = slow
	fast := hub.Subscribe()
	recv(t, fast) // drain marker

	snap := &models.Snapshot{Sequence: 1}
	hub.Notify(snap)
	if got, _ := recv(t, fast); got != snap {
		t.Fatalf("fast subscriber should still receive")
	}
	if hub.Len() != 1 {
		t.Fatalf("expected only the fast subscriber left, have %d", hub.Len())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	hub := NewHub(4, nil, testLogger(t))
	sub := hub.Subscribe()

	sub.Close()
	sub.Close() // second close must not panic

	if hub.Len() != 0 {
		t.Fatalf("expected no subscribers, have %d", hub.Len())
	}
	hub.Notify(&models.Snapshot{Sequence: 1}) // must not panic on closed channel
}
