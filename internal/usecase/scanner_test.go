package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/chaofengh/stock-price-analyze-Backend/internal/domain/models"
	drepo "github.com/chaofengh/stock-price-analyze-Backend/internal/domain/repository"
	"github.com/chaofengh/stock-price-analyze-Backend/internal/events"
	"github.com/chaofengh/stock-price-analyze-Backend/internal/indicators"
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

type fakeTickers struct {
	symbols []string
	err     error
}

func (f *fakeTickers) List(context.Context) ([]string, error) { return f.symbols, f.err }
func (f *fakeTickers) Add(context.Context, ...string) error   { return nil }
func (f *fakeTickers) Remove(context.Context, string) error   { return nil }

type fakeBars struct {
	mu    sync.Mutex
	bars  map[string][]models.Bar
	delay time.Duration
	calls int
}

func (f *fakeBars) GetDailyBars(ctx context.Context, symbol string, _ int) ([]models.Bar, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", drepo.ErrDataUnavailable, ctx.Err())
		}
	}
	bars, ok := f.bars[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: unknown symbol %s", drepo.ErrDataUnavailable, symbol)
	}
	return bars, nil
}

type fakeSink struct {
	mu        sync.Mutex
	sequences []uint64
	events    [][]models.Event
	err       error
}

func (f *fakeSink) PublishEvents(_ context.Context, seq uint64, evs []models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sequences = append(f.sequences, seq)
	f.events = append(f.events, evs)
	return nil
}

func (f *fakeSink) Close() error { return nil }

func flatBars(n int, close float64) []models.Bar {
	start := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = models.Bar{Timestamp: start.AddDate(0, 0, i), Close: close, Volume: 100}
	}
	return bars
}

func testScanConfig() ScanConfig {
	return ScanConfig{
		Indicators:   indicators.Config{BollingerWindow: 20, BollingerNumStdDev: 2, RSIWindow: 6},
		Events:       events.Config{HugTolerancePct: 0.01, HugMinConsecutiveBars: 2},
		LookbackDays: 130,
		TailLength:   7,
		Workers:      4,
	}
}

func TestRunCyclePublishesSnapshot(t *testing.T) {
	source := &fakeBars{bars: map[string][]models.Bar{
		"AAPL": flatBars(30, 100),
		"MSFT": flatBars(30, 250),
	}}
	store := NewSnapshotStore(nil, noopMetrics{})
	scanner := NewScanner(
		&fakeTickers{symbols: []string{"AAPL", "MSFT"}},
		source, store, nil, noopMetrics{}, testLogger(t), testScanConfig(),
	)

	snap, err := scanner.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Sequence != 1 {
		t.Fatalf("first cycle should carry sequence 1, got %d", snap.Sequence)
	}
	if len(snap.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(snap.Results))
	}
	for _, sym := range []string{"AAPL", "MSFT"} {
		r, ok := snap.Results[sym]
		if !ok {
			t.Fatalf("missing result for %s", sym)
		}
		if r.Status != models.ScanOk {
			t.Fatalf("%s: expected ok, got %s (%s)", sym, r.Status, r.Error)
		}
		if len(r.IndicatorTail) != 7 {
			t.Fatalf("%s: expected tail of 7, got %d", sym, len(r.IndicatorTail))
		}
		if r.Events == nil {
			t.Fatalf("%s: events must be non-nil", sym)
		}
	}

	latest, ok := store.Latest()
	if !ok || latest != snap {
		t.Fatalf("published snapshot should be current")
	}
}

func TestRunCycleContainsSymbolFailures(t *testing.T) {
	source := &fakeBars{bars: map[string][]models.Bar{
		"GOOD":  flatBars(30, 100),
		"SHORT": flatBars(5, 100), // below warm-up
	}}
	store := NewSnapshotStore(nil, noopMetrics{})
	scanner := NewScanner(
		&fakeTickers{symbols: []string{"GOOD", "MISSING", "SHORT"}},
		source, store, nil, noopMetrics{}, testLogger(t), testScanConfig(),
	)

	snap, err := scanner.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Results) != 3 {
		t.Fatalf("failed symbols must still appear, got %d results", len(snap.Results))
	}
	if snap.Results["GOOD"].Status != models.ScanOk {
		t.Fatalf("GOOD: %s", snap.Results["GOOD"].Status)
	}
	for _, sym := range []string{"MISSING", "SHORT"} {
		r := snap.Results[sym]
		if r.Status != models.ScanDataUnavailable {
			t.Fatalf("%s: expected data_unavailable, got %s", sym, r.Status)
		}
		if len(r.Events) != 0 {
			t.Fatalf("%s: failed symbol should carry no events", sym)
		}
		if r.Error == "" {
			t.Fatalf("%s: expected an explanatory error", sym)
		}
	}
}

func TestRunCycleTickerListFailure(t *testing.T) {
	store := NewSnapshotStore(nil, noopMetrics{})
	scanner := NewScanner(
		&fakeTickers{err: errors.New("redis down")},
		&fakeBars{}, store, nil, noopMetrics{}, testLogger(t), testScanConfig(),
	)

	if _, err := scanner.RunCycle(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if _, ok := store.Latest(); ok {
		t.Fatalf("failed cycle must not publish")
	}
}

func TestRunCycleTimeoutAbandonsCycle(t *testing.T) {
	source := &fakeBars{
		bars:  map[string][]models.Bar{"SLOW": flatBars(30, 100)},
		delay: 200 * time.Millisecond,
	}
	store := NewSnapshotStore(nil, noopMetrics{})
	cfg := testScanConfig()
	cfg.CycleTimeout = 20 * time.Millisecond
	scanner := NewScanner(
		&fakeTickers{symbols: []string{"SLOW"}},
		source, store, nil, noopMetrics{}, testLogger(t), cfg,
	)

	if _, err := scanner.RunCycle(context.Background()); err == nil {
		t.Fatalf("expected timeout error")
	}
	if _, ok := store.Latest(); ok {
		t.Fatalf("abandoned cycle must not publish")
	}
}

func TestRunCycleForwardsEventsToSinks(t *testing.T) {
	bars := flatBars(40, 100)
	for i := 30; i < 32; i++ {
		bars[i].Close = 80
	}
	source := &fakeBars{bars: map[string][]models.Bar{"DIP": bars}}
	sink := &fakeSink{}
	store := NewSnapshotStore(nil, noopMetrics{})
	scanner := NewScanner(
		&fakeTickers{symbols: []string{"DIP"}},
		source, store, []drepo.AlertSink{sink}, noopMetrics{}, testLogger(t), testScanConfig(),
	)

	snap, err := scanner.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.EventCount() == 0 {
		t.Fatalf("expected at least one event")
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.sequences) != 1 || sink.sequences[0] != snap.Sequence {
		t.Fatalf("sink should receive the published sequence, got %v", sink.sequences)
	}
	if len(sink.events[0]) != snap.EventCount() {
		t.Fatalf("sink received %d events, snapshot has %d", len(sink.events[0]), snap.EventCount())
	}
}

func TestRunCycleSinkFailureDoesNotFailCycle(t *testing.T) {
	bars := flatBars(40, 100)
	for i := 30; i < 32; i++ {
		bars[i].Close = 80
	}
	source := &fakeBars{bars: map[string][]models.Bar{"DIP": bars}}
	sink := &fakeSink{err: errors.New("kafka down")}
	store := NewSnapshotStore(nil, noopMetrics{})
	scanner := NewScanner(
		&fakeTickers{symbols: []string{"DIP"}},
		source, store, []drepo.AlertSink{sink}, noopMetrics{}, testLogger(t), testScanConfig(),
	)

	snap, err := scanner.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("sink failure must not fail the cycle: %v", err)
	}
	if latest, ok := store.Latest(); !ok || latest != snap {
		t.Fatalf("snapshot should still be published")
	}
}
