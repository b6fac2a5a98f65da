package scheduler

import (
	"context"
	"testing"

	"github.com/chaofengh/stock-price-analyze-Backend/internal/events"
	"github.com/chaofengh/stock-price-analyze-Backend/internal/indicators"
	"github.com/chaofengh/stock-price-analyze-Backend/internal/usecase"
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

type emptyTickers struct{}

func (emptyTickers) List(context.Context) ([]string, error) { return nil, nil }
func (emptyTickers) Add(context.Context, ...string) error   { return nil }
func (emptyTickers) Remove(context.Context, string) error   { return nil }

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	store := usecase.NewSnapshotStore(nil, nil)
	scanner := usecase.NewScanner(
		emptyTickers{}, nil, store, nil, nil, testLogger(t),
		usecase.ScanConfig{
			Indicators: indicators.Config{BollingerWindow: 20, BollingerNumStdDev: 2, RSIWindow: 6},
			Events:     events.Config{HugTolerancePct: 0.01, HugMinConsecutiveBars: 2},
		},
	)
	return New(scanner, testLogger(t))
}

func TestRegisterScanValidSpec(t *testing.T) {
	s := newTestScheduler(t)
	if err := s.RegisterScan("30 21 * * 1-5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRegisterScanInvalidSpec(t *testing.T) {
	s := newTestScheduler(t)
	if err := s.RegisterScan("not a cron expression"); err == nil {
		t.Fatalf("expected error for bad cron spec")
	}
}
