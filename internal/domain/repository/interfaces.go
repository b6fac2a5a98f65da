package repository

import (
	"context"
	"errors"

	"github.com/chaofengh/stock-price-analyze-Backend/internal/domain/models"
)

// ErrDataUnavailable marks a per-symbol fetch failure (provider error,
// unknown symbol). Recorded in the symbol's ScanResult, retried next cycle.
var ErrDataUnavailable = errors.New("market data unavailable")

// TickerStore manages the user-curated set of tracked symbols.
type TickerStore interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, symbols ...string) error
	Remove(ctx context.Context, symbol string) error
}

// BarSource supplies an ordered daily bar series for one symbol over a
// lookback window. Implementations return ErrDataUnavailable (wrapped)
// when the upstream cannot serve the symbol.
type BarSource interface {
	GetDailyBars(ctx context.Context, symbol string, lookbackDays int) ([]models.Bar, error)
}

// AlertSink receives the events of a published snapshot. Sinks are
// best-effort: a sink error never fails the cycle.
type AlertSink interface {
	PublishEvents(ctx context.Context, sequence uint64, events []models.Event) error
	Close() error
}

// Metrics records operational measurements.
type Metrics interface {
	RecordCycle(result string, seconds float64)
	RecordSymbolError(kind string)
	RecordEvents(kind string, n int)
	SetSnapshotSequence(seq uint64)
	SetSubscribers(n int)
	RecordLatency(op string, seconds float64)
}
