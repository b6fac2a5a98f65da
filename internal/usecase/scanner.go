package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chaofengh/stock-price-analyze-Backend/internal/domain/models"
	drepo "github.com/chaofengh/stock-price-analyze-Backend/internal/domain/repository"
	"github.com/chaofengh/stock-price-analyze-Backend/internal/events"
	"github.com/chaofengh/stock-price-analyze-Backend/internal/indicators"
	applogger "github.com/chaofengh/stock-price-analyze-Backend/pkg/logger"
)

// ScanConfig parametrizes one scan cycle.
type ScanConfig struct {
	Indicators   indicators.Config
	Events       events.Config
	LookbackDays int
	TailLength   int
	Workers      int
	CycleTimeout time.Duration
}

// Scanner runs one full cycle over the tracked ticker set: fetch bars,
// compute indicators, detect events per symbol, then publish a single
// snapshot. Per-symbol failures are contained in that symbol's
// ScanResult and never abort the cycle for other symbols.
type Scanner struct {
	tickers drepo.TickerStore
	source  drepo.BarSource
	store   *SnapshotStore
	sinks   []drepo.AlertSink
	metrics drepo.Metrics
	logger  *applogger.Logger
	cfg     ScanConfig
}

// NewScanner creates a Scanner. Sinks receive published events
// best-effort and may be empty.
func NewScanner(
	tickers drepo.TickerStore,
	source drepo.BarSource,
	store *SnapshotStore,
	sinks []drepo.AlertSink,
	metrics drepo.Metrics,
	logger *applogger.Logger,
	cfg ScanConfig,
) *Scanner {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.TailLength <= 0 {
		cfg.TailLength = 7
	}
	return &Scanner{
		tickers: tickers,
		source:  source,
		store:   store,
		sinks:   sinks,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
	}
}

// RunCycle executes one cycle. A cycle that fails entirely (ticker set
// unavailable, cycle timeout) publishes nothing and leaves the previous
// snapshot current.
func (s *Scanner) RunCycle(ctx context.Context) (*models.Snapshot, error) {
	start := time.Now().UTC()

	if s.cfg.CycleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.CycleTimeout)
		defer cancel()
	}

	symbols, err := s.tickers.List(ctx)
	if err != nil {
		s.metrics.RecordCycle("failed", time.Since(start).Seconds())
		return nil, fmt.Errorf("list tickers: %w", err)
	}
	sort.Strings(symbols)

	results := make([]*models.ScanResult, len(symbols))
	sem := make(chan struct{}, s.cfg.Workers)
	var wg sync.WaitGroup
	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = s.scanSymbol(ctx, sym)
		}(i, sym)
	}
	wg.Wait()

	// A timed-out cycle is abandoned wholesale, even though some
	// symbols may have completed.
	if err := ctx.Err(); err != nil {
		s.metrics.RecordCycle("timeout", time.Since(start).Seconds())
		return nil, fmt.Errorf("cycle abandoned: %w", err)
	}

	snap := &models.Snapshot{
		ScanStartedAt:   start,
		ScanCompletedAt: time.Now().UTC(),
		Results:         make(map[string]*models.ScanResult, len(results)),
	}
	byKind := map[models.EventKind]int{}
	for _, r := range results {
		snap.Results[r.Symbol] = r
		for _, ev := range r.Events {
			byKind[ev.Kind]++
		}
	}

	seq := s.store.Publish(snap)
	for kind, n := range byKind {
		s.metrics.RecordEvents(string(kind), n)
	}
	s.metrics.RecordCycle("ok", time.Since(start).Seconds())
	s.logger.Info("scan cycle published",
		applogger.Uint64("sequence", seq),
		applogger.Int("symbols", len(symbols)),
		applogger.Int("events", snap.EventCount()),
		applogger.Duration("duration_ms", time.Since(start)),
	)

	s.forwardToSinks(snap)
	return snap, nil
}

// scanSymbol produces the ScanResult for one symbol. Panics inside
// indicator or event computation are contained as ComputeError.
func (s *Scanner) scanSymbol(ctx context.Context, symbol string) (res *models.ScanResult) {
	symStart := time.Now()
	defer func() {
		s.metrics.RecordLatency("scan_symbol", time.Since(symStart).Seconds())
	}()
	defer func() {
		if r := recover(); r != nil {
			s.metrics.RecordSymbolError("panic")
			s.logger.Error("scan panic",
				applogger.String("symbol", symbol),
				applogger.Any("panic", r),
			)
			res = &models.ScanResult{
				Symbol: symbol,
				Status: models.ScanComputeError,
				Events: []models.Event{},
				Error:  fmt.Sprintf("internal fault: %v", r),
			}
		}
	}()

	bars, err := s.source.GetDailyBars(ctx, symbol, s.cfg.LookbackDays)
	if err != nil {
		s.metrics.RecordSymbolError("data_unavailable")
		s.logger.Warn("bars unavailable",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return &models.ScanResult{
			Symbol: symbol,
			Status: models.ScanDataUnavailable,
			Events: []models.Event{},
			Error:  err.Error(),
		}
	}

	series, err := indicators.Compute(bars, s.cfg.Indicators)
	if err != nil {
		if errors.Is(err, indicators.ErrInsufficientData) {
			// Normal for short-history symbols; recorded, not escalated.
			s.metrics.RecordSymbolError("insufficient_data")
			return &models.ScanResult{
				Symbol: symbol,
				Status: models.ScanDataUnavailable,
				Events: []models.Event{},
				Error:  err.Error(),
			}
		}
		s.metrics.RecordSymbolError("compute")
		s.logger.Error("indicator compute failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return &models.ScanResult{
			Symbol: symbol,
			Status: models.ScanComputeError,
			Events: []models.Event{},
			Error:  err.Error(),
		}
	}

	evs, err := events.Detect(symbol, series, s.cfg.Events)
	if err != nil {
		s.metrics.RecordSymbolError("compute")
		return &models.ScanResult{
			Symbol: symbol,
			Status: models.ScanComputeError,
			Events: []models.Event{},
			Error:  err.Error(),
		}
	}
	if evs == nil {
		evs = []models.Event{}
	}

	return &models.ScanResult{
		Symbol:        symbol,
		Status:        models.ScanOk,
		IndicatorTail: series.Tail(s.cfg.TailLength),
		Events:        evs,
	}
}

// forwardToSinks hands the snapshot's events to the configured sinks.
// Sink failures are logged and dropped; the snapshot is already
// published.
func (s *Scanner) forwardToSinks(snap *models.Snapshot) {
	if len(s.sinks) == 0 || snap.EventCount() == 0 {
		return
	}
	all := make([]models.Event, 0, snap.EventCount())
	for _, r := range snap.Results {
		all = append(all, r.Events...)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].Timestamp.Before(all[j].Timestamp)
		}
		return all[i].Symbol < all[j].Symbol
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, sink := range s.sinks {
		if err := sink.PublishEvents(ctx, snap.Sequence, all); err != nil {
			s.metrics.RecordSymbolError("sink")
			s.logger.Warn("alert sink publish failed", applogger.Error(err))
		}
	}
}
