package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chaofengh/stock-price-analyze-Backend/internal/domain/models"
	drepo "github.com/chaofengh/stock-price-analyze-Backend/internal/domain/repository"
	pkgcache "github.com/chaofengh/stock-price-analyze-Backend/pkg/cache"
	applogger "github.com/chaofengh/stock-price-analyze-Backend/pkg/logger"
)

// Summary serves on-demand single-symbol analysis, independent of the
// scheduled scan. Results are cached with a TTL so repeated reads
// within the window do not re-hit the provider.
type Summary struct {
	source drepo.BarSource
	cache  pkgcache.Service
	ttl    time.Duration
	cfg    ScanConfig
	logger *applogger.Logger
}

// NewSummary creates the summary use case. The cache may be nil to
// disable caching.
func NewSummary(source drepo.BarSource, cache pkgcache.Service, ttl time.Duration, cfg ScanConfig, logger *applogger.Logger) *Summary {
	if cfg.TailLength <= 0 {
		cfg.TailLength = 7
	}
	return &Summary{source: source, cache: cache, ttl: ttl, cfg: cfg, logger: logger}
}

// Analyze fetches, computes, and detects for one symbol. Fetch and
// compute failures surface in the result's status, mirroring a scan
// cycle's per-symbol behavior.
func (s *Summary) Analyze(ctx context.Context, symbol string, lookbackDays int) (*models.ScanResult, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if lookbackDays <= 0 {
		lookbackDays = s.cfg.LookbackDays
	}

	key := fmt.Sprintf("summary:%s:%d", symbol, lookbackDays)
	if s.cache != nil {
		if v, ok := s.cache.Get(ctx, key); ok {
			if res, ok := v.(*models.ScanResult); ok {
				return res, nil
			}
		}
	}

	one := Scanner{
		source:  s.source,
		metrics: noopMetrics{},
		logger:  s.logger,
		cfg:     s.cfg,
	}
	one.cfg.LookbackDays = lookbackDays
	res := one.scanSymbol(ctx, symbol)

	if s.cache != nil && res.Status == models.ScanOk {
		_ = s.cache.Set(ctx, key, res, s.ttl)
	}
	return res, nil
}

// noopMetrics satisfies the metrics interface for one-off analyses so
// ad-hoc reads don't skew cycle counters.
type noopMetrics struct{}

func (noopMetrics) RecordCycle(string, float64)   {}
func (noopMetrics) RecordSymbolError(string)      {}
func (noopMetrics) RecordEvents(string, int)      {}
func (noopMetrics) SetSnapshotSequence(uint64)    {}
func (noopMetrics) SetSubscribers(int)            {}
func (noopMetrics) RecordLatency(string, float64) {}
