package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/chaofengh/stock-price-analyze-Backend/internal/domain/models"
	pkgcache "github.com/chaofengh/stock-price-analyze-Backend/pkg/cache"
)

func TestAnalyzeNormalizesSymbol(t *testing.T) {
	source := &fakeBars{bars: map[string][]models.Bar{"AAPL": flatBars(30, 100)}}
	s := NewSummary(source, nil, 0, testScanConfig(), testLogger(t))

	res, err := s.Analyze(context.Background(), "  aapl ", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Symbol != "AAPL" || res.Status != models.ScanOk {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestAnalyzeEmptySymbol(t *testing.T) {
	s := NewSummary(&fakeBars{}, nil, 0, testScanConfig(), testLogger(t))
	if _, err := s.Analyze(context.Background(), "   ", 0); err == nil {
		t.Fatalf("expected error for empty symbol")
	}
}

func TestAnalyzeCachesOkResults(t *testing.T) {
	source := &fakeBars{bars: map[string][]models.Bar{"AAPL": flatBars(30, 100)}}
	cache := pkgcache.NewMemoryCache(pkgcache.WithMaxSize(10))
	defer cache.Close()
	s := NewSummary(source, cache, time.Minute, testScanConfig(), testLogger(t))

	first, err := s.Analyze(context.Background(), "AAPL", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.Analyze(context.Background(), "AAPL", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("second read should come from cache")
	}
	if source.calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", source.calls)
	}
}

func TestAnalyzeDoesNotCacheFailures(t *testing.T) {
	source := &fakeBars{bars: map[string][]models.Bar{}}
	cache := pkgcache.NewMemoryCache(pkgcache.WithMaxSize(10))
	defer cache.Close()
	s := NewSummary(source, cache, time.Minute, testScanConfig(), testLogger(t))

	res, err := s.Analyze(context.Background(), "GONE", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != models.ScanDataUnavailable {
		t.Fatalf("expected data_unavailable, got %s", res.Status)
	}

	if _, err := s.Analyze(context.Background(), "GONE", 60); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("failures must not be cached, got %d calls", source.calls)
	}
}
