// Package events detects discrete band events (touches, hugs) on an
// indicator-augmented series.
package events

import (
	"fmt"
	"math"
	"sort"

	"github.com/chaofengh/stock-price-analyze-Backend/internal/domain/models"
)

// Config holds detection thresholds.
type Config struct {
	// HugTolerancePct is the fractional proximity to the band that
	// counts as contact, e.g. 0.01 for 1%. Equality is within.
	HugTolerancePct float64
	// HugMinConsecutiveBars is the run length at which a run is
	// classified as a hug instead of a touch.
	HugMinConsecutiveBars int
}

// Validate checks the thresholds are usable.
func (c Config) Validate() error {
	if c.HugTolerancePct < 0 {
		return fmt.Errorf("hug tolerance must be >= 0, got %v", c.HugTolerancePct)
	}
	if c.HugMinConsecutiveBars < 1 {
		return fmt.Errorf("hug min consecutive bars must be >= 1, got %d", c.HugMinConsecutiveBars)
	}
	return nil
}

// track follows one band (upper or lower) through the series. A run
// opens on the first in-tolerance bar and emits exactly one event: a
// hug the moment the run reaches the minimum length, or a touch when a
// shorter run closes. Either way the event is stamped with the run's
// first bar. A run still open and unclassified at the end of the input
// is dropped; it is reconsidered on the next scan with fresh data.
type track struct {
	touchKind models.EventKind
	hugKind   models.EventKind
	band      func(models.IndicatorPoint) float64

	inRun    bool
	startIdx int
	length   int
	emitted  bool
}

func (t *track) step(symbol string, series models.IndicatorSeries, i int, cfg Config, out *[]models.Event) {
	p := series[i]
	if withinTolerance(p.Close, t.band(p), cfg.HugTolerancePct) {
		if !t.inRun {
			t.inRun = true
			t.startIdx = i
			t.length = 0
			t.emitted = false
		}
		t.length++
		if !t.emitted && t.length >= cfg.HugMinConsecutiveBars {
			*out = append(*out, t.event(symbol, series, t.hugKind, i))
			t.emitted = true
		}
		return
	}
	if t.inRun && !t.emitted {
		*out = append(*out, t.event(symbol, series, t.touchKind, i-1))
	}
	t.inRun = false
}

func (t *track) event(symbol string, series models.IndicatorSeries, kind models.EventKind, lastIdx int) models.Event {
	start := series[t.startIdx]
	return models.Event{
		Symbol:    symbol,
		Timestamp: start.Timestamp,
		Kind:      kind,
		Price:     start.Close,
		BandValue: t.band(start),
		Meta: models.EventMeta{
			RunLength: t.length,
			RunEnd:    series[lastIdx].Timestamp,
		},
	}
}

// Detect scans one symbol's indicator series and returns its events,
// strictly ordered by the run-start timestamp.
func Detect(symbol string, series models.IndicatorSeries, cfg Config) ([]models.Event, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	upper := &track{
		touchKind: models.UpperTouch,
		hugKind:   models.UpperHug,
		band:      func(p models.IndicatorPoint) float64 { return p.BollUpper },
	}
	lower := &track{
		touchKind: models.LowerTouch,
		hugKind:   models.LowerHug,
		band:      func(p models.IndicatorPoint) float64 { return p.BollLower },
	}

	var out []models.Event
	for i := range series {
		upper.step(symbol, series, i, cfg, &out)
		lower.step(symbol, series, i, cfg, &out)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// withinTolerance applies |close − band| / band <= tol. A non-positive
// band value cannot anchor a proximity test and never matches.
func withinTolerance(close, band, tol float64) bool {
	if band <= 0 {
		return false
	}
	return math.Abs(close-band)/band <= tol
}
