package models

import "time"

// IndicatorPoint is one timestamp-aligned row of computed indicators.
// Points before the warm-up window are never produced, only defined
// values appear in a series.
type IndicatorPoint struct {
	Timestamp  time.Time `json:"timestamp"`
	Close      float64   `json:"close"`
	BollMiddle float64   `json:"bb_middle"`
	BollUpper  float64   `json:"bb_upper"`
	BollLower  float64   `json:"bb_lower"`
	RSI        float64   `json:"rsi"`
}

// IndicatorSeries is a per-symbol sequence of indicator points,
// ordered ascending by timestamp.
type IndicatorSeries []IndicatorPoint

// Tail returns the last n points (or the whole series if shorter).
func (s IndicatorSeries) Tail(n int) IndicatorSeries {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
