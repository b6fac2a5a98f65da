package models

import "time"

// EventKind classifies a detected band event.
type EventKind string

const (
	UpperTouch EventKind = "upper_touch"
	LowerTouch EventKind = "lower_touch"
	UpperHug   EventKind = "upper_hug"
	LowerHug   EventKind = "lower_hug"
)

// Band identifies which Bollinger band a kind refers to.
type Band string

const (
	BandUpper Band = "upper"
	BandLower Band = "lower"
)

// Band returns the band side of the event kind.
func (k EventKind) Band() Band {
	switch k {
	case UpperTouch, UpperHug:
		return BandUpper
	default:
		return BandLower
	}
}

// IsHug reports whether the kind is a multi-bar hug.
func (k EventKind) IsHug() bool {
	return k == UpperHug || k == LowerHug
}

// EventMeta carries run details alongside an event.
type EventMeta struct {
	RunLength int       `json:"run_length"`
	RunEnd    time.Time `json:"run_end"`
}

// Event is a single detected band touch or hug. Events are immutable,
// strictly ordered by timestamp per symbol, and carry the close price
// and band value of the run's first bar.
type Event struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	Kind      EventKind `json:"kind"`
	Price     float64   `json:"price"`
	BandValue float64   `json:"band_value"`
	Meta      EventMeta `json:"meta"`
}
