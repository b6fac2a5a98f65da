package models

import "time"

// ScanStatus is the per-symbol outcome of one scan cycle.
type ScanStatus string

const (
	ScanOk              ScanStatus = "ok"
	ScanDataUnavailable ScanStatus = "data_unavailable"
	ScanComputeError    ScanStatus = "compute_error"
)

// ScanResult is the outcome for one symbol in one cycle. Created fresh
// each cycle and never mutated after the Snapshot is assembled. Failed
// symbols still appear, with an empty event list and an explanatory
// error, so consumers can tell "no events" from "couldn't compute".
type ScanResult struct {
	Symbol        string          `json:"symbol"`
	Status        ScanStatus      `json:"status"`
	IndicatorTail IndicatorSeries `json:"indicator_tail,omitempty"`
	Events        []Event         `json:"events"`
	Error         string          `json:"error,omitempty"`
}

// Snapshot is one immutable aggregate scan result. Sequence strictly
// increases with each publish; readers receive the snapshot by
// reference and must not mutate it.
type Snapshot struct {
	ScanStartedAt   time.Time              `json:"scan_started_at"`
	ScanCompletedAt time.Time              `json:"scan_completed_at"`
	Results         map[string]*ScanResult `json:"results"`
	Sequence        uint64                 `json:"sequence"`
}

// EventCount returns the total number of events across all symbols.
func (s *Snapshot) EventCount() int {
	n := 0
	for _, r := range s.Results {
		n += len(r.Events)
	}
	return n
}
