package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements the domain Metrics interface using Prometheus.
type Recorder struct {
	cyclesTotal   *prometheus.CounterVec
	symbolErrors  *prometheus.CounterVec
	eventsTotal   *prometheus.CounterVec
	cycleDuration *prometheus.HistogramVec
	snapshotSeq   prometheus.Gauge
	subscribers   prometheus.Gauge
	latency       *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		cyclesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockscan_cycles_total",
				Help: "Total scan cycles by result",
			},
			[]string{"result"},
		),
		symbolErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockscan_symbol_errors_total",
				Help: "Per-symbol scan failures by kind",
			},
			[]string{"kind"},
		),
		eventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockscan_events_detected_total",
				Help: "Detected band events by kind",
			},
			[]string{"kind"},
		),
		cycleDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockscan_cycle_duration_seconds",
				Help:    "Scan cycle duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"result"},
		),
		snapshotSeq: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "stockscan_snapshot_sequence",
				Help: "Sequence number of the current snapshot",
			},
		),
		subscribers: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "stockscan_stream_subscribers",
				Help: "Current number of stream subscribers",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockscan_operation_duration_seconds",
				Help:    "Duration of internal operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordCycle records a finished cycle and its duration.
func (r *Recorder) RecordCycle(result string, seconds float64) {
	r.cyclesTotal.WithLabelValues(result).Inc()
	r.cycleDuration.WithLabelValues(result).Observe(seconds)
}

// RecordSymbolError records a contained per-symbol failure.
func (r *Recorder) RecordSymbolError(kind string) {
	r.symbolErrors.WithLabelValues(kind).Inc()
}

// RecordEvents adds detected events of one kind.
func (r *Recorder) RecordEvents(kind string, n int) {
	r.eventsTotal.WithLabelValues(kind).Add(float64(n))
}

// SetSnapshotSequence records the current snapshot sequence.
func (r *Recorder) SetSnapshotSequence(seq uint64) {
	r.snapshotSeq.Set(float64(seq))
}

// SetSubscribers records the stream subscriber count.
func (r *Recorder) SetSubscribers(n int) {
	r.subscribers.Set(float64(n))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
