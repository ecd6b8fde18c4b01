package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal      *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	snapshotEvents *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	recordsFetched prometheus.Gauge
	lastValue      *prometheus.GaugeVec
}

// New registers the pipeline metrics on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Recorder{
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "btcmag7_pipeline_runs_total",
				Help: "Chart pipeline runs by outcome",
			},
			[]string{"outcome"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "btcmag7_pipeline_errors_total",
				Help: "Chart pipeline failures by kind",
			},
			[]string{"kind"},
		),
		snapshotEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "btcmag7_snapshot_events_total",
				Help: "Snapshot hits, misses, writes, invalidations and corruptions",
			},
			[]string{"event"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "btcmag7_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"stage"},
		),
		recordsFetched: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "btcmag7_source_records_fetched",
				Help: "Records read from the remote store on the last cold start",
			},
		),
		lastValue: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "btcmag7_last_value",
				Help: "Latest value of the composite and smoothed index",
			},
			[]string{"series"},
		),
	}
}

// RecordRun counts a pipeline run.
func (r *Recorder) RecordRun(outcome string) {
	r.runsTotal.WithLabelValues(outcome).Inc()
}

// RecordError counts a failure by kind.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordSnapshot counts a snapshot event.
func (r *Recorder) RecordSnapshot(event string) {
	r.snapshotEvents.WithLabelValues(event).Inc()
}

// RecordLatency records stage latency in seconds.
func (r *Recorder) RecordLatency(stage string, seconds float64) {
	r.latency.WithLabelValues(stage).Observe(seconds)
}

func (r *Recorder) RecordRecordsFetched(n int) {
	r.recordsFetched.Set(float64(n))
}

func (r *Recorder) RecordLastValue(series string, value float64) {
	r.lastValue.WithLabelValues(series).Set(value)
}
