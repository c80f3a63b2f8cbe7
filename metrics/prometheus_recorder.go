package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	eventsRecorded *prom.CounterVec
	flushOutcomes  *prom.CounterVec
	batchSize      prom.Histogram
	submitDuration *prom.HistogramVec
}

var _ Recorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder constructs and registers the recorder's metrics on reg.
// A nil registry gets a fresh private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		eventsRecorded: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "ama",
			Name:      "events_recorded_total",
			Help:      "Events appended to request riders by event type",
		}, []string{"event_type"}),
		flushOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "ama",
			Name:      "flush_outcomes_total",
			Help:      "Flush attempts by outcome",
		}, []string{"outcome"}),
		batchSize: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "ama",
			Name:      "batch_events",
			Help:      "Number of events per submitted batch",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64},
		}),
		submitDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "ama",
			Name:      "submit_duration_seconds",
			Help:      "Duration of sink submissions",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
	}
	reg.MustRegister(pr.eventsRecorded, pr.flushOutcomes, pr.batchSize, pr.submitDuration)
	return pr
}

func (p *PrometheusRecorder) IncEventRecorded(eventType string) {
	if p == nil {
		return
	}
	p.eventsRecorded.WithLabelValues(eventType).Inc()
}

func (p *PrometheusRecorder) IncFlushOutcome(outcome FlushOutcome) {
	if p == nil {
		return
	}
	p.flushOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveBatchSize(events int) {
	if p == nil {
		return
	}
	p.batchSize.Observe(float64(events))
}

func (p *PrometheusRecorder) ObserveSubmitDuration(d time.Duration, success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.submitDuration.WithLabelValues(res).Observe(d.Seconds())
}
