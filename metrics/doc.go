// Package metrics records recorder and flush activity.
//
// The ama package depends only on the Recorder interface. NoopRecorder is the
// default; PrometheusRecorder exports the same hooks as Prometheus series:
//
//	ama_events_recorded_total{event_type}
//	ama_flush_outcomes_total{outcome}
//	ama_batch_events            (histogram)
//	ama_submit_duration_seconds{result}
//
// Serve them with HTTPHandler on the registry passed to NewPrometheusRecorder.
package metrics
