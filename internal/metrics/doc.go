// Package metrics defines the Prometheus collectors exported by the
// manifest gallery: HTTP serving metrics, pipeline counters, per-mirror
// fetch outcomes, and preview store gauges.
//
// Per-mirror failures are deliberately invisible to gallery responses;
// these counters are where that suppressed detail remains observable.
package metrics
