// Package metrics provides observability hooks for builds, with a
// Prometheus implementation for serve mode and a no-op default.
package metrics

import "time"

// Recorder defines the build metrics hooks. Implementations may forward to
// Prometheus or anything else; NoopRecorder is used when metrics are off.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|failed
	AddDocumentsRendered(n int)
	AddDocumentsSkipped(n int)
	AddIssues(n int)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(string)             {}
func (NoopRecorder) AddDocumentsRendered(int)           {}
func (NoopRecorder) AddDocumentsSkipped(int)            {}
func (NoopRecorder) AddIssues(int)                      {}
