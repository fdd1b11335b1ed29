package site

import (
	"time"

	"github.com/google/uuid"
)

// Issue is one per-document failure carried into the build report.
type Issue struct {
	SourceID string `json:"source_id"`
	Message  string `json:"message"`
}

// Report summarizes one build pass. It is logged, returned to the CLI, and
// published to the notification subject when configured.
type Report struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`

	Documents int `json:"documents"`
	Rendered  int `json:"rendered"`
	Skipped   int `json:"skipped"`

	Issues []Issue `json:"issues,omitempty"`
}

func newReport() *Report {
	return &Report{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
}

// Failed reports whether the pass collected any per-document errors.
func (r *Report) Failed() bool {
	return len(r.Issues) > 0
}

// Outcome is the label used for logs and metrics.
func (r *Report) Outcome() string {
	if r.Failed() {
		return "failed"
	}
	return "success"
}

func (r *Report) addIssue(sourceID string, err error) {
	r.Issues = append(r.Issues, Issue{SourceID: sourceID, Message: err.Error()})
}
