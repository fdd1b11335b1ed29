package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry      *prom.Registry
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	docsRendered  prom.Counter
	docsSkipped   prom.Counter
	issues        prom.Counter
}

// NewPrometheusRecorder constructs and registers build metrics on its own
// registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	reg := prom.NewRegistry()
	pr := &PrometheusRecorder{
		registry: reg,
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "stanza",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "stanza",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		docsRendered: prom.NewCounter(prom.CounterOpts{
			Namespace: "stanza",
			Name:      "documents_rendered_total",
			Help:      "Documents rendered across builds",
		}),
		docsSkipped: prom.NewCounter(prom.CounterOpts{
			Namespace: "stanza",
			Name:      "documents_skipped_total",
			Help:      "Documents skipped because output was unchanged",
		}),
		issues: prom.NewCounter(prom.CounterOpts{
			Namespace: "stanza",
			Name:      "document_issues_total",
			Help:      "Per-document errors collected across builds",
		}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.docsRendered, pr.docsSkipped, pr.issues)
	return pr
}

func (pr *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	pr.buildDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncBuildOutcome(outcome string) {
	pr.buildOutcome.WithLabelValues(outcome).Inc()
}

func (pr *PrometheusRecorder) AddDocumentsRendered(n int) {
	pr.docsRendered.Add(float64(n))
}

func (pr *PrometheusRecorder) AddDocumentsSkipped(n int) {
	pr.docsSkipped.Add(float64(n))
}

func (pr *PrometheusRecorder) AddIssues(n int) {
	pr.issues.Add(float64(n))
}

// Handler serves the registry in Prometheus exposition format.
func (pr *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(pr.registry, promhttp.HandlerOpts{})
}
