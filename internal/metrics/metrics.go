// Package metrics exposes per-run scoring counters in the Prometheus text
// format, for node_exporter's textfile collector or a CI artifact.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/docscore/internal/batch"
	"github.com/dshills/docscore/internal/review"
)

// Recorder owns a private registry so repeated runs in one process never
// collide with the global default registry.
type Recorder struct {
	registry  *prometheus.Registry
	documents *prometheus.CounterVec
	issues    *prometheus.CounterVec
	points    *prometheus.CounterVec
	score     *prometheus.HistogramVec
	outcomes  *prometheus.CounterVec
}

// New returns a Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docscore_documents_total",
			Help: "Scored documents by class and status.",
		}, []string{"class", "status"}),
		issues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docscore_issues_total",
			Help: "Detected issues by class and severity.",
		}, []string{"class", "severity"}),
		points: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docscore_deducted_points_total",
			Help: "Points deducted by class and issue kind.",
		}, []string{"class", "kind"}),
		score: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "docscore_score",
			Help:    "Distribution of document scores.",
			Buckets: []float64{0, 20, 40, 60, 80, 90, 95, 100},
		}, []string{"class"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docscore_inputs_total",
			Help: "Input paths by outcome.",
		}, []string{"outcome"}),
	}
	r.registry.MustRegister(r.documents, r.issues, r.points, r.score, r.outcomes)
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Observe records every result of a batch run.
func (r *Recorder) Observe(results []batch.Result) {
	for _, res := range results {
		r.outcomes.WithLabelValues(string(res.Outcome)).Inc()
		if res.Outcome != batch.OutcomeScored {
			continue
		}
		r.ObserveReport(res.Report)
	}
}

// ObserveReport records one scored document.
func (r *Recorder) ObserveReport(rep review.Report) {
	class := string(rep.Class)
	r.documents.WithLabelValues(class, string(rep.Status)).Inc()
	r.score.WithLabelValues(class).Observe(float64(rep.Score))
	for _, sev := range review.Severities() {
		n := len(rep.Issues.BySeverity(sev))
		if n > 0 {
			r.issues.WithLabelValues(class, string(sev)).Add(float64(n))
		}
	}
	for _, iss := range rep.Issues.All() {
		r.points.WithLabelValues(class, string(iss.Kind)).Add(float64(iss.Points))
	}
}

// WriteTextfile atomically writes the current metrics to path.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
