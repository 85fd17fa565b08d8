package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/docscore/internal/batch"
	"github.com/dshills/docscore/internal/review"
)

func sampleResults() []batch.Result {
	rep := review.Report{
		FilePath: "analysis.py",
		Class:    review.ClassPython,
		Score:    80,
		Status:   review.StatusCommitReady,
		Issues: review.IssueSet{
			Critical: []review.Issue{{Kind: review.KindMissingImport, Points: 10}},
			Major:    []review.Issue{{Kind: review.KindMissingSeed, Points: 10}},
		},
	}
	return []batch.Result{
		{Path: "analysis.py", Outcome: batch.OutcomeScored, Report: rep},
		{Path: "notes.md", Outcome: batch.OutcomeSkipped, Err: errors.New("unsupported")},
		{Path: "gone.R", Outcome: batch.OutcomeMissing, Err: errors.New("file not found")},
	}
}

func TestObserve(t *testing.T) {
	r := New()
	r.Observe(sampleResults())

	assert.Equal(t, 1.0, testutil.ToFloat64(r.documents.WithLabelValues("python", "COMMIT_READY")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.issues.WithLabelValues("python", "critical")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.issues.WithLabelValues("python", "major")))
	assert.Equal(t, 10.0, testutil.ToFloat64(r.points.WithLabelValues("python", "missing_seed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.outcomes.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.outcomes.WithLabelValues("missing")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.score))
}

func TestRecordersAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Observe(sampleResults())
	assert.Equal(t, 0, testutil.CollectAndCount(b.documents))
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.Observe(sampleResults())
	path := filepath.Join(t.TempDir(), "docscore.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `docscore_documents_total{class="python",status="COMMIT_READY"} 1`), text)
	assert.Contains(t, text, "docscore_score_bucket")
}
