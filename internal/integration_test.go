package internal

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/docscore/internal/assess"
	"github.com/dshills/docscore/internal/probe"
	"github.com/dshills/docscore/internal/review"
	"github.com/dshills/docscore/internal/schema"
)

// skipUnlessIntegration skips the test unless DOCSCORE_INTEGRATION=1 and the
// external tool is on PATH.
func skipUnlessIntegration(t *testing.T, tool string) {
	t.Helper()
	if os.Getenv("DOCSCORE_INTEGRATION") != "1" {
		t.Skip("skipping integration test (set DOCSCORE_INTEGRATION=1 to run)")
	}
	if _, err := exec.LookPath(tool); err != nil {
		t.Skipf("%s not installed", tool)
	}
}

// scoreFixture scores a file under testdata/integration with the real
// probers and validates the report structurally.
func scoreFixture(t *testing.T, rel string) review.Report {
	t.Helper()
	probers, err := probe.ResolveAll(probe.Options{})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)
	defer cancel()

	path := filepath.Join(projectRoot(), "testdata", "integration", rel)
	rep, err := assess.File(ctx, path, assess.Env{Probers: probers})
	if err != nil {
		t.Fatalf("assess %s: %v", rel, err)
	}
	if errs := schema.Validate(rep, 0); len(errs) > 0 {
		for _, e := range errs {
			t.Errorf("validation: %s", e)
		}
		t.FailNow()
	}
	t.Logf("%s: score=%d status=%s issues=%d", rel, rep.Score, rep.Status, rep.Issues.Counts.Total)
	return rep
}

func TestIntegrationRscriptParses(t *testing.T) {
	skipUnlessIntegration(t, "Rscript")
	rep := scoreFixture(t, "ok.R")
	if rep.AutoFail {
		t.Errorf("valid script auto-failed: %+v", rep.Issues.Critical)
	}
	if rep.Score != 100 {
		t.Errorf("score = %d, want 100", rep.Score)
	}
}

func TestIntegrationRscriptSyntaxError(t *testing.T) {
	skipUnlessIntegration(t, "Rscript")
	rep := scoreFixture(t, "broken.R")
	if !rep.AutoFail || rep.Status != review.StatusFail {
		t.Fatalf("expected auto-fail, got %d %s", rep.Score, rep.Status)
	}
	if rep.Issues.Critical[0].Details == "" {
		t.Error("expected the parser diagnostic in details")
	}
}

func TestIntegrationQuartoRender(t *testing.T) {
	skipUnlessIntegration(t, "quarto")
	rep := scoreFixture(t, filepath.Join("Quarto", "smoke.qmd"))
	t.Cleanup(func() {
		dir := filepath.Join(projectRoot(), "testdata", "integration", "Quarto")
		os.Remove(filepath.Join(dir, "smoke.html"))
		os.RemoveAll(filepath.Join(dir, "smoke_files"))
	})
	if rep.AutoFail {
		t.Errorf("smoke deck failed to render: %+v", rep.Issues.Critical)
	}
}
