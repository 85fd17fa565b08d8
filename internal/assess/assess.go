// Package assess runs the per-class check flows for a document and folds
// their findings into a report.
//
// Each flow runs its checks in a fixed order. A check whose rule is auto-fail
// ends the flow: once a document cannot compile or parse, the remaining
// heuristics have nothing reliable to look at.
package assess

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dshills/docscore/internal/cite"
	"github.com/dshills/docscore/internal/document"
	"github.com/dshills/docscore/internal/probe"
	"github.com/dshills/docscore/internal/redact"
	"github.com/dshills/docscore/internal/review"
	"github.com/dshills/docscore/internal/rubric"
	"github.com/dshills/docscore/internal/schema"
)

// DefaultBibliography is the bibliography file looked up next to slide decks.
const DefaultBibliography = "Bibliography_base.bib"

// Env carries the collaborators a flow needs. The zero value scores without
// probing and with the default bibliography name.
type Env struct {
	// Probers maps a class to its validity probe. A class without an entry is
	// not probed.
	Probers      probe.Set
	Redactor     redact.Redactor
	Bibliography string
	Logger       *slog.Logger
}

func (e Env) bibliography() string {
	if e.Bibliography == "" {
		return DefaultBibliography
	}
	return e.Bibliography
}

func (e Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// run is the state of one document's flow.
type run struct {
	ctx    context.Context
	doc    *document.Document
	rubric *rubric.Rubric
	scorer *review.Scorer
	env    Env
	log    *slog.Logger
}

type flow func(r *run) error

var flows = map[review.Class]flow{
	review.ClassQuarto: quartoFlow,
	review.ClassBeamer: beamerFlow,
	review.ClassR:      rFlow,
	review.ClassPython: pythonFlow,
}

// Assess scores doc with the rubric's flow and validates the report against
// the document's line count. The returned error reports an internal problem,
// not a document defect: defects are issues in the report.
func Assess(ctx context.Context, doc *document.Document, rb *rubric.Rubric, env Env) (review.Report, error) {
	f, ok := flows[rb.Class()]
	if !ok {
		return review.Report{}, fmt.Errorf("assess.Assess: no flow for class %q", rb.Class())
	}
	r := &run{
		ctx:    ctx,
		doc:    doc,
		rubric: rb,
		scorer: review.NewScorer(doc.FilePath, rb),
		env:    env,
		log:    env.logger().With("file", doc.FilePath, "class", string(rb.Class())),
	}
	if err := f(r); err != nil {
		return review.Report{}, fmt.Errorf("assess.Assess: %s: %w", doc.FilePath, err)
	}
	rep := r.scorer.Report()
	if errs := schema.Validate(rep, len(doc.Lines)); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return review.Report{}, fmt.Errorf("assess.Assess: %s: invalid report: %s", doc.FilePath, strings.Join(msgs, "; "))
	}
	r.log.Debug("scored", "hash", doc.Hash, "score", rep.Score, "status", string(rep.Status), "issues", rep.Issues.Counts.Total)
	return rep, nil
}

// File loads path, picks its rubric by extension and scores it.
func File(ctx context.Context, path string, env Env) (review.Report, error) {
	rb, err := rubric.ForPath(path)
	if err != nil {
		return review.Report{}, err
	}
	doc, err := document.Load(path)
	if err != nil {
		return review.Report{}, err
	}
	return Assess(ctx, doc, rb, env)
}

func (r *run) add(f review.Finding) error {
	_, err := r.scorer.Add(f)
	return err
}

// lines adds one finding per flagged line.
func (r *run) lines(kind review.IssueKind, lines []int, describe, details string) error {
	for _, n := range lines {
		if err := r.add(review.Finding{
			Kind:        kind,
			Description: fmt.Sprintf("%s at line %d", describe, n),
			Details:     details,
			Line:        n,
		}); err != nil {
			return err
		}
	}
	return nil
}

// probe runs the class prober and records a failure as an auto-fail issue.
// It reports whether the flow may continue.
func (r *run) probe(kind review.IssueKind, what string) (bool, error) {
	p, ok := r.env.Probers[r.rubric.Class()]
	if !ok || p == nil {
		return true, nil
	}
	res := p.Probe(r.ctx, r.doc.FilePath)
	if res.OK {
		return true, nil
	}
	if res.Failure == probe.FailureCanceled {
		// An interrupted probe is a fault of the run, not of the document.
		err := r.ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		return false, fmt.Errorf("%s interrupted: %w", what, err)
	}
	r.log.Info("probe failed", "prober", p.Name(), "failure", string(res.Failure))

	desc := what + " failed"
	switch res.Failure {
	case probe.FailureTimeout:
		desc = what + " timed out"
	case probe.FailureToolMissing:
		desc = what + " could not run"
	}
	err := r.add(review.Finding{
		Kind:        kind,
		Description: desc,
		Details:     r.env.Redactor.Redact(res.Diagnostic),
	})
	return !r.scorer.AutoFailed(), err
}

// knownKeys loads the bibliography next to the document. A nil result means
// no bibliography was found.
func (r *run) knownKeys() (cite.Keys, error) {
	path, ok := document.FindCompanion(r.doc.FilePath, r.rubric.BibliographyDirs, r.env.bibliography())
	if !ok {
		r.log.Debug("bibliography not found", "path", path)
		return nil, nil
	}
	bib, err := document.LoadOptional(path)
	if err != nil || bib == nil {
		return nil, err
	}
	return cite.BibKeys(bib.Raw), nil
}

func (r *run) citations(kind review.IssueKind, syntax cite.Syntax) error {
	known, err := r.knownKeys()
	if err != nil {
		return err
	}
	for _, key := range cite.Resolve(r.doc.Raw, known, syntax) {
		if err := r.add(review.Finding{
			Kind:        kind,
			Description: "Citation key not in bibliography: " + key,
			Details:     fmt.Sprintf("Add to %s or fix key", r.env.bibliography()),
		}); err != nil {
			return err
		}
	}
	return nil
}

// renderedPath is where the rendered HTML for the document is expected.
func (r *run) renderedPath() string {
	base := filepath.Base(r.doc.FilePath)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".html"
	return filepath.Join(filepath.Dir(r.doc.FilePath), r.rubric.RenderedDir, name)
}
