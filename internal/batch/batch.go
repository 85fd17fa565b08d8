// Package batch scores many documents in parallel. Documents share nothing,
// so the only coordination is a concurrency limit and an index-addressed
// result slice that keeps output in input order.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/docscore/internal/review"
	"github.com/dshills/docscore/internal/rubric"
)

// Outcome classifies what happened to one input path.
type Outcome string

const (
	OutcomeScored  Outcome = "scored"
	OutcomeSkipped Outcome = "skipped"
	OutcomeMissing Outcome = "missing"
	OutcomeFault   Outcome = "fault"
)

// Result is the per-document outcome. Report is set only when Outcome is
// OutcomeScored; Err is set otherwise.
type Result struct {
	Path    string
	Outcome Outcome
	Report  review.Report
	Err     error
}

// ScoreFunc scores one document.
type ScoreFunc func(ctx context.Context, path string) (review.Report, error)

// Options tunes Run.
type Options struct {
	// Jobs caps concurrent documents; zero or less means runtime.NumCPU.
	Jobs     int
	Progress Progress
}

// PanicError wraps a panic recovered while scoring one document.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Run scores every path with fn and returns one Result per path in input
// order. A failing or panicking document never affects the others.
func Run(ctx context.Context, paths []string, opts Options, fn ScoreFunc) []Result {
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return results
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	progress := opts.Progress
	if progress == nil {
		progress = NoOpProgress{}
	}
	defer progress.Complete()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = scoreOne(gctx, path, fn)
			progress.Increment(path)
			// Failures are recorded per document; returning nil keeps the
			// group from cancelling siblings.
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func scoreOne(ctx context.Context, path string, fn ScoreFunc) (res Result) {
	res.Path = path
	defer func() {
		if v := recover(); v != nil {
			res = Result{Path: path, Outcome: OutcomeFault, Err: &PanicError{Value: v, Stack: debug.Stack()}}
		}
	}()

	if err := ctx.Err(); err != nil {
		return Result{Path: path, Outcome: OutcomeFault, Err: err}
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{Path: path, Outcome: OutcomeMissing, Err: fmt.Errorf("file not found: %s", path)}
		}
		return Result{Path: path, Outcome: OutcomeFault, Err: err}
	}

	rep, err := fn(ctx, path)
	var unsupported *rubric.UnsupportedError
	switch {
	case err == nil:
		return Result{Path: path, Outcome: OutcomeScored, Report: rep}
	case errors.As(err, &unsupported):
		return Result{Path: path, Outcome: OutcomeSkipped, Err: err}
	case errors.Is(err, fs.ErrNotExist):
		return Result{Path: path, Outcome: OutcomeMissing, Err: err}
	}
	return Result{Path: path, Outcome: OutcomeFault, Err: err}
}

// Reports returns the reports of the scored results in order.
func Reports(results []Result) []review.Report {
	var out []review.Report
	for _, r := range results {
		if r.Outcome == OutcomeScored {
			out = append(out, r.Report)
		}
	}
	return out
}
