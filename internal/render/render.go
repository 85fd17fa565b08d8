// Package render writes reports as human-readable text, JSON or SARIF and
// derives the process exit code for a run.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/docscore/internal/batch"
	"github.com/dshills/docscore/internal/review"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitBlocked  = 1
	ExitAutoFail = 2
)

// ExitCode returns the worst code over all results: 2 when any document
// auto-failed, 1 when any scored below the commit threshold or could not be
// read or scored, 0 otherwise. Skipped files do not affect the code.
func ExitCode(results []batch.Result) int {
	code := ExitOK
	for _, r := range results {
		code = max(code, resultCode(r))
	}
	return code
}

func resultCode(r batch.Result) int {
	switch r.Outcome {
	case batch.OutcomeScored:
		if r.Report.AutoFail {
			return ExitAutoFail
		}
		if !r.Report.Status.Passing() {
			return ExitBlocked
		}
		return ExitOK
	case batch.OutcomeSkipped:
		return ExitOK
	}
	return ExitBlocked
}

// JSON writes the reports as an indented JSON array.
func JSON(w io.Writer, reports []review.Report) error {
	if reports == nil {
		reports = []review.Report{}
	}
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("render.JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
