package render

import (
	"fmt"
	"io"

	"github.com/dshills/docscore/internal/batch"
	"github.com/dshills/docscore/internal/review"
	"github.com/dshills/docscore/internal/rubric"
	"github.com/dshills/docscore/internal/sarif"
)

const toolName = "docscore"

var sarifLevels = map[review.Severity]string{
	review.SeverityCritical: sarif.LevelError,
	review.SeverityMajor:    sarif.LevelWarning,
	review.SeverityMinor:    sarif.LevelNote,
}

// ruleID namespaces a kind by class since points differ per rubric.
func ruleID(class review.Class, kind review.IssueKind) string {
	return string(class) + "/" + string(kind)
}

// SARIF writes one run with a result per issue. Documents that could not be
// scored become tool execution notifications.
func SARIF(w io.Writer, results []batch.Result, version string) error {
	run := sarif.Run{
		Tool:    sarif.Tool{Driver: sarif.Driver{Name: toolName, Version: version}},
		Results: []sarif.Result{},
	}
	inv := sarif.Invocation{ExecutionSuccessful: true}
	rules := map[string]bool{}

	for _, res := range results {
		switch res.Outcome {
		case batch.OutcomeScored:
		case batch.OutcomeSkipped:
			continue
		default:
			inv.ExecutionSuccessful = false
			inv.ToolExecutionNotifs = append(inv.ToolExecutionNotifs, sarif.Notification{
				Level:     sarif.LevelError,
				Message:   sarif.Message{Text: res.Err.Error()},
				Locations: []sarif.Location{sarif.FileLocation(res.Path, 0)},
			})
			continue
		}

		rep := res.Report
		for _, iss := range rep.Issues.All() {
			id := ruleID(rep.Class, iss.Kind)
			if !rules[id] {
				rules[id] = true
				run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, descriptor(rep.Class, iss))
			}
			text := iss.Description
			if iss.Details != "" {
				text += ": " + iss.Details
			}
			run.Results = append(run.Results, sarif.Result{
				RuleID:    id,
				Level:     sarifLevels[iss.Severity],
				Message:   sarif.Message{Text: text},
				Locations: []sarif.Location{sarif.FileLocation(rep.FilePath, iss.Line)},
				Properties: map[string]any{
					"points":    iss.Points,
					"auto_fail": iss.AutoFail,
					"score":     rep.Score,
					"status":    string(rep.Status),
				},
			})
		}
	}
	run.Invocations = []sarif.Invocation{inv}

	log := sarif.NewLog()
	log.Runs = append(log.Runs, run)
	if err := sarif.NewEncoder(w).Encode(log); err != nil {
		return fmt.Errorf("render.SARIF: %w", err)
	}
	return nil
}

func descriptor(class review.Class, iss review.Issue) sarif.ReportingDescriptor {
	d := sarif.ReportingDescriptor{
		ID:                   ruleID(class, iss.Kind),
		DefaultConfiguration: &sarif.Configuration{Level: sarifLevels[iss.Severity]},
	}
	if rb, err := rubric.LoadBuiltin(class); err == nil {
		if _, rule, ok := rb.Lookup(iss.Kind); ok {
			d.Properties = map[string]any{"points": rule.Points, "auto_fail": rule.AutoFail}
		}
	}
	return d
}
