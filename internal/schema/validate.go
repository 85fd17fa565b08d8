// Package schema checks that a report is internally consistent before it is
// emitted.
package schema

import (
	"fmt"

	"github.com/dshills/docscore/internal/review"
)

// ValidationError describes a single schema violation.
type ValidationError struct {
	Path    string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Report for structural validity.
// lineCount is the number of lines in the scored document (0 to skip line range checks).
func Validate(r review.Report, lineCount int) []ValidationError {
	var errs []ValidationError

	if r.FilePath == "" {
		errs = append(errs, ValidationError{"filepath", "required"})
	}
	if !r.Class.Valid() {
		errs = append(errs, ValidationError{"class", fmt.Sprintf("invalid class: %q", r.Class)})
	}
	if r.Score < 0 || r.Score > review.MaxScore {
		errs = append(errs, ValidationError{"score", fmt.Sprintf("%d out of range [0,%d]", r.Score, review.MaxScore)})
	}

	t := r.Thresholds
	if !(0 < t.Commit && t.Commit <= t.PR && t.PR <= t.Excellence && t.Excellence <= review.MaxScore) {
		errs = append(errs, ValidationError{"thresholds", fmt.Sprintf("not ordered: %+v", t)})
	}

	// Verify score consistency
	all := r.Issues.All()
	if expected := review.ComputeScore(all); r.Score != expected {
		errs = append(errs, ValidationError{"score", fmt.Sprintf("score %d does not match computed %d", r.Score, expected)})
	}

	autoFail := false
	for _, iss := range all {
		autoFail = autoFail || iss.AutoFail
	}
	if r.AutoFail != autoFail {
		errs = append(errs, ValidationError{"auto_fail", fmt.Sprintf("flag %v but issues say %v", r.AutoFail, autoFail)})
	}

	status, label := review.Classify(r.Score, r.AutoFail, t)
	if r.Status != status {
		errs = append(errs, ValidationError{"status", fmt.Sprintf("expected %s, got %q", status, r.Status)})
	}
	if r.Threshold != label {
		errs = append(errs, ValidationError{"threshold", fmt.Sprintf("expected %q, got %q", label, r.Threshold)})
	}

	// Verify severity counts
	c := r.Issues.Counts
	for _, check := range []struct {
		path      string
		got, want int
	}{
		{"issues.counts.critical", c.Critical, len(r.Issues.Critical)},
		{"issues.counts.major", c.Major, len(r.Issues.Major)},
		{"issues.counts.minor", c.Minor, len(r.Issues.Minor)},
		{"issues.counts.total", c.Total, len(all)},
	} {
		if check.got != check.want {
			errs = append(errs, ValidationError{check.path, fmt.Sprintf("expected %d, got %d", check.want, check.got)})
		}
	}

	// Validate issues
	for _, sev := range review.Severities() {
		for i, iss := range r.Issues.BySeverity(sev) {
			errs = append(errs, validateIssue(fmt.Sprintf("issues.%s[%d]", sev, i), sev, iss, lineCount)...)
		}
	}
	return errs
}

func validateIssue(prefix string, list review.Severity, iss review.Issue, lineCount int) []ValidationError {
	var errs []ValidationError
	if !iss.Kind.Valid() {
		errs = append(errs, ValidationError{prefix + ".type", fmt.Sprintf("invalid: %q", iss.Kind)})
	}
	if iss.Severity != list {
		errs = append(errs, ValidationError{prefix + ".severity", fmt.Sprintf("%q issue filed under %s", iss.Severity, list)})
	}
	if iss.Description == "" {
		errs = append(errs, ValidationError{prefix + ".description", "required"})
	}
	if iss.Points < 0 {
		errs = append(errs, ValidationError{prefix + ".points", "must be >= 0"})
	}
	if len([]rune(iss.Details)) > review.MaxDetailsLen {
		errs = append(errs, ValidationError{prefix + ".details", fmt.Sprintf("longer than %d characters", review.MaxDetailsLen)})
	}
	if iss.Line < 0 {
		errs = append(errs, ValidationError{prefix + ".line", "must be >= 0"})
	}
	if lineCount > 0 && iss.Line > lineCount {
		errs = append(errs, ValidationError{prefix + ".line", fmt.Sprintf("exceeds document line count (%d)", lineCount)})
	}
	return errs
}
