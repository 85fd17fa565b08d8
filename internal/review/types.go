// Package review defines the issue and report types for docscore and the
// rubric scorer that folds issues into a report.
package review

// Report is the per-document output object. It is always derived from a
// Scorer's issue lists and never edited in place.
type Report struct {
	FilePath   string     `json:"filepath"`
	Class      Class      `json:"-"`
	Score      int        `json:"score"`
	Status     Status     `json:"status"`
	Threshold  string     `json:"threshold"`
	AutoFail   bool       `json:"auto_fail"`
	Issues     IssueSet   `json:"issues"`
	Thresholds Thresholds `json:"thresholds"`
}

// IssueSet holds issues grouped by severity in detection order.
type IssueSet struct {
	Critical []Issue `json:"critical"`
	Major    []Issue `json:"major"`
	Minor    []Issue `json:"minor"`
	Counts   Counts  `json:"counts"`
}

// Counts records the number of issues per severity.
type Counts struct {
	Critical int `json:"critical"`
	Major    int `json:"major"`
	Minor    int `json:"minor"`
	Total    int `json:"total"`
}

// Issue is one detected defect.
type Issue struct {
	Kind        IssueKind `json:"type"`
	Severity    Severity  `json:"-"`
	Description string    `json:"description"`
	Details     string    `json:"details"`
	Points      int       `json:"points"`
	Line        int       `json:"-"`
	AutoFail    bool      `json:"-"`
}

// BySeverity returns the list for one severity.
func (s IssueSet) BySeverity(sev Severity) []Issue {
	switch sev {
	case SeverityCritical:
		return s.Critical
	case SeverityMajor:
		return s.Major
	case SeverityMinor:
		return s.Minor
	}
	return nil
}

// All returns every issue, most severe first, detection order within a severity.
func (s IssueSet) All() []Issue {
	all := make([]Issue, 0, len(s.Critical)+len(s.Major)+len(s.Minor))
	all = append(all, s.Critical...)
	all = append(all, s.Major...)
	all = append(all, s.Minor...)
	return all
}

// Rule is a rubric entry: what an issue kind costs.
type Rule struct {
	Points   int  `json:"points" yaml:"points"`
	AutoFail bool `json:"auto_fail,omitempty" yaml:"auto_fail"`
}

// Rubric resolves an issue kind to its severity and rule.
type Rubric interface {
	Class() Class
	Lookup(kind IssueKind) (Severity, Rule, bool)
}

// Finding is what a check reports before the rubric prices it.
// Count multiplies the rule's points; zero means one occurrence.
type Finding struct {
	Kind        IssueKind
	Description string
	Details     string
	Line        int
	Count       int
}
