package review

import "fmt"

// MaxScore is the starting score for every document.
const MaxScore = 100

// Thresholds are the quality gates a score is classified against.
type Thresholds struct {
	Commit     int `json:"commit"`
	PR         int `json:"pr"`
	Excellence int `json:"excellence"`
}

// DefaultThresholds are the fixed gates: 80 commit, 90 PR, 95 excellence.
var DefaultThresholds = Thresholds{Commit: 80, PR: 90, Excellence: 95}

// Scorer accumulates priced issues for one document.
// A Scorer is not safe for concurrent use; create one per document.
type Scorer struct {
	path     string
	rubric   Rubric
	critical []Issue
	major    []Issue
	minor    []Issue
	autoFail bool
}

// NewScorer creates a scorer for the document at path.
func NewScorer(path string, r Rubric) *Scorer {
	return &Scorer{path: path, rubric: r}
}

// Add prices a finding with the rubric and records it.
// Points are the rule's points times the finding's count.
func (s *Scorer) Add(f Finding) (Issue, error) {
	sev, rule, ok := s.rubric.Lookup(f.Kind)
	if !ok {
		return Issue{}, fmt.Errorf("review.Add: kind %q not in %s rubric", f.Kind, s.rubric.Class())
	}
	count := f.Count
	if count < 1 {
		count = 1
	}
	iss := Issue{
		Kind:        f.Kind,
		Severity:    sev,
		Description: f.Description,
		Details:     TruncateDetails(f.Details),
		Points:      rule.Points * count,
		Line:        f.Line,
		AutoFail:    rule.AutoFail,
	}
	switch sev {
	case SeverityCritical:
		s.critical = append(s.critical, iss)
	case SeverityMajor:
		s.major = append(s.major, iss)
	default:
		s.minor = append(s.minor, iss)
	}
	if rule.AutoFail {
		s.autoFail = true
	}
	return iss, nil
}

// AutoFailed reports whether an auto-fail issue has been recorded.
// Check flows stop running checks once this is true.
func (s *Scorer) AutoFailed() bool {
	return s.autoFail
}

// Report derives the report from the recorded issues.
func (s *Scorer) Report() Report {
	issues := IssueSet{
		Critical: cloneIssues(s.critical),
		Major:    cloneIssues(s.major),
		Minor:    cloneIssues(s.minor),
	}
	issues.Counts = Counts{
		Critical: len(issues.Critical),
		Major:    len(issues.Major),
		Minor:    len(issues.Minor),
	}
	issues.Counts.Total = issues.Counts.Critical + issues.Counts.Major + issues.Counts.Minor

	score := ComputeScore(issues.All())
	status, label := Classify(score, s.autoFail, DefaultThresholds)
	return Report{
		FilePath:   s.path,
		Class:      s.rubric.Class(),
		Score:      score,
		Status:     status,
		Threshold:  label,
		AutoFail:   s.autoFail,
		Issues:     issues,
		Thresholds: DefaultThresholds,
	}
}

// ComputeScore starts at 100, subtracts every issue's points and clamps at 0.
// Any auto-fail issue forces 0.
func ComputeScore(issues []Issue) int {
	score := MaxScore
	for _, iss := range issues {
		if iss.AutoFail {
			return 0
		}
		score -= iss.Points
	}
	if score < 0 {
		score = 0
	}
	return score
}

// cloneIssues returns a non-nil copy so reports never alias scorer state
// and always encode lists as [] rather than null.
func cloneIssues(in []Issue) []Issue {
	out := make([]Issue, len(in))
	copy(out, in)
	return out
}
