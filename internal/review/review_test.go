package review

import (
	"encoding/json"
	"strings"
	"testing"
)

// tableRubric is a minimal in-memory Rubric for scorer tests.
type tableRubric struct {
	class Class
	rules map[IssueKind]tableEntry
}

type tableEntry struct {
	sev  Severity
	rule Rule
}

func (r tableRubric) Class() Class { return r.class }

func (r tableRubric) Lookup(k IssueKind) (Severity, Rule, bool) {
	e, ok := r.rules[k]
	return e.sev, e.rule, ok
}

func pythonRubric() tableRubric {
	r := tableRubric{class: ClassPython, rules: map[IssueKind]tableEntry{}}
	add := func(k IssueKind, sev Severity, points int, autoFail bool) {
		r.rules[k] = tableEntry{sev, Rule{Points: points, AutoFail: autoFail}}
	}
	add(KindSyntaxError, SeverityCritical, 100, true)
	add(KindHardcodedPath, SeverityCritical, 20, false)
	add(KindMissingImport, SeverityCritical, 10, false)
	add(KindMissingSeed, SeverityMajor, 10, false)
	add(KindMissingDocstring, SeverityMinor, 1, false)
	return r
}

// --- Enum validation tests ---

func TestClassValid(t *testing.T) {
	for _, c := range Classes() {
		if !c.Valid() {
			t.Errorf("expected %q to be valid", c)
		}
	}
	if Class("markdown").Valid() {
		t.Error("expected markdown class to be invalid")
	}
}

func TestSeverityValid(t *testing.T) {
	for _, s := range Severities() {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if Severity("HIGH").Valid() {
		t.Error("expected HIGH severity to be invalid")
	}
}

func TestIssueKindValid(t *testing.T) {
	for _, k := range []IssueKind{KindCompilationFailure, KindOverfullHbox, KindMissingRoxygen, KindMissingPlotlyChart} {
		if !k.Valid() {
			t.Errorf("expected %q to be valid", k)
		}
	}
	if IssueKind("spelling").Valid() {
		t.Error("expected spelling kind to be invalid")
	}
}

func TestStatusPassing(t *testing.T) {
	passing := map[Status]bool{
		StatusExcellence:  true,
		StatusPRReady:     true,
		StatusCommitReady: true,
		StatusBlocked:     false,
		StatusFail:        false,
	}
	for s, want := range passing {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
		if s.Passing() != want {
			t.Errorf("%s.Passing() = %v, want %v", s, s.Passing(), want)
		}
	}
}

// --- Score tests ---

func TestComputeScore(t *testing.T) {
	tests := []struct {
		name   string
		issues []Issue
		want   int
	}{
		{"empty", nil, 100},
		{"one critical", []Issue{{Points: 20}}, 80},
		{"mixed", []Issue{{Points: 20}, {Points: 10}, {Points: 1}}, 69},
		{"clamp at zero", []Issue{{Points: 20}, {Points: 20}, {Points: 20}, {Points: 20}, {Points: 20}, {Points: 15}}, 0},
		{"auto fail", []Issue{{Points: 1}, {Points: 100, AutoFail: true}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeScore(tt.issues); got != tt.want {
				t.Errorf("ComputeScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		score    int
		autoFail bool
		status   Status
		label    string
	}{
		{100, false, StatusExcellence, LabelExcellence},
		{95, false, StatusExcellence, LabelExcellence},
		{94, false, StatusPRReady, LabelPR},
		{90, false, StatusPRReady, LabelPR},
		{89, false, StatusCommitReady, LabelCommit},
		{80, false, StatusCommitReady, LabelCommit},
		{79, false, StatusBlocked, LabelBelow},
		{0, false, StatusBlocked, LabelBelow},
		{100, true, StatusFail, LabelAutoFail},
	}
	for _, tt := range tests {
		status, label := Classify(tt.score, tt.autoFail, DefaultThresholds)
		if status != tt.status || label != tt.label {
			t.Errorf("Classify(%d, %v) = %s/%q, want %s/%q", tt.score, tt.autoFail, status, label, tt.status, tt.label)
		}
	}
}

func TestScorerWildcardAndSeed(t *testing.T) {
	s := NewScorer("analysis.py", pythonRubric())
	if _, err := s.Add(Finding{Kind: KindMissingImport, Description: "Wildcard import at line 10", Line: 10}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add(Finding{Kind: KindMissingSeed, Description: "Missing random seed"}); err != nil {
		t.Fatal(err)
	}

	r := s.Report()
	if r.Score != 80 {
		t.Errorf("score = %d, want 80", r.Score)
	}
	if r.Status != StatusCommitReady {
		t.Errorf("status = %s, want %s", r.Status, StatusCommitReady)
	}
	if r.Issues.Counts.Critical != 1 || r.Issues.Counts.Major != 1 || r.Issues.Counts.Total != 2 {
		t.Errorf("counts = %+v", r.Issues.Counts)
	}
	if r.Issues.Critical[0].Points != 10 || r.Issues.Major[0].Points != 10 {
		t.Errorf("points = %d/%d, want 10/10", r.Issues.Critical[0].Points, r.Issues.Major[0].Points)
	}
}

func TestScorerAutoFail(t *testing.T) {
	s := NewScorer("bad.py", pythonRubric())
	if _, err := s.Add(Finding{Kind: KindSyntaxError, Description: "Python syntax error", Details: "Line 3: invalid syntax"}); err != nil {
		t.Fatal(err)
	}
	if !s.AutoFailed() {
		t.Fatal("expected scorer to be auto-failed")
	}
	r := s.Report()
	if r.Score != 0 || r.Status != StatusFail || !r.AutoFail || r.Threshold != LabelAutoFail {
		t.Errorf("report = score %d status %s auto_fail %v threshold %q", r.Score, r.Status, r.AutoFail, r.Threshold)
	}
}

func TestScorerCountMultipliesPoints(t *testing.T) {
	r := tableRubric{class: ClassQuarto, rules: map[IssueKind]tableEntry{KindMissingPlotlyChart: {SeverityCritical, Rule{Points: 10}}}}
	s := NewScorer("deck.qmd", r)
	iss, err := s.Add(Finding{Kind: KindMissingPlotlyChart, Count: 3})
	if err != nil {
		t.Fatal(err)
	}
	if iss.Points != 30 {
		t.Errorf("points = %d, want 30", iss.Points)
	}
	if got := s.Report().Score; got != 70 {
		t.Errorf("score = %d, want 70", got)
	}
}

func TestScorerUnknownKind(t *testing.T) {
	s := NewScorer("x.py", pythonRubric())
	if _, err := s.Add(Finding{Kind: KindOverfullHbox}); err == nil {
		t.Error("expected error for kind outside the rubric")
	}
	if s.Report().Issues.Counts.Total != 0 {
		t.Error("unknown kind must not be recorded")
	}
}

func TestScorerReportIsIdempotent(t *testing.T) {
	s := NewScorer("x.py", pythonRubric())
	for i := 0; i < 7; i++ {
		if _, err := s.Add(Finding{Kind: KindHardcodedPath, Line: i + 1}); err != nil {
			t.Fatal(err)
		}
	}
	a, _ := json.Marshal(s.Report())
	b, _ := json.Marshal(s.Report())
	if string(a) != string(b) {
		t.Errorf("reports differ:\n%s\n%s", a, b)
	}
	if got := s.Report().Score; got != 0 {
		t.Errorf("score = %d, want clamp to 0", got)
	}
}

func TestReportJSONShape(t *testing.T) {
	s := NewScorer("x.py", pythonRubric())
	r := s.Report()
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`"filepath":"x.py"`, `"score":100`, `"status":"EXCELLENCE"`,
		`"threshold":"excellence"`, `"auto_fail":false`, `"critical":[]`,
		`"counts":{"critical":0,"major":0,"minor":0,"total":0}`,
		`"thresholds":{"commit":80,"pr":90,"excellence":95}`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON missing %s in %s", want, data)
		}
	}
}

// --- Milestone tests ---

func TestNextMilestone(t *testing.T) {
	tests := []struct {
		score  int
		status Status
		ok     bool
		label  string
		gap    int
	}{
		{70, StatusBlocked, true, LabelCommit, 10},
		{84, StatusCommitReady, true, LabelPR, 6},
		{91, StatusPRReady, true, LabelExcellence, 4},
		{97, StatusExcellence, false, "", 0},
		{0, StatusFail, false, "", 0},
	}
	for _, tt := range tests {
		m, ok := NextMilestone(Report{Score: tt.score, Status: tt.status, Thresholds: DefaultThresholds})
		if ok != tt.ok || m.Label != tt.label || m.Gap != tt.gap {
			t.Errorf("NextMilestone(%d, %s) = %+v/%v", tt.score, tt.status, m, ok)
		}
	}
}

// --- Truncate tests ---

func TestTruncateDetails(t *testing.T) {
	short := "Line 4: unexpected EOF"
	if got := TruncateDetails(short); got != short {
		t.Errorf("short details changed: %q", got)
	}
	long := strings.Repeat("é", MaxDetailsLen+50)
	got := TruncateDetails(long)
	if n := len([]rune(got)); n != MaxDetailsLen {
		t.Errorf("truncated to %d runes, want %d", n, MaxDetailsLen)
	}
}
