package review

const (
	LabelExcellence = "excellence"
	LabelPR         = "pr"
	LabelCommit     = "commit"
	LabelBelow      = "None (below commit)"
	LabelAutoFail   = "None (auto-fail)"
)

// Classify maps a score to a status and threshold label using the highest
// threshold met. Auto-fail overrides the score.
func Classify(score int, autoFail bool, t Thresholds) (Status, string) {
	switch {
	case autoFail:
		return StatusFail, LabelAutoFail
	case score >= t.Excellence:
		return StatusExcellence, LabelExcellence
	case score >= t.PR:
		return StatusPRReady, LabelPR
	case score >= t.Commit:
		return StatusCommitReady, LabelCommit
	default:
		return StatusBlocked, LabelBelow
	}
}

// Milestone is the next threshold a report can reach and how far away it is.
type Milestone struct {
	Label  string
	Target int
	Gap    int
}

// NextMilestone returns the next threshold above the report's current one.
// ok is false for auto-failed reports and for reports already at excellence.
func NextMilestone(r Report) (Milestone, bool) {
	t := r.Thresholds
	switch r.Status {
	case StatusBlocked:
		return Milestone{Label: LabelCommit, Target: t.Commit, Gap: t.Commit - r.Score}, true
	case StatusCommitReady:
		return Milestone{Label: LabelPR, Target: t.PR, Gap: t.PR - r.Score}, true
	case StatusPRReady:
		return Milestone{Label: LabelExcellence, Target: t.Excellence, Gap: t.Excellence - r.Score}, true
	}
	return Milestone{}, false
}
