package render

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/docscore/internal/batch"
	"github.com/dshills/docscore/internal/review"
)

var (
	colorPass  = lipgloss.Color("#2CD7C7")
	colorWarn  = lipgloss.Color("#F4D03F")
	colorFail  = lipgloss.Color("#E74C3C")
	colorMuted = lipgloss.Color("#2C4A54")
)

// TextOptions controls the human-readable report.
type TextOptions struct {
	// Summary prints only the score, status and issue counts.
	Summary bool
	// Verbose adds minor issues.
	Verbose bool
	// Renderer decides the color profile. When nil, one is bound to the
	// writer passed to Text, so buffered output is never colored.
	Renderer *lipgloss.Renderer
}

type styles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	bold    lipgloss.Style
	muted   lipgloss.Style
	badge   map[review.Status]lipgloss.Style
}

// newStyles binds styles to r, or to a renderer for w when r is nil.
func newStyles(w io.Writer, r *lipgloss.Renderer) styles {
	if r == nil {
		r = lipgloss.NewRenderer(w)
	}
	return styles{
		title:   r.NewStyle().Bold(true),
		heading: r.NewStyle().Bold(true).Foreground(colorPass),
		bold:    r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(colorMuted),
		badge: map[review.Status]lipgloss.Style{
			review.StatusExcellence:  r.NewStyle().Bold(true).Foreground(colorPass),
			review.StatusPRReady:     r.NewStyle().Foreground(colorPass),
			review.StatusCommitReady: r.NewStyle().Foreground(colorPass),
			review.StatusBlocked:     r.NewStyle().Bold(true).Foreground(colorWarn),
			review.StatusFail:        r.NewStyle().Bold(true).Foreground(colorFail),
		},
	}
}

var badges = map[review.Status]string{
	review.StatusExcellence:  "[EXCELLENCE]",
	review.StatusPRReady:     "[PASS]",
	review.StatusCommitReady: "[PASS]",
	review.StatusBlocked:     "[BLOCKED]",
	review.StatusFail:        "[FAIL]",
}

// Text writes one report in the human-readable layout.
func Text(w io.Writer, rep review.Report, opts TextOptions) error {
	var b strings.Builder
	s := newStyles(w, opts.Renderer)
	t := rep.Thresholds
	counts := rep.Issues.Counts

	fmt.Fprintf(&b, "\n%s\n\n", s.title.Render("# Quality Score: "+filepath.Base(rep.FilePath)))
	fmt.Fprintf(&b, "## Overall Score: %d/100 %s\n\n", rep.Score, s.badge[rep.Status].Render(badges[rep.Status]))

	switch rep.Status {
	case review.StatusBlocked:
		fmt.Fprintf(&b, "%s BLOCKED - Cannot commit (score < %d)\n", s.bold.Render("Status:"), t.Commit)
	case review.StatusCommitReady:
		fmt.Fprintf(&b, "%s Ready for commit (score >= %d)\n", s.bold.Render("Status:"), t.Commit)
	case review.StatusPRReady:
		fmt.Fprintf(&b, "%s Ready for PR (score >= %d)\n", s.bold.Render("Status:"), t.PR)
	case review.StatusExcellence:
		fmt.Fprintf(&b, "%s Excellence achieved! (score >= %d)\n", s.bold.Render("Status:"), t.Excellence)
	case review.StatusFail:
		fmt.Fprintf(&b, "%s Auto-fail (compilation/syntax error)\n", s.bold.Render("Status:"))
	}
	if m, ok := nextMilestone(rep); ok {
		fmt.Fprintf(&b, "%s %s\n", s.bold.Render("Next milestone:"), m.name)
		fmt.Fprintf(&b, "%s Need +%d points to reach %s\n", s.bold.Render("Gap analysis:"), m.Gap, m.goal)
	}

	if opts.Summary {
		fmt.Fprintf(&b, "\n%s %d (%d critical, %d major, %d minor)\n",
			s.bold.Render("Total issues:"), counts.Total, counts.Critical, counts.Major, counts.Minor)
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "\n%s\n", s.heading.Render(fmt.Sprintf("## Critical Issues (MUST FIX): %d", counts.Critical)))
	if counts.Critical == 0 {
		b.WriteString("No critical issues - safe to commit\n")
	}
	writeIssues(&b, s, rep.Issues.Critical, true)

	if counts.Major > 0 {
		fmt.Fprintf(&b, "\n%s\n", s.heading.Render(fmt.Sprintf("## Major Issues (SHOULD FIX): %d", counts.Major)))
		writeIssues(&b, s, rep.Issues.Major, true)
	}
	if counts.Minor > 0 && opts.Verbose {
		fmt.Fprintf(&b, "\n%s\n", s.heading.Render(fmt.Sprintf("## Minor Issues (NICE-TO-HAVE): %d", counts.Minor)))
		writeIssues(&b, s, rep.Issues.Minor, false)
	}

	writeRecommendations(&b, s, rep)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeIssues(b *strings.Builder, s styles, issues []review.Issue, details bool) {
	for i, iss := range issues {
		fmt.Fprintf(b, "%d. %s (-%d points)\n", i+1, s.bold.Render(iss.Description), iss.Points)
		if details && iss.Details != "" {
			fmt.Fprintf(b, "   %s\n", s.muted.Render("- "+iss.Details))
		}
	}
}

func writeRecommendations(b *strings.Builder, s styles, rep review.Report) {
	t := rep.Thresholds
	switch rep.Status {
	case review.StatusBlocked:
		fmt.Fprintf(b, "\n%s\n", s.heading.Render("## Recommended Actions"))
		b.WriteString("1. Fix all critical issues above\n")
		fmt.Fprintf(b, "2. Re-run quality score (target: >=%d)\n", t.Commit)
		b.WriteString("3. Commit after reaching threshold\n")
	case review.StatusCommitReady:
		fmt.Fprintf(b, "\n%s\n", s.heading.Render("## Recommended Actions to Reach PR Threshold"))
		fmt.Fprintf(b, "Need +%d points to reach %d/100\n", t.PR-rep.Score, t.PR)
		if rep.Issues.Counts.Major > 0 {
			b.WriteString("Fix major issues listed above to improve score\n")
		}
	}
}

type milestone struct {
	review.Milestone
	name string
	goal string
}

// nextMilestone describes the next threshold for the text report.
func nextMilestone(rep review.Report) (milestone, bool) {
	m, ok := review.NextMilestone(rep)
	if !ok {
		return milestone{}, false
	}
	switch m.Label {
	case review.LabelCommit:
		return milestone{m, fmt.Sprintf("Commit threshold (%d+)", m.Target), "commit quality"}, true
	case review.LabelPR:
		return milestone{m, fmt.Sprintf("PR threshold (%d+)", m.Target), "PR quality"}, true
	}
	return milestone{m, fmt.Sprintf("Excellence (%d)", m.Target), "excellence"}, true
}

// Results writes every scored report as text and one line per document that
// was skipped, missing or faulted.
func Results(w io.Writer, results []batch.Result, opts TextOptions) error {
	for _, r := range results {
		var err error
		switch r.Outcome {
		case batch.OutcomeScored:
			err = Text(w, r.Report, opts)
		case batch.OutcomeMissing:
			_, err = fmt.Fprintf(w, "Error: File not found: %s\n", r.Path)
		case batch.OutcomeSkipped:
			_, err = fmt.Fprintf(w, "Skipped: %v\n", r.Err)
		default:
			_, err = fmt.Fprintf(w, "Error scoring %s: %v\n", r.Path, r.Err)
		}
		if err != nil {
			return fmt.Errorf("render.Results: %w", err)
		}
	}
	return nil
}
