package review

// Class selects the rubric and the check flow for a document.
type Class string

const (
	ClassQuarto Class = "quarto"
	ClassBeamer Class = "beamer"
	ClassR      Class = "r"
	ClassPython Class = "python"
)

func (c Class) Valid() bool {
	switch c {
	case ClassQuarto, ClassBeamer, ClassR, ClassPython:
		return true
	}
	return false
}

// Classes lists every supported document class in a stable order.
func Classes() []Class {
	return []Class{ClassQuarto, ClassBeamer, ClassR, ClassPython}
}

// Severity indicates how much an issue matters for the quality gates.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityMajor, SeverityMinor:
		return true
	}
	return false
}

// Severities lists severities from most to least severe.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityMajor, SeverityMinor}
}

// IssueKind names a rubric entry.
type IssueKind string

const (
	KindCompilationFailure   IssueKind = "compilation_failure"
	KindEquationOverflow     IssueKind = "equation_overflow"
	KindBrokenCitation       IssueKind = "broken_citation"
	KindTypoInEquation       IssueKind = "typo_in_equation"
	KindMissingPlotlyChart   IssueKind = "missing_plotly_chart"
	KindTextOverflow         IssueKind = "text_overflow"
	KindTikzLabelOverlap     IssueKind = "tikz_label_overlap"
	KindNotationInconsistent IssueKind = "notation_inconsistency"
	KindMissingBoxSeparation IssueKind = "missing_box_separation"
	KindColorContrastLow     IssueKind = "color_contrast_low"
	KindFontSizeReduction    IssueKind = "font_size_reduction"
	KindMissingForwardRef    IssueKind = "missing_forward_ref"
	KindMissingFraming       IssueKind = "missing_framing_sentence"

	KindSyntaxError        IssueKind = "syntax_error"
	KindHardcodedPath      IssueKind = "hardcoded_path"
	KindMissingLibrary     IssueKind = "missing_library"
	KindMissingImport      IssueKind = "missing_import"
	KindMissingSetSeed     IssueKind = "missing_set_seed"
	KindMissingSeed        IssueKind = "missing_seed"
	KindMissingFigure      IssueKind = "missing_figure"
	KindMissingRDS         IssueKind = "missing_rds"
	KindMissingPersistence IssueKind = "missing_persistence"
	KindStyleViolation     IssueKind = "style_violation"
	KindMissingRoxygen     IssueKind = "missing_roxygen"
	KindMissingDocstring   IssueKind = "missing_docstring"

	KindUndefinedCitation IssueKind = "undefined_citation"
	KindOverfullHbox      IssueKind = "overfull_hbox"
)

func (k IssueKind) Valid() bool {
	switch k {
	case KindCompilationFailure, KindEquationOverflow, KindBrokenCitation,
		KindTypoInEquation, KindMissingPlotlyChart, KindTextOverflow,
		KindTikzLabelOverlap, KindNotationInconsistent, KindMissingBoxSeparation,
		KindColorContrastLow, KindFontSizeReduction, KindMissingForwardRef,
		KindMissingFraming,
		KindSyntaxError, KindHardcodedPath, KindMissingLibrary, KindMissingImport,
		KindMissingSetSeed, KindMissingSeed, KindMissingFigure, KindMissingRDS,
		KindMissingPersistence, KindStyleViolation, KindMissingRoxygen,
		KindMissingDocstring,
		KindUndefinedCitation, KindOverfullHbox:
		return true
	}
	return false
}

// Status classifies a report against the thresholds.
type Status string

const (
	StatusExcellence  Status = "EXCELLENCE"
	StatusPRReady     Status = "PR_READY"
	StatusCommitReady Status = "COMMIT_READY"
	StatusBlocked     Status = "BLOCKED"
	StatusFail        Status = "FAIL"
)

func (s Status) Valid() bool {
	switch s {
	case StatusExcellence, StatusPRReady, StatusCommitReady, StatusBlocked, StatusFail:
		return true
	}
	return false
}

// Passing reports whether the status clears the commit gate.
func (s Status) Passing() bool {
	switch s {
	case StatusExcellence, StatusPRReady, StatusCommitReady:
		return true
	}
	return false
}
