package scan

import (
	"fmt"
	"regexp"
)

var envToken = regexp.MustCompile(`\\(begin|end)\{(\w+\*?)\}`)

// DiagnosticKind classifies an environment balance problem.
type DiagnosticKind string

const (
	DiagOrphanClose DiagnosticKind = "orphan_close"
	DiagMismatch    DiagnosticKind = "mismatch"
	DiagUnclosed    DiagnosticKind = "unclosed"
)

// Diagnostic describes one environment balance problem.
type Diagnostic struct {
	Kind DiagnosticKind
	// Line is where the problem was seen: the \end line, or the \begin line
	// of an environment that was never closed.
	Line int
	Name string
	// Expected and OpenedAt identify the innermost open environment for
	// mismatches.
	Expected string
	OpenedAt int
}

// Message renders the diagnostic for reports.
func (d Diagnostic) Message() string {
	switch d.Kind {
	case DiagOrphanClose:
		return fmt.Sprintf(`\end{%s} without matching \begin`, d.Name)
	case DiagMismatch:
		return fmt.Sprintf(`Mismatched environment: \end{%s} but expected \end{%s} (opened at line %d)`,
			d.Name, d.Expected, d.OpenedAt)
	case DiagUnclosed:
		return fmt.Sprintf(`Unclosed environment: \begin{%s} never closed`, d.Name)
	}
	return string(d.Kind)
}

type envEntry struct {
	name string
	line int
}

// Balance checks that \begin{...} and \end{...} pair up, ignoring comments.
//
// Tokens are processed in the order they appear. A matching \end pops the
// stack. A mismatched \end is reported against the innermost open environment
// and leaves the stack untouched, so later closes are still compared against
// the same expectation. An \end with nothing open is an orphan. Environments
// still open at the end are reported outermost first.
func Balance(text string) []Diagnostic {
	var (
		diags []Diagnostic
		stack []envEntry
	)

	for i, line := range splitLines(text) {
		n := i + 1
		for _, m := range envToken.FindAllStringSubmatch(StripComment(line), -1) {
			keyword, name := m[1], m[2]
			if keyword == "begin" {
				stack = append(stack, envEntry{name: name, line: n})
				continue
			}
			if len(stack) == 0 {
				diags = append(diags, Diagnostic{Kind: DiagOrphanClose, Line: n, Name: name})
				continue
			}
			top := stack[len(stack)-1]
			if top.name == name {
				stack = stack[:len(stack)-1]
				continue
			}
			diags = append(diags, Diagnostic{
				Kind:     DiagMismatch,
				Line:     n,
				Name:     name,
				Expected: top.name,
				OpenedAt: top.line,
			})
		}
	}

	for _, e := range stack {
		diags = append(diags, Diagnostic{Kind: DiagUnclosed, Line: e.line, Name: e.name})
	}
	return diags
}
