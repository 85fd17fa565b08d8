// Package heuristic holds stateless single-pass checks over a document's
// text. Each check looks at substrings or one line at a time and never keeps
// state between calls.
package heuristic

import (
	"regexp"
	"strings"
)

// Lang selects the randomness and seeding markers for NeedsSeed.
type Lang string

const (
	LangR      Lang = "r"
	LangPython Lang = "python"
)

var (
	absolutePath = regexp.MustCompile(`["'][/\\]|["'][A-Za-z]:[/\\]`)
	pathAllowed  = regexp.MustCompile(`http:|https:|file://|/tmp/`)
	wildcard     = regexp.MustCompile(`^from\s+\S+\s+import\s+\*`)
)

type seedMarkers struct {
	random []string
	seed   []string
}

var seeding = map[Lang]seedMarkers{
	LangR: {
		random: []string{"rnorm", "runif", "sample", "rbinom", "rnbinom"},
		seed:   []string{"set.seed"},
	},
	LangPython: {
		random: []string{"np.random", "random.", "torch.manual_seed", "sklearn", "sample(", "shuffle("},
		seed:   []string{"random.seed", "np.random.seed", "torch.manual_seed", "random_state="},
	},
}

// HardcodedPaths returns the lines holding a quoted absolute path, either
// rooted at a separator or at a drive letter. URLs and /tmp/ paths are
// allowed.
func HardcodedPaths(text string) []int {
	var lines []int
	for i, line := range strings.Split(text, "\n") {
		if absolutePath.MatchString(line) && !pathAllowed.MatchString(line) {
			lines = append(lines, i+1)
		}
	}
	return lines
}

// WildcardImports returns the lines with a "from x import *" statement.
func WildcardImports(text string) []int {
	var lines []int
	for i, line := range strings.Split(text, "\n") {
		if wildcard.MatchString(strings.TrimSpace(line)) {
			lines = append(lines, i+1)
		}
	}
	return lines
}

// NeedsSeed reports whether text draws random numbers without seeding the
// generator. Unknown languages never need a seed.
func NeedsSeed(text string, lang Lang) bool {
	m, ok := seeding[lang]
	if !ok {
		return false
	}
	return containsAny(text, m.random) && !containsAny(text, m.seed)
}

// MissingDocstring reports whether a Python module lacks a leading docstring.
// A shebang line counts as a header.
func MissingDocstring(text string) bool {
	s := strings.TrimLeft(text, " \t\r\n")
	return !strings.HasPrefix(s, `"""`) && !strings.HasPrefix(s, "'''") && !strings.HasPrefix(s, "#!")
}

// MissingHeaderComment reports whether the first non-blank line of an R
// script is something other than a comment.
func MissingHeaderComment(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		return !strings.HasPrefix(trimmed, "#")
	}
	return true
}

// ChartCount returns how many plotly charts the source constructs.
func ChartCount(text string) int {
	return strings.Count(text, "plotly::plot_ly")
}

// RenderedWidgets returns how many HTML widgets a rendered page carries.
func RenderedWidgets(html string) int {
	return strings.Count(html, "htmlwidget")
}

// MissingCharts compares the charts a source builds with the widgets found in
// its rendered output and returns how many did not render.
func MissingCharts(source, html string) int {
	expected := ChartCount(source)
	if expected == 0 {
		return 0
	}
	return max(0, expected-RenderedWidgets(html))
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
