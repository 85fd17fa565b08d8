package scan

import (
	"regexp"
	"strings"
)

const fence = "$$"

var (
	mathEnvBegin = regexp.MustCompile(`^\\begin\{(?:equation|align|gather|multline|eqnarray)\*?\}`)
	mathEnvEnd   = regexp.MustCompile(`^\\end\{(?:equation|align|gather|multline|eqnarray)\*?\}`)
)

// mathState tracks which delimiter family opened the current display block.
type mathState int

const (
	outside mathState = iota
	insideFence
	insideEnvironment
)

// MathOverflow returns the lines inside display math whose code, with any
// trailing comment removed, is longer than MaxLineWidth.
//
// A $$ fence toggles a block; fences do not nest. Two fences on one line form
// a single-line block whose inner content is measured instead; only the first
// two fences on a line are interpreted. Math environments open on a begin line
// and close on any math-environment end line. The two families never close
// each other. Delimiter lines are not measured.
func MathOverflow(text string) []int {
	var flagged []int
	state := outside

	for i, line := range splitLines(text) {
		n := i + 1
		trimmed := strings.TrimSpace(line)

		if state != insideEnvironment && strings.Contains(trimmed, fence) {
			if state == insideFence {
				state = outside
				continue
			}
			if inner, ok := singleLineBlock(trimmed); ok {
				if width(inner) > MaxLineWidth {
					flagged = append(flagged, n)
				}
				continue
			}
			state = insideFence
			continue
		}

		if state == outside && mathEnvBegin.MatchString(trimmed) {
			state = insideEnvironment
			continue
		}
		if state == insideEnvironment && mathEnvEnd.MatchString(trimmed) {
			state = outside
			continue
		}

		if state != outside && width(StripComment(line)) > MaxLineWidth {
			flagged = append(flagged, n)
		}
	}
	return flagged
}

// singleLineBlock returns the text between the first two fences on a line.
func singleLineBlock(line string) (string, bool) {
	parts := strings.SplitN(line, fence, 3)
	if len(parts) < 3 {
		return "", false
	}
	return parts[1], true
}
