// Package scan holds the line-oriented structural scanners for LaTeX-flavoured
// sources: display-math overflow, environment balance, and frame overflow risk.
//
// The scanners never build a syntax tree. Each one walks the text once, keeps
// a small amount of state, and reports 1-based line numbers.
package scan

import (
	"strings"
	"unicode/utf8"
)

// MaxLineWidth is the number of characters a source line may carry inside a
// display region before it is reported as likely to overflow a slide.
const MaxLineWidth = 120

// StripComment returns line up to its first '%' that is not escaped by a
// backslash. A '%' preceded by an even number of backslashes starts a comment.
func StripComment(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] != '%' {
			continue
		}
		backslashes := 0
		for j := i - 1; j >= 0 && line[j] == '\\'; j-- {
			backslashes++
		}
		if backslashes%2 == 0 {
			return line[:i]
		}
	}
	return line
}

// width is the character count of s without surrounding whitespace.
func width(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}
