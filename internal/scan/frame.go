package scan

import (
	"regexp"
	"strings"
)

const (
	frameBegin = `\begin{frame}`
	frameEnd   = `\end{frame}`
)

// pathDirective matches commands whose long arguments are file paths and do
// not typeset as wide text.
var pathDirective = regexp.MustCompile(`^\s*\\(?:includegraphics|input|bibliography|usepackage)`)

// FrameRisk returns the lines inside a frame whose code, with comments
// removed, is longer than MaxLineWidth. Pure comment lines and path-bearing
// directives are not reported. The \begin{frame} line itself is measured;
// the \end{frame} line is not.
func FrameRisk(text string) []int {
	var flagged []int
	inFrame := false

	for i, line := range splitLines(text) {
		code := StripComment(line)
		if strings.Contains(code, frameBegin) {
			inFrame = true
		} else if strings.Contains(code, frameEnd) {
			inFrame = false
		}
		if !inFrame || width(code) <= MaxLineWidth {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(line), "%") || pathDirective.MatchString(code) {
			continue
		}
		flagged = append(flagged, i+1)
	}
	return flagged
}
