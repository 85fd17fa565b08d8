package scan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func join(lines ...string) string {
	return strings.Join(lines, "\n")
}

func TestStripComment(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`x + y`, `x + y`},
		{`x + y % note`, `x + y `},
		{`50\% of cases % note`, `50\% of cases `},
		{`\\% comment after line break`, `\\`},
		{`% whole line`, ``},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripComment(tt.in), "StripComment(%q)", tt.in)
	}
}

func TestMathOverflowSingleLineBoundary(t *testing.T) {
	at := strings.Repeat("a", MaxLineWidth)
	over := strings.Repeat("a", MaxLineWidth+1)

	assert.Empty(t, MathOverflow("$$"+at+"$$"), "120 characters must not be flagged")
	assert.Equal(t, []int{1}, MathOverflow("$$"+over+"$$"), "121 characters must be flagged")
	assert.Empty(t, MathOverflow("$$  "+at+"  $$"), "surrounding whitespace is trimmed")
}

func TestMathOverflowSingleLineDoesNotOpenBlock(t *testing.T) {
	text := join(
		"$$ x = 1 $$",
		strings.Repeat("b", 200),
	)
	assert.Empty(t, MathOverflow(text))
}

func TestMathOverflowFenceBlock(t *testing.T) {
	long := strings.Repeat("x", 130)
	text := join(
		"intro "+long, // outside any block
		"$$",
		"a = b",
		long,
		"$$",
		long,
	)
	assert.Equal(t, []int{4}, MathOverflow(text))
}

func TestMathOverflowCommentStripped(t *testing.T) {
	code := strings.Repeat("y", 100)
	text := join(
		`\begin{align}`,
		code+" % "+strings.Repeat("c", 80),
		code+` \% `+strings.Repeat("c", 80),
		`\end{align}`,
	)
	assert.Equal(t, []int{3}, MathOverflow(text), "escaped percent is not a comment")
}

func TestMathOverflowEnvironments(t *testing.T) {
	long := strings.Repeat("z", 121)
	for _, env := range []string{"equation", "align*", "gather", "multline*", "eqnarray"} {
		text := join(`  \begin{`+env+`}`, long, `\end{`+env+`}`, long)
		assert.Equal(t, []int{2}, MathOverflow(text), env)
	}
}

func TestMathOverflowFamiliesDoNotCancel(t *testing.T) {
	long := strings.Repeat("q", 125)

	// An environment end inside a fence block does not close the fence.
	fenceOpen := join("$$", `\end{equation}`, long, "$$", long)
	assert.Equal(t, []int{3}, MathOverflow(fenceOpen))

	// A fence inside an environment is content, not a delimiter.
	envOpen := join(`\begin{equation}`, "$$", long, `\end{equation}`, long)
	assert.Equal(t, []int{3}, MathOverflow(envOpen))
}

func TestMathOverflowEnvEndNameNotMatched(t *testing.T) {
	long := strings.Repeat("w", 130)
	text := join(`\begin{align}`, long, `\end{gather}`, long)
	assert.Equal(t, []int{2}, MathOverflow(text))
}

func TestMathOverflowFenceClosesInsteadOfNesting(t *testing.T) {
	long := strings.Repeat("k", 130)
	text := join("$$", long, "$$", long, "$$", long, "$$")
	assert.Equal(t, []int{2, 6}, MathOverflow(text))
}

func TestMathOverflowThreeFencesOnOneLine(t *testing.T) {
	// Only the first two fences are interpreted; the third is ignored and the
	// line stays a closed single-line block.
	long := strings.Repeat("m", 130)
	text := join("$$ a $$ b $$", long)
	assert.Empty(t, MathOverflow(text))

	text = join("$$ "+long+" $$ tail $$", "after")
	assert.Equal(t, []int{1}, MathOverflow(text))
}

func TestBalanceNested(t *testing.T) {
	text := join(
		`\begin{document}`,
		`\begin{frame}{Title}`,
		`  \begin{itemize}`,
		`    \item one`,
		`  \end{itemize}`,
		`  \begin{align*} a \end{align*}`,
		`\end{frame}`,
		`\end{document}`,
	)
	assert.Empty(t, Balance(text))
}

func TestBalanceSwappedCloses(t *testing.T) {
	text := join(
		`\begin{frame}`,
		`\begin{itemize}`,
		`\end{frame}`,
		`\end{itemize}`,
	)
	diags := Balance(text)

	var mismatches []Diagnostic
	for _, d := range diags {
		if d.Kind == DiagMismatch {
			mismatches = append(mismatches, d)
		}
	}
	require.Len(t, mismatches, 1)
	assert.Equal(t, "frame", mismatches[0].Name)
	assert.Equal(t, "itemize", mismatches[0].Expected)
	assert.Equal(t, 2, mismatches[0].OpenedAt)
	assert.Equal(t, 3, mismatches[0].Line)
	assert.Equal(t,
		`Mismatched environment: \end{frame} but expected \end{itemize} (opened at line 2)`,
		mismatches[0].Message())
}

func TestBalanceMismatchDoesNotPop(t *testing.T) {
	text := join(
		`\begin{a}`,
		`\begin{b}`,
		`\end{c}`,
		`\end{d}`,
		`\end{b}`,
		`\end{a}`,
	)
	diags := Balance(text)
	require.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, DiagMismatch, d.Kind)
		assert.Equal(t, "b", d.Expected)
		assert.Equal(t, 2, d.OpenedAt)
	}
}

func TestBalanceOrphanAndUnclosed(t *testing.T) {
	text := join(
		`\end{itemize}`,
		`\begin{frame}`,
		`\begin{columns}`,
		`% \end{columns}`,
	)
	diags := Balance(text)
	require.Len(t, diags, 3)
	assert.Equal(t, Diagnostic{Kind: DiagOrphanClose, Line: 1, Name: "itemize"}, diags[0])
	assert.Equal(t, Diagnostic{Kind: DiagUnclosed, Line: 2, Name: "frame"}, diags[1])
	assert.Equal(t, Diagnostic{Kind: DiagUnclosed, Line: 3, Name: "columns"}, diags[2])
	assert.Equal(t, `\end{itemize} without matching \begin`, diags[0].Message())
	assert.Equal(t, `Unclosed environment: \begin{frame} never closed`, diags[1].Message())
}

func TestBalanceTokensInLineOrder(t *testing.T) {
	text := join(
		`\begin{a}`,
		`\end{a}\begin{b}`,
		`\end{b}`,
	)
	assert.Empty(t, Balance(text))
}

func TestBalanceStarredNames(t *testing.T) {
	assert.Empty(t, Balance(join(`\begin{align*}`, `\end{align*}`)))
	diags := Balance(join(`\begin{align*}`, `\end{align}`))
	require.Len(t, diags, 2)
	assert.Equal(t, DiagMismatch, diags[0].Kind)
	assert.Equal(t, "align*", diags[0].Expected)
}

func TestFrameRisk(t *testing.T) {
	long := strings.Repeat("t", 121)
	text := join(
		long, // before any frame
		`\begin{frame}{Results}`,
		long,
		`  \includegraphics[width=\textwidth]{`+long+`}`,
		`\input{`+long+`}`,
		`% `+long,
		strings.Repeat("s", 60)+" % "+strings.Repeat("c", 100),
		`\end{frame}`,
		long,
	)
	assert.Equal(t, []int{3}, FrameRisk(text))
}

func TestFrameRiskBeginLineMeasured(t *testing.T) {
	long := strings.Repeat("t", 121)
	text := join(`\begin{frame}{`+long+`}`, `\end{frame}`+long)
	assert.Equal(t, []int{1}, FrameRisk(text))
}
