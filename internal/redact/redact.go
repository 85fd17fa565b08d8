// Package redact scrubs secrets and local paths from tool diagnostics before
// they are written into reports.
package redact

import (
	"os"
	"regexp"
	"strings"
)

var patterns []*regexp.Regexp

func init() {
	raw := []string{
		// AWS access key IDs
		`AKIA[0-9A-Z]{16}`,
		// Private key blocks
		`-----BEGIN [A-Z ]+PRIVATE KEY-----[\s\S]*?-----END [A-Z ]+PRIVATE KEY-----`,
		// Bearer tokens
		`Bearer\s+[A-Za-z0-9\-._~+/]+=*`,
		// GitHub tokens leaked through quarto publish or renv errors
		`gh[pousr]_[A-Za-z0-9]{36,}`,
		// Generic key/secret/token/password assignments
		`(?i)(api[_-]?key|api[_-]?secret|secret[_-]?key|token|password|passwd|credentials)\s*[:=]\s*\S+`,
	}
	for _, r := range raw {
		patterns = append(patterns, regexp.MustCompile(r))
	}
}

// Redactor scrubs diagnostic text. The zero value only masks secrets.
type Redactor struct {
	// Home is replaced with "~" when set.
	Home string
}

// New returns a Redactor that also shortens the current user's home directory.
func New() Redactor {
	home, err := os.UserHomeDir()
	if err != nil {
		return Redactor{}
	}
	return Redactor{Home: strings.TrimRight(home, `/\`)}
}

// Redact replaces secret patterns with [REDACTED] and the home directory
// prefix with "~".
func (r Redactor) Redact(text string) string {
	for _, p := range patterns {
		text = p.ReplaceAllString(text, "[REDACTED]")
	}
	if len(r.Home) > 1 {
		text = strings.ReplaceAll(text, r.Home, "~")
	}
	return text
}

// Redact masks secrets only.
func Redact(text string) string {
	return Redactor{}.Redact(text)
}
