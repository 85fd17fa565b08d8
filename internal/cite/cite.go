// Package cite extracts citation keys from slide sources and resolves them
// against a BibTeX bibliography.
//
// Two syntaxes are supported as independent passes: LaTeX citation commands
// (\cite, \citep, \citet, ...) and Pandoc at-sign citations (@key, [@a; @b]).
// Results are sets; callers that need a stable order use Keys.Sorted.
package cite

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Keys is a set of citation keys.
type Keys map[string]struct{}

func (k Keys) add(key string) {
	if key != "" {
		k[key] = struct{}{}
	}
}

// Has reports whether key is in the set.
func (k Keys) Has(key string) bool {
	_, ok := k[key]
	return ok
}

// Union adds every key of other to k.
func (k Keys) Union(other Keys) {
	for key := range other {
		k[key] = struct{}{}
	}
}

// Sorted returns the keys in lexical order.
func (k Keys) Sorted() []string {
	out := make([]string, 0, len(k))
	for key := range k {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// Syntax selects which citation passes Resolve runs.
type Syntax uint8

const (
	// SyntaxCommand is the LaTeX \cite family.
	SyntaxCommand Syntax = 1 << iota
	// SyntaxAtSign is Pandoc's @key and [@key; @key] forms.
	SyntaxAtSign

	SyntaxAll = SyntaxCommand | SyntaxAtSign
)

var (
	bibEntry = regexp.MustCompile(`@\w+\{([^,]+),`)
	// \citeauthor*[see][p. 3]{a, b}
	citeCommand  = regexp.MustCompile(`\\cite[a-z]*\*?(?:\[[^\]]*\]){0,2}\{([^}]+)\}`)
	bracketGroup = regexp.MustCompile(`\[([^\]]*@[^\]]+)\]`)
	atKey        = regexp.MustCompile(`@([\w:.#$%&\-+?<>~/]+)`)
)

// reserved are Quarto cross-reference prefixes that share the @ marker.
var reserved = map[string]bool{
	"fig": true,
	"tbl": true,
	"sec": true,
	"eq":  true,
	"lst": true,
}

// BibKeys returns the entry keys declared in a BibTeX file: the text between
// "@type{" and the first comma. The result is never nil.
func BibKeys(bib string) Keys {
	keys := Keys{}
	for _, m := range bibEntry.FindAllStringSubmatch(bib, -1) {
		keys.add(strings.TrimSpace(m[1]))
	}
	return keys
}

// CommandKeys returns the keys cited through \cite-style commands.
func CommandKeys(text string) Keys {
	keys := Keys{}
	for _, m := range citeCommand.FindAllStringSubmatch(text, -1) {
		for _, k := range strings.Split(m[1], ",") {
			keys.add(strings.TrimSpace(k))
		}
	}
	return keys
}

// BracketKeys returns the at-sign keys inside square-bracket groups such as
// [@smith2020] or [see @a, p. 4; @b].
func BracketKeys(text string) Keys {
	keys := Keys{}
	for _, m := range bracketGroup.FindAllStringSubmatch(text, -1) {
		for _, km := range atKey.FindAllStringSubmatch(m[1], -1) {
			if key, ok := citationKey(km[1]); ok {
				keys.add(key)
			}
		}
	}
	return keys
}

// StandaloneKeys returns at-sign keys in running text. A marker directly
// after a word character or a period is part of an email address or a
// decorator and is skipped.
func StandaloneKeys(text string) Keys {
	keys := Keys{}
	for _, loc := range atKey.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > 0 && emailLike(text[:loc[0]]) {
			continue
		}
		if key, ok := citationKey(text[loc[2]:loc[3]]); ok {
			keys.add(key)
		}
	}
	return keys
}

// emailLike reports whether the text ending right before an @ makes it part
// of an address rather than a citation.
func emailLike(before string) bool {
	r, _ := utf8.DecodeLastRuneInString(before)
	return r == '.' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// citationKey trims trailing sentence punctuation from a raw at-sign match
// and rejects cross references.
func citationKey(raw string) (string, bool) {
	key := strings.TrimRight(raw, ".:?")
	if key == "" {
		return "", false
	}
	if reserved[key] {
		return "", false
	}
	if prefix, _, ok := strings.Cut(key, "-"); ok && reserved[prefix] {
		return "", false
	}
	return key, true
}

// Resolve extracts the cited keys selected by syntax and returns those not
// declared in known, sorted. A nil known means no bibliography was found and
// every cited key is returned.
func Resolve(text string, known Keys, syntax Syntax) []string {
	cited := Keys{}
	if syntax&SyntaxCommand != 0 {
		cited.Union(CommandKeys(text))
	}
	if syntax&SyntaxAtSign != 0 {
		cited.Union(BracketKeys(text))
		cited.Union(StandaloneKeys(text))
	}
	return Broken(cited, known)
}

// Broken returns the cited keys missing from known, sorted. A nil known
// returns every cited key.
func Broken(cited, known Keys) []string {
	if known == nil {
		return cited.Sorted()
	}
	missing := Keys{}
	for key := range cited {
		if !known.Has(key) {
			missing.add(key)
		}
	}
	return missing.Sorted()
}
