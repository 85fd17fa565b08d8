// Package rubric loads the built-in per-class scoring rubrics.
//
// Rubrics are embedded YAML, parsed once per process and never modified
// afterwards. A *Rubric is safe to share between goroutines.
package rubric

import (
	"embed"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/docscore/internal/review"
	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Rubric is the scoring table for one document class plus the locations of
// the files its checks read next to the document.
type Rubric struct {
	Name             review.Class                                         `yaml:"class"`
	Description      string                                               `yaml:"description"`
	Extensions       []string                                             `yaml:"extensions"`
	BibliographyDirs []string                                             `yaml:"bibliography_dirs"`
	RenderedDir      string                                               `yaml:"rendered_dir"`
	Rules            map[review.Severity]map[review.IssueKind]review.Rule `yaml:"rules"`
}

// Class implements review.Rubric.
func (r *Rubric) Class() review.Class { return r.Name }

// Lookup implements review.Rubric.
func (r *Rubric) Lookup(kind review.IssueKind) (review.Severity, review.Rule, bool) {
	for _, sev := range review.Severities() {
		if rule, ok := r.Rules[sev][kind]; ok {
			return sev, rule, true
		}
	}
	return "", review.Rule{}, false
}

// Entry is one rubric row, used for listing.
type Entry struct {
	Severity review.Severity
	Kind     review.IssueKind
	Rule     review.Rule
}

// Entries returns the rubric rows ordered by severity, then points
// descending, then kind.
func (r *Rubric) Entries() []Entry {
	var out []Entry
	for _, sev := range review.Severities() {
		start := len(out)
		for kind, rule := range r.Rules[sev] {
			out = append(out, Entry{Severity: sev, Kind: kind, Rule: rule})
		}
		group := out[start:]
		sort.Slice(group, func(i, j int) bool {
			if group[i].Rule.Points != group[j].Rule.Points {
				return group[i].Rule.Points > group[j].Rule.Points
			}
			return group[i].Kind < group[j].Kind
		})
	}
	return out
}

var loadAll = sync.OnceValues(func() (map[review.Class]*Rubric, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, err
	}
	all := make(map[review.Class]*Rubric, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := builtinFS.ReadFile("builtin/" + e.Name())
		if err != nil {
			return nil, err
		}
		var r Rubric
		if err := yaml.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		if err := r.validate(strings.TrimSuffix(e.Name(), ".yaml")); err != nil {
			return nil, err
		}
		all[r.Name] = &r
	}
	return all, nil
})

func (r *Rubric) validate(file string) error {
	if string(r.Name) != file {
		return fmt.Errorf("%s.yaml declares class %q", file, r.Name)
	}
	if !r.Name.Valid() {
		return fmt.Errorf("%s.yaml: unknown class %q", file, r.Name)
	}
	if len(r.Extensions) == 0 {
		return fmt.Errorf("%s.yaml: no extensions", file)
	}
	for sev, kinds := range r.Rules {
		if !sev.Valid() {
			return fmt.Errorf("%s.yaml: unknown severity %q", file, sev)
		}
		for kind, rule := range kinds {
			if !kind.Valid() {
				return fmt.Errorf("%s.yaml: unknown issue kind %q", file, kind)
			}
			if rule.Points < 0 {
				return fmt.Errorf("%s.yaml: %s has negative points", file, kind)
			}
		}
	}
	return nil
}

// LoadBuiltin returns the built-in rubric for a class.
func LoadBuiltin(class review.Class) (*Rubric, error) {
	all, err := loadAll()
	if err != nil {
		return nil, fmt.Errorf("rubric.LoadBuiltin: %w", err)
	}
	r, ok := all[class]
	if !ok {
		return nil, fmt.Errorf("rubric.LoadBuiltin: unknown class %q", class)
	}
	return r, nil
}

// ForPath returns the rubric whose extensions match path.
func ForPath(path string) (*Rubric, error) {
	all, err := loadAll()
	if err != nil {
		return nil, fmt.Errorf("rubric.ForPath: %w", err)
	}
	ext := filepath.Ext(path)
	for _, class := range review.Classes() {
		r, ok := all[class]
		if !ok {
			continue
		}
		for _, e := range r.Extensions {
			if e == ext {
				return r, nil
			}
		}
	}
	return nil, &UnsupportedError{Path: path, Ext: ext}
}

// UnsupportedError reports a file whose extension maps to no rubric.
type UnsupportedError struct {
	Path string
	Ext  string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported file type %q: %s", e.Ext, e.Path)
}

// List returns the classes with a built-in rubric.
func List() ([]review.Class, error) {
	all, err := loadAll()
	if err != nil {
		return nil, err
	}
	var names []review.Class
	for _, c := range review.Classes() {
		if _, ok := all[c]; ok {
			names = append(names, c)
		}
	}
	return names, nil
}

// Format renders the rubric as a plain-text table.
func Format(r *Rubric) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Rubric: %s (%s)\n\n", r.Name, strings.Join(r.Extensions, ", "))
	if r.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(r.Description))
	}

	var current review.Severity
	for _, e := range r.Entries() {
		if e.Severity != current {
			if current != "" {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "### %s\n", e.Severity)
			current = e.Severity
		}
		suffix := ""
		if e.Rule.AutoFail {
			suffix = " (auto-fail)"
		}
		fmt.Fprintf(&b, "- %-26s -%d%s\n", e.Kind, e.Rule.Points, suffix)
	}
	return b.String()
}
