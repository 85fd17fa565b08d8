package probe

import (
	"fmt"
	"time"

	"github.com/dshills/docscore/internal/review"
)

// Options configures the probers Resolve builds.
type Options struct {
	QuartoTimeout time.Duration
	RTimeout      time.Duration
	PythonTimeout time.Duration
	// Skip replaces every prober with Skip.
	Skip bool
}

// Resolve selects the prober for a document class. Beamer documents are
// checked structurally and have no prober.
func Resolve(class review.Class, opts Options) (Prober, error) {
	if opts.Skip {
		return Skip{}, nil
	}
	switch class {
	case review.ClassQuarto:
		return NewQuarto(opts.QuartoTimeout), nil
	case review.ClassR:
		return NewRscript(opts.RTimeout), nil
	case review.ClassPython:
		return NewPython(opts.PythonTimeout), nil
	case review.ClassBeamer:
		return nil, nil
	}
	return nil, fmt.Errorf("probe.Resolve: unknown class %q", class)
}

// Set holds one prober per class.
type Set map[review.Class]Prober

// ResolveAll builds a prober for every class.
func ResolveAll(opts Options) (Set, error) {
	set := Set{}
	for _, class := range review.Classes() {
		p, err := Resolve(class, opts)
		if err != nil {
			return nil, err
		}
		if p != nil {
			set[class] = p
		}
	}
	return set, nil
}
