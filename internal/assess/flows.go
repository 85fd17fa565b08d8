package assess

import (
	"fmt"

	"github.com/dshills/docscore/internal/cite"
	"github.com/dshills/docscore/internal/document"
	"github.com/dshills/docscore/internal/heuristic"
	"github.com/dshills/docscore/internal/review"
	"github.com/dshills/docscore/internal/scan"
)

func quartoFlow(r *run) error {
	if ok, err := r.probe(review.KindCompilationFailure, "Quarto compilation"); !ok || err != nil {
		return err
	}
	if err := r.lines(review.KindEquationOverflow, scan.MathOverflow(r.doc.Raw),
		"Potential equation overflow", "Single equation line >120 chars may overflow slide"); err != nil {
		return err
	}
	if err := r.citations(review.KindBrokenCitation, cite.SyntaxAll); err != nil {
		return err
	}
	return r.plotly()
}

// plotly compares the charts the deck builds with the widgets in its
// rendered HTML. Decks that were never rendered are not checked.
func (r *run) plotly() error {
	if r.rubric.RenderedDir == "" {
		return nil
	}
	html, err := document.LoadOptional(r.renderedPath())
	if err != nil || html == nil {
		return err
	}
	missing := heuristic.MissingCharts(r.doc.Raw, html.Raw)
	if missing == 0 {
		return nil
	}
	return r.add(review.Finding{
		Kind:        review.KindMissingPlotlyChart,
		Description: fmt.Sprintf("%d plotly chart(s) failed to render", missing),
		Details: fmt.Sprintf("Expected %d, found %d",
			heuristic.ChartCount(r.doc.Raw), heuristic.RenderedWidgets(html.Raw)),
		Count: missing,
	})
}

func beamerFlow(r *run) error {
	if diags := scan.Balance(r.doc.Raw); len(diags) > 0 {
		for _, d := range diags {
			if err := r.add(review.Finding{
				Kind:        review.KindCompilationFailure,
				Description: fmt.Sprintf("LaTeX syntax issue at line %d", d.Line),
				Details:     d.Message(),
				Line:        d.Line,
			}); err != nil {
				return err
			}
		}
		return nil
	}
	if ok, err := r.probe(review.KindCompilationFailure, "LaTeX compilation"); !ok || err != nil {
		return err
	}
	if err := r.citations(review.KindUndefinedCitation, cite.SyntaxCommand); err != nil {
		return err
	}
	if err := r.lines(review.KindOverfullHbox, scan.FrameRisk(r.doc.Raw),
		"Potential overfull hbox", "Line >120 chars inside frame may overflow slide width"); err != nil {
		return err
	}
	return r.lines(review.KindOverfullHbox, scan.MathOverflow(r.doc.Raw),
		"Potential equation overflow", "Single equation line >120 chars likely to overflow")
}

func rFlow(r *run) error {
	if ok, err := r.probe(review.KindSyntaxError, "R syntax check"); !ok || err != nil {
		return err
	}
	if err := r.lines(review.KindHardcodedPath, heuristic.HardcodedPaths(r.doc.Raw),
		"Hardcoded absolute path", "Use relative paths or here::here()"); err != nil {
		return err
	}
	if heuristic.NeedsSeed(r.doc.Raw, heuristic.LangR) {
		if err := r.add(review.Finding{
			Kind:        review.KindMissingSetSeed,
			Description: "Missing set.seed() for reproducibility",
			Details:     "Add set.seed(YYYYMMDD) after library() calls",
		}); err != nil {
			return err
		}
	}
	if heuristic.MissingHeaderComment(r.doc.Raw) {
		return r.add(review.Finding{
			Kind:        review.KindMissingRoxygen,
			Description: "Missing header comment",
			Details:     "Start the script with a comment describing its purpose",
			Line:        1,
		})
	}
	return nil
}

func pythonFlow(r *run) error {
	if ok, err := r.probe(review.KindSyntaxError, "Python syntax check"); !ok || err != nil {
		return err
	}
	if err := r.lines(review.KindHardcodedPath, heuristic.HardcodedPaths(r.doc.Raw),
		"Hardcoded absolute path", "Use pathlib.Path with relative paths"); err != nil {
		return err
	}
	if err := r.lines(review.KindMissingImport, heuristic.WildcardImports(r.doc.Raw),
		"Wildcard import", `Use explicit imports instead of "from x import *"`); err != nil {
		return err
	}
	if heuristic.NeedsSeed(r.doc.Raw, heuristic.LangPython) {
		if err := r.add(review.Finding{
			Kind:        review.KindMissingSeed,
			Description: "Missing random seed for reproducibility",
			Details:     "Add np.random.seed() or random.seed() at script top",
		}); err != nil {
			return err
		}
	}
	if heuristic.MissingDocstring(r.doc.Raw) {
		return r.add(review.Finding{
			Kind:        review.KindMissingDocstring,
			Description: "Missing module-level docstring",
			Details:     "Add a docstring at the top of the file",
			Line:        1,
		})
	}
	return nil
}
