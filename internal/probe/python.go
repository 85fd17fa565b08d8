package probe

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// maxDepth bounds the error-node walk on pathological input.
const maxDepth = 1000

// PythonProber checks Python scripts with the interpreter's own parser.
// When the interpreter is not installed, or Interpreter is nil, it falls back
// to the tree-sitter grammar, which recovers from some errors CPython rejects
// (print statements, non-default after default arguments, bad augmented
// assignment targets).
type PythonProber struct {
	Interpreter *ExecProber
	Parser      TreeSitter
}

// NewPython returns a prober backed by python3 with a tree-sitter fallback.
func NewPython(timeout time.Duration) *PythonProber {
	return &PythonProber{Interpreter: NewPythonInterpreter(timeout)}
}

func (p *PythonProber) Name() string {
	if p.Interpreter == nil {
		return p.Parser.Name()
	}
	return p.Interpreter.Name()
}

func (p *PythonProber) Probe(ctx context.Context, path string) Result {
	if p.Interpreter == nil {
		return p.Parser.Probe(ctx, path)
	}
	res := p.Interpreter.Probe(ctx, path)
	if res.Failure != FailureToolMissing {
		return res
	}
	return p.Parser.Probe(ctx, path)
}

// TreeSitter parses Python sources in process with the tree-sitter grammar.
// It never shells out, so it cannot time out or miss a tool.
type TreeSitter struct{}

func (TreeSitter) Name() string { return "tree-sitter-python" }

func (p TreeSitter) Probe(ctx context.Context, path string) Result {
	src, err := os.ReadFile(path)
	if err != nil {
		return fail(FailureSyntax, fmt.Sprintf("read %s: %v", path, err))
	}
	return p.Parse(ctx, src)
}

// Parse checks src and reports the first ERROR or MISSING node.
func (TreeSitter) Parse(ctx context.Context, src []byte) Result {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		if ctx.Err() != nil {
			return fail(FailureCanceled, fmt.Sprintf("python parse canceled: %v", ctx.Err()))
		}
		return fail(FailureSyntax, fmt.Sprintf("python parse failed: %v", err))
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return pass()
	}
	if msg, ok := firstSyntaxError(root, src, 0); ok {
		return fail(FailureSyntax, msg)
	}
	return fail(FailureSyntax, "invalid syntax")
}

func firstSyntaxError(node *sitter.Node, src []byte, depth int) (string, bool) {
	if depth > maxDepth {
		return "", false
	}
	if node.IsMissing() {
		return fmt.Sprintf("Line %d: missing %q", node.StartPoint().Row+1, node.Type()), true
	}
	if node.IsError() {
		return fmt.Sprintf("Line %d: invalid syntax near %q", node.StartPoint().Row+1, snippet(node, src)), true
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if msg, ok := firstSyntaxError(node.Child(i), src, depth+1); ok {
			return msg, true
		}
	}
	return "", false
}

func snippet(node *sitter.Node, src []byte) string {
	start, end := node.StartByte(), min(node.EndByte(), uint32(len(src)))
	if start >= end {
		return ""
	}
	s := string(src[start:end])
	if line, _, ok := strings.Cut(s, "\n"); ok {
		s = line
	}
	if len(s) > 40 {
		s = s[:40]
	}
	return strings.TrimSpace(s)
}
