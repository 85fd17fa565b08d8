package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultQuartoTimeout = 120 * time.Second
	DefaultRTimeout      = 10 * time.Second
	DefaultPythonTimeout = 10 * time.Second
)

// pythonParseCheck compiles the file named by argv[1] to an AST without
// running it and prints "Line N: message" on a syntax error.
const pythonParseCheck = `import ast, sys
path = sys.argv[1]
try:
    with open(path, "rb") as f:
        ast.parse(f.read(), path)
except (SyntaxError, ValueError) as e:
    line = getattr(e, "lineno", None)
    msg = getattr(e, "msg", None) or str(e)
    sys.stderr.write(("Line %s: %s" % (line, msg) if line else msg) + "\n")
    sys.exit(1)
`

// ExecProber runs a command against the document and treats a non-zero exit
// as a failure whose diagnostic is the command's stderr.
type ExecProber struct {
	// Tool is the display name used in diagnostics.
	Tool string
	// Bin is the executable, looked up on PATH when not absolute.
	Bin string
	// Args builds the argument list for a document path.
	Args func(path string) []string
	// InDocDir runs the command with the document's directory as cwd.
	InDocDir bool
	Timeout  time.Duration
}

// NewQuarto returns a prober that renders a Quarto document to HTML.
func NewQuarto(timeout time.Duration) *ExecProber {
	return &ExecProber{
		Tool: "Quarto",
		Bin:  "quarto",
		Args: func(path string) []string {
			return []string{"render", filepath.Base(path), "--to", "html"}
		},
		InDocDir: true,
		Timeout:  orDefault(timeout, DefaultQuartoTimeout),
	}
}

// NewRscript returns a prober that parses an R script without running it.
func NewRscript(timeout time.Duration) *ExecProber {
	return &ExecProber{
		Tool: "Rscript",
		Bin:  "Rscript",
		Args: func(path string) []string {
			return []string{"-e", fmt.Sprintf("parse(%q)", filepath.ToSlash(path))}
		},
		Timeout: orDefault(timeout, DefaultRTimeout),
	}
}

// NewPythonInterpreter returns a prober that asks python3 to parse a script
// with the ast module.
func NewPythonInterpreter(timeout time.Duration) *ExecProber {
	return &ExecProber{
		Tool: "Python",
		Bin:  "python3",
		Args: func(path string) []string {
			return []string{"-c", pythonParseCheck, path}
		},
		Timeout: orDefault(timeout, DefaultPythonTimeout),
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

func (p *ExecProber) Name() string { return strings.ToLower(p.Tool) }

func (p *ExecProber) Probe(parent context.Context, path string) Result {
	ctx, cancel := context.WithTimeout(parent, p.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.Bin, p.Args(path)...)
	if p.InDocDir {
		cmd.Dir = filepath.Dir(path)
	}
	// Children that inherit stdout/stderr must not hold Wait open past the kill.
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	switch {
	case err == nil:
		return pass()
	case errors.Is(err, exec.ErrNotFound):
		return fail(FailureToolMissing, p.Tool+" not installed")
	case parent.Err() != nil:
		return fail(FailureCanceled, fmt.Sprintf("%s canceled: %v", p.Tool, parent.Err()))
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fail(FailureTimeout, fmt.Sprintf("%s timed out after %s", p.Tool, p.Timeout))
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fail(FailureToolMissing, fmt.Sprintf("%s could not be started: %v", p.Tool, err))
	}
	diag := strings.TrimSpace(stderr.String())
	if diag == "" {
		diag = strings.TrimSpace(stdout.String())
	}
	if diag == "" {
		diag = fmt.Sprintf("%s exited with status %d", p.Tool, exitErr.ExitCode())
	}
	return fail(FailureSyntax, diag)
}
