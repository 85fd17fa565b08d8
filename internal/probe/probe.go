// Package probe defines the external validity probe: the one check that asks
// a real toolchain whether a document compiles or parses.
package probe

import "context"

// Failure classifies why a probe did not succeed.
type Failure string

const (
	FailureNone        Failure = ""
	FailureSyntax      Failure = "syntax"
	FailureTimeout     Failure = "timeout"
	FailureToolMissing Failure = "tool_missing"
	// FailureCanceled means the caller gave up; it says nothing about the
	// document.
	FailureCanceled Failure = "canceled"
)

// Result is a probe verdict. Diagnostic carries the tool's error text when
// OK is false.
type Result struct {
	OK         bool
	Diagnostic string
	Failure    Failure
}

// Prober checks one document with an external toolchain.
// Implementations must be safe for concurrent use.
type Prober interface {
	Probe(ctx context.Context, path string) Result
	Name() string
}

func pass() Result { return Result{OK: true} }

func fail(kind Failure, diag string) Result {
	return Result{Failure: kind, Diagnostic: diag}
}
