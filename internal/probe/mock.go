package probe

import (
	"context"
	"sync"
)

// MockProber is a test double that returns a canned result and records the
// paths it was asked about.
type MockProber struct {
	Result Result

	mu    sync.Mutex
	calls []string
}

func (m *MockProber) Name() string { return "mock" }

func (m *MockProber) Probe(_ context.Context, path string) Result {
	m.mu.Lock()
	m.calls = append(m.calls, path)
	m.mu.Unlock()
	return m.Result
}

// Calls returns the probed paths in call order.
func (m *MockProber) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Skip always succeeds. It backs --skip-probe.
type Skip struct{}

func (Skip) Name() string { return "skip" }

func (Skip) Probe(context.Context, string) Result { return pass() }
