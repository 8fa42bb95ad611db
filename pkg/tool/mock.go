package tool

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Mock implements Tool for testing.
// Behavior can be customized via function fields.
type Mock struct {
	// MockName is returned by Name. Defaults to "mock".
	MockName string

	// MockDescription is returned by Description.
	MockDescription string

	// MockParameters is returned by Parameters.
	MockParameters map[string]any

	// ExecuteFunc is called when Execute is invoked.
	// If nil, echoes the parameters back as the result.
	ExecuteFunc func(ctx context.Context, params map[string]any) (map[string]any, error)

	// FormatFunc is called when Format is invoked.
	// If nil, returns a fmt.Sprintf of the result.
	FormatFunc func(result map[string]any) string

	// Tracking
	mu    sync.Mutex
	calls []MockCall
}

// MockCall records an Execute invocation for verification.
type MockCall struct {
	Params map[string]any
	Time   time.Time
}

// NewMock creates a mock tool with sensible defaults.
func NewMock(name string) *Mock {
	return &Mock{
		MockName:        name,
		MockDescription: "mock tool for testing",
		MockParameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}
}

// Name returns the mock's name.
func (m *Mock) Name() string {
	if m.MockName == "" {
		return "mock"
	}
	return m.MockName
}

// Description returns the mock's description.
func (m *Mock) Description() string { return m.MockDescription }

// Parameters returns the mock's parameter schema.
func (m *Mock) Parameters() map[string]any { return m.MockParameters }

// Execute calls ExecuteFunc and records the call.
func (m *Mock) Execute(ctx context.Context, params map[string]any) (map[string]any, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Params: params, Time: time.Now()})
	m.mu.Unlock()

	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, params)
	}
	return map[string]any{"echo": params}, nil
}

// Format calls FormatFunc or falls back to a plain rendering.
func (m *Mock) Format(result map[string]any) string {
	if m.FormatFunc != nil {
		return m.FormatFunc(result)
	}
	return fmt.Sprintf("%s: %v", m.Name(), result)
}

// Calls returns a copy of all recorded Execute calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of Execute invocations.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Reset clears recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}
