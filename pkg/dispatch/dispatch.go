// Package dispatch extracts tool-invocation requests from model output and
// executes them concurrently against a tool registry.
//
// Two request formats are supported. Providers with native function calling
// return a structured tool_calls list; markup-only providers embed call
// markers in the reply text, e.g.:
//
//	I'll calculate that. @calculator({"expression": "15 + 25"})
//
// Extraction is best-effort per marker: a single malformed marker is skipped,
// never failing the whole message. Execution is concurrent with isolated
// failure: one faulting tool never aborts its siblings, and result order
// always matches call order.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/voicegate/voicegate/internal/log"
	"github.com/voicegate/voicegate/pkg/tool"
)

// Result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// DefaultMaxConcurrent bounds tool executions per Process call, so malformed
// model output cannot fan out unbounded.
const DefaultMaxConcurrent = 8

// Call is a single tool-invocation request: the tool name plus its parsed
// parameters. Produced by extraction, consumed by Process, never persisted.
type Call struct {
	Name       string         `json:"tool_name"`
	Parameters map[string]any `json:"parameters"`
}

// Result is the outcome of executing one Call. Tool always equals the
// originating Call's Name, including on error, so callers can correlate
// results with calls after concurrent execution.
type Result struct {
	Status    string         `json:"status"`
	Tool      string         `json:"tool_name"`
	Result    map[string]any `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
	Formatted string         `json:"formatted,omitempty"`
}

// Dispatcher executes extracted calls against a registry.
type Dispatcher struct {
	registry      *tool.Registry
	maxConcurrent int
	metrics       *MetricsCollector
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMaxConcurrent sets the maximum number of tool executions that may run
// at once within a single Process call. Zero or negative disables the bound.
func WithMaxConcurrent(n int) Option {
	return func(d *Dispatcher) { d.maxConcurrent = n }
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *tool.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry:      registry,
		maxConcurrent: DefaultMaxConcurrent,
		metrics:       NewMetricsCollector(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Metrics returns a snapshot of dispatch metrics.
func (d *Dispatcher) Metrics() Metrics {
	return d.metrics.Snapshot()
}

// Process executes calls against the registry and returns one Result per
// Call, in call order. Unknown tools produce an immediate error result
// without execution. Known tools run concurrently; a fault in one tool
// (error return or panic) is converted into an error result and never
// affects sibling calls. Successful results get the tool's own Format
// rendering in Formatted; error results carry only Error.
//
// Cancellation of ctx is passed to each tool's Execute; Process itself
// waits for all in-flight executions to return.
func (d *Dispatcher) Process(ctx context.Context, calls []Call) []Result {
	start := time.Now()
	results := make([]Result, len(calls))

	var sem chan struct{}
	if d.maxConcurrent > 0 {
		sem = make(chan struct{}, d.maxConcurrent)
	}

	var wg sync.WaitGroup
	for i, call := range calls {
		t, ok := d.registry.Get(call.Name)
		if !ok {
			results[i] = Result{
				Status: StatusError,
				Tool:   call.Name,
				Error:  fmt.Sprintf("Tool '%s' not found", call.Name),
			}
			continue
		}

		wg.Add(1)
		go func(i int, call Call, t tool.Tool) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			results[i] = d.run(ctx, call, t)
		}(i, call, t)
	}
	wg.Wait()

	for i := range results {
		if results[i].Status != StatusSuccess {
			continue
		}
		if t, ok := d.registry.Get(results[i].Tool); ok {
			results[i].Formatted = t.Format(results[i].Result)
		}
	}

	d.metrics.Record(calls, results, time.Since(start))
	return results
}

// run executes a single call with panic isolation.
func (d *Dispatcher) run(ctx context.Context, call Call, t tool.Tool) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("tool panicked", "tool", call.Name, "panic", r)
			res = Result{
				Status: StatusError,
				Tool:   call.Name,
				Error:  fmt.Sprintf("tool %s panicked: %v", call.Name, r),
			}
		}
	}()

	out, err := t.Execute(ctx, call.Parameters)
	if err != nil {
		log.Warn("tool execution failed", "tool", call.Name, "error", err)
		return Result{
			Status: StatusError,
			Tool:   call.Name,
			Error:  err.Error(),
		}
	}

	return Result{
		Status: StatusSuccess,
		Tool:   call.Name,
		Result: out,
	}
}

// FormattedResults returns the Formatted strings of all successful results,
// for embedding as context in a follow-up generation call. Error results
// fall back to their Error string.
func FormattedResults(results []Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		if r.Status == StatusSuccess {
			out = append(out, r.Formatted)
			continue
		}
		out = append(out, fmt.Sprintf("Tool %s failed: %s", r.Tool, r.Error))
	}
	return out
}
