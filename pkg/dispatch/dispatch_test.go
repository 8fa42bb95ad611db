package dispatch_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/voicegate/voicegate/pkg/dispatch"
	"github.com/voicegate/voicegate/pkg/tool"
)

func newCalculatorMock() *tool.Mock {
	m := tool.NewMock("calculator")
	m.ExecuteFunc = func(ctx context.Context, params map[string]any) (map[string]any, error) {
		expr, _ := params["expression"].(string)
		if expr != "15 + 25" {
			return nil, fmt.Errorf("unexpected expression %q", expr)
		}
		return map[string]any{"expression": expr, "value": 40.0}, nil
	}
	m.FormatFunc = func(result map[string]any) string {
		return fmt.Sprintf("Calculation: %v = %v", result["expression"], result["value"])
	}
	return m
}

func TestProcess(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown tool yields error result without execution", func(t *testing.T) {
		reg := tool.NewRegistry()
		probe := tool.NewMock("known")
		reg.Register(probe)

		d := dispatch.NewDispatcher(reg)
		results := d.Process(ctx, []dispatch.Call{{Name: "missing"}})

		if len(results) != 1 {
			t.Fatalf("expected 1 result, got %d", len(results))
		}
		r := results[0]
		if r.Status != dispatch.StatusError {
			t.Errorf("expected error status, got %s", r.Status)
		}
		if r.Tool != "missing" {
			t.Errorf("expected tool name to match input, got %s", r.Tool)
		}
		if r.Error != "Tool 'missing' not found" {
			t.Errorf("unexpected error message: %q", r.Error)
		}
		if probe.CallCount() != 0 {
			t.Error("no tool should have been invoked")
		}
	})

	t.Run("successful call gets formatted result", func(t *testing.T) {
		reg := tool.NewRegistry()
		reg.Register(newCalculatorMock())

		d := dispatch.NewDispatcher(reg)
		results := d.Process(ctx, dispatch.Extract(
			`I'll calculate that. @calculator({"expression": "15 + 25"})`))

		if len(results) != 1 {
			t.Fatalf("expected 1 result, got %d", len(results))
		}
		r := results[0]
		if r.Status != dispatch.StatusSuccess {
			t.Fatalf("expected success, got %s (%s)", r.Status, r.Error)
		}
		if r.Result["value"] != 40.0 {
			t.Errorf("expected value 40, got %v", r.Result["value"])
		}
		if r.Formatted != "Calculation: 15 + 25 = 40" {
			t.Errorf("unexpected formatted string: %q", r.Formatted)
		}
	})

	t.Run("one fault does not affect siblings, order preserved", func(t *testing.T) {
		reg := tool.NewRegistry()
		for i := 0; i < 5; i++ {
			name := fmt.Sprintf("tool_%d", i)
			m := tool.NewMock(name)
			idx := i
			m.ExecuteFunc = func(ctx context.Context, params map[string]any) (map[string]any, error) {
				if idx == 2 {
					return nil, errors.New("boom")
				}
				// Finish out of input order on purpose
				time.Sleep(time.Duration(5-idx) * 5 * time.Millisecond)
				return map[string]any{"idx": idx}, nil
			}
			reg.Register(m)
		}

		calls := make([]dispatch.Call, 5)
		for i := range calls {
			calls[i] = dispatch.Call{Name: fmt.Sprintf("tool_%d", i)}
		}

		d := dispatch.NewDispatcher(reg)
		results := d.Process(ctx, calls)

		if len(results) != 5 {
			t.Fatalf("expected 5 results, got %d", len(results))
		}
		for i, r := range results {
			if r.Tool != calls[i].Name {
				t.Errorf("result %d out of order: %s", i, r.Tool)
			}
			if i == 2 {
				if r.Status != dispatch.StatusError || r.Error != "boom" {
					t.Errorf("expected fault at index 2, got %+v", r)
				}
				if r.Formatted != "" {
					t.Error("error result must not be formatted")
				}
				continue
			}
			if r.Status != dispatch.StatusSuccess {
				t.Errorf("result %d: expected success, got %s (%s)", i, r.Status, r.Error)
			}
			if r.Result["idx"] != i {
				t.Errorf("result %d: wrong payload %v", i, r.Result)
			}
		}
	})

	t.Run("panicking tool is isolated", func(t *testing.T) {
		reg := tool.NewRegistry()
		panicky := tool.NewMock("panicky")
		panicky.ExecuteFunc = func(ctx context.Context, params map[string]any) (map[string]any, error) {
			panic("bad state")
		}
		reg.Register(panicky)
		reg.Register(newCalculatorMock())

		d := dispatch.NewDispatcher(reg)
		results := d.Process(ctx, []dispatch.Call{
			{Name: "panicky"},
			{Name: "calculator", Parameters: map[string]any{"expression": "15 + 25"}},
		})

		if results[0].Status != dispatch.StatusError {
			t.Errorf("expected panic to become error result, got %+v", results[0])
		}
		if !strings.Contains(results[0].Error, "bad state") {
			t.Errorf("expected panic message in error, got %q", results[0].Error)
		}
		if results[1].Status != dispatch.StatusSuccess {
			t.Errorf("sibling call should succeed, got %+v", results[1])
		}
	})

	t.Run("concurrency bound is respected", func(t *testing.T) {
		reg := tool.NewRegistry()
		var mu sync.Mutex
		inFlight, peak := 0, 0

		slow := tool.NewMock("slow")
		slow.ExecuteFunc = func(ctx context.Context, params map[string]any) (map[string]any, error) {
			mu.Lock()
			inFlight++
			if inFlight > peak {
				peak = inFlight
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			inFlight--
			mu.Unlock()
			return map[string]any{}, nil
		}
		reg.Register(slow)

		calls := make([]dispatch.Call, 10)
		for i := range calls {
			calls[i] = dispatch.Call{Name: "slow"}
		}

		d := dispatch.NewDispatcher(reg, dispatch.WithMaxConcurrent(2))
		d.Process(ctx, calls)

		if peak > 2 {
			t.Errorf("expected at most 2 concurrent executions, saw %d", peak)
		}
	})

	t.Run("empty call list", func(t *testing.T) {
		d := dispatch.NewDispatcher(tool.NewRegistry())
		if results := d.Process(ctx, nil); len(results) != 0 {
			t.Errorf("expected no results, got %v", results)
		}
	})
}

func TestMetrics(t *testing.T) {
	reg := tool.NewRegistry()
	reg.Register(newCalculatorMock())

	d := dispatch.NewDispatcher(reg)
	d.Process(context.Background(), []dispatch.Call{
		{Name: "calculator", Parameters: map[string]any{"expression": "15 + 25"}},
		{Name: "missing"},
	})

	m := d.Metrics()
	if m.Batches != 1 {
		t.Errorf("expected 1 batch, got %d", m.Batches)
	}
	if m.Calls != 2 {
		t.Errorf("expected 2 calls, got %d", m.Calls)
	}
	if m.Errors != 1 {
		t.Errorf("expected 1 error, got %d", m.Errors)
	}
}

func TestFormattedResults(t *testing.T) {
	results := []dispatch.Result{
		{Status: dispatch.StatusSuccess, Tool: "calculator", Formatted: "Calculation: 1 + 1 = 2"},
		{Status: dispatch.StatusError, Tool: "weather", Error: "api unreachable"},
	}

	formatted := dispatch.FormattedResults(results)
	if len(formatted) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(formatted))
	}
	if formatted[0] != "Calculation: 1 + 1 = 2" {
		t.Errorf("unexpected first entry: %q", formatted[0])
	}
	if !strings.Contains(formatted[1], "api unreachable") {
		t.Errorf("expected error fallback, got %q", formatted[1])
	}
}
