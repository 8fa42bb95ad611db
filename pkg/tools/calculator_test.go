package tools_test

import (
	"context"
	"math"
	"testing"

	"github.com/voicegate/voicegate/pkg/tools"
)

func TestCalculatorExecute(t *testing.T) {
	calc := tools.NewCalculator()
	ctx := context.Background()

	cases := []struct {
		expr string
		want float64
	}{
		{"15 + 25", 40},
		{"2 * 3 + 4", 10},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 / 4", 2.5},
		{"7 % 3", 1},
		{"2 ^ 10", 1024},
		{"2 ^ 3 ^ 2", 512}, // right associative
		{"-5 + 3", -2},
		{"-(2 + 3)", -5},
		{"sqrt(16)", 4},
		{"abs(-3.5)", 3.5},
		{"min(4, 2, 9)", 2},
		{"max(4, 2, 9)", 9},
		{"pow(2, 8)", 256},
		{"pi", math.Pi},
		{"exp(0)", 1},
		{"log(e)", 1},
	}

	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			result, err := calc.Execute(ctx, map[string]any{"expression": tc.expr})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, ok := result["value"].(float64)
			if !ok {
				t.Fatalf("expected float value, got %T", result["value"])
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestCalculatorErrors(t *testing.T) {
	calc := tools.NewCalculator()
	ctx := context.Background()

	cases := []struct {
		name   string
		params map[string]any
	}{
		{"missing expression", map[string]any{}},
		{"empty expression", map[string]any{"expression": "  "}},
		{"non-string expression", map[string]any{"expression": 42.0}},
		{"division by zero", map[string]any{"expression": "1 / 0"}},
		{"dangling operator", map[string]any{"expression": "2 +"}},
		{"unknown identifier", map[string]any{"expression": "foo"}},
		{"unknown function", map[string]any{"expression": "frob(1)"}},
		{"unbalanced parens", map[string]any{"expression": "(1 + 2"}},
		{"sqrt of negative", map[string]any{"expression": "sqrt(-1)"}},
		{"trailing garbage", map[string]any{"expression": "1 + 2 )"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := calc.Execute(ctx, tc.params); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCalculatorFormat(t *testing.T) {
	calc := tools.NewCalculator()
	result, err := calc.Execute(context.Background(), map[string]any{"expression": "15 + 25"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := calc.Format(result)
	want := "Calculation: 15 + 25 = 40"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
