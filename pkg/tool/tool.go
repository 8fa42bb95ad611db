// Package tool defines the capability contract for functions the language
// model can invoke during a conversation, and a registry that holds them.
//
// A tool is a named operation with a declared parameter schema. The model
// requests an invocation either through a native tool_calls field or by
// embedding a call marker in its reply text; the dispatch package turns
// those requests into Execute calls against the registry.
//
// Example:
//
//	reg := tool.NewRegistry()
//	reg.Register(tools.NewCalculator())
//
//	t, ok := reg.Get("calculator")
//	if ok {
//	    result, err := t.Execute(ctx, map[string]any{"expression": "2+2"})
//	    ...
//	}
package tool

import "context"

// Tool is a named capability the model can invoke with structured parameters.
type Tool interface {
	// Name is the unique registry key for this tool (e.g., "calculator").
	Name() string

	// Description explains what the tool does, helping the model decide
	// when to use it.
	Description() string

	// Parameters returns the JSON-schema style description of accepted
	// parameters. The returned map must not be mutated by callers.
	Parameters() map[string]any

	// Execute runs the tool with the given parameters and returns a
	// structured result. Missing or malformed parameters are reported
	// via the error return; no schema validation happens beforehand.
	Execute(ctx context.Context, params map[string]any) (map[string]any, error)

	// Format renders a successful Execute result as a human/model-readable
	// string for inclusion in a follow-up prompt.
	Format(result map[string]any) string
}

// Manifest is an immutable snapshot of a tool's identity and schema,
// serialized into the model's system instructions.
type Manifest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ManifestOf builds the manifest for a tool.
func ManifestOf(t Tool) Manifest {
	return Manifest{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters:  t.Parameters(),
	}
}
