package dispatch

import (
	"encoding/json"
	"regexp"

	"github.com/voicegate/voicegate/internal/log"
	"github.com/voicegate/voicegate/pkg/llm"
)

// markerPattern matches call markers of the form @name({...}).
//
// The body is a flat JSON object: the first '}' terminates the match, so
// nested objects inside parameters are not supported. This is a deliberate
// simplification of the wire format, not a bug. The pattern will also match
// accidental markers in ordinary prose; there is no escaping for a literal
// "@name(" in user-authored text.
var markerPattern = regexp.MustCompile(`@(\w+)\s*\(\s*(\{[^}]*\})\s*\)`)

// Extract scans text for call markers and returns one Call per well-formed
// marker, in left-to-right order. A marker whose JSON body fails to parse is
// logged and skipped; the remaining markers are still extracted. Text with
// no markers yields an empty slice.
func Extract(text string) []Call {
	matches := markerPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	calls := make([]Call, 0, len(matches))
	for _, m := range matches {
		name, body := m[1], m[2]

		var params map[string]any
		if err := json.Unmarshal([]byte(body), &params); err != nil {
			log.Warn("skipping malformed call marker",
				"tool", name,
				"body", body,
				"error", err,
			)
			continue
		}

		calls = append(calls, Call{Name: name, Parameters: params})
	}

	log.Debug("extracted tool calls", "count", len(calls))
	return calls
}

// ExtractFromResponse extracts calls from a model response. When the provider
// returned native tool calls, those are used and the reply text is not
// scanned; marker scanning is a fallback for markup-only providers, never
// merged with the native list.
func ExtractFromResponse(resp *llm.ChatResponse) []Call {
	if resp == nil {
		return nil
	}

	if len(resp.Message.ToolCalls) > 0 {
		calls := make([]Call, 0, len(resp.Message.ToolCalls))
		for _, tc := range resp.Message.ToolCalls {
			params := map[string]any{}
			if tc.Arguments != "" {
				if err := json.Unmarshal([]byte(tc.Arguments), &params); err != nil {
					log.Warn("skipping native tool call with malformed arguments",
						"tool", tc.Name,
						"error", err,
					)
					continue
				}
			}
			calls = append(calls, Call{Name: tc.Name, Parameters: params})
		}
		return calls
	}

	return Extract(resp.Message.Content)
}
