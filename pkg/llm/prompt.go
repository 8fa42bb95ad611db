package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/voicegate/voicegate/pkg/tool"
)

// SystemPrompt builds the system instructions for a conversation, embedding
// the manifest of every registered tool so the model knows what it can call
// and how to format a call marker.
func SystemPrompt(manifests []tool.Manifest) string {
	var b strings.Builder
	b.WriteString("You are a helpful voice assistant with tool access.\n")

	if len(manifests) > 0 {
		b.WriteString("\nAvailable tools:\n")
		for _, m := range manifests {
			schema, _ := json.Marshal(m.Parameters)
			fmt.Fprintf(&b, "- %s: %s\n  parameters: %s\n", m.Name, m.Description, schema)
		}
		b.WriteString("\nTo invoke a tool, include a marker of the form ")
		b.WriteString(`@tool_name({"param": "value"}) in your reply. `)
		b.WriteString("The parameter object must be flat JSON with no nested objects.\n")
	}

	return b.String()
}

// ToolContext renders formatted tool results as an additional user-visible
// context message for a follow-up generation call.
func ToolContext(formatted []string) string {
	if len(formatted) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Tool results:\n")
	for _, f := range formatted {
		b.WriteString(f)
		b.WriteString("\n")
	}
	b.WriteString("Answer the user using these results. Do not invoke further tools.")
	return b.String()
}
