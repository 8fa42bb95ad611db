package llm

// Role defines message roles in a conversation.
type Role string

const (
	// RoleSystem is for system instructions.
	RoleSystem Role = "system"

	// RoleUser is for user messages.
	RoleUser Role = "user"

	// RoleAssistant is for assistant responses.
	RoleAssistant Role = "assistant"

	// RoleTool is for tool/function results.
	RoleTool Role = "tool"
)

// Message represents a chat message in a conversation.
type Message struct {
	// Role identifies the message sender.
	Role Role

	// Content is the text content of the message.
	Content string

	// ToolCalls are native function calls requested by the assistant.
	// Providers without native function calling leave this empty and
	// embed call markers in Content instead.
	ToolCalls []ToolCall
}

// ToolCall represents a native function call request from the model.
type ToolCall struct {
	// ID uniquely identifies this tool call.
	ID string

	// Name of the function to call.
	Name string

	// Arguments as a JSON string.
	Arguments string
}

// ChatRequest is a chat completion request.
type ChatRequest struct {
	// Model overrides the provider's default model when non-empty.
	Model string

	// Messages is the conversation so far, oldest first.
	Messages []Message

	// MaxTokens overrides the provider default when non-nil.
	MaxTokens *int

	// Temperature overrides the provider default when non-nil. Nil and
	// an explicit zero are distinct: zero requests greedy decoding.
	Temperature *float64
}

// ChatResponse is a chat completion result.
type ChatResponse struct {
	// Message is the assistant's reply.
	Message Message

	// FinishReason reports why generation stopped.
	FinishReason string

	// Usage reports token accounting when the provider supplies it.
	Usage Usage

	// Model is the model that produced the response.
	Model string

	// LatencyMs is the request round-trip time in milliseconds.
	LatencyMs int64
}

// Usage reports token consumption for a request.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
