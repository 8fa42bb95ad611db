package gateway

import (
	"context"
	"strings"

	"github.com/voicegate/voicegate/internal/log"
	"github.com/voicegate/voicegate/pkg/dispatch"
	"github.com/voicegate/voicegate/pkg/llm"
)

// turnResult is the outcome of one user turn through the model and tools.
type turnResult struct {
	Message string
	Calls   []dispatch.Call
	Results []dispatch.Result
	AudioID string
}

// resolveSession returns an existing session's id or creates a fresh one.
// Unknown ids are treated as expired and replaced rather than rejected, so
// clients holding a swept id keep working with a new conversation.
func (s *Server) resolveSession(id string) string {
	if id != "" {
		if _, ok := s.deps.Sessions.Get(id); ok {
			return id
		}
		log.Debug("unknown session id, starting fresh", "session_id", id)
	}
	created := s.deps.Sessions.Create()
	s.events.Publish("session_created", map[string]any{"session_id": created})
	return created
}

// runTurn drives a single conversational turn: record the user message,
// ask the model, execute any tool calls it requested, fold the results into
// a follow-up completion, and optionally synthesize audio for the reply.
// priorCalls are caller-supplied invocations executed before the first
// model call, their results offered as context.
func (s *Server) runTurn(ctx context.Context, sessionID, userText string, priorCalls []dispatch.Call) (*turnResult, error) {
	s.deps.Sessions.AppendMessage(sessionID, string(llm.RoleUser), userText)

	messages := s.buildMessages(sessionID)
	if len(priorCalls) > 0 {
		results := s.deps.Dispatcher.Process(ctx, priorCalls)
		s.publishDispatch(sessionID, results)
		formatted := dispatch.FormattedResults(results)
		messages = append(messages, llm.NewSystemMessage(llm.ToolContext(formatted)))
	}

	resp, err := s.deps.LLM.Chat(ctx, &llm.ChatRequest{Messages: messages})
	if err != nil {
		return nil, err
	}

	turn := &turnResult{Message: resp.Message.Content}
	turn.Calls = dispatch.ExtractFromResponse(resp)

	if len(turn.Calls) > 0 {
		turn.Results = s.deps.Dispatcher.Process(ctx, turn.Calls)
		formatted := dispatch.FormattedResults(turn.Results)
		s.publishDispatch(sessionID, turn.Results)

		followUp := append(messages,
			llm.NewAssistantMessage(resp.Message.Content),
			llm.NewSystemMessage(llm.ToolContext(formatted)),
		)
		final, err := s.deps.LLM.Chat(ctx, &llm.ChatRequest{Messages: followUp})
		if err != nil {
			// The tool results already answer the request, so surface
			// them directly instead of failing the whole turn.
			log.Warn("follow-up completion failed, replying with tool output", "error", err)
			turn.Message = strings.Join(formatted, "\n")
		} else {
			turn.Message = final.Message.Content
		}
	}

	s.deps.Sessions.AppendMessage(sessionID, string(llm.RoleAssistant), turn.Message)

	if s.cfg.GenerateAudio && s.deps.TTS != nil && turn.Message != "" {
		audio, err := s.deps.TTS.Synthesize(ctx, turn.Message)
		if err != nil {
			log.Warn("audio synthesis failed", "session_id", sessionID, "error", err)
		} else {
			turn.AudioID = s.deps.Blobs.PutForSession(sessionID, audio.Audio)
		}
	}

	return turn, nil
}

// publishDispatch pushes a summary of one tool batch to event observers.
func (s *Server) publishDispatch(sessionID string, results []dispatch.Result) {
	tools := make([]string, 0, len(results))
	errors := 0
	for _, r := range results {
		tools = append(tools, r.Tool)
		if r.Status == dispatch.StatusError {
			errors++
		}
	}
	s.events.Publish("tool_dispatch", map[string]any{
		"session_id": sessionID,
		"tools":      tools,
		"errors":     errors,
	})
}

// buildMessages assembles the completion transcript: the tool-aware system
// prompt followed by the session history.
func (s *Server) buildMessages(sessionID string) []llm.Message {
	history := s.deps.Sessions.History(sessionID)

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.NewSystemMessage(llm.SystemPrompt(s.deps.Registry.Manifests())))
	for _, m := range history {
		messages = append(messages, llm.Message{
			Role:    llm.Role(m.Role),
			Content: m.Content,
		})
	}
	return messages
}
