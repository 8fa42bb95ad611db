package gateway

import (
	"github.com/gofiber/fiber/v2"

	"github.com/voicegate/voicegate/internal/log"
	"github.com/voicegate/voicegate/pkg/blob"
	"github.com/voicegate/voicegate/pkg/dispatch"
	"github.com/voicegate/voicegate/pkg/llm"
	"github.com/voicegate/voicegate/pkg/tts"
)

// ChatRequest is the body for POST /api/chat. ToolCalls are optional
// caller-supplied invocations executed before the model sees the message.
type ChatRequest struct {
	Message   string          `json:"message"`
	SessionID string          `json:"session_id"`
	ToolCalls []dispatch.Call `json:"tool_calls,omitempty"`
}

// ChatResponse is the reply for POST /api/chat.
type ChatResponse struct {
	Message         string            `json:"message"`
	SessionID       string            `json:"session_id"`
	ToolCalls       []dispatch.Call   `json:"tool_calls,omitempty"`
	ToolResults     []dispatch.Result `json:"tool_results,omitempty"`
	AudioResponseID string            `json:"audio_response_id,omitempty"`
}

// TranscribeRequest is the body for POST /api/transcribe. AudioData carries
// base64-encoded audio, with or without a data-URL prefix.
type TranscribeRequest struct {
	AudioData string `json:"audio_data"`
	SessionID string `json:"session_id"`
	Format    string `json:"format"`
}

// TranscribeResponse is the reply for POST /api/transcribe.
type TranscribeResponse struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "running",
		"service":  "voicegate",
		"sessions": s.deps.Sessions.Len(),
		"blobs":    s.deps.Blobs.Len(),
	})
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "message is required",
		})
	}

	sessionID := s.resolveSession(req.SessionID)

	turn, err := s.runTurn(c.Context(), sessionID, req.Message, req.ToolCalls)
	if err != nil {
		log.Error("chat turn failed", "session_id", sessionID, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "language model request failed",
		})
	}

	return c.JSON(ChatResponse{
		Message:         turn.Message,
		SessionID:       sessionID,
		ToolCalls:       turn.Calls,
		ToolResults:     turn.Results,
		AudioResponseID: turn.AudioID,
	})
}

func (s *Server) handleTranscribe(c *fiber.Ctx) error {
	if s.deps.STT == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "transcription is not configured",
		})
	}

	var req TranscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.AudioData == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "audio_data is required",
		})
	}
	if req.Format == "" {
		req.Format = "wav"
	}

	audio := blob.DecodePayload(req.AudioData)
	text, err := s.deps.STT.Transcribe(c.Context(), audio, req.Format)
	if err != nil {
		log.Error("transcription failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "transcription failed",
		})
	}

	// The transcript is a user turn; record it so a follow-up chat on the
	// same session sees it in history. Empty transcripts are not recorded.
	sessionID := s.resolveSession(req.SessionID)
	if text != "" {
		s.deps.Sessions.AppendMessage(sessionID, string(llm.RoleUser), text)
	}

	return c.JSON(TranscribeResponse{
		Text:      text,
		SessionID: sessionID,
	})
}

func (s *Server) handleAudio(c *fiber.Ctx) error {
	id := c.Params("id")
	data, ok := s.deps.Blobs.Get(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "audio not found",
		})
	}

	c.Set(fiber.HeaderContentType, tts.EncodingMP3.MIMEType())
	c.Set(fiber.HeaderCacheControl, "no-cache")
	return c.Send(data)
}

func (s *Server) handleListTools(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"tools": s.deps.Registry.Manifests(),
	})
}

func (s *Server) handleMetrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"dispatch":  s.deps.Dispatcher.Metrics(),
		"sessions":  s.deps.Sessions.Len(),
		"blobs":     s.deps.Blobs.Len(),
		"observers": s.events.ClientCount(),
	})
}
