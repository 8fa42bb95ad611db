package gateway

import (
	"context"

	"github.com/gofiber/websocket/v2"

	"github.com/voicegate/voicegate/internal/log"
	"github.com/voicegate/voicegate/pkg/blob"
	"github.com/voicegate/voicegate/pkg/hub"
)

// wsHello is the first frame a client sends after connecting.
type wsHello struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
}

// wsFrame is a client frame after the handshake. Type selects the payload:
// "chat" uses Message, "audio" uses AudioData and Format.
type wsFrame struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	AudioData string `json:"audio_data"`
	Format    string `json:"format"`
}

// handleSessionWS runs a bidirectional conversation over one connection.
// The client authenticates with its first frame, then alternates chat and
// audio frames; each reply carries a type discriminator so clients can
// multiplex transcriptions, messages, and audio pointers.
func (s *Server) handleSessionWS(c *websocket.Conn) {
	defer c.Close()

	var hello wsHello
	if err := c.ReadJSON(&hello); err != nil {
		log.Debug("websocket handshake failed", "error", err)
		return
	}
	if s.cfg.AuthToken != "" && hello.Token != s.cfg.AuthToken {
		c.WriteJSON(map[string]string{"type": "error", "error": "invalid or missing token"})
		c.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthorized"))
		return
	}

	sessionID := s.resolveSession(hello.SessionID)
	if err := c.WriteJSON(map[string]string{"type": "connected", "session_id": sessionID}); err != nil {
		return
	}
	log.Info("websocket session opened", "session_id", sessionID)
	defer log.Info("websocket session closed", "session_id", sessionID)

	for {
		var frame wsFrame
		if err := c.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("websocket read error", "session_id", sessionID, "error", err)
			}
			return
		}

		switch frame.Type {
		case "chat":
			s.wsChat(c, sessionID, frame.Message)
		case "audio":
			s.wsAudio(c, sessionID, frame)
		default:
			c.WriteJSON(map[string]string{"type": "error", "error": "unknown message type"})
		}
	}
}

// handleEventsWS attaches an observer to the event hub. Observers
// authenticate with a token frame like session clients.
func (s *Server) handleEventsWS(c *websocket.Conn) {
	defer c.Close()

	var hello wsHello
	if err := c.ReadJSON(&hello); err != nil {
		return
	}
	if s.cfg.AuthToken != "" && hello.Token != s.cfg.AuthToken {
		c.WriteJSON(map[string]string{"type": "error", "error": "invalid or missing token"})
		return
	}

	hub.NewClient(s.events, c).Run()
}

func (s *Server) wsChat(c *websocket.Conn, sessionID, message string) {
	if message == "" {
		c.WriteJSON(map[string]string{"type": "error", "error": "message is required"})
		return
	}

	turn, err := s.runTurn(context.Background(), sessionID, message, nil)
	if err != nil {
		log.Error("chat turn failed", "session_id", sessionID, "error", err)
		c.WriteJSON(map[string]string{"type": "error", "error": "language model request failed"})
		return
	}

	c.WriteJSON(map[string]any{
		"type":         "chat_response",
		"message":      turn.Message,
		"tool_results": turn.Results,
	})
	if turn.AudioID != "" {
		c.WriteJSON(map[string]string{"type": "audio_response", "audio_id": turn.AudioID})
	}
}

func (s *Server) wsAudio(c *websocket.Conn, sessionID string, frame wsFrame) {
	if s.deps.STT == nil {
		c.WriteJSON(map[string]string{"type": "error", "error": "transcription is not configured"})
		return
	}
	if frame.AudioData == "" {
		c.WriteJSON(map[string]string{"type": "error", "error": "audio_data is required"})
		return
	}
	format := frame.Format
	if format == "" {
		format = "wav"
	}

	audio := blob.DecodePayload(frame.AudioData)
	text, err := s.deps.STT.Transcribe(context.Background(), audio, format)
	if err != nil {
		log.Error("transcription failed", "session_id", sessionID, "error", err)
		c.WriteJSON(map[string]string{"type": "error", "error": "transcription failed"})
		return
	}

	c.WriteJSON(map[string]string{"type": "transcription", "text": text})
	s.wsChat(c, sessionID, text)
}
