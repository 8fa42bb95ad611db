package tts

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/voicegate/voicegate/internal/httpc"
)

const (
	elevenLabsWSBaseURL = "wss://api.elevenlabs.io/v1/text-to-speech"
	providerElevenLabs  = "elevenlabs"
)

// DefaultElevenLabsVoice is Rachel, a clear conversational voice.
const DefaultElevenLabsVoice = "21m00Tcm4TlvDq8ikWAM"

// ElevenLabs implements Provider over the ElevenLabs streaming WebSocket
// API. Each Synthesize call opens a stream-input session, sends the text,
// and assembles the audio chunks into a complete buffer.
type ElevenLabs struct {
	config *Config
	logger *slog.Logger
	dialer *websocket.Dialer
}

// NewElevenLabs creates a WebSocket-based ElevenLabs TTS provider.
// An API key and voice ID are required.
func NewElevenLabs(opts ...Option) (*ElevenLabs, error) {
	cfg := DefaultConfig()
	cfg.ModelID = "eleven_turbo_v2_5"
	cfg.VoiceID = DefaultElevenLabsVoice
	cfg.OutputFormat = EncodingPCM24
	cfg.Apply(opts...)

	if err := cfg.ValidateWithVoice(); err != nil {
		return nil, err
	}

	return &ElevenLabs{
		config: cfg,
		logger: cfg.Logger.With("component", "tts.elevenlabs"),
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
	}, nil
}

// wsMessage is one frame of the stream-input protocol.
type wsMessage struct {
	Audio   string `json:"audio,omitempty"`
	IsFinal bool   `json:"isFinal,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Synthesize converts text to audio over a one-shot WebSocket session.
func (e *ElevenLabs) Synthesize(ctx context.Context, text string) (*AudioResult, error) {
	start := time.Now()

	url := fmt.Sprintf("%s/%s/stream-input?model_id=%s&output_format=%s",
		e.wsBaseURL(), e.config.VoiceID, e.config.ModelID, e.apiFormat())

	headers := http.Header{}
	headers.Set("xi-api-key", e.config.APIKey)

	conn, resp, err := e.dialer.DialContext(ctx, url, headers)
	if err != nil {
		if resp != nil {
			return nil, WrapError(providerElevenLabs,
				fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err))
		}
		return nil, WrapError(providerElevenLabs, fmt.Errorf("websocket dial failed: %w", err))
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
		conn.SetWriteDeadline(deadline)
	} else {
		conn.SetReadDeadline(time.Now().Add(e.config.Timeout))
		conn.SetWriteDeadline(time.Now().Add(e.config.Timeout))
	}

	// Begin of stream, then the text, then end of stream.
	frames := []map[string]any{
		{"text": " "},
		{"text": text, "try_trigger_generation": true},
		{"text": ""},
	}
	for _, frame := range frames {
		if err := conn.WriteJSON(frame); err != nil {
			return nil, WrapError(providerElevenLabs, fmt.Errorf("send frame: %w", err))
		}
	}

	var audio []byte
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				break
			}
			return nil, WrapError(providerElevenLabs, fmt.Errorf("read frame: %w", err))
		}
		if msg.Error != "" {
			return nil, WrapError(providerElevenLabs, fmt.Errorf("api error: %s", msg.Error))
		}
		if msg.Audio != "" {
			chunk, err := base64.StdEncoding.DecodeString(msg.Audio)
			if err != nil {
				return nil, WrapError(providerElevenLabs, fmt.Errorf("decode audio chunk: %w", err))
			}
			audio = append(audio, chunk...)
		}
		if msg.IsFinal {
			break
		}
	}

	latency := time.Since(start).Milliseconds()
	e.logger.Debug("synthesized audio",
		"chars", len(text),
		"bytes", len(audio),
		"latency_ms", latency,
		"voice", e.config.VoiceID,
	)

	return &AudioResult{
		Audio:     audio,
		Format:    e.outputFormat(),
		CharCount: len(text),
		LatencyMs: latency,
	}, nil
}

// Health verifies the API key against the voices endpoint.
func (e *ElevenLabs) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://api.elevenlabs.io/v1/voices", nil)
	if err != nil {
		return WrapError(providerElevenLabs, err)
	}
	req.Header.Set("xi-api-key", e.config.APIKey)

	resp, err := httpc.Do(req)
	if err != nil {
		return WrapError(providerElevenLabs, fmt.Errorf("health check: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    "voices endpoint rejected request",
			Provider:   providerElevenLabs,
		}
	}
	return nil
}

// Close releases resources. Connections are per-call, so this is a no-op.
func (e *ElevenLabs) Close() error {
	return nil
}

func (e *ElevenLabs) wsBaseURL() string {
	if e.config.BaseURL != "" {
		return e.config.BaseURL
	}
	return elevenLabsWSBaseURL
}

func (e *ElevenLabs) apiFormat() string {
	switch e.config.OutputFormat {
	case EncodingMP3:
		return "mp3_44100_128"
	default:
		return "pcm_24000"
	}
}

func (e *ElevenLabs) outputFormat() AudioFormat {
	switch e.config.OutputFormat {
	case EncodingMP3:
		return AudioFormat{Encoding: EncodingMP3, SampleRate: 44100, Channels: 1}
	default:
		return AudioFormat{Encoding: EncodingPCM24, SampleRate: 24000, Channels: 1}
	}
}

// Verify ElevenLabs implements Provider at compile time.
var _ Provider = (*ElevenLabs)(nil)
