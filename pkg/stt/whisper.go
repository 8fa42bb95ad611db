package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/voicegate/voicegate/internal/httpc"
)

const defaultWhisperURL = "https://api.openai.com/v1"

// ErrNoAPIKey is returned when the API key is missing.
var ErrNoAPIKey = errors.New("stt: API key required")

// Whisper implements Transcriber over an OpenAI-compatible
// /audio/transcriptions endpoint.
type Whisper struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

// WhisperOption configures a Whisper client.
type WhisperOption func(*Whisper)

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) WhisperOption {
	return func(w *Whisper) { w.baseURL = strings.TrimSuffix(url, "/") }
}

// WithModel sets the transcription model.
func WithModel(model string) WhisperOption {
	return func(w *Whisper) { w.model = model }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) WhisperOption {
	return func(w *Whisper) { w.logger = l }
}

// NewWhisper creates a Whisper transcription client.
func NewWhisper(apiKey string, opts ...WhisperOption) (*Whisper, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	w := &Whisper{
		baseURL: defaultWhisperURL,
		apiKey:  apiKey,
		model:   "whisper-1",
		client:  httpc.NewClient(60 * time.Second),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("component", "stt.whisper")
	return w, nil
}

// Transcribe uploads the audio as multipart form data and returns the text.
func (w *Whisper) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	start := time.Now()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", "audio."+format)
	if err != nil {
		return "", fmt.Errorf("stt: create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("stt: write audio: %w", err)
	}
	if err := mw.WriteField("model", w.model); err != nil {
		return "", fmt.Errorf("stt: write model field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("stt: close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		w.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("stt: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("stt: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("stt: API error %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("stt: decode response: %w", err)
	}

	w.logger.Debug("transcribed audio",
		"bytes", len(audio),
		"format", format,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return result.Text, nil
}

// Verify Whisper implements Transcriber at compile time.
var _ Transcriber = (*Whisper)(nil)
