// Package stt provides speech-to-text transcription behind a narrow
// interface, with an OpenAI-compatible Whisper client as the default
// implementation.
package stt

import "context"

// Transcriber converts audio bytes into text.
type Transcriber interface {
	// Transcribe converts audio in the named container format ("wav",
	// "mp3", "webm", ...) into text.
	Transcribe(ctx context.Context, audio []byte, format string) (string, error)
}
