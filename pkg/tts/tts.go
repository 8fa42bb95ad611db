// Package tts provides a unified interface for text-to-speech providers.
//
// Synthesized audio is handed to the gateway's blob store for retrieval by
// clients; providers return complete audio buffers. All providers implement
// the Provider interface, enabling seamless switching without changing
// caller code.
//
// Example usage:
//
//	provider, _ := tts.NewOpenAI(
//	    tts.WithAPIKey(os.Getenv("VOICEGATE_TTS_API_KEY")),
//	)
//	defer provider.Close()
//
//	result, _ := provider.Synthesize(ctx, "Hello world")
//	// result.Audio contains MP3/PCM audio bytes
package tts

import "context"

// Provider defines the TTS provider interface.
type Provider interface {
	// Synthesize converts text to audio, returning the complete audio buffer.
	Synthesize(ctx context.Context, text string) (*AudioResult, error)

	// Health checks provider connectivity and API key validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// AudioResult represents a complete audio synthesis result.
type AudioResult struct {
	// Audio contains the raw audio data in the specified format.
	Audio []byte

	// Format describes the audio encoding and sample rate.
	Format AudioFormat

	// CharCount is the number of characters synthesized.
	CharCount int

	// LatencyMs is the synthesis round-trip time in milliseconds.
	LatencyMs int64
}

// AudioFormat describes the audio encoding parameters.
type AudioFormat struct {
	// Encoding specifies the audio codec (e.g., mp3_44100, pcm_24000).
	Encoding Encoding

	// SampleRate in Hz (e.g., 24000, 44100).
	SampleRate int

	// Channels is the channel count (1 for mono).
	Channels int
}

// Encoding identifies an audio codec and rate.
type Encoding string

// Supported encodings.
const (
	EncodingMP3   Encoding = "mp3_44100"
	EncodingPCM24 Encoding = "pcm_24000"
)

// MIMEType returns the HTTP content type for the encoding.
func (e Encoding) MIMEType() string {
	switch e {
	case EncodingMP3:
		return "audio/mp3"
	case EncodingPCM24:
		return "audio/pcm"
	default:
		return "application/octet-stream"
	}
}
