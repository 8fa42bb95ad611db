// Package config provides configuration helpers for voicegate commands.
// All settings come from VOICEGATE_-prefixed environment variables with
// sensible defaults for local development.
package config

import (
	"os"
	"strconv"
	"time"
)

// Default server configuration.
const (
	DefaultAddr          = ":8000"
	DefaultLLMBaseURL    = "http://localhost:11434/v1"
	DefaultLLMModel      = "qwen2.5:32b"
	DefaultSweepInterval = 5 * time.Minute
	DefaultMaxAge        = time.Hour
)

// Addr returns the listen address from VOICEGATE_ADDR.
func Addr() string {
	return getString("VOICEGATE_ADDR", DefaultAddr)
}

// AuthToken returns the bearer token clients must present.
// Empty means authentication is disabled.
func AuthToken() string {
	return os.Getenv("VOICEGATE_AUTH_TOKEN")
}

// LLMBaseURL returns the OpenAI-compatible API base URL.
func LLMBaseURL() string {
	return getString("VOICEGATE_LLM_URL", DefaultLLMBaseURL)
}

// LLMModel returns the chat model name.
func LLMModel() string {
	return getString("VOICEGATE_LLM_MODEL", DefaultLLMModel)
}

// LLMAPIKey returns the API key for the LLM backend.
// Optional for local providers like Ollama.
func LLMAPIKey() string {
	return os.Getenv("VOICEGATE_LLM_API_KEY")
}

// TTSAPIKey returns the API key for the speech synthesis backend.
func TTSAPIKey() string {
	return os.Getenv("VOICEGATE_TTS_API_KEY")
}

// STTAPIKey returns the API key for the transcription backend.
func STTAPIKey() string {
	return os.Getenv("VOICEGATE_STT_API_KEY")
}

// WeatherAPIKey returns the OpenWeatherMap API key for the weather tool.
func WeatherAPIKey() string {
	return os.Getenv("VOICEGATE_WEATHER_API_KEY")
}

// GenerateAudio reports whether chat responses should be synthesized to audio.
func GenerateAudio() bool {
	return getBool("VOICEGATE_GENERATE_AUDIO", false)
}

// SweepInterval returns how often expired sessions and blobs are swept.
func SweepInterval() time.Duration {
	return getDuration("VOICEGATE_SWEEP_INTERVAL", DefaultSweepInterval)
}

// MaxAge returns the maximum idle age before a session or blob is swept.
func MaxAge() time.Duration {
	return getDuration("VOICEGATE_MAX_AGE", DefaultMaxAge)
}

// LogLevel returns the log level (debug, info, warn, error).
func LogLevel() string {
	return getString("VOICEGATE_LOG_LEVEL", "info")
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
