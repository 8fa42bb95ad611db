// voicegate is a chat gateway that lets a language model drive tools:
// it extracts tool invocations from model output, runs them concurrently,
// and folds the results back into the conversation, with optional speech
// synthesis and transcription.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/voicegate/voicegate/internal/config"
	"github.com/voicegate/voicegate/internal/log"
	"github.com/voicegate/voicegate/pkg/blob"
	"github.com/voicegate/voicegate/pkg/dispatch"
	"github.com/voicegate/voicegate/pkg/gateway"
	"github.com/voicegate/voicegate/pkg/llm"
	"github.com/voicegate/voicegate/pkg/session"
	"github.com/voicegate/voicegate/pkg/stt"
	"github.com/voicegate/voicegate/pkg/tool"
	"github.com/voicegate/voicegate/pkg/tools"
	"github.com/voicegate/voicegate/pkg/tts"
)

func main() {
	addr := flag.String("addr", config.Addr(), "listen address")
	flag.Parse()

	log.Init(config.LogLevel())

	model, err := llm.NewClient(
		llm.WithBaseURL(config.LLMBaseURL()),
		llm.WithModel(config.LLMModel()),
		llm.WithAPIKey(config.LLMAPIKey()),
	)
	if err != nil {
		log.Error("llm client setup failed", "error", err)
		os.Exit(1)
	}

	registry := tool.NewRegistry()
	registry.Register(tools.NewCalculator())
	registry.Register(tools.NewClock())
	if key := config.WeatherAPIKey(); key != "" {
		registry.Register(tools.NewWeather(key))
	} else {
		log.Warn("VOICEGATE_WEATHER_API_KEY not set, weather tool disabled")
	}

	server := gateway.New(gateway.Config{
		AuthToken:     config.AuthToken(),
		GenerateAudio: config.GenerateAudio(),
		SweepInterval: config.SweepInterval(),
		MaxAge:        config.MaxAge(),
	}, gateway.Deps{
		Sessions:   session.NewStore(),
		Blobs:      blob.NewStore(),
		Registry:   registry,
		Dispatcher: dispatch.NewDispatcher(registry),
		LLM:        model,
		TTS:        buildTTS(),
		STT:        buildSTT(),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := server.Shutdown(); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}()

	if err := server.Start(*addr); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// buildTTS assembles the synthesis chain from whatever keys are configured.
// OpenAI is preferred, ElevenLabs is the fallback. Returns nil when neither
// key is set, which disables audio responses.
func buildTTS() tts.Provider {
	var providers []tts.Provider

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		p, err := tts.NewOpenAI(tts.WithAPIKey(key))
		if err != nil {
			log.Warn("openai tts setup failed", "error", err)
		} else {
			providers = append(providers, p)
		}
	}
	if key := config.TTSAPIKey(); key != "" {
		p, err := tts.NewElevenLabs(tts.WithAPIKey(key))
		if err != nil {
			log.Warn("elevenlabs tts setup failed", "error", err)
		} else {
			providers = append(providers, p)
		}
	}

	switch len(providers) {
	case 0:
		log.Info("no tts keys configured, audio responses disabled")
		return nil
	case 1:
		return providers[0]
	default:
		chain, err := tts.NewChain(providers...)
		if err != nil {
			return providers[0]
		}
		return chain
	}
}

// buildSTT returns a Whisper transcriber, or nil to disable transcription.
func buildSTT() stt.Transcriber {
	key := config.STTAPIKey()
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		log.Info("no stt key configured, transcription disabled")
		return nil
	}
	w, err := stt.NewWhisper(key)
	if err != nil {
		log.Warn("whisper setup failed", "error", err)
		return nil
	}
	return w
}
