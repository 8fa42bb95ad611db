package tts_test

import (
	"context"
	"errors"
	"testing"

	"github.com/voicegate/voicegate/pkg/tts"
)

func TestMockProvider(t *testing.T) {
	mock := tts.NewMock()
	ctx := context.Background()

	t.Run("Synthesize returns audio", func(t *testing.T) {
		result, err := mock.Synthesize(ctx, "Hello world")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Audio) == 0 {
			t.Error("expected audio data")
		}
		if result.CharCount != 11 {
			t.Errorf("expected 11 chars, got %d", result.CharCount)
		}
		if result.Format.SampleRate != 24000 {
			t.Errorf("expected 24000 sample rate, got %d", result.Format.SampleRate)
		}
	})

	t.Run("Health returns nil", func(t *testing.T) {
		if err := mock.Health(ctx); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Calls are tracked", func(t *testing.T) {
		if mock.CallCount("Synthesize") != 1 {
			t.Errorf("expected 1 Synthesize call, got %d", mock.CallCount("Synthesize"))
		}
		mock.Reset()
		if len(mock.Calls()) != 0 {
			t.Error("expected calls to be cleared")
		}
	})
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	testErr := errors.New("provider down")

	t.Run("requires at least one provider", func(t *testing.T) {
		if _, err := tts.NewChain(); !errors.Is(err, tts.ErrProviderUnavailable) {
			t.Errorf("expected ErrProviderUnavailable, got %v", err)
		}
	})

	t.Run("first success wins", func(t *testing.T) {
		primary := tts.NewMock()
		fallback := tts.NewMock()

		chain, err := tts.NewChain(primary, fallback)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := chain.Synthesize(ctx, "hi"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fallback.CallCount("Synthesize") != 0 {
			t.Error("fallback should not have been tried")
		}
	})

	t.Run("falls through to next provider", func(t *testing.T) {
		chain, _ := tts.NewChain(tts.WithError(testErr), tts.NewMock())

		result, err := chain.Synthesize(ctx, "hi")
		if err != nil {
			t.Fatalf("expected fallback to succeed, got %v", err)
		}
		if len(result.Audio) == 0 {
			t.Error("expected audio from fallback")
		}
	})

	t.Run("all failing yields ChainError", func(t *testing.T) {
		chain, _ := tts.NewChain(tts.WithError(testErr), tts.WithError(testErr))

		_, err := chain.Synthesize(ctx, "hi")
		var chainErr *tts.ChainError
		if !errors.As(err, &chainErr) {
			t.Fatalf("expected ChainError, got %v", err)
		}
		if len(chainErr.Errors) != 2 {
			t.Errorf("expected 2 aggregated errors, got %d", len(chainErr.Errors))
		}
	})
}

func TestEncodingMIMEType(t *testing.T) {
	if got := tts.EncodingMP3.MIMEType(); got != "audio/mp3" {
		t.Errorf("unexpected mime type %q", got)
	}
	if got := tts.Encoding("other").MIMEType(); got != "application/octet-stream" {
		t.Errorf("unexpected mime type %q", got)
	}
}
