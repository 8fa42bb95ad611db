// Package gateway exposes the chat, transcription, and audio endpoints over
// HTTP and WebSocket.
package gateway

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/voicegate/voicegate/internal/log"
	"github.com/voicegate/voicegate/pkg/blob"
	"github.com/voicegate/voicegate/pkg/dispatch"
	"github.com/voicegate/voicegate/pkg/hub"
	"github.com/voicegate/voicegate/pkg/llm"
	"github.com/voicegate/voicegate/pkg/session"
	"github.com/voicegate/voicegate/pkg/stt"
	"github.com/voicegate/voicegate/pkg/tool"
	"github.com/voicegate/voicegate/pkg/tts"
)

// Config holds the gateway's runtime settings.
type Config struct {
	// AuthToken enables bearer-token auth on /api and the WebSocket
	// handshake when non-empty. An empty token disables auth.
	AuthToken string

	// GenerateAudio synthesizes an audio response for each assistant
	// message when a TTS provider is available.
	GenerateAudio bool

	// SweepInterval is how often the janitor prunes idle sessions and
	// expired audio blobs. Zero disables the janitor.
	SweepInterval time.Duration

	// MaxAge is the idle age past which sessions and blobs are pruned.
	MaxAge time.Duration
}

// Deps are the collaborators the gateway routes requests through.
// TTS and STT are optional: endpoints that need them return 503 when nil.
type Deps struct {
	Sessions   *session.Store
	Blobs      *blob.Store
	Registry   *tool.Registry
	Dispatcher *dispatch.Dispatcher
	LLM        llm.Provider
	TTS        tts.Provider
	STT        stt.Transcriber
}

// Server wires the stores, registry, dispatcher, and providers behind a
// fiber app.
type Server struct {
	app  *fiber.App
	cfg  Config
	deps Deps

	// events streams tool and session activity to observer clients.
	events *hub.Hub

	stop chan struct{}
}

// New builds the server and registers all routes.
func New(cfg Config, deps Deps) *Server {
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		events: hub.New("events"),
		stop:   make(chan struct{}),
	}

	app := fiber.New(fiber.Config{
		AppName:               "voicegate",
		DisableStartupMessage: true,
	})

	app.Use(cors.New())

	app.Get("/", s.handleHealth)

	api := app.Group("/api", s.requireAuth)
	api.Post("/chat", s.handleChat)
	api.Post("/transcribe", s.handleTranscribe)
	api.Get("/audio/:id", s.handleAudio)
	api.Get("/tools", s.handleListTools)
	api.Get("/metrics", s.handleMetrics)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/session", websocket.New(s.handleSessionWS))
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	s.app = app
	return s
}

// App exposes the underlying fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start begins serving on addr and blocks until the listener closes.
// The event hub and, when configured, the janitor run for the lifetime
// of the server.
func (s *Server) Start(addr string) error {
	go s.events.Run(s.stop)
	if s.cfg.SweepInterval > 0 {
		go s.runJanitor()
	}
	log.Info("gateway listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the background loops and gracefully closes the listener.
func (s *Server) Shutdown() error {
	close(s.stop)
	return s.app.Shutdown()
}

// requireAuth checks the Authorization header against the configured
// bearer token. Auth is a no-op when no token is configured.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	if s.cfg.AuthToken == "" {
		return c.Next()
	}
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token != s.cfg.AuthToken {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid or missing token",
		})
	}
	return c.Next()
}
