package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/interfaces"
)

// config holds internal HTTP server configuration
type config struct {
	addr          string
	spokenReplies bool
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithSpokenReplies makes the chat endpoint speak each reply aloud
func WithSpokenReplies(enabled bool) Option {
	return func(c *config) {
		c.spokenReplies = enabled
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	assistantUC interfaces.AssistantUseCase,
	speaker interfaces.Speaker,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr: "127.0.0.1:8990",
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	// Health check
	router.Get("/health", handleHealth)

	// Assistant endpoints
	chatHandler := NewChatHandler(assistantUC, speaker, cfg.spokenReplies)
	router.Post("/api/chat", chatHandler.HandleChat)
	router.Post("/api/say", chatHandler.HandleSay)

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
