package services

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/hireloop/backend/store"
	ws "github.com/hireloop/backend/websocket"
)

// Server holds all server dependencies
type Server struct {
	config             *Config
	store              *store.TranscriptStore
	geminiService      *GeminiService
	interviewEndpoints *InterviewEndpoints
	websocketHandler   *WebSocketHandler
	wsHub              *ws.Hub
	upgrader           websocket.Upgrader
}

// NewServer creates a new server instance
func NewServer(config *Config) *Server {
	return &Server{
		config: config,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return CheckOrigin(r, config.WebSocket.AllowedOrigins)
			},
		},
	}
}

// InitializeServices initializes all server services
func (s *Server) InitializeServices(ctx context.Context) error {
	s.store = store.NewTranscriptStore()

	if s.config.AI.GeminiAPIKey != "" {
		gemini, err := NewGeminiService(ctx, s.config.AI.GeminiAPIKey, s.config.AI.Model)
		if err != nil {
			return err
		}
		s.geminiService = gemini
		slog.Info("Gemini service initialized", "model", s.config.AI.Model)
	} else {
		slog.Warn("Gemini API key not configured, AI endpoints will fail")
	}

	questions := NewQuestionGenerator(s.geminiService)
	interviewer := NewInterviewer(s.geminiService)
	scorer := NewScorer(s.geminiService)
	extractor := NewFileExtractor(s.config.Upload.MaxBytes)

	newDriver := func() *ConversationDriver {
		return NewConversationDriver(s.store, interviewer, scorer)
	}
	s.interviewEndpoints = NewInterviewEndpoints(s.store, questions, extractor, newDriver)
	s.websocketHandler = NewWebSocketHandler(s.interviewEndpoints)

	s.wsHub = ws.NewHub()
	go s.wsHub.Run()

	return nil
}

// SetupRoutes configures all HTTP routes
func (s *Server) SetupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health endpoint
	r.Get("/health", s.healthHandler)

	// API v1 route group
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ws", s.websocketHandlerFunc)
		s.interviewEndpoints.RegisterRoutes(r)
	})

	return r
}

// Start starts the HTTP server
func (s *Server) Start() {
	port := s.config.Server.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: s.SetupRoutes(),
	}

	// Graceful shutdown
	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

// CheckOrigin validates the origin of WebSocket connections to prevent CSRF attacks
func CheckOrigin(r *http.Request, allowedOriginsStr string) bool {
	origin := r.Header.Get("Origin")

	// If no allowed origins are configured, deny all requests for security
	if allowedOriginsStr == "" {
		slog.Warn("WebSocket connection rejected: no allowed origins configured", "origin", origin)
		return false
	}

	// Parse allowed origins (comma-separated list)
	allowedOrigins := strings.Split(allowedOriginsStr, ",")

	// Trim whitespace from origins
	for i := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(allowedOrigins[i])
	}

	// Check if origin is in allowed list
	for _, allowed := range allowedOrigins {
		if allowed == origin {
			slog.Info("WebSocket connection accepted", "origin", origin)
			return true
		}
	}

	slog.Warn("WebSocket connection rejected: origin not allowed", "origin", origin, "allowed_origins", allowedOriginsStr)
	return false
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	aiStatus := "not configured"
	if s.geminiService != nil {
		aiStatus = "configured"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok","ai":"` + aiStatus + `"}`))

	slog.Info("Health check", "ai", aiStatus)
}

func (s *Server) websocketHandlerFunc(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}

	client := s.wsHub.RegisterClient(conn)
	client.MessageHandler = s.websocketHandler.HandleWebSocketMessage

	slog.Info("WebSocket connection established", "conn_id", client.ConnID)

	go client.WritePump()
	client.ReadPump()
}
