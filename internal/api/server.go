package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Therealjustindude/stack-guide/internal/feedback"
	"github.com/Therealjustindude/stack-guide/internal/upload"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger     *slog.Logger
	Uploads    *upload.Store   // Required
	Feedback   *feedback.Store // Optional: nil disables the feedback API
	Pool       *pgxpool.Pool   // Optional: nil disables pool stats in /ready
	TrustProxy bool            // Trust X-Real-IP/X-Forwarded-For headers (behind reverse proxy)
	RateBurst  int             // Rate limiter burst size per IP (0 = default 60)
}

// Server is the JSON API HTTP server.
type Server struct {
	handler http.Handler
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Uploads == nil {
		return nil, errors.New("upload store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fh := &filesHandler{
		store:  cfg.Uploads,
		logger: logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", root)
	mux.HandleFunc("GET /health", health)
	mux.Handle("GET /ready", readiness(cfg.Uploads.Dir(), cfg.Pool))

	mux.HandleFunc("POST /upload", fh.upload)
	mux.HandleFunc("GET /files", fh.list)

	mux.HandleFunc("GET /api/query", query)

	// Feedback (optional — only registered if a store is provided)
	if cfg.Feedback != nil {
		bh := &feedbackHandler{store: cfg.Feedback, logger: logger}
		mux.HandleFunc("POST /api/feedback", bh.create)
		mux.HandleFunc("GET /api/feedback", bh.list)
	}

	// Rate limiter: per-IP token bucket (1 token/sec refill)
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newRateLimiter(1.0, burst)

	// Build middleware stack (outermost first):
	//   Recovery → RequestID → Logging → CORS → RateLimit → Routes
	// RequestID must be before Logging so request_id is available in log
	// attributes. CORS must be before RateLimit so even throttled responses
	// carry the cross-origin headers the browser UI depends on.
	//
	// The probes bypass the rate limiter: /health must return its fixed 200
	// payload unconditionally, and a throttled liveness check can get a
	// healthy process restarted by its supervisor.
	limited := rateLimitMiddleware(rl, cfg.TrustProxy, logger)(mux)
	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health", "/ready":
			mux.ServeHTTP(w, r)
		default:
			limited.ServeHTTP(w, r)
		}
	})
	handler = corsMiddleware()(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	return &Server{handler: handler}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}
