package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driving"
	"github.com/custodia-labs/paygrade/internal/logger"
)

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = ":8080"

	// DefaultRequestTimeout bounds one query, generation included.
	DefaultRequestTimeout = 2 * time.Minute

	// maxBodyBytes caps the request body.
	maxBodyBytes = 64 << 10
)

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("httpapi: query service is required")

// QueryRequest is the POST /query body.
type QueryRequest struct {
	Query string `json:"query"`
}

// Server serves the query endpoint.
type Server struct {
	query   driving.QueryService
	router  chi.Router
	timeout time.Duration
	mounts  map[string]http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithRequestTimeout overrides DefaultRequestTimeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMount serves handler under pattern, outside the request timeout.
func WithMount(pattern string, handler http.Handler) Option {
	return func(s *Server) { s.mounts[pattern] = handler }
}

// NewServer creates the HTTP server for query.
func NewServer(query driving.QueryService, opts ...Option) (*Server, error) {
	if query == nil {
		return nil, ErrMissingQueryService
	}
	s := &Server{
		query:   query,
		timeout: DefaultRequestTimeout,
		mounts:  make(map[string]http.Handler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.timeout))
		r.Post("/query", s.handleQuery)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Only POST allowed", http.StatusMethodNotAllowed)
	})

	for pattern, h := range s.mounts {
		r.Mount(pattern, h)
	}
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("Listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := s.query.Answer(r.Context(), req.Query)
	if err != nil {
		status := statusFor(err)
		logger.Warn("Query failed (%d): %v", status, err)
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	if result.Records == nil {
		result.Records = []domain.CompensationRecord{}
	}
	if result.SourceLinks == nil {
		result.SourceLinks = []string{}
	}
	writeJSON(w, http.StatusOK, result)
}

// statusFor maps a query error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v) //nolint:errcheck
}

// requestLogger logs each request at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Debug("%s %s %d %s [%s]", r.Method, r.URL.Path, ww.Status(),
			time.Since(start).Round(time.Millisecond), middleware.GetReqID(r.Context()))
	})
}
