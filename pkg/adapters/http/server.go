package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/stanza/internal/logging"
	"github.com/aretw0/stanza/internal/sanitize"
	"github.com/aretw0/stanza/pkg/domain"
	"github.com/aretw0/stanza/pkg/ports"
	"github.com/aretw0/stanza/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Server exposes the engine and its sessions over HTTP.
type Server struct {
	Engine   ports.Engine
	Sessions *session.Manager
	Streams  *StreamManager

	metrics http.Handler
	version string
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = strings.TrimSpace(v)
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer wires a Server without routing it.
func NewServer(engine ports.Engine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Engine:   engine,
		Sessions: sessions,
		Streams:  NewStreamManager(),
		version:  "unknown",
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger
	return s
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.Engine, sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(engine, sessions, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/chains", s.ListChains)
	r.Get("/output/{file}", s.GetChainDocument)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/choose", s.Choose)
			r.Post("/restart", s.Restart)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StartRequest is the body of POST /sessions and POST /sessions/{id}/restart.
type StartRequest struct {
	SessionID string `json:"session_id,omitempty"`
	ChainID   string `json:"chain_id,omitempty"`
}

// ChooseRequest is the body of POST /sessions/{id}/choose.
type ChooseRequest struct {
	Word string `json:"word"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "stanza-http",
		"version": s.version,
	})
}

// ListChains handles the GET /chains request.
func (s *Server) ListChains(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.Chains(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"chains": ids})
}

// GetChainDocument handles GET /output/chain_{id}.json, serving the raw document.
func (s *Server) GetChainDocument(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	if !strings.HasPrefix(file, "chain_") || !strings.HasSuffix(file, ".json") {
		s.writeError(w, r, fmt.Errorf("%w: %s", domain.ErrChainNotFound, file))
		return
	}
	id := strings.TrimSuffix(strings.TrimPrefix(file, "chain_"), ".json")

	doc, err := s.Engine.Document(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(doc)
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body StartRequest
	if !s.decode(w, r, &body) {
		return
	}
	sessionID := body.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	state, err := s.Sessions.Replace(r.Context(), sessionID, func(ctx context.Context) (*domain.State, error) {
		return s.Engine.Start(ctx, sessionID, body.ChainID)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.publish(state)
	s.writeJSON(w, http.StatusCreated, domain.TurnFor(state))
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, domain.TurnFor(state))
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Choose handles the POST /sessions/{id}/choose request.
func (s *Server) Choose(w http.ResponseWriter, r *http.Request) {
	var body ChooseRequest
	if !s.decode(w, r, &body) {
		return
	}
	word, err := sanitize.Word(body.Word)
	if err != nil {
		s.logger.Warn("Choose: input rejected", "err", err, "size", len(body.Word))
		s.writeStatus(w, http.StatusBadRequest, err)
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	state, err := s.Sessions.Update(r.Context(), sessionID, func(ctx context.Context, current *domain.State) (*domain.State, error) {
		return s.Engine.Choose(ctx, current, word)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.publish(state)
	s.writeJSON(w, http.StatusOK, domain.TurnFor(state))
}

// Restart handles the POST /sessions/{id}/restart request.
func (s *Server) Restart(w http.ResponseWriter, r *http.Request) {
	var body StartRequest
	if !s.decode(w, r, &body) {
		return
	}
	sessionID := chi.URLParam(r, "sessionID")
	state, err := s.Sessions.Update(r.Context(), sessionID, func(ctx context.Context, current *domain.State) (*domain.State, error) {
		return s.Engine.Restart(ctx, current, body.ChainID)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.publish(state)
	s.writeJSON(w, http.StatusOK, domain.TurnFor(state))
}

// publish sends the turn of state to the session's event subscribers.
func (s *Server) publish(state *domain.State) {
	payload, err := json.Marshal(domain.TurnFor(state))
	if err != nil {
		s.logger.Error("failed to encode turn", "err", err)
		return
	}
	s.Streams.Broadcast(state.SessionID, string(payload))
}

// decode reads an optional JSON body. An empty body leaves v untouched.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		s.logger.Warn("invalid request body", "path", r.URL.Path, "err", err)
		s.writeStatus(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrChainNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotOffered):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTraversalDone), errors.Is(err, domain.ErrInvalidChain):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	s.writeStatus(w, status, err)
}

func (s *Server) writeStatus(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
