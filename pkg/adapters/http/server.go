package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// App is the part of wayfinder.App the server drives.
type App interface {
	Snapshot() wayfinder.Snapshot
	Back(ctx context.Context) (ports.Navigator, error)
	HandleIncomingURL(ctx context.Context, u *url.URL) (bool, error)
	SelectTab(ctx context.Context, id domain.TabID, popToRoot bool) (*wayfinder.Coordinator, error)
}

var _ App = (*wayfinder.App)(nil)

// TreeEvent is streamed to /events subscribers whenever the tree changes.
type TreeEvent struct {
	Tab      domain.TabID         `json:"tab,omitempty"`
	Selected domain.TabID         `json:"selected,omitempty"`
	Diff     *domain.SnapshotDiff `json:"diff,omitempty"`
}

// Server exposes the navigation tree over HTTP and streams its changes.
type Server struct {
	App     App
	Store   ports.StateStore
	Streams *TreeHub

	metrics http.Handler
	logger  *slog.Logger
	changed chan struct{}

	mu   sync.Mutex
	last wayfinder.Snapshot
}

// Option configures a Server.
type Option func(*Server)

// WithStateStore enables the /requirements endpoints.
func WithStateStore(store ports.StateStore) Option {
	return func(s *Server) {
		s.Store = store
	}
}

// WithMetrics mounts handler on /metrics.
func WithMetrics(handler http.Handler) Option {
	return func(s *Server) {
		s.metrics = handler
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server for app.
func NewServer(app App, opts ...Option) *Server {
	s := &Server{
		App:     app,
		changed: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.Streams = NewTreeHub(s.logger)
	s.last = app.Snapshot()
	return s
}

// NewHandler creates a new HTTP handler for app.
func NewHandler(app App, opts ...Option) http.Handler {
	return NewServer(app, opts...).Handler()
}

// Handler returns the routes of s.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/tree", s.GetTree)
	r.Get("/events", s.SubscribeEvents)
	r.Post("/back", s.Back)
	r.Post("/deeplink", s.OpenDeeplink)
	r.Post("/tabs/{id}", s.SelectTab)

	r.Route("/requirements", func(r chi.Router) {
		r.Get("/", s.ListRequirements)
		r.Put("/{id}", s.SetRequirement)
		r.Delete("/{id}", s.DeleteRequirement)
	})

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Notify schedules a tree diff for the Run loop. It never blocks, so it can
// be called from lifecycle hooks.
func (s *Server) Notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// Run publishes the changes signalled by Notify until ctx is done.
func (s *Server) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.changed:
			s.Publish()
		}
	}
}

// Publish broadcasts the difference between the last published tree and the current one.
func (s *Server) Publish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.App.Snapshot()
	if current.Selected != s.last.Selected {
		s.Streams.Publish(TreeEvent{Selected: current.Selected})
	}

	previous := make(map[domain.TabID]domain.CoordinatorSnapshot, len(s.last.Tabs))
	for _, t := range s.last.Tabs {
		previous[t.ID] = t.Coordinator
	}
	for _, t := range current.Tabs {
		var diff *domain.SnapshotDiff
		if old, ok := previous[t.ID]; ok {
			diff = domain.Diff(&old, &t.Coordinator)
		} else {
			diff = domain.Diff(nil, &t.Coordinator)
		}
		if diff == nil {
			continue
		}
		s.logger.Debug("tree changed", "tab", t.ID, "diff", diff)
		s.Streams.Publish(TreeEvent{Tab: t.ID, Diff: diff})
	}
	s.last = current
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "wayfinder-http",
		"version": strings.TrimSpace(wayfinder.Version),
	})
}

// GetTree handles the GET /tree request.
func (s *Server) GetTree(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.App.Snapshot())
}

// Back handles the POST /back request.
func (s *Server) Back(w http.ResponseWriter, r *http.Request) {
	if _, err := s.App.Back(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.respondWithTree(w)
}

// DeeplinkRequest is the body of POST /deeplink.
type DeeplinkRequest struct {
	URL string `json:"url"`
}

// OpenDeeplink handles the POST /deeplink request.
func (s *Server) OpenDeeplink(w http.ResponseWriter, r *http.Request) {
	var body DeeplinkRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("OpenDeeplink: invalid request body", "error", err)
		return
	}
	u, err := url.Parse(body.URL)
	if err != nil || u.Scheme == "" {
		http.Error(w, fmt.Sprintf("Invalid url %q", body.URL), http.StatusBadRequest)
		return
	}

	handled, err := s.App.HandleIncomingURL(r.Context(), u)
	if err != nil {
		s.Publish()
		s.writeError(w, err)
		return
	}
	if !handled {
		http.Error(w, fmt.Sprintf("No route for %s", u), http.StatusNotFound)
		return
	}
	s.respondWithTree(w)
}

// SelectTab handles the POST /tabs/{id} request. The tab keeps its path
// unless pop_to_root=true is given.
func (s *Server) SelectTab(w http.ResponseWriter, r *http.Request) {
	popToRoot, _ := strconv.ParseBool(r.URL.Query().Get("pop_to_root"))
	if _, err := s.App.SelectTab(r.Context(), domain.TabID(chi.URLParam(r, "id")), popToRoot); err != nil {
		s.writeError(w, err)
		return
	}
	s.respondWithTree(w)
}

// RequirementRequest is the body of PUT /requirements/{id}.
type RequirementRequest struct {
	Satisfied bool `json:"satisfied"`
}

// ListRequirements handles the GET /requirements request.
func (s *Server) ListRequirements(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	states, err := s.Store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, states)
}

// SetRequirement handles the PUT /requirements/{id} request. Coordinators
// observing the requirement re-evaluate asynchronously.
func (s *Server) SetRequirement(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var body RequirementRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("SetRequirement: invalid request body", "error", err)
		return
	}
	id := domain.RequirementIdentifier(chi.URLParam(r, "id"))
	if err := s.Store.SetSatisfied(r.Context(), id, body.Satisfied); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("requirement updated", "requirement", id, "satisfied", body.Satisfied)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteRequirement handles the DELETE /requirements/{id} request.
func (s *Server) DeleteRequirement(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id := domain.RequirementIdentifier(chi.URLParam(r, "id"))
	if err := s.Store.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.Store == nil {
		http.Error(w, "No state store configured", http.StatusNotImplemented)
		return false
	}
	return true
}

func (s *Server) respondWithTree(w http.ResponseWriter) {
	s.Publish()
	s.writeJSON(w, http.StatusOK, s.App.Snapshot())
}

// ErrorResponse is the body of failed requests.
type ErrorResponse struct {
	Error       string                       `json:"error"`
	Requirement domain.RequirementIdentifier `json:"requirement,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error()}
	status := http.StatusInternalServerError

	var reqErr *domain.RequirementError
	switch {
	case errors.As(err, &reqErr):
		resp.Requirement = reqErr.Identifier
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUnknownTab), errors.Is(err, ports.ErrStateNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDismissRefused):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNoActiveCoordinator):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
