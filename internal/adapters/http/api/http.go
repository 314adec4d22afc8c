// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	repository "github.com/okian/woundcare/internal/adapters/repository"
	"github.com/okian/woundcare/pkg/logger"
)

// UserHeader carries the caller identity set by the authenticating proxy.
const UserHeader = "X-User-Email"

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	AnalyzeDependencies
	HistoryDependencies
	RoleDependencies
	PatientDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	analyzeHandler  *AnalyzeHandler
	historyHandler  *HistoryHandler
	roleHandler     *RoleHandler
	patientsHandler *PatientsHandler

	maxBodyBytes int64
	logger       logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{maxBodyBytes: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("api")
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.analyzeHandler = NewAnalyzeHandler(deps, s.maxBodyBytes, s.logger)
	s.historyHandler = NewHistoryHandler(deps, s.maxBodyBytes, s.logger)
	s.roleHandler = NewRoleHandler(deps, s.logger)
	s.patientsHandler = NewPatientsHandler(deps, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	wrap := func(h http.HandlerFunc, endpoint string) http.HandlerFunc {
		return MetricsMiddleware(RecoverMiddleware(h, s.logger), endpoint)
	}

	mux.HandleFunc("/healthz", wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", wrap(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/analyze", wrap(s.analyzeHandler.HandleAnalyze, "analyze"))
	mux.HandleFunc("/history", wrap(s.historyHandler.HandleHistory, "history"))
	mux.HandleFunc("/role", wrap(s.roleHandler.HandleRole, "role"))
	mux.HandleFunc("/patients", wrap(s.patientsHandler.HandleList, "patients"))
	mux.HandleFunc("/patients/", wrap(s.patientsHandler.HandleTimeline, "timeline"))
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// errTrailingData rejects bodies with content after the first JSON value.
var errTrailingData = errors.New("unexpected data after JSON value")

// decodeJSON decodes exactly one JSON value from r into v.
func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func methodNotAllowed(w http.ResponseWriter, op string, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
}

// userFrom returns the caller identity, or the anonymous user.
func userFrom(r *http.Request) string {
	if u := strings.TrimSpace(r.Header.Get(UserHeader)); u != "" {
		return u
	}
	return repository.AnonymousUser
}
