package api

import (
	"context"
	"net/http"

	"github.com/okian/woundcare/internal/domain/model"
	"github.com/okian/woundcare/pkg/logger"
)

// HistoryDependencies stores per-user analysis history.
type HistoryDependencies interface {
	SaveAnalysis(ctx context.Context, user string, entry model.Analysis) ([]model.Analysis, bool, error)
	History(ctx context.Context, user string) ([]model.Analysis, error)
	ClearHistory(ctx context.Context, user string) error
}

// HistoryHandler handles /history requests.
type HistoryHandler struct {
	deps         HistoryDependencies
	maxBodyBytes int64
	logger       logger.Logger
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps HistoryDependencies, maxBodyBytes int64, l logger.Logger) *HistoryHandler {
	return &HistoryHandler{deps: deps, maxBodyBytes: maxBodyBytes, logger: l}
}

type historyResponse struct {
	User      string           `json:"user"`
	Entries   []model.Analysis `json:"entries"`
	Duplicate bool             `json:"duplicate,omitempty"`
}

// HandleHistory dispatches GET, POST and DELETE /history.
func (h *HistoryHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.save(w, r)
	case http.MethodDelete:
		h.clear(w, r)
	default:
		methodNotAllowed(w, "api.history", http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

func (h *HistoryHandler) list(w http.ResponseWriter, r *http.Request) {
	const op = "api.history.list"
	user := userFrom(r)
	entries, err := h.deps.History(r.Context(), user)
	if err != nil {
		h.internal(r.Context(), w, WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{User: user, Entries: entries})
}

func (h *HistoryHandler) save(w http.ResponseWriter, r *http.Request) {
	const op = "api.history.save"
	user := userFrom(r)

	var entry model.Analysis
	if err := decodeJSON(http.MaxBytesReader(w, r.Body, h.maxBodyBytes), &entry); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	entries, dup, err := h.deps.SaveAnalysis(r.Context(), user, entry)
	if err != nil {
		h.internal(r.Context(), w, WrapKind(op, ErrInternal, err))
		return
	}
	status := http.StatusCreated
	if dup {
		status = http.StatusOK
	}
	writeJSON(w, status, historyResponse{User: user, Entries: entries, Duplicate: dup})
}

func (h *HistoryHandler) clear(w http.ResponseWriter, r *http.Request) {
	const op = "api.history.clear"
	if err := h.deps.ClearHistory(r.Context(), userFrom(r)); err != nil {
		h.internal(r.Context(), w, WrapKind(op, ErrInternal, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HistoryHandler) internal(ctx context.Context, w http.ResponseWriter, err error) {
	h.logger.Error(ctx, "history request failed", logger.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", ErrInternal)
}
