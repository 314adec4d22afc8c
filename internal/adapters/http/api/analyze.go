package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/woundcare/internal/app"
	"github.com/okian/woundcare/internal/domain/model"
	"github.com/okian/woundcare/pkg/logger"
	"github.com/okian/woundcare/pkg/metrics"
)

// Client-facing messages of the analyze route.
const (
	msgImageRequired  = "imageData (base64) required"
	msgInvalidRequest = "Invalid request"
)

// ISO 8601 in UTC with millisecond precision.
const analyzeTimeLayout = "2006-01-02T15:04:05.000Z"

// AnalyzeDependencies scores uploaded images.
type AnalyzeDependencies interface {
	Analyze(ctx context.Context, imageData string, notes *string) (model.Analysis, error)
}

// AnalyzeHandler handles POST /analyze.
type AnalyzeHandler struct {
	deps         AnalyzeDependencies
	maxBodyBytes int64
	logger       logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps AnalyzeDependencies, maxBodyBytes int64, l logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps, maxBodyBytes: maxBodyBytes, logger: l}
}

type analyzeResponse struct {
	Timestamp   string            `json:"timestamp"`
	Scores      model.Scores      `json:"scores"`
	Explanation model.Explanation `json:"explanation"`
}

// analyzeError is the bare envelope the web client expects from /analyze.
type analyzeError struct {
	Error string `json:"error"`
}

// parseAnalyzeBody extracts imageData and notes from a decoded JSON body.
// A null body is invalid; any other non-object body has no imageData.
func parseAnalyzeBody(body any) (imageData string, notes *string, err error) {
	if body == nil {
		return "", nil, ErrBadRequest
	}
	obj, _ := body.(map[string]any)
	imageData, _ = obj["imageData"].(string)
	if imageData == "" {
		return "", nil, service.ErrMissingImage
	}
	if n, ok := obj["notes"].(string); ok && n != "" {
		notes = &n
	}
	return imageData, notes, nil
}

// HandleAnalyze handles POST /analyze requests.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
	if r.Method != http.MethodPost {
		methodNotAllowed(w, op, http.MethodPost)
		return
	}

	var body any
	if err := decodeJSON(http.MaxBytesReader(w, r.Body, h.maxBodyBytes), &body); err != nil {
		h.reject(r.Context(), w, "invalid_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	imageData, notes, err := parseAnalyzeBody(body)
	if err != nil {
		h.reject(r.Context(), w, "invalid_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	a, err := h.deps.Analyze(r.Context(), imageData, notes)
	if err != nil {
		h.reject(r.Context(), w, "analyze_failed", WrapKind(op, ErrInternal, err))
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Timestamp:   a.Timestamp.UTC().Format(analyzeTimeLayout),
		Scores:      a.Scores,
		Explanation: a.Explanation,
	})
}

// reject writes a 400. Only the missing-image case names its cause.
func (h *AnalyzeHandler) reject(ctx context.Context, w http.ResponseWriter, reason string, err error) {
	msg := msgInvalidRequest
	if errors.Is(err, service.ErrMissingImage) {
		msg = msgImageRequired
		reason = "missing_image"
	}
	metrics.RecordAnalysisRejected(reason)
	h.logger.Debug(ctx, "analyze rejected", logger.String("reason", reason), logger.Error(err))
	writeJSON(w, http.StatusBadRequest, analyzeError{Error: msg})
}
