package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/woundcare/internal/domain/catalog"
	"github.com/okian/woundcare/internal/domain/model"
	"github.com/okian/woundcare/pkg/logger"
)

// PatientDependencies exposes the doctor views.
type PatientDependencies interface {
	Role(ctx context.Context, user string) (model.Role, error)
	Patients(ctx context.Context) []catalog.Patient
	Timeline(ctx context.Context, patientID string) ([]model.TimelinePoint, error)
}

// PatientsHandler handles /patients and /patients/{id}/timeline.
type PatientsHandler struct {
	deps   PatientDependencies
	logger logger.Logger
}

// NewPatientsHandler creates a new patients handler.
func NewPatientsHandler(deps PatientDependencies, l logger.Logger) *PatientsHandler {
	return &PatientsHandler{deps: deps, logger: l}
}

type timelineResponse struct {
	PatientID string                `json:"patientId"`
	Points    []model.TimelinePoint `json:"points"`
}

// requireDoctor writes a 403 and returns false unless the caller is a doctor.
func (h *PatientsHandler) requireDoctor(w http.ResponseWriter, r *http.Request, op string) bool {
	role, err := h.deps.Role(r.Context(), userFrom(r))
	if err != nil {
		h.logger.Error(r.Context(), "role lookup failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", ErrInternal)
		return false
	}
	if role != model.RoleDoctor {
		writeError(w, http.StatusForbidden, "forbidden", NewKind(op, ErrForbidden))
		return false
	}
	return true
}

// HandleList handles GET /patients requests.
func (h *PatientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.patients"
	if r.Method != http.MethodGet {
		methodNotAllowed(w, op, http.MethodGet)
		return
	}
	if !h.requireDoctor(w, r, op) {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Patients(r.Context()))
}

// HandleTimeline handles GET /patients/{id}/timeline requests.
func (h *PatientsHandler) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	const op = "api.timeline"
	id, ok := strings.CutSuffix(strings.TrimPrefix(r.URL.Path, "/patients/"), "/timeline")
	if !ok || id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, op, http.MethodGet)
		return
	}
	if !h.requireDoctor(w, r, op) {
		return
	}

	points, err := h.deps.Timeline(r.Context(), id)
	if errors.Is(err, catalog.ErrPatientNotFound) {
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
		return
	}
	if err != nil {
		h.logger.Error(r.Context(), "timeline failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", ErrInternal)
		return
	}
	writeJSON(w, http.StatusOK, timelineResponse{PatientID: id, Points: points})
}
