package api

import (
	"context"
	"net/http"

	"github.com/okian/woundcare/internal/domain/model"
	"github.com/okian/woundcare/pkg/logger"
)

// maxRoleBodyBytes bounds PUT /role bodies.
const maxRoleBodyBytes = 1 << 10

// RoleDependencies reads and writes the demo role flag.
type RoleDependencies interface {
	Role(ctx context.Context, user string) (model.Role, error)
	SetRole(ctx context.Context, user string, role model.Role) error
}

// RoleHandler handles /role requests.
type RoleHandler struct {
	deps   RoleDependencies
	logger logger.Logger
}

// NewRoleHandler creates a new role handler.
func NewRoleHandler(deps RoleDependencies, l logger.Logger) *RoleHandler {
	return &RoleHandler{deps: deps, logger: l}
}

type roleBody struct {
	User string     `json:"user,omitempty"`
	Role model.Role `json:"role"`
}

// HandleRole dispatches GET and PUT /role.
func (h *RoleHandler) HandleRole(w http.ResponseWriter, r *http.Request) {
	const op = "api.role"
	user := userFrom(r)

	switch r.Method {
	case http.MethodGet:
		role, err := h.deps.Role(r.Context(), user)
		if err != nil {
			h.logger.Error(r.Context(), "role lookup failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "internal_error", ErrInternal)
			return
		}
		writeJSON(w, http.StatusOK, roleBody{User: user, Role: role})

	case http.MethodPut:
		var body roleBody
		if err := decodeJSON(http.MaxBytesReader(w, r.Body, maxRoleBodyBytes), &body); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		role, err := model.ParseRole(string(body.Role))
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := h.deps.SetRole(r.Context(), user, role); err != nil {
			h.logger.Error(r.Context(), "role update failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "internal_error", ErrInternal)
			return
		}
		writeJSON(w, http.StatusOK, roleBody{User: user, Role: role})

	default:
		methodNotAllowed(w, op, http.MethodGet, http.MethodPut)
	}
}
