package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/okian/woundcare/internal/domain/model"
)

// DefaultHistoryLimit is how many analyses a user keeps.
const DefaultHistoryLimit = 50

// AnonymousUser owns history written without an identity.
const AnonymousUser = "anon"

func userKey(prefix, user string) string {
	user = strings.TrimSpace(user)
	if user == "" {
		user = AnonymousUser
	}
	return prefix + user
}

// HistoryKey returns the store key holding user's analyses.
func HistoryKey(user string) string { return userKey("wounds:", user) }

// RoleKey returns the store key holding user's role flag.
func RoleKey(user string) string { return userKey("demo_role:", user) }

// History keeps each user's analyses newest first, capped at a limit.
type History struct {
	store Store
	limit int

	// Append is read-modify-write; serialize it per process.
	mu sync.Mutex
}

// NewHistory creates a History over store. Non-positive limits use the default.
func NewHistory(store Store, limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{store: store, limit: limit}
}

// Limit returns the per-user cap.
func (h *History) Limit() int { return h.limit }

// List returns user's analyses, newest first. Missing history is empty.
func (h *History) List(ctx context.Context, user string) ([]model.Analysis, error) {
	raw, err := h.store.Get(ctx, HistoryKey(user))
	if errors.Is(err, ErrNotFound) {
		return []model.Analysis{}, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []model.Analysis
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, HistoryKey(user), err)
	}
	if entries == nil {
		entries = []model.Analysis{}
	}
	return entries, nil
}

// Append puts entry in front of user's history and drops what exceeds the limit.
func (h *History) Append(ctx context.Context, user string, entry model.Analysis) ([]model.Analysis, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	current, err := h.List(ctx, user)
	if err != nil {
		return nil, err
	}
	next := make([]model.Analysis, 0, min(len(current)+1, h.limit))
	next = append(next, entry)
	next = append(next, current...)
	if len(next) > h.limit {
		next = next[:h.limit]
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	if err := h.store.Put(ctx, HistoryKey(user), raw); err != nil {
		return nil, err
	}
	return next, nil
}

// Clear removes user's history.
func (h *History) Clear(ctx context.Context, user string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.store.Delete(ctx, HistoryKey(user))
}

// Roles stores the demo role flag per user.
type Roles struct {
	store Store
}

// NewRoles creates a Roles over store.
func NewRoles(store Store) *Roles {
	return &Roles{store: store}
}

// Get returns user's role, or ErrNotFound when none was set.
func (r *Roles) Get(ctx context.Context, user string) (model.Role, error) {
	raw, err := r.store.Get(ctx, RoleKey(user))
	if err != nil {
		return "", err
	}
	role, err := model.ParseRole(string(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrCorrupt, RoleKey(user), err)
	}
	return role, nil
}

// Set records user's role.
func (r *Roles) Set(ctx context.Context, user string, role model.Role) error {
	return r.store.Put(ctx, RoleKey(user), []byte(role))
}
