// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	repository "github.com/okian/woundcare/internal/adapters/repository"
	"github.com/okian/woundcare/internal/domain/catalog"
	"github.com/okian/woundcare/internal/domain/dedupe"
	"github.com/okian/woundcare/internal/domain/model"
	"github.com/okian/woundcare/internal/domain/scoring"
	"github.com/okian/woundcare/pkg/logger"
	"github.com/okian/woundcare/pkg/metrics"
)

// Service implements the API dependencies for wound analysis.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	backend  string
	ownStore bool
	history  *repository.History
	roles    *repository.Roles
	deduper  dedupe.Deduper
	analyzer *scoring.Scorer

	// Configuration
	historyLimit   int
	dedupeSize     int
	shardCount     int
	analyzePreset  scoring.Preset
	timelinePreset scoring.Preset
	now            func() time.Time

	// State
	started  bool
	analyses atomic.Int64

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		backend:        "memory",
		historyLimit:   repository.DefaultHistoryLimit,
		dedupeSize:     dedupe.DefaultMaxSize,
		shardCount:     16,
		analyzePreset:  scoring.ServerPreset(),
		timelinePreset: scoring.ClientPreset(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.store == nil {
		s.ownStore = true
		s.store = repository.Instrument(
			repository.NewMemoryStore(repository.WithShardCount(s.shardCount)),
			s.backend,
		)
	}
	s.history = repository.NewHistory(s.store, s.historyLimit)
	s.roles = repository.NewRoles(s.store)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.analyzer = scoring.NewScorer(
		scoring.WithPreset(s.analyzePreset),
		scoring.WithClock(s.now),
	)

	s.started = true
	s.logger.Info(ctx, "wound analysis service started",
		logger.String("backend", s.backend),
		logger.String("analyzePreset", s.analyzePreset.Name),
		logger.String("timelinePreset", s.timelinePreset.Name),
		logger.Int("historyLimit", s.historyLimit),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop releases the store if the service created it. An injected store
// belongs to the caller and stays open across restarts.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.ownStore {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing store failed", logger.Error(err))
		}
		// a restart gets a fresh store
		s.store = nil
		s.ownStore = false
	}
	s.started = false
	s.logger.Info(context.Background(), "wound analysis service stopped")
}

func (s *Service) running() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Analyze scores an uploaded image. The image itself is not stored.
func (s *Service) Analyze(ctx context.Context, imageData string, notes *string) (model.Analysis, error) {
	if err := s.running(); err != nil {
		return model.Analysis{}, err
	}
	if imageData == "" {
		metrics.RecordAnalysisRejected("missing_image")
		return model.Analysis{}, ErrMissingImage
	}

	res := s.analyzer.Score(scoring.FromPayload(scoring.StripDataURL(imageData)), notes)
	scores := res.Scores()
	s.analyses.Add(1)
	metrics.RecordAnalysis(s.analyzePreset.Name, scores.OverallHealing, scores.InfectionRisk, scores.RiskFlagged())

	s.logger.Debug(ctx, "image analyzed",
		logger.Int("payloadLength", len(imageData)),
		logger.Float64("overallHealing", scores.OverallHealing),
		logger.Float64("infectionRisk", scores.InfectionRisk),
	)

	return model.Analysis{
		Timestamp:   res.Timestamp,
		Scores:      scores,
		Explanation: res.Explanation,
	}, nil
}

// SaveAnalysis appends entry to user's history and returns the updated list.
// A retried entry with an id already recorded for user is not written again.
func (s *Service) SaveAnalysis(ctx context.Context, user string, entry model.Analysis) ([]model.Analysis, bool, error) {
	if err := s.running(); err != nil {
		return nil, false, err
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now().UTC()
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	key := dedupeKey(user, entry.ID)
	if s.deduper.SeenAndRecord(ctx, key) {
		metrics.RecordHistoryDuplicate()
		s.logger.Debug(ctx, "duplicate history write skipped", logger.String("id", entry.ID))
		list, err := s.history.List(ctx, user)
		return list, true, err
	}

	list, err := s.history.Append(ctx, user, entry)
	if err != nil {
		s.deduper.Unrecord(ctx, key)
		s.logger.Error(ctx, "history append failed", logger.Error(err))
		return nil, false, err
	}
	metrics.RecordHistoryWrite()
	return list, false, nil
}

// dedupeKey scopes an entry id to user. NUL cannot appear in a header value,
// so one user's prefix never covers another user's keys.
func dedupeKey(user, id string) string {
	return dedupePrefix(user) + id
}

func dedupePrefix(user string) string {
	return repository.HistoryKey(user) + "\x00"
}

// History returns user's analyses, newest first.
func (s *Service) History(ctx context.Context, user string) ([]model.Analysis, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	return s.history.List(ctx, user)
}

// ClearHistory removes user's analyses.
func (s *Service) ClearHistory(ctx context.Context, user string) error {
	if err := s.running(); err != nil {
		return err
	}
	if err := s.history.Clear(ctx, user); err != nil {
		return err
	}
	// cleared entries may be saved again
	s.deduper.ForgetPrefix(ctx, dedupePrefix(user))
	metrics.RecordHistoryClear()
	return nil
}

// Role returns user's role, defaulting to patient.
func (s *Service) Role(ctx context.Context, user string) (model.Role, error) {
	if err := s.running(); err != nil {
		return "", err
	}
	role, err := s.roles.Get(ctx, user)
	if errors.Is(err, repository.ErrNotFound) {
		return model.RolePatient, nil
	}
	return role, err
}

// SetRole records user's role.
func (s *Service) SetRole(ctx context.Context, user string, role model.Role) error {
	if err := s.running(); err != nil {
		return err
	}
	return s.roles.Set(ctx, user, role)
}

// Patients lists the demo patients.
func (s *Service) Patients(_ context.Context) []catalog.Patient {
	return catalog.List()
}

// Timeline scores every image of a patient, oldest first.
func (s *Service) Timeline(ctx context.Context, patientID string) ([]model.TimelinePoint, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	p, err := catalog.Lookup(strings.TrimSpace(patientID))
	if err != nil {
		return nil, err
	}
	metrics.RecordTimelineRequest(p.ID)
	s.logger.Debug(ctx, "timeline requested", logger.String("patient", p.ID))
	return catalog.Timeline(p, s.now(), s.timelinePreset), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"backend":        s.backend,
		"analyzePreset":  s.analyzePreset.Name,
		"timelinePreset": s.timelinePreset.Name,
		"historyLimit":   s.historyLimit,
		"dedupeSize":     s.dedupeSize,
		"analyses":       s.analyses.Load(),
	}

	if s.started {
		keys := s.store.Len(context.Background())
		stats["storeKeys"] = keys
		stats["dedupeEntries"] = s.deduper.Size()
		metrics.UpdateStoreKeys(keys)
	}
	return stats
}
