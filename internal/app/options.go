package service

import (
	"time"

	repository "github.com/okian/woundcare/internal/adapters/repository"
	"github.com/okian/woundcare/internal/domain/scoring"
	"github.com/okian/woundcare/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the key-value store backing history and roles.
// The caller keeps ownership: Stop leaves it open.
func WithStore(store repository.Store, backend string) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
			s.backend = backend
		}
	}
}

// WithHistoryLimit sets how many analyses each user keeps.
func WithHistoryLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

// WithDedupeSize sets the size of the history write deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the shard count of the default in-memory store.
func WithShardCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.shardCount = n
		}
	}
}

// WithAnalyzePreset sets the preset used for uploaded images.
func WithAnalyzePreset(p scoring.Preset) Option {
	return func(s *Service) {
		if p.Validate() == nil {
			s.analyzePreset = p
		}
	}
}

// WithTimelinePreset sets the preset used for patient timelines.
func WithTimelinePreset(p scoring.Preset) Option {
	return func(s *Service) {
		if p.Validate() == nil {
			s.timelinePreset = p
		}
	}
}

// WithClock sets the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
