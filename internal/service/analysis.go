package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"metabolic/internal/analysis"
	"metabolic/internal/store"
)

// Cache is the memo store used by AnalysisService. *store.DB implements it.
type Cache interface {
	GetAnalysis(key string) (*store.AnalysisEntry, error)
	SaveAnalysis(e *store.AnalysisEntry) error
	TouchAnalysis(key string, at time.Time) error
	RecentAnalyses(limit int) ([]store.AnalysisEntry, error)
	CountAnalyses() (int, error)
	DeleteAllAnalyses() error
}

// AnalysisService validates profiles and runs the calculator, memoizing
// results by profile value
type AnalysisService struct {
	cache  Cache
	logger *slog.Logger
	now    func() time.Time
}

// NewAnalysisService creates an analysis service. A nil cache disables memoization.
func NewAnalysisService(cache Cache, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{cache: cache, logger: logger, now: time.Now}
}

// AnalysisRun is the outcome of one Analyze call
type AnalysisRun struct {
	Profile    analysis.AthleteProfile
	Result     *analysis.AnalysisResult
	Cached     bool
	ComputedAt time.Time
}

// RecentProfile is a cached profile for the history list
type RecentProfile struct {
	Profile    analysis.AthleteProfile
	Hits       int
	ComputedAt time.Time
	LastUsedAt time.Time
}

// Analyze validates p and returns its analysis. Invalid profiles never reach
// the cache. Cache failures are logged and the result is computed directly.
func (s *AnalysisService) Analyze(ctx context.Context, p analysis.AthleteProfile) (*AnalysisRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		s.logger.Debug("profile rejected", "error", err)
		return nil, err
	}

	key := store.ProfileKey(p)
	now := s.now()

	if s.cache != nil {
		entry, err := s.cache.GetAnalysis(key)
		switch {
		case err == nil:
			if err := s.cache.TouchAnalysis(key, now); err != nil {
				s.logger.Warn("updating cache hit", "key", key, "error", err)
			}
			s.logger.Info("analysis cache hit", "key", key, "hits", entry.Hits+1)
			return &AnalysisRun{Profile: p, Result: entry.Result, Cached: true, ComputedAt: entry.ComputedAt}, nil
		case errors.Is(err, store.ErrAnalysisNotFound):
		default:
			s.logger.Warn("reading analysis cache", "key", key, "error", err)
		}
	}

	result, err := analysis.Analyze(p)
	if err != nil {
		return nil, err
	}

	s.logger.Info("analysis computed",
		"vo2max", p.VO2max,
		"lt1_hr", p.LT1HR,
		"lt2_hr", p.LT2HR,
		"max_hr", p.MaxHR,
		"sprint_power", p.SprintPower,
	)

	if s.cache != nil {
		entry := &store.AnalysisEntry{
			ProfileKey: key,
			Profile:    p,
			Result:     result,
			ComputedAt: now,
			LastUsedAt: now,
		}
		if err := s.cache.SaveAnalysis(entry); err != nil {
			s.logger.Warn("saving analysis to cache", "key", key, "error", err)
		}
	}

	return &AnalysisRun{Profile: p, Result: result, ComputedAt: now}, nil
}

// Recent returns up to limit cached profiles, most recently used first
func (s *AnalysisService) Recent(limit int) ([]RecentProfile, error) {
	if s.cache == nil {
		return nil, nil
	}

	entries, err := s.cache.RecentAnalyses(limit)
	if err != nil {
		return nil, err
	}

	profiles := make([]RecentProfile, 0, len(entries))
	for _, e := range entries {
		profiles = append(profiles, RecentProfile{
			Profile:    e.Profile,
			Hits:       e.Hits,
			ComputedAt: e.ComputedAt,
			LastUsedAt: e.LastUsedAt,
		})
	}
	return profiles, nil
}

// CacheSize returns the number of cached profiles
func (s *AnalysisService) CacheSize() (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	return s.cache.CountAnalyses()
}

// ClearCache drops every cached analysis
func (s *AnalysisService) ClearCache() error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.DeleteAllAnalyses(); err != nil {
		return err
	}
	s.logger.Info("analysis cache cleared")
	return nil
}
