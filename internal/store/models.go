package store

import (
	"time"

	"metabolic/internal/analysis"
)

// AnalysisEntry is a cached analysis for one profile value
type AnalysisEntry struct {
	ProfileKey string                   `db:"profile_key"`
	Profile    analysis.AthleteProfile  // vo2max, lt1_hr, lt2_hr, max_hr, sprint_power
	Result     *analysis.AnalysisResult `db:"result_json"`
	Hits       int                      `db:"hits"`
	ComputedAt time.Time                `db:"computed_at"`
	LastUsedAt time.Time                `db:"last_used_at"`
}
