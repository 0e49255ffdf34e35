package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"metabolic/internal/analysis"
)

// timeLayout is fixed-width so that text ordering matches time ordering
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ProfileKey returns the cache key for a profile. Two profiles share a key
// exactly when all five fields are equal.
func ProfileKey(p analysis.AthleteProfile) string {
	return "vo2=" + strconv.FormatFloat(p.VO2max, 'g', -1, 64) +
		"|lt1=" + strconv.Itoa(p.LT1HR) +
		"|lt2=" + strconv.Itoa(p.LT2HR) +
		"|max=" + strconv.Itoa(p.MaxHR) +
		"|sprint=" + strconv.FormatFloat(p.SprintPower, 'g', -1, 64)
}

// SaveAnalysis inserts or replaces the cached result for a profile.
// The hit counter of an existing row is kept.
func (db *DB) SaveAnalysis(e *AnalysisEntry) error {
	if e.Result == nil {
		return errors.New("saving analysis: nil result")
	}

	data, err := json.Marshal(e.Result)
	if err != nil {
		return fmt.Errorf("encoding analysis result: %w", err)
	}

	key := e.ProfileKey
	if key == "" {
		key = ProfileKey(e.Profile)
	}

	_, err = db.Exec(`
		INSERT INTO analyses (
			profile_key, vo2max, lt1_hr, lt2_hr, max_hr, sprint_power,
			result_json, hits, computed_at, last_used_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(profile_key) DO UPDATE SET
			result_json = excluded.result_json,
			computed_at = excluded.computed_at,
			last_used_at = excluded.last_used_at
	`,
		key, e.Profile.VO2max, e.Profile.LT1HR, e.Profile.LT2HR, e.Profile.MaxHR, e.Profile.SprintPower,
		string(data), e.Hits,
		formatTime(e.ComputedAt), formatTime(e.LastUsedAt),
	)
	if err != nil {
		return fmt.Errorf("saving analysis: %w", err)
	}
	return nil
}

// GetAnalysis retrieves the cached analysis for a profile key
func (db *DB) GetAnalysis(key string) (*AnalysisEntry, error) {
	row := db.QueryRow(`
		SELECT profile_key, vo2max, lt1_hr, lt2_hr, max_hr, sprint_power,
			result_json, hits, computed_at, last_used_at
		FROM analyses
		WHERE profile_key = ?
	`, key)

	return scanAnalysis(row)
}

// TouchAnalysis records a cache hit: hits+1 and last_used_at = at
func (db *DB) TouchAnalysis(key string, at time.Time) error {
	res, err := db.Exec(`
		UPDATE analyses SET hits = hits + 1, last_used_at = ?
		WHERE profile_key = ?
	`, formatTime(at), key)
	if err != nil {
		return fmt.Errorf("touching analysis: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("touching analysis: %w", err)
	}
	if n == 0 {
		return ErrAnalysisNotFound
	}
	return nil
}

// RecentAnalyses returns up to limit entries, most recently used first
func (db *DB) RecentAnalyses(limit int) ([]AnalysisEntry, error) {
	rows, err := db.Query(`
		SELECT profile_key, vo2max, lt1_hr, lt2_hr, max_hr, sprint_power,
			result_json, hits, computed_at, last_used_at
		FROM analyses
		ORDER BY last_used_at DESC, profile_key
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []AnalysisEntry
	for rows.Next() {
		e, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}

	return entries, rows.Err()
}

// CountAnalyses returns the number of cached profiles
func (db *DB) CountAnalyses() (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM analyses`).Scan(&n)
	return n, err
}

// DeleteAllAnalyses clears the cache
func (db *DB) DeleteAllAnalyses() error {
	_, err := db.Exec(`DELETE FROM analyses`)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanAnalysis scans a single entry from a row
func scanAnalysis(row rowScanner) (*AnalysisEntry, error) {
	var e AnalysisEntry
	var resultJSON, computedAt, lastUsedAt string

	err := row.Scan(
		&e.ProfileKey, &e.Profile.VO2max, &e.Profile.LT1HR, &e.Profile.LT2HR, &e.Profile.MaxHR, &e.Profile.SprintPower,
		&resultJSON, &e.Hits, &computedAt, &lastUsedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAnalysisNotFound
	}
	if err != nil {
		return nil, err
	}

	e.Result = &analysis.AnalysisResult{}
	if err := json.Unmarshal([]byte(resultJSON), e.Result); err != nil {
		return nil, fmt.Errorf("decoding analysis %q: %w", e.ProfileKey, err)
	}

	if e.ComputedAt, err = time.Parse(timeLayout, computedAt); err != nil {
		return nil, fmt.Errorf("parsing computed_at %q: %w", computedAt, err)
	}
	if e.LastUsedAt, err = time.Parse(timeLayout, lastUsedAt); err != nil {
		return nil, fmt.Errorf("parsing last_used_at %q: %w", lastUsedAt, err)
	}

	return &e, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
