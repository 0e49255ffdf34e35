package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Memoized analyses, one row per distinct profile value
		`CREATE TABLE IF NOT EXISTS analyses (
			profile_key TEXT PRIMARY KEY,
			vo2max REAL NOT NULL,
			lt1_hr INTEGER NOT NULL,
			lt2_hr INTEGER NOT NULL,
			max_hr INTEGER NOT NULL,
			sprint_power REAL NOT NULL,
			result_json TEXT NOT NULL,
			hits INTEGER NOT NULL DEFAULT 0,
			computed_at TEXT NOT NULL,
			last_used_at TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_analyses_last_used ON analyses(last_used_at)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
