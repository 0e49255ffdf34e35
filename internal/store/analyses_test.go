package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"metabolic/internal/analysis"
)

// setupTestDB creates an in-memory database with the real migrations
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := migrate(sqlDB); err != nil {
		sqlDB.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return &DB{sqlDB}
}

func testEntry(t *testing.T, p analysis.AthleteProfile, at time.Time) *AnalysisEntry {
	t.Helper()

	result, err := analysis.Analyze(p)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	return &AnalysisEntry{
		ProfileKey: ProfileKey(p),
		Profile:    p,
		Result:     result,
		ComputedAt: at,
		LastUsedAt: at,
	}
}

var baseProfile = analysis.AthleteProfile{VO2max: 50, LT1HR: 140, LT2HR: 165, MaxHR: 190, SprintPower: 800}

func TestProfileKey(t *testing.T) {
	same := baseProfile
	if ProfileKey(baseProfile) != ProfileKey(same) {
		t.Error("equal profiles should share a key")
	}

	if got, want := ProfileKey(baseProfile), "vo2=50|lt1=140|lt2=165|max=190|sprint=800"; got != want {
		t.Errorf("ProfileKey() = %q, want %q", got, want)
	}

	variants := []analysis.AthleteProfile{
		{VO2max: 50.1, LT1HR: 140, LT2HR: 165, MaxHR: 190, SprintPower: 800},
		{VO2max: 50, LT1HR: 141, LT2HR: 165, MaxHR: 190, SprintPower: 800},
		{VO2max: 50, LT1HR: 140, LT2HR: 166, MaxHR: 190, SprintPower: 800},
		{VO2max: 50, LT1HR: 140, LT2HR: 165, MaxHR: 191, SprintPower: 800},
		{VO2max: 50, LT1HR: 140, LT2HR: 165, MaxHR: 190, SprintPower: 800.5},
	}
	for _, v := range variants {
		if ProfileKey(v) == ProfileKey(baseProfile) {
			t.Errorf("ProfileKey(%+v) collides with base profile", v)
		}
	}
}

func TestSaveAndGetAnalysis(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	entry := testEntry(t, baseProfile, now)
	if err := db.SaveAnalysis(entry); err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}

	got, err := db.GetAnalysis(ProfileKey(baseProfile))
	if err != nil {
		t.Fatalf("GetAnalysis() error = %v", err)
	}

	if got.Profile != baseProfile {
		t.Errorf("Profile = %+v, want %+v", got.Profile, baseProfile)
	}
	if !got.ComputedAt.Equal(now) {
		t.Errorf("ComputedAt = %v, want %v", got.ComputedAt, now)
	}
	if got.Hits != 0 {
		t.Errorf("Hits = %d, want 0", got.Hits)
	}

	// The decoded result is value-equal to the computed one
	want := entry.Result
	if len(got.Result.Zones) != 5 || got.Result.Zones[4] != want.Zones[4] {
		t.Errorf("Zones = %+v, want %+v", got.Result.Zones, want.Zones)
	}
	if got.Result.Lactate.LT2Power != want.Lactate.LT2Power {
		t.Errorf("LT2Power = %v, want %v", got.Result.Lactate.LT2Power, want.Lactate.LT2Power)
	}
	for i := range want.Lactate.Y {
		if got.Result.Lactate.Y[i] != want.Lactate.Y[i] {
			t.Errorf("Lactate.Y[%d] = %v, want %v", i, got.Result.Lactate.Y[i], want.Lactate.Y[i])
		}
	}
	for i := range want.VO2.Uptake {
		if got.Result.VO2.Uptake[i] != want.VO2.Uptake[i] {
			t.Errorf("VO2.Uptake[%d] = %v, want %v", i, got.Result.VO2.Uptake[i], want.VO2.Uptake[i])
		}
	}
	if len(got.Result.Fuel.CarbKcal) != analysis.FuelSamples {
		t.Errorf("Fuel.CarbKcal has %d samples, want %d", len(got.Result.Fuel.CarbKcal), analysis.FuelSamples)
	}
}

func TestGetAnalysisNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetAnalysis("vo2=1|lt1=1|lt2=2|max=3|sprint=1")
	if !errors.Is(err, ErrAnalysisNotFound) {
		t.Errorf("GetAnalysis() error = %v, want ErrAnalysisNotFound", err)
	}
}

func TestSaveAnalysisKeepsHits(t *testing.T) {
	db := setupTestDB(t)
	t0 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	key := ProfileKey(baseProfile)

	if err := db.SaveAnalysis(testEntry(t, baseProfile, t0)); err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}
	if err := db.TouchAnalysis(key, t0.Add(time.Minute)); err != nil {
		t.Fatalf("TouchAnalysis() error = %v", err)
	}
	if err := db.TouchAnalysis(key, t0.Add(2*time.Minute)); err != nil {
		t.Fatalf("TouchAnalysis() error = %v", err)
	}

	// Recompute and save again
	if err := db.SaveAnalysis(testEntry(t, baseProfile, t0.Add(time.Hour))); err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}

	got, err := db.GetAnalysis(key)
	if err != nil {
		t.Fatalf("GetAnalysis() error = %v", err)
	}
	if got.Hits != 2 {
		t.Errorf("Hits = %d, want 2", got.Hits)
	}
	if !got.ComputedAt.Equal(t0.Add(time.Hour)) {
		t.Errorf("ComputedAt = %v, want %v", got.ComputedAt, t0.Add(time.Hour))
	}

	count, err := db.CountAnalyses()
	if err != nil {
		t.Fatalf("CountAnalyses() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountAnalyses() = %d, want 1", count)
	}
}

func TestTouchAnalysisMissing(t *testing.T) {
	db := setupTestDB(t)

	err := db.TouchAnalysis("nope", time.Now())
	if !errors.Is(err, ErrAnalysisNotFound) {
		t.Errorf("TouchAnalysis() error = %v, want ErrAnalysisNotFound", err)
	}
}

func TestRecentAnalyses(t *testing.T) {
	db := setupTestDB(t)
	t0 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	profiles := []analysis.AthleteProfile{
		baseProfile,
		{VO2max: 62, LT1HR: 150, LT2HR: 172, MaxHR: 195, SprintPower: 1100},
		{VO2max: 38, LT1HR: 120, LT2HR: 148, MaxHR: 176, SprintPower: 600},
	}
	for i, p := range profiles {
		if err := db.SaveAnalysis(testEntry(t, p, t0.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("SaveAnalysis() error = %v", err)
		}
	}

	// Sub-second difference must still order correctly
	if err := db.TouchAnalysis(ProfileKey(baseProfile), t0.Add(2*time.Minute+500*time.Millisecond)); err != nil {
		t.Fatalf("TouchAnalysis() error = %v", err)
	}

	recent, err := db.RecentAnalyses(2)
	if err != nil {
		t.Fatalf("RecentAnalyses() error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("RecentAnalyses() returned %d entries, want 2", len(recent))
	}
	if recent[0].Profile != baseProfile {
		t.Errorf("recent[0] = %+v, want the touched base profile", recent[0].Profile)
	}
	if recent[1].Profile != profiles[2] {
		t.Errorf("recent[1] = %+v, want %+v", recent[1].Profile, profiles[2])
	}

	if err := db.DeleteAllAnalyses(); err != nil {
		t.Fatalf("DeleteAllAnalyses() error = %v", err)
	}
	count, err := db.CountAnalyses()
	if err != nil {
		t.Fatalf("CountAnalyses() error = %v", err)
	}
	if count != 0 {
		t.Errorf("CountAnalyses() after delete = %d, want 0", count)
	}
}

func TestOpen(t *testing.T) {
	path := t.TempDir() + "/nested/cache.db"

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if err := db.SaveAnalysis(testEntry(t, baseProfile, time.Now())); err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}

	mem, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer mem.Close()

	if n, err := mem.CountAnalyses(); err != nil || n != 0 {
		t.Errorf("OpenMemory() CountAnalyses() = %d, %v; want 0, nil", n, err)
	}
}
