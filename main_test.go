package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"metabolic/internal/analysis"
	"metabolic/internal/config"
	"metabolic/internal/logging"
	"metabolic/internal/service"
	"metabolic/internal/store"
)

func TestProfileFromFlags(t *testing.T) {
	base := analysis.AthleteProfile{VO2max: 50, LT1HR: 140, LT2HR: 165, MaxHR: 190, SprintPower: 800}

	got := profileFromFlags(base, options{lt2: 170, sprint: 950})
	want := analysis.AthleteProfile{VO2max: 50, LT1HR: 140, LT2HR: 170, MaxHR: 190, SprintPower: 950}
	if got != want {
		t.Errorf("profileFromFlags() = %+v, want %+v", got, want)
	}
}

func TestExportOnce(t *testing.T) {
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer db.Close()

	cfg := config.DefaultConfig()
	cfg.Report.OutputDir = t.TempDir()
	cfg.Athlete = config.AthleteConfig{VO2max: 50, LT1HR: 140, LT2HR: 165, MaxHR: 190, SprintPower: 800}

	as := service.NewAnalysisService(db, logging.Discard())
	rs, err := service.NewReportService(cfg.Report, logging.Discard())
	if err != nil {
		t.Fatalf("NewReportService() error = %v", err)
	}

	opts := options{export: true, formats: "text", notes: "Felt strong"}
	if err := exportOnce(context.Background(), &cfg, opts, as, rs); err != nil {
		t.Fatalf("exportOnce() error = %v", err)
	}

	paths, err := filepath.Glob(filepath.Join(cfg.Report.OutputDir, "*.txt"))
	if err != nil || len(paths) != 1 {
		t.Fatalf("text reports = %v (err %v), want 1", paths, err)
	}
	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Felt strong") {
		t.Error("report missing notes")
	}
}

func TestExportOnceInvalidProfile(t *testing.T) {
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer db.Close()

	cfg := config.DefaultConfig()
	cfg.Report.OutputDir = t.TempDir()

	rs, err := service.NewReportService(cfg.Report, logging.Discard())
	if err != nil {
		t.Fatalf("NewReportService() error = %v", err)
	}

	opts := options{formats: "text", vo2max: 50, lt1: 165, lt2: 140, maxHR: 190, sprint: 800}
	err = exportOnce(context.Background(), &cfg, opts, service.NewAnalysisService(db, logging.Discard()), rs)
	if err == nil {
		t.Fatal("exportOnce() error = nil, want invalid profile")
	}
}
