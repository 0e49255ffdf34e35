package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"metabolic/internal/analysis"
	"metabolic/internal/config"
	"metabolic/internal/logging"
	"metabolic/internal/report"
	"metabolic/internal/service"
	"metabolic/internal/store"
	"metabolic/internal/tui"
)

type options struct {
	export  bool
	vo2max  float64
	lt1     int
	lt2     int
	maxHR   int
	sprint  float64
	notes   string
	formats string
}

func main() {
	opts := parseFlags()
	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() options {
	var o options
	flag.BoolVar(&o.export, "export", false, "calculate and export a report without starting the TUI")
	flag.Float64Var(&o.vo2max, "vo2max", 0, "VO2max in ml/kg/min (default from config)")
	flag.IntVar(&o.lt1, "lt1", 0, "LT1 heart rate in bpm (default from config)")
	flag.IntVar(&o.lt2, "lt2", 0, "LT2 heart rate in bpm (default from config)")
	flag.IntVar(&o.maxHR, "maxhr", 0, "max heart rate in bpm (default from config)")
	flag.Float64Var(&o.sprint, "sprint", 0, "5s sprint power in watts (default from config)")
	flag.StringVar(&o.notes, "notes", "", "athlete notes for the report")
	flag.StringVar(&o.formats, "formats", "", "comma-separated formats: text, pdf, xlsx, html (default from config)")
	flag.Parse()
	return o
}

func run(opts options) error {
	ctx := context.Background()

	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	configDir, err := config.GetConfigDir()
	if err != nil {
		return err
	}

	// Load configuration, creating an example on first run
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		if err := config.CreateExample(); err != nil {
			fmt.Printf("Could not create example config: %v\nUsing defaults.\n", err)
			cfg, err = config.Default()
		} else {
			fmt.Printf("Created example config at:\n  %s/config.json\n", configDir)
			cfg, err = config.Load()
		}
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	logFile, err := logging.Setup(configDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer logFile.Close()

	// Open the analysis cache
	var db *store.DB
	if cfg.Cache.IsEnabled() {
		db, err = store.Open(cfg.Cache.Path)
	} else {
		db, err = store.OpenMemory()
	}
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer db.Close()

	// Create services
	logger := slog.Default()
	analysisSvc := service.NewAnalysisService(db, logger)
	reportSvc, err := service.NewReportService(cfg.Report, logger)
	if err != nil {
		return err
	}

	if opts.export {
		return exportOnce(ctx, cfg, opts, analysisSvc, reportSvc)
	}

	// Launch TUI
	app := tui.NewApp(cfg, analysisSvc, reportSvc)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

// exportOnce analyses the profile given on the command line, falling back
// to the configured athlete for unset flags, and writes the report
func exportOnce(ctx context.Context, cfg *config.Config, opts options, as *service.AnalysisService, rs *service.ReportService) error {
	p := profileFromFlags(cfg.Athlete.Profile(), opts)

	var formats []report.Format
	if opts.formats != "" {
		var err error
		formats, err = report.ParseFormats(strings.Split(opts.formats, ","))
		if err != nil {
			return err
		}
	}

	res, err := as.Analyze(ctx, p)
	if err != nil {
		return err
	}

	doc, err := rs.Build(res.Profile, res.Result, opts.notes)
	if err != nil {
		return err
	}

	files, err := rs.Export(ctx, doc, res.Result, formats)
	for _, f := range files {
		fmt.Printf("%s\t%s\n", f.Path, humanize.Bytes(uint64(f.Size)))
	}
	return err
}

func profileFromFlags(p analysis.AthleteProfile, opts options) analysis.AthleteProfile {
	if opts.vo2max != 0 {
		p.VO2max = opts.vo2max
	}
	if opts.lt1 != 0 {
		p.LT1HR = opts.lt1
	}
	if opts.lt2 != 0 {
		p.LT2HR = opts.lt2
	}
	if opts.maxHR != 0 {
		p.MaxHR = opts.maxHR
	}
	if opts.sprint != 0 {
		p.SprintPower = opts.sprint
	}
	return p
}
