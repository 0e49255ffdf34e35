package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"metabolic/internal/analysis"
	"metabolic/internal/config"
	"metabolic/internal/report"
)

// ReportService builds report documents and writes them to the output directory
type ReportService struct {
	branding  report.Branding
	outputDir string
	formats   []report.Format
	logger    *slog.Logger
	now       func() time.Time
}

// ExportedFile describes one written report file
type ExportedFile struct {
	Format report.Format
	Path   string
	Size   int64
}

// NewReportService creates a report service from the report config
func NewReportService(cfg config.ReportConfig, logger *slog.Logger) (*ReportService, error) {
	formats, err := report.ParseFormats(cfg.Formats)
	if err != nil {
		return nil, fmt.Errorf("report formats: %w", err)
	}
	if len(formats) == 0 {
		formats = []report.Format{report.FormatPDF}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ReportService{
		branding:  report.Branding{Organization: cfg.Organization, Coach: cfg.Coach},
		outputDir: cfg.OutputDir,
		formats:   formats,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// DefaultFormats returns the configured export formats
func (s *ReportService) DefaultFormats() []report.Format {
	return append([]report.Format(nil), s.formats...)
}

// OutputDir returns the directory reports are written to
func (s *ReportService) OutputDir() string {
	return s.outputDir
}

// Build assembles the report document for a computed analysis
func (s *ReportService) Build(p analysis.AthleteProfile, r *analysis.AnalysisResult, notes string) (*report.Document, error) {
	return report.Build(s.branding, p, r, notes, s.now())
}

// Export writes doc in each format. An empty format list uses the configured
// defaults. Files already written are kept when a later format fails.
func (s *ReportService) Export(ctx context.Context, doc *report.Document, r *analysis.AnalysisResult, formats []report.Format) ([]ExportedFile, error) {
	if len(formats) == 0 {
		formats = s.formats
	}

	if err := os.MkdirAll(s.outputDir, ReportDirPerm); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var files []ExportedFile
	for _, f := range formats {
		if err := ctx.Err(); err != nil {
			return files, err
		}

		path := filepath.Join(s.outputDir, report.FileName(doc, f))
		size, err := writeReportFile(path, f, doc, r)
		if err != nil {
			return files, fmt.Errorf("exporting %s: %w", f, err)
		}

		s.logger.Info("report exported", "format", string(f), "path", path, "size", size)
		files = append(files, ExportedFile{Format: f, Path: path, Size: size})
	}

	return files, nil
}

// writeReportFile renders one format to path, removing the file on failure
func writeReportFile(path string, f report.Format, doc *report.Document, r *analysis.AnalysisResult) (int64, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, ReportFilePerm)
	if err != nil {
		return 0, err
	}

	if err := report.Write(f, file, doc, r); err != nil {
		file.Close()
		os.Remove(path)
		return 0, err
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return 0, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
