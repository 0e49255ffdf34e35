package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/joho/godotenv"

	"metabolic/internal/analysis"
)

// Environment overrides, read after the config file
const (
	EnvHome      = "METABOLIC_HOME"
	EnvCoach     = "METABOLIC_COACH"
	EnvOutputDir = "METABOLIC_OUTPUT_DIR"
	EnvLogLevel  = "METABOLIC_LOG_LEVEL"
)

// KnownFormats lists the report formats accepted in report.formats
var KnownFormats = []string{"text", "pdf", "xlsx", "html"}

// Config represents the application configuration
type Config struct {
	Report   ReportConfig  `json:"report"`
	Cache    CacheConfig   `json:"cache"`
	Athlete  AthleteConfig `json:"athlete"`
	Display  DisplayConfig `json:"display"`
	LogLevel string        `json:"log_level"`
}

// ReportConfig holds report branding and export settings
type ReportConfig struct {
	Organization string   `json:"organization"`
	Coach        string   `json:"coach"`
	OutputDir    string   `json:"output_dir"`
	Formats      []string `json:"formats"`
}

// CacheConfig controls the analysis memo cache
type CacheConfig struct {
	Enabled *bool  `json:"enabled"`
	Path    string `json:"path"`
}

// IsEnabled reports whether the on-disk cache should be used (default true)
func (c CacheConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// AthleteConfig is the profile prefilled in the form. Zero values leave the
// matching field empty.
type AthleteConfig struct {
	VO2max      float64 `json:"vo2max"`
	LT1HR       int     `json:"lt1_hr"`
	LT2HR       int     `json:"lt2_hr"`
	MaxHR       int     `json:"max_hr"`
	SprintPower float64 `json:"sprint_power"`
}

// IsZero reports whether no default profile is configured
func (a AthleteConfig) IsZero() bool {
	return a == AthleteConfig{}
}

// Profile converts the config section into an analysis profile
func (a AthleteConfig) Profile() analysis.AthleteProfile {
	return analysis.AthleteProfile{
		VO2max:      a.VO2max,
		LT1HR:       a.LT1HR,
		LT2HR:       a.LT2HR,
		MaxHR:       a.MaxHR,
		SprintPower: a.SprintPower,
	}
}

// DisplayConfig holds terminal chart dimensions
type DisplayConfig struct {
	ChartHeight int `json:"chart_height"`
	ChartWidth  int `json:"chart_width"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration. Paths are left empty and
// resolved against the config directory by Load.
func DefaultConfig() Config {
	return Config{
		Report: ReportConfig{
			Organization: "Lindblom Coaching",
			Coach:        "Alexander Lindblom",
			Formats:      []string{"pdf"},
		},
		Display: DisplayConfig{
			ChartHeight: 8,
			ChartWidth:  60,
		},
		LogLevel: "info",
	}
}

// LoadDotEnv loads KEY=value pairs from the given files (default .env) into
// the environment. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		err := godotenv.Load(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the configuration from <config dir>/config.json and applies
// defaults and environment overrides
func Load() (*Config, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults(dir)
	cfg.applyEnv()
	return &cfg, nil
}

// Default returns DefaultConfig resolved against the config directory with
// environment overrides applied. Used when no config file could be written.
func Default() (*Config, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.applyDefaults(dir)
	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) applyDefaults(dir string) {
	defaults := DefaultConfig()
	if c.Report.Organization == "" {
		c.Report.Organization = defaults.Report.Organization
	}
	if c.Report.Coach == "" {
		c.Report.Coach = defaults.Report.Coach
	}
	if len(c.Report.Formats) == 0 {
		c.Report.Formats = defaults.Report.Formats
	}
	if c.Report.OutputDir == "" {
		c.Report.OutputDir = filepath.Join(dir, "reports")
	}
	if c.Cache.Path == "" {
		c.Cache.Path = filepath.Join(dir, "cache.db")
	}
	if c.Display.ChartHeight == 0 {
		c.Display.ChartHeight = defaults.Display.ChartHeight
	}
	if c.Display.ChartWidth == 0 {
		c.Display.ChartWidth = defaults.Display.ChartWidth
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvCoach); v != "" {
		c.Report.Coach = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.Report.OutputDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Save writes the configuration to <config dir>/config.json
func Save(cfg *Config) error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.json"), data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}

	if _, err := os.Stat(filepath.Join(dir, "config.json")); err == nil {
		return nil // Config exists, don't overwrite
	}

	enabled := true
	example := DefaultConfig()
	example.Report.Formats = []string{"pdf", "html"}
	example.Cache.Enabled = &enabled
	example.Athlete = AthleteConfig{
		VO2max:      50,
		LT1HR:       140,
		LT2HR:       165,
		MaxHR:       190,
		SprintPower: 800,
	}

	return Save(&example)
}

// Validate checks the config for values the app cannot work with
func (c *Config) Validate() error {
	if c.Report.Organization == "" {
		return errors.New("report.organization is required")
	}

	for _, f := range c.Report.Formats {
		if !slices.Contains(KnownFormats, f) {
			return fmt.Errorf("report.formats: unknown format %q (want one of %v)", f, KnownFormats)
		}
	}

	if c.Display.ChartHeight < 1 || c.Display.ChartHeight > 40 {
		return fmt.Errorf("display.chart_height must be between 1 and 40, got %d", c.Display.ChartHeight)
	}
	if c.Display.ChartWidth < 1 || c.Display.ChartWidth > 200 {
		return fmt.Errorf("display.chart_width must be between 1 and 200, got %d", c.Display.ChartWidth)
	}

	// A partially filled athlete section is fine, a complete but
	// inconsistent one is not
	if c.Athlete.VO2max > 0 && c.Athlete.LT1HR > 0 && c.Athlete.LT2HR > 0 && c.Athlete.MaxHR > 0 && c.Athlete.SprintPower > 0 {
		if err := c.Athlete.Profile().Validate(); err != nil {
			return fmt.Errorf("athlete: %w", err)
		}
	}

	return nil
}

// GetConfigDir returns the path to the config directory: $METABOLIC_HOME when
// set, ~/.metabolic otherwise
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".metabolic"), nil
}
