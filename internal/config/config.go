// Package config loads runtime settings from the environment.
//
// An optional .env file in the working directory is read first; variables
// already set in the environment win over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ironsheep/ocr-kawaii/internal/imaging"
	"github.com/ironsheep/ocr-kawaii/internal/ocr"
	"github.com/ironsheep/ocr-kawaii/internal/pipeline"
)

// Themes accepted by OCR_THEME.
var Themes = []string{"kawaii", "mint", "night"}

// Config holds process configuration.
type Config struct {
	// HTTP listen address for the web page
	Addr string

	LogLevel string

	// OCR engine
	Engine        string
	TesseractPath string
	TessdataDir   string
	Timeout       time.Duration

	// Pipeline defaults
	Language           string
	PSM                ocr.PSM
	MinConfidence      int
	ThresholdFactor    float64
	AutocontrastCutoff float64
	Accent             string
	Theme              string

	// Upload limit in megabytes
	MaxUploadMB int
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromEnv()
}

// LoadFile reads the given env file and then the environment.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return FromEnv()
}

// FromEnv builds and validates a Config from environment variables only.
func FromEnv() (*Config, error) {
	psm, err := ocr.ParsePSM(getEnvOrDefault("OCR_PSM", ocr.DefaultPSM.String()))
	if err != nil {
		return nil, fmt.Errorf("OCR_PSM: %w", err)
	}

	cfg := &Config{
		Addr:               getEnvOrDefault("OCR_KAWAII_ADDR", ":8501"),
		LogLevel:           getEnvOrDefault("OCR_KAWAII_LOG_LEVEL", "info"),
		Engine:             strings.ToLower(getEnvOrDefault("OCR_ENGINE", ocr.BackendCLI)),
		TesseractPath:      getEnvOrDefault("TESSERACT_PATH", ocr.DefaultBinary),
		TessdataDir:        getEnvOrDefault("TESSDATA_DIR", ""),
		Timeout:            getEnvAsDurationOrDefault("OCR_TIMEOUT", 30*time.Second),
		Language:           getEnvOrDefault("OCR_LANGUAGE", ocr.AutoLanguage),
		PSM:                psm,
		MinConfidence:      getEnvAsIntOrDefault("OCR_MIN_CONFIDENCE", ocr.DefaultMinConfidence),
		ThresholdFactor:    getEnvAsFloatOrDefault("OCR_THRESHOLD_FACTOR", imaging.DefaultThresholdFactor),
		AutocontrastCutoff: getEnvAsFloatOrDefault("OCR_AUTOCONTRAST_CUTOFF", imaging.DefaultAutocontrastCutoff),
		Accent:             getEnvOrDefault("OCR_ACCENT", ""),
		Theme:              strings.ToLower(getEnvOrDefault("OCR_THEME", "kawaii")),
		MaxUploadMB:        getEnvAsIntOrDefault("OCR_MAX_UPLOAD_MB", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.Engine != ocr.BackendCLI && c.Engine != ocr.BackendGosseract {
		return fmt.Errorf("OCR_ENGINE must be %s or %s, got %q", ocr.BackendCLI, ocr.BackendGosseract, c.Engine)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("OCR_TIMEOUT must be positive, got %s", c.Timeout)
	}
	if _, err := ocr.ValidateLanguage(c.Language); err != nil {
		return fmt.Errorf("OCR_LANGUAGE: %w", err)
	}
	if c.MinConfidence < -1 || c.MinConfidence > 100 {
		return fmt.Errorf("OCR_MIN_CONFIDENCE must be between -1 and 100, got %d", c.MinConfidence)
	}
	if c.ThresholdFactor <= 0 || c.ThresholdFactor >= 1 {
		return fmt.Errorf("OCR_THRESHOLD_FACTOR must be between 0 and 1 (exclusive), got %v", c.ThresholdFactor)
	}
	if c.AutocontrastCutoff < 0 || c.AutocontrastCutoff >= 50 {
		return fmt.Errorf("OCR_AUTOCONTRAST_CUTOFF must be in [0, 50), got %v", c.AutocontrastCutoff)
	}
	if c.Accent != "" {
		if _, err := imaging.ParseAccent(c.Accent); err != nil {
			return fmt.Errorf("OCR_ACCENT: %w", err)
		}
	}
	if !validTheme(c.Theme) {
		return fmt.Errorf("OCR_THEME must be one of %s, got %q", strings.Join(Themes, ", "), c.Theme)
	}
	if c.MaxUploadMB < 1 || c.MaxUploadMB > 100 {
		return fmt.Errorf("OCR_MAX_UPLOAD_MB must be between 1 and 100, got %d", c.MaxUploadMB)
	}
	return nil
}

// EngineSettings returns the backend selection for ocr.New.
func (c *Config) EngineSettings() ocr.Settings {
	return ocr.Settings{
		Backend:     c.Engine,
		Binary:      c.TesseractPath,
		Timeout:     c.Timeout,
		TessdataDir: c.TessdataDir,
	}
}

// PipelineOptions returns the default options for new interactions.
func (c *Config) PipelineOptions() pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.Language = c.Language
	opts.PSM = c.PSM
	opts.MinConfidence = c.MinConfidence
	opts.ThresholdFactor = c.ThresholdFactor
	opts.AutocontrastCutoff = c.AutocontrastCutoff
	opts.Accent = c.Accent
	opts.Theme = c.Theme
	return opts
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func validTheme(name string) bool {
	for _, t := range Themes {
		if t == name {
			return true
		}
	}
	return false
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault gets environment variable as int or returns default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnvOrDefault(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(getEnvOrDefault(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDurationOrDefault accepts Go durations ("45s") or plain seconds ("45").
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	raw := getEnvOrDefault(key, "")
	if raw == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return d
}
