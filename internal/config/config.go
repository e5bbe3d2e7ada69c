package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-report2pdf/internal/logging"
	"github.com/alnah/go-report2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength        = 4096
	MaxURLLength         = 2048 // Browser limit
	MaxTextLength        = 200  // Footer text
	MaxStyleLength       = 4096 // Name, path, or inline CSS
	MaxPageSizeLength    = 10   // "letter", "a4", "legal"
	MaxOrientationLength = 10   // "portrait", "landscape"
	MaxAddrLength        = 256
)

// Default preview server address.
const DefaultAddr = ":3000"

// Config holds all configuration for rendering, serving, and capturing the
// report. Zero values mean "use the built-in default".
type Config struct {
	Document   DocumentConfig   `yaml:"document"`
	Output     OutputConfig     `yaml:"output"`
	Style      string           `yaml:"style"` // Name, file path, or inline CSS
	Footer     FooterConfig     `yaml:"footer"`
	Assets     AssetsConfig     `yaml:"assets"`
	Page       PageConfig       `yaml:"page"`
	PageBreaks PageBreaksConfig `yaml:"pageBreaks"`
	Server     ServerConfig     `yaml:"server"`
	Capture    CaptureConfig    `yaml:"capture"`
	Log        LogConfig        `yaml:"log"`
}

// DocumentConfig selects the report content.
type DocumentConfig struct {
	Path string `yaml:"path"` // Empty = embedded report
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = same as source
}

// FooterConfig overrides the document footer band.
type FooterConfig struct {
	Text           string `yaml:"text"` // Empty = document footer
	ShowPageNumber *bool  `yaml:"showPageNumber"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// PageConfig defines the fixed page.
type PageConfig struct {
	Size         string  `yaml:"size"`         // "letter", "a4", "legal" (default: "a4")
	Orientation  string  `yaml:"orientation"`  // "portrait", "landscape"
	Margin       float64 `yaml:"margin"`       // inches, all sides
	HeaderOffset float64 `yaml:"headerOffset"` // inches from the top edge
	FooterOffset float64 `yaml:"footerOffset"` // inches from the bottom edge
}

// PageBreaksConfig controls orphans and widows.
type PageBreaksConfig struct {
	Orphans int `yaml:"orphans"`
	Widows  int `yaml:"widows"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr string `yaml:"addr"` // Default ":3000"
}

// CaptureConfig configures the viewer screenshot. Durations use Go syntax
// ("1s", "500ms").
type CaptureConfig struct {
	URL           string `yaml:"url"`
	Output        string `yaml:"output"`
	PollInterval  string `yaml:"pollInterval"`
	ServerTimeout string `yaml:"serverTimeout"`
	ViewerTimeout string `yaml:"viewerTimeout"`
	Settle        string `yaml:"settle"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `yaml:"level"` // none, normal, debug
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"document.path", c.Document.Path, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"style", c.Style, MaxStyleLength},
		{"footer.text", c.Footer.Text, MaxTextLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"page.size", c.Page.Size, MaxPageSizeLength},
		{"page.orientation", c.Page.Orientation, MaxOrientationLength},
		{"server.addr", c.Server.Addr, MaxAddrLength},
		{"capture.url", c.Capture.URL, MaxURLLength},
		{"capture.output", c.Capture.Output, MaxPathLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if c.Page.Margin < 0 || c.Page.HeaderOffset < 0 || c.Page.FooterOffset < 0 {
		return fmt.Errorf("%w: page margin and band offsets must not be negative", ErrInvalidField)
	}
	if c.PageBreaks.Orphans < 0 || c.PageBreaks.Widows < 0 {
		return fmt.Errorf("%w: pageBreaks values must not be negative", ErrInvalidField)
	}
	if c.Capture.URL != "" && !strings.HasPrefix(c.Capture.URL, "http://") && !strings.HasPrefix(c.Capture.URL, "https://") {
		return fmt.Errorf("%w: capture.url %q must be http(s)", ErrInvalidField, c.Capture.URL)
	}
	if _, err := c.Capture.Durations(); err != nil {
		return err
	}
	if err := logging.ValidateLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// Durations holds parsed capture timings; zero means default.
type Durations struct {
	PollInterval  time.Duration
	ServerTimeout time.Duration
	ViewerTimeout time.Duration
	Settle        time.Duration
}

// Durations parses the capture timings.
func (c CaptureConfig) Durations() (Durations, error) {
	var d Durations
	fields := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"capture.pollInterval", c.PollInterval, &d.PollInterval},
		{"capture.serverTimeout", c.ServerTimeout, &d.ServerTimeout},
		{"capture.viewerTimeout", c.ViewerTimeout, &d.ViewerTimeout},
		{"capture.settle", c.Settle, &d.Settle},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		v, err := time.ParseDuration(f.value)
		if err != nil || v < 0 {
			return Durations{}, fmt.Errorf("%w: %s %q is not a duration", ErrInvalidField, f.name, f.value)
		}
		*f.dst = v
	}
	return d, nil
}

// ServerAddr returns the configured address or DefaultAddr.
func (c *Config) ServerAddr() string {
	if c.Server.Addr == "" {
		return DefaultAddr
	}
	return c.Server.Addr
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration that uses every built-in default.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: DefaultAddr},
		Log:    LogConfig{Level: logging.LevelNormal},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Relative document and asset paths are relative to the config file.
	dir := filepath.Dir(configPath)
	cfg.Document.Path = relativeTo(dir, cfg.Document.Path)
	cfg.Assets.BasePath = relativeTo(dir, cfg.Assets.BasePath)

	return &cfg, nil
}

func relativeTo(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-report2pdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-report2pdf", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
