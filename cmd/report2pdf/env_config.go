package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-report2pdf/internal/config"
)

// envPrefix namespaces every environment variable the CLI reads.
const envPrefix = "REPORT2PDF_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // REPORT2PDF_CONFIG: config file name or path
	Document   string        // REPORT2PDF_DOCUMENT: report YAML path
	Style      string        // REPORT2PDF_STYLE: CSS style name or path
	Timeout    time.Duration // REPORT2PDF_TIMEOUT: render timeout
	OutputDir  string        // REPORT2PDF_OUTPUT_DIR: default output directory
	PageSize   string        // REPORT2PDF_PAGE_SIZE: a4, letter, legal
	Footer     string        // REPORT2PDF_FOOTER: footer band text
	Addr       string        // REPORT2PDF_ADDR: preview server address
	LogLevel   string        // REPORT2PDF_LOG_LEVEL: none, normal, debug
	Workers    int           // REPORT2PDF_WORKERS: parallel workers
}

// knownEnvVars lists valid REPORT2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"REPORT2PDF_CONFIG":     true,
	"REPORT2PDF_DOCUMENT":   true,
	"REPORT2PDF_STYLE":      true,
	"REPORT2PDF_TIMEOUT":    true,
	"REPORT2PDF_OUTPUT_DIR": true,
	"REPORT2PDF_PAGE_SIZE":  true,
	"REPORT2PDF_FOOTER":     true,
	"REPORT2PDF_ADDR":       true,
	"REPORT2PDF_LOG_LEVEL":  true,
	"REPORT2PDF_WORKERS":    true,
	"REPORT2PDF_CONTAINER":  true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed durations and counts are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("REPORT2PDF_CONFIG"),
		Document:   getenv("REPORT2PDF_DOCUMENT"),
		Style:      getenv("REPORT2PDF_STYLE"),
		OutputDir:  getenv("REPORT2PDF_OUTPUT_DIR"),
		PageSize:   getenv("REPORT2PDF_PAGE_SIZE"),
		Footer:     getenv("REPORT2PDF_FOOTER"),
		Addr:       getenv("REPORT2PDF_ADDR"),
		LogLevel:   getenv("REPORT2PDF_LOG_LEVEL"),
	}

	if timeout := getenv("REPORT2PDF_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if workers := getenv("REPORT2PDF_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}
	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized REPORT2PDF_* variables.
func warnUnknownEnvVars(environ []string, w io.Writer) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig fills config values that are still empty.
// Priority: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeLayoutFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Document != "" && cfg.Document.Path == "" {
		cfg.Document.Path = env.Document
	}
	if env.Style != "" && cfg.Style == "" {
		cfg.Style = env.Style
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.PageSize != "" && cfg.Page.Size == "" {
		cfg.Page.Size = env.PageSize
	}
	if env.Footer != "" && cfg.Footer.Text == "" {
		cfg.Footer.Text = env.Footer
	}
	if env.Addr != "" && (cfg.Server.Addr == "" || cfg.Server.Addr == config.DefaultAddr) {
		cfg.Server.Addr = env.Addr
	}
	if env.LogLevel != "" && (cfg.Log.Level == "" || cfg.Log.Level == config.DefaultConfig().Log.Level) {
		cfg.Log.Level = env.LogLevel
	}
}
