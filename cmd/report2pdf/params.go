package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	report2pdf "github.com/alnah/go-report2pdf"
	"github.com/alnah/go-report2pdf/internal/assets"
	"github.com/alnah/go-report2pdf/internal/config"
	"github.com/alnah/go-report2pdf/internal/document"
	"github.com/alnah/go-report2pdf/internal/logging"
)

// Sentinel errors for CLI param building.
var (
	ErrReadCSS = errors.New("failed to read CSS file")
)

// renderParams groups parameters shared across every document of a run.
type renderParams struct {
	css        string
	page       *report2pdf.PageSettings
	footer     *report2pdf.Footer
	pageBreaks *report2pdf.PageBreaks
	loader     assets.AssetLoader // serves content/report.yaml
	htmlOnly   bool
	htmlOutput bool
	pageMap    bool
}

// loadConfig loads the config named by flag or environment and fills the
// remaining empty values from the environment.
func loadConfig(flagConfig string, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig(env.Getenv)

	name := flagConfig
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}
	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// mergeLayoutFlags merges CLI flags into config. CLI values override config values.
func mergeLayoutFlags(cfg *config.Config, page pageFlags, footer footerFlags, breaks pageBreakFlags, af assetFlags) {
	if page.size != "" {
		cfg.Page.Size = page.size
	}
	if page.orientation != "" {
		cfg.Page.Orientation = page.orientation
	}
	if page.margin > 0 {
		cfg.Page.Margin = page.margin
	}
	if page.headerOffset > 0 {
		cfg.Page.HeaderOffset = page.headerOffset
	}
	if page.footerOffset > 0 {
		cfg.Page.FooterOffset = page.footerOffset
	}

	if footer.text != "" {
		cfg.Footer.Text = footer.text
	}
	switch {
	case footer.noPageNumber:
		off := false
		cfg.Footer.ShowPageNumber = &off
	case footer.pageNumber:
		on := true
		cfg.Footer.ShowPageNumber = &on
	}

	if breaks.orphans > 0 {
		cfg.PageBreaks.Orphans = breaks.orphans
	}
	if breaks.widows > 0 {
		cfg.PageBreaks.Widows = breaks.widows
	}

	if af.style != "" {
		cfg.Style = af.style
	}
	if af.assetPath != "" {
		cfg.Assets.BasePath = af.assetPath
	}
}

// buildPageSettings creates report2pdf.PageSettings from config.
// Returns nil when nothing is configured (library defaults).
func buildPageSettings(cfg *config.Config) (*report2pdf.PageSettings, error) {
	p := cfg.Page
	if p == (config.PageConfig{}) {
		return nil, nil
	}

	ps := report2pdf.DefaultPageSettings()
	if p.Size != "" {
		ps.Size = p.Size
	}
	if p.Orientation != "" {
		ps.Orientation = p.Orientation
	}
	if p.Margin > 0 {
		ps.Margins = report2pdf.Margins{Top: p.Margin, Bottom: p.Margin, Left: p.Margin, Right: p.Margin}
	}
	if p.HeaderOffset > 0 {
		ps.HeaderOffset = p.HeaderOffset
	}
	if p.FooterOffset > 0 {
		ps.FooterOffset = p.FooterOffset
	}

	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return ps, nil
}

// buildFooter creates report2pdf.Footer from config.
// Returns nil when the document footer applies unchanged.
func buildFooter(cfg *config.Config) *report2pdf.Footer {
	if cfg.Footer.Text == "" && cfg.Footer.ShowPageNumber == nil {
		return nil
	}
	f := &report2pdf.Footer{Text: cfg.Footer.Text}
	if cfg.Footer.ShowPageNumber != nil {
		f.ShowPageNumber = *cfg.Footer.ShowPageNumber
	}
	return f
}

// buildPageBreaks creates report2pdf.PageBreaks from config.
func buildPageBreaks(cfg *config.Config) *report2pdf.PageBreaks {
	if cfg.PageBreaks.Orphans == 0 && cfg.PageBreaks.Widows == 0 {
		return nil
	}
	return &report2pdf.PageBreaks{Orphans: cfg.PageBreaks.Orphans, Widows: cfg.PageBreaks.Widows}
}

// buildRenderParams assembles everything shared by the documents of a run.
func buildRenderParams(cfg *config.Config, cssFile string) (*renderParams, error) {
	page, err := buildPageSettings(cfg)
	if err != nil {
		return nil, err
	}
	footer := buildFooter(cfg)
	if err := footer.Validate(); err != nil {
		return nil, err
	}
	breaks := buildPageBreaks(cfg)
	if err := breaks.Validate(); err != nil {
		return nil, err
	}

	var css string
	if cssFile != "" {
		data, err := os.ReadFile(cssFile) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadCSS, err)
		}
		css = string(data)
	}

	loader, err := assets.NewAssetResolver(cfg.Assets.BasePath)
	if err != nil {
		return nil, err
	}

	return &renderParams{css: css, page: page, footer: footer, pageBreaks: breaks, loader: loader}, nil
}

// loadDocument loads the report at path, or the default report served by
// loader when path is empty. The second result is the directory relative
// images resolve against.
func loadDocument(path string, loader assets.AssetLoader) (*document.Document, string, error) {
	if path == "" {
		if loader == nil {
			loader = assets.NewEmbeddedLoader()
		}
		doc, err := document.FromLoader(loader)
		return doc, "", err
	}
	doc, err := document.LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	return doc, filepath.Dir(path), nil
}

// resolveTimeout picks the render timeout: flag, then environment, then
// the library default (zero).
func resolveTimeout(flagTimeout string, env *Environment) (time.Duration, error) {
	if flagTimeout != "" {
		d, err := time.ParseDuration(flagTimeout)
		if err != nil || d <= 0 {
			return 0, fmt.Errorf("%w: invalid timeout %q", ErrUsage, flagTimeout)
		}
		return d, nil
	}
	return loadEnvConfig(env.Getenv).Timeout, nil
}

// converterOptions builds the options shared by every converter of a run.
func converterOptions(cfg *config.Config, timeout time.Duration, logger *zap.Logger) []report2pdf.Option {
	opts := []report2pdf.Option{report2pdf.WithLogger(logger)}
	if timeout > 0 {
		opts = append(opts, report2pdf.WithTimeout(timeout))
	}
	if cfg.Style != "" {
		opts = append(opts, report2pdf.WithStyle(cfg.Style))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, report2pdf.WithAssetPath(cfg.Assets.BasePath))
	}
	return opts
}

// newLogger builds the CLI logger. --quiet and --verbose override the
// configured level.
func newLogger(cfg *config.Config, common commonFlags, env *Environment) (*zap.Logger, error) {
	level := cfg.Log.Level
	switch {
	case common.quiet:
		level = logging.LevelNone
	case common.verbose:
		level = logging.LevelDebug
	}
	return logging.New(level, env.Stderr, env.Stderr)
}
