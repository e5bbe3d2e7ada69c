package main

// Notes:
// - Flag merging and the config to report2pdf settings builders are pure;
//   each is tested through its returned values.

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	report2pdf "github.com/alnah/go-report2pdf"
	"github.com/alnah/go-report2pdf/internal/config"
)

// ---------------------------------------------------------------------------
// TestMergeLayoutFlags - CLI flags override config
// ---------------------------------------------------------------------------

func TestMergeLayoutFlags(t *testing.T) {
	t.Parallel()

	on := true
	cfg := config.DefaultConfig()
	cfg.Page.Size = "a4"
	cfg.Footer.ShowPageNumber = &on
	cfg.PageBreaks.Orphans = 2

	mergeLayoutFlags(cfg,
		pageFlags{size: "letter", margin: 1.25, headerOffset: 0.3},
		footerFlags{text: "BCA Project", noPageNumber: true},
		pageBreakFlags{widows: 3},
		assetFlags{style: "report", assetPath: "/srv/assets"},
	)

	if cfg.Page.Size != "letter" || cfg.Page.Margin != 1.25 || cfg.Page.HeaderOffset != 0.3 {
		t.Errorf("Page = %+v", cfg.Page)
	}
	if cfg.Footer.Text != "BCA Project" || cfg.Footer.ShowPageNumber == nil || *cfg.Footer.ShowPageNumber {
		t.Errorf("Footer = %+v", cfg.Footer)
	}
	if cfg.PageBreaks.Orphans != 2 || cfg.PageBreaks.Widows != 3 {
		t.Errorf("PageBreaks = %+v", cfg.PageBreaks)
	}
	if cfg.Style != "report" || cfg.Assets.BasePath != "/srv/assets" {
		t.Errorf("Style/Assets = %q, %q", cfg.Style, cfg.Assets.BasePath)
	}
}

func TestMergeLayoutFlags_EmptyFlagsKeepConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Page.Orientation = "landscape"
	cfg.Footer.Text = "from config"

	mergeLayoutFlags(cfg, pageFlags{}, footerFlags{}, pageBreakFlags{}, assetFlags{})

	if cfg.Page.Orientation != "landscape" || cfg.Footer.Text != "from config" {
		t.Errorf("config overwritten: %+v", cfg)
	}
	if cfg.Footer.ShowPageNumber != nil {
		t.Error("ShowPageNumber set without a flag")
	}
}

// ---------------------------------------------------------------------------
// Settings builders
// ---------------------------------------------------------------------------

func TestBuildPageSettings(t *testing.T) {
	t.Parallel()

	t.Run("empty config uses library defaults", func(t *testing.T) {
		t.Parallel()

		ps, err := buildPageSettings(config.DefaultConfig())
		if err != nil || ps != nil {
			t.Errorf("buildPageSettings() = %+v, %v, want nil, nil", ps, err)
		}
	})

	t.Run("partial config fills defaults", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Page.Margin = 0.75
		cfg.Page.FooterOffset = 0.25
		ps, err := buildPageSettings(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ps.Size != report2pdf.PageSizeA4 || ps.Orientation != report2pdf.OrientationPortrait {
			t.Errorf("size/orientation = %q, %q", ps.Size, ps.Orientation)
		}
		if ps.Margins.Left != 0.75 || ps.Margins.Top != 0.75 {
			t.Errorf("Margins = %+v", ps.Margins)
		}
		if ps.FooterOffset != 0.25 || ps.HeaderOffset != report2pdf.DefaultBandOffset {
			t.Errorf("offsets = %v, %v", ps.HeaderOffset, ps.FooterOffset)
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Page.Orientation = "diagonal"
		if _, err := buildPageSettings(cfg); !errors.Is(err, report2pdf.ErrInvalidOrientation) {
			t.Errorf("error = %v, want ErrInvalidOrientation", err)
		}
	})
}

func TestBuildFooter(t *testing.T) {
	t.Parallel()

	off := false
	tests := []struct {
		name   string
		footer config.FooterConfig
		want   *report2pdf.Footer
	}{
		{"nothing set", config.FooterConfig{}, nil},
		{"text only", config.FooterConfig{Text: "BCA"}, &report2pdf.Footer{Text: "BCA"}},
		{"page numbers off", config.FooterConfig{ShowPageNumber: &off}, &report2pdf.Footer{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.Footer = tt.footer
			got := buildFooter(cfg)
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("buildFooter() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBuildRenderParams(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	css := writeFile(t, dir, "extra.css", "p { margin: 0; }")

	cfg := config.DefaultConfig()
	cfg.PageBreaks.Widows = 2
	params, err := buildRenderParams(cfg, css)
	if err != nil {
		t.Fatalf("buildRenderParams() error = %v", err)
	}
	if params.css != "p { margin: 0; }" || params.pageBreaks.Widows != 2 || params.page != nil {
		t.Errorf("params = %+v", params)
	}

	if _, err := buildRenderParams(cfg, filepath.Join(dir, "missing.css")); !errors.Is(err, ErrReadCSS) {
		t.Errorf("error = %v, want ErrReadCSS", err)
	}

	cfg.PageBreaks.Widows = 99
	if _, err := buildRenderParams(cfg, ""); !errors.Is(err, report2pdf.ErrInvalidWidows) {
		t.Errorf("error = %v, want ErrInvalidWidows", err)
	}
}

// ---------------------------------------------------------------------------
// Config, document, timeout, and logger resolution
// ---------------------------------------------------------------------------

func TestLoadConfig_FlagThenEnv(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fromFlag := writeFile(t, dir, "flag.yaml", "style: flag\n")
	fromEnv := writeFile(t, dir, "env.yaml", "style: env\n")

	te := newTestEnv(t)
	te.vars["REPORT2PDF_CONFIG"] = fromEnv

	cfg, err := loadConfig(fromFlag, te.Environment)
	if err != nil || cfg.Style != "flag" {
		t.Errorf("flag config: style = %v, err = %v", cfg, err)
	}
	cfg, err = loadConfig("", te.Environment)
	if err != nil || cfg.Style != "env" {
		t.Errorf("env config: style = %v, err = %v", cfg, err)
	}

	te.vars["REPORT2PDF_CONFIG"] = filepath.Join(dir, "missing.yaml")
	if _, err := loadConfig("", te.Environment); !errors.Is(err, config.ErrConfigNotFound) {
		t.Errorf("error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadDocument(t *testing.T) {
	t.Parallel()

	doc, base, err := loadDocument("", nil)
	if err != nil || base != "" || doc.Title != "Online Library Management System" {
		t.Errorf("embedded: base = %q, err = %v", base, err)
	}

	dir := t.TempDir()
	path := writeFile(t, dir, "r.yaml", reportYAML)
	if _, base, err := loadDocument(path, nil); err != nil || base != dir {
		t.Errorf("file: base = %q, err = %v", base, err)
	}
}

func TestLoadDocument_AssetPathContent(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeFile(t, base, filepath.Join("content", "report.yaml"), strings.Replace(reportYAML,
		"Online Library Management System", "Hostel Allotment System", 1))

	cfg := config.DefaultConfig()
	cfg.Assets.BasePath = base
	params, err := buildRenderParams(cfg, "")
	if err != nil {
		t.Fatalf("buildRenderParams() error = %v", err)
	}

	doc, _, err := loadDocument("", params.loader)
	if err != nil {
		t.Fatalf("loadDocument() error = %v", err)
	}
	if doc.Title != "Hostel Allotment System" {
		t.Errorf("Title = %q, want the asset directory report", doc.Title)
	}
}

func TestResolveTimeout(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	te.vars["REPORT2PDF_TIMEOUT"] = "45s"

	tests := []struct {
		name    string
		flag    string
		want    time.Duration
		wantErr bool
	}{
		{"flag wins", "2m", 2 * time.Minute, false},
		{"env fallback", "", 45 * time.Second, false},
		{"bad flag", "fast", 0, true},
		{"zero flag", "0s", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolveTimeout(tt.flag, te.Environment)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveTimeout() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewLogger_FlagsOverrideLevel(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	cfg := config.DefaultConfig()

	quiet, err := newLogger(cfg, commonFlags{quiet: true}, te.Environment)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	quiet.Info("hidden")

	verbose, err := newLogger(cfg, commonFlags{verbose: true}, te.Environment)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	verbose.Debug("shown")

	if out := te.stderr.String(); !strings.Contains(out, "shown") || strings.Contains(out, "hidden") {
		t.Errorf("stderr = %q, want only debug line", out)
	}
}
