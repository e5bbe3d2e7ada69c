package report2pdf

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-report2pdf/internal/document"
	"github.com/alnah/go-report2pdf/internal/layout"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.5
	MaxMargin     = 3.0
	DefaultMargin = 1.0
)

// DefaultBandOffset is the distance in inches from the page edge to the
// header and footer bands.
const DefaultBandOffset = 0.4

// Margins are page margins in inches.
type Margins struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// PageSettings configures the fixed page every PDF page is built on.
type PageSettings struct {
	Size         string  // "letter", "a4", "legal"
	Orientation  string  // "portrait", "landscape"
	Margins      Margins // inches
	HeaderOffset float64 // inches from the top edge to the header band
	FooterOffset float64 // inches from the bottom edge to the footer band
}

// DefaultPageSettings returns A4 portrait with one inch margins.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:         PageSizeA4,
		Orientation:  OrientationPortrait,
		Margins:      Margins{Top: DefaultMargin, Bottom: DefaultMargin, Left: DefaultMargin, Right: DefaultMargin},
		HeaderOffset: DefaultBandOffset,
		FooterOffset: DefaultBandOffset,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}
	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}
	for _, m := range []struct {
		side  string
		value float64
	}{
		{"top", p.Margins.Top}, {"bottom", p.Margins.Bottom},
		{"left", p.Margins.Left}, {"right", p.Margins.Right},
	} {
		if m.value < MinMargin || m.value > MaxMargin {
			return fmt.Errorf("%w: %s %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, m.side, m.value, MinMargin, MaxMargin)
		}
	}
	if p.HeaderOffset < 0 || p.FooterOffset < 0 {
		return fmt.Errorf("%w: offsets must not be negative", ErrInvalidBandOffset)
	}
	if _, err := p.Geometry(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBandOffset, err)
	}
	return nil
}

// Geometry converts the settings to the point-based page geometry used by
// the layout engine.
func (p *PageSettings) Geometry() (layout.Geometry, error) {
	if p == nil {
		p = DefaultPageSettings()
	}
	m := layout.Margins{
		Top:    p.Margins.Top * layout.PointsPerInch,
		Bottom: p.Margins.Bottom * layout.PointsPerInch,
		Left:   p.Margins.Left * layout.PointsPerInch,
		Right:  p.Margins.Right * layout.PointsPerInch,
	}
	return layout.NewGeometry(
		strings.ToLower(p.Size),
		strings.EqualFold(p.Orientation, OrientationLandscape),
		m,
		p.HeaderOffset*layout.PointsPerInch,
		p.FooterOffset*layout.PointsPerInch,
	)
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// MaxFooterLength bounds the footer band text.
const MaxFooterLength = 200

// Footer configures the footer band. The text is the same on every page;
// only the optional page number varies.
type Footer struct {
	Text           string // overrides the document footer
	ShowPageNumber bool
}

// Validate checks that footer settings are valid.
// Returns nil if f is nil (nil means the document footer).
func (f *Footer) Validate() error {
	if f == nil {
		return nil
	}
	if len(f.Text) > MaxFooterLength {
		return fmt.Errorf("%w: %d characters (max %d)", ErrFooterTooLong, len(f.Text), MaxFooterLength)
	}
	return nil
}

// Orphans and widows bounds.
const (
	MinOrphans     = 1
	MaxOrphans     = 5
	DefaultOrphans = 2
	MinWidows      = 1
	MaxWidows      = 5
	DefaultWidows  = 2
)

// PageBreaks configures where blocks may be split across pages.
type PageBreaks struct {
	Orphans int // minimum lines at the bottom of a page (0 = default)
	Widows  int // minimum lines at the top of a page (0 = default)
}

// Validate checks orphans and widows bounds.
// Returns nil if pb is nil (nil means defaults).
func (pb *PageBreaks) Validate() error {
	if pb == nil {
		return nil
	}
	if pb.Orphans != 0 && (pb.Orphans < MinOrphans || pb.Orphans > MaxOrphans) {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidOrphans, pb.Orphans, MinOrphans, MaxOrphans)
	}
	if pb.Widows != 0 && (pb.Widows < MinWidows || pb.Widows > MaxWidows) {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidWidows, pb.Widows, MinWidows, MaxWidows)
	}
	return nil
}

func (pb *PageBreaks) rules() layout.Rules {
	r := layout.Rules{Orphans: DefaultOrphans, Widows: DefaultWidows}
	if pb == nil {
		return r
	}
	if pb.Orphans > 0 {
		r.Orphans = pb.Orphans
	}
	if pb.Widows > 0 {
		r.Widows = pb.Widows
	}
	return r
}

// Input contains render parameters.
type Input struct {
	Document   *document.Document // report content (required)
	BaseDir    string             // resolves relative images inside markdown blocks
	CSS        string             // custom CSS layered last (optional)
	Page       *PageSettings      // nil = defaults
	Footer     *Footer            // nil = document footer, no page numbers
	PageBreaks *PageBreaks        // nil = defaults
	HTMLOnly   bool               // skip pagination and PDF
}

// Result holds every artifact of a render.
type Result struct {
	HTML      []byte       // web preview
	PagedHTML []byte       // fixed pages printed to PDF
	PDF       []byte       // nil when HTMLOnly
	Book      *layout.Book // page map, nil when HTMLOnly
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout       time.Duration
	styleInput    string
	resolvedStyle string
	assetPath     string
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 60 * time.Second

// WithTimeout sets the render timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("report2pdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithStyle sets the decorative stylesheet: an embedded style name, a path
// to a CSS file, or CSS content.
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = style
	}
}

// WithAssetPath loads styles and templates from a directory, falling back
// to the embedded assets.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithMeasurer replaces the browser measurer, e.g. with
// layout.NewFontMeasurer() for a pure Go layout.
func WithMeasurer(m layout.Measurer) Option {
	return func(c *Converter) {
		c.measurer = m
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}
