package report2pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-report2pdf/internal/assets"
	"github.com/alnah/go-report2pdf/internal/diagram"
	"github.com/alnah/go-report2pdf/internal/fileutil"
	"github.com/alnah/go-report2pdf/internal/layout"
	"github.com/alnah/go-report2pdf/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.CSSInjector = (*pipeline.CSSInjection)(nil)
	_ pdfRenderer          = (*rodRenderer)(nil)
)

// Converter renders a report document to a web preview, a page map and a
// PDF. Create with NewConverter, use Render, and Close when done. A
// Converter is not safe for concurrent use; use ConverterPool for parallel
// rendering.
type Converter struct {
	cfg      converterConfig
	loader   assets.AssetLoader
	builder  *pipeline.Builder
	injector pipeline.CSSInjector
	styles   layout.Styles
	measurer layout.Measurer // nil = browser measurer
	renderer pdfRenderer
	logger   *zap.Logger
}

// NewConverter creates a Converter with default configuration.
// Returns error if the asset path or style cannot be resolved.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:      converterConfig{timeout: defaultTimeout},
		loader:   assets.NewEmbeddedLoader(),
		injector: &pipeline.CSSInjection{},
		styles:   layout.DefaultStyles(),
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.loader = resolver
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	c.builder = pipeline.NewBuilder(c.loader, nil)
	if c.renderer == nil {
		c.renderer = newRodRenderer(c.cfg.timeout)
	}
	return c, nil
}

// Render runs the full pipeline: web preview, layout, fixed pages, PDF.
// With input.HTMLOnly only the web preview is produced.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Render(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := c.validateInput(input); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	geom, err := input.Page.Geometry()
	if err != nil {
		return nil, err
	}
	c.builder.Blocks().BaseDir = input.BaseDir
	base := pipeline.Typography(c.styles) + c.cfg.resolvedStyle

	web, err := c.builder.WebPreview(ctx, input.Document, geom.ContentWidth(), base+buildWebCSS(geom, input.PageBreaks.rules()))
	if err != nil {
		return nil, fmt.Errorf("rendering web preview: %w", err)
	}
	res := &Result{HTML: []byte(c.injector.InjectCSS(ctx, web, input.CSS))}
	if input.HTMLOnly {
		return res, nil
	}

	book, err := c.compose(ctx, input, geom, base+"\n"+input.CSS)
	if err != nil {
		return nil, err
	}
	res.Book = book

	paged, err := c.builder.PagedHTML(ctx, book, input.Document.Title, base+buildPagedCSS(geom))
	if err != nil {
		return nil, fmt.Errorf("rendering pages: %w", err)
	}
	paged = c.injector.InjectCSS(ctx, paged, input.CSS)
	res.PagedHTML = []byte(paged)

	pdf, err := c.renderer.ToPDF(ctx, paged)
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	res.PDF = pdf

	c.logger.Debug("rendered report",
		zap.String("title", input.Document.Title),
		zap.Int("pages", len(book.Pages)),
		zap.Int("bytes", len(pdf)))
	return res, nil
}

// Layout paginates the document without printing it.
func (c *Converter) Layout(ctx context.Context, input Input) (*layout.Book, error) {
	if err := c.validateInput(input); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	geom, err := input.Page.Geometry()
	if err != nil {
		return nil, err
	}
	c.builder.Blocks().BaseDir = input.BaseDir
	return c.compose(ctx, input, geom, pipeline.Typography(c.styles)+c.cfg.resolvedStyle+"\n"+input.CSS)
}

func (c *Converter) compose(ctx context.Context, input Input, geom layout.Geometry, css string) (*layout.Book, error) {
	opts := layout.Options{Rules: input.PageBreaks.rules()}
	if input.Footer != nil {
		opts.FooterText = input.Footer.Text
		opts.PageNumbers = input.Footer.ShowPageNumber
	}

	book, err := layout.Compose(ctx, input.Document, geom, c.measurerFor(css), opts)
	if err != nil {
		return nil, fmt.Errorf("laying out pages: %w", err)
	}
	if n := book.Overflows(); n > 0 {
		c.logger.Warn("blocks taller than a page were cut without a break",
			zap.Int("slices", n))
	}
	if book.TOCUnsettled {
		c.logger.Warn("table of contents length did not settle, page numbers may be off")
	}
	return book, nil
}

func (c *Converter) measurerFor(css string) layout.Measurer {
	if c.measurer != nil {
		return c.measurer
	}
	src, ok := c.renderer.(browserSource)
	if !ok {
		m := layout.NewFontMeasurer()
		m.Plain = pipeline.PlainText
		return m
	}
	return &browserMeasurer{source: src, builder: c.builder, css: css, timeout: c.cfg.timeout}
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS
// content. An empty input uses the embedded report style.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput
	if input == "" {
		input = assets.DefaultStyleName
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.cfg.resolvedStyle = string(content)
		return nil
	}

	if strings.Contains(input, "{") {
		c.cfg.resolvedStyle = input
		return nil
	}

	css, err := c.loader.LoadStyle(input)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return fmt.Errorf("%w: %q", ErrStyleNotFound, input)
		}
		return fmt.Errorf("loading style %q: %w", input, err)
	}
	c.cfg.resolvedStyle = css
	return nil
}

// validateInput checks that required fields are present and valid.
func (c *Converter) validateInput(input Input) error {
	if input.Document == nil {
		return ErrNoDocument
	}
	if err := input.Document.Validate(diagram.Exists); err != nil {
		return err
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	if err := input.Footer.Validate(); err != nil {
		return err
	}
	return input.PageBreaks.Validate()
}
