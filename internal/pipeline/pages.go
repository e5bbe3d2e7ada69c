package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"sync"

	"github.com/alnah/go-report2pdf/internal/assets"
	"github.com/alnah/go-report2pdf/internal/document"
	"github.com/alnah/go-report2pdf/internal/layout"
)

// ErrTemplate indicates a page template failed to parse or execute.
var ErrTemplate = errors.New("page template failed")

// Builder assembles complete HTML pages from blocks and templates.
type Builder struct {
	loader assets.AssetLoader
	blocks *BlockRenderer

	mu        sync.Mutex
	templates map[string]*template.Template
}

// NewBuilder creates a Builder. A nil loader uses the embedded assets.
func NewBuilder(loader assets.AssetLoader, blocks *BlockRenderer) *Builder {
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}
	if blocks == nil {
		blocks = NewBlockRenderer()
	}
	return &Builder{loader: loader, blocks: blocks, templates: make(map[string]*template.Template)}
}

// Blocks returns the renderer shared by every page the builder produces.
func (b *Builder) Blocks() *BlockRenderer {
	return b.blocks
}

type blockView struct {
	Type  document.BlockType
	Class string
	Kind  string
	HTML  template.HTML
}

type sectionView struct {
	ID          string
	Layout      document.Layout
	BreakBefore bool
	Blocks      []blockView
}

// WebPreview renders the browser document: every section stacked in
// authored order, CSS page-break hints from BreakBefore, and a print button.
// The table of contents links to section anchors and shows no page numbers.
func (b *Builder) WebPreview(ctx context.Context, doc *document.Document, width float64, css string) (string, error) {
	entries := doc.TOCEntries()
	sections := make([]sectionView, 0, len(doc.Sections))
	for i := range doc.Sections {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		s := &doc.Sections[i]
		blocks := s.Blocks
		if s.EffectiveLayout() == document.LayoutTOC {
			blocks = append(append([]document.Block(nil), s.Blocks...), document.TOCBlocks(entries, nil)...)
		}
		views, err := b.render(blocks, width)
		if err != nil {
			return "", fmt.Errorf("section %q: %w", s.ID, err)
		}
		sections = append(sections, sectionView{
			ID:          s.ID,
			Layout:      s.EffectiveLayout(),
			BreakBefore: s.BreakBefore,
			Blocks:      views,
		})
	}
	return b.execute(assets.TemplateWeb, map[string]any{
		"Title":    doc.Title,
		"CSS":      template.CSS(css), // #nosec G203 -- stylesheet assembled by the caller
		"Sections": sections,
	})
}

type sliceView struct {
	blockView
	Outer    template.CSS
	Inner    template.CSS
	Overflow bool
}

type pageView struct {
	Number    int
	SectionID string
	Header    *layout.Band
	Footer    *layout.Band
	Slices    []sliceView
}

// PagedHTML renders a composed book: one fixed-size box per page, each
// carrying its own bands and the block slices that landed on it.
func (b *Builder) PagedHTML(ctx context.Context, book *layout.Book, title, css string) (string, error) {
	width := book.Geometry.ContentWidth()
	rendered := make([][]blockView, len(book.Sections))
	for i, sp := range book.Sections {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		views, err := b.render(sp.Blocks, width)
		if err != nil {
			return "", fmt.Errorf("section %q: %w", sp.ID, err)
		}
		rendered[i] = views
	}

	pages := make([]pageView, 0, len(book.Pages))
	for _, p := range book.Pages {
		pv := pageView{
			Number:    p.Number,
			SectionID: book.Sections[p.Section].ID,
			Header:    p.Header,
			Footer:    p.Footer,
		}
		for _, s := range p.Slices {
			pv.Slices = append(pv.Slices, sliceView{
				blockView: rendered[p.Section][s.Block],
				Outer:     template.CSS("height:" + pt(s.Height())), // #nosec G203 -- numeric
				Inner:     template.CSS("margin-top:" + pt(-s.From)), // #nosec G203 -- numeric
				Overflow:  s.Overflow,
			})
		}
		pages = append(pages, pv)
	}

	return b.execute(assets.TemplatePaged, map[string]any{
		"Title": title,
		"CSS":   template.CSS(css), // #nosec G203 -- stylesheet assembled by the caller
		"Pages": pages,
	})
}

// MeasureHTML renders blocks in a single column of width points for the
// browser measurer. Every block wrapper carries its split kind.
func (b *Builder) MeasureHTML(blocks []document.Block, width float64, css string) (string, error) {
	views, err := b.render(blocks, width)
	if err != nil {
		return "", err
	}
	return b.execute(assets.TemplateMeasure, map[string]any{
		"CSS":    template.CSS(css),                    // #nosec G203 -- stylesheet assembled by the caller
		"Style":  template.CSS("width:" + pt(width)), // #nosec G203 -- numeric
		"Blocks": views,
	})
}

// Viewer renders the page that fetches the PDF at pdfURL into a blob and
// shows it in the #pdf-viewer iframe.
func (b *Builder) Viewer(title, pdfURL string) (string, error) {
	return b.execute(assets.TemplateViewer, map[string]any{
		"Title":  title,
		"PDFURL": pdfURL,
	})
}

func (b *Builder) render(blocks []document.Block, width float64) ([]blockView, error) {
	views := make([]blockView, len(blocks))
	for i := range blocks {
		h, err := b.blocks.Render(&blocks[i], width)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i+1, err)
		}
		views[i] = blockView{
			Type:  blocks[i].Type,
			Class: Class(&blocks[i]),
			Kind:  Kind(blocks[i].Type),
			HTML:  h,
		}
	}
	return views, nil
}

func (b *Builder) template(name string) (*template.Template, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if t, ok := b.templates[name]; ok {
		return t, nil
	}
	src, err := b.loader.LoadTemplate(name)
	if err != nil {
		return nil, err
	}
	t, err := template.New(name).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrTemplate, name, err)
	}
	b.templates[name] = t
	return t, nil
}

func (b *Builder) execute(name string, data any) (string, error) {
	t, err := b.template(name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: executing %s: %v", ErrTemplate, name, err)
	}
	return buf.String(), nil
}
