// Package document defines the report content model: an ordered list of
// sections, each an ordered list of typed blocks. The model is plain data
// loaded from YAML; one generic renderer turns it into HTML for both the web
// preview and the paginated PDF.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gosimple/slug"

	"github.com/alnah/go-report2pdf/internal/assets"
	"github.com/alnah/go-report2pdf/internal/yamlutil"
)

// Sentinel errors for document loading and validation.
var (
	ErrEmptyDocument    = errors.New("document has no title or sections")
	ErrDocumentParse    = errors.New("failed to parse document")
	ErrDocumentRead     = errors.New("failed to read document")
	ErrInvalidSection   = errors.New("invalid section")
	ErrDuplicateSection = errors.New("duplicate section id")
	ErrInvalidBlock     = errors.New("invalid block")
	ErrUnknownDiagram   = errors.New("unknown diagram")
)

// Layout selects how a section is placed on fixed pages.
type Layout string

const (
	// LayoutBook flows content through the fixed-page primitive with
	// header and footer bands on every page.
	LayoutBook Layout = "book"
	// LayoutPlain uses fixed pages without bands (title page).
	LayoutPlain Layout = "plain"
	// LayoutTOC is a generated table of contents, laid out like LayoutBook.
	LayoutTOC Layout = "toc"
)

// Document is the whole report.
type Document struct {
	Title    string    `yaml:"title"`
	Subtitle string    `yaml:"subtitle,omitempty"`
	Footer   string    `yaml:"footer,omitempty"` // constant footer band text
	Date     string    `yaml:"date,omitempty"`   // literal, "auto", or "auto:FORMAT"
	Sections []Section `yaml:"sections"`
}

// Section is one authored unit of content.
type Section struct {
	ID          string  `yaml:"id,omitempty"`
	Title       string  `yaml:"title"`
	Chapter     string  `yaml:"chapter,omitempty"`
	Layout      Layout  `yaml:"layout,omitempty"`
	BreakBefore bool    `yaml:"breakBefore,omitempty"` // web path page-break hint
	Blocks      []Block `yaml:"blocks,omitempty"`
}

// FooterText returns the footer band string, falling back to the title and
// subtitle when no explicit footer is authored.
func (d *Document) FooterText() string {
	if d.Footer != "" {
		return d.Footer
	}
	if d.Subtitle != "" {
		return d.Title + " | " + d.Subtitle
	}
	return d.Title
}

// EffectiveLayout returns the section layout, defaulting to LayoutBook.
func (s *Section) EffectiveLayout() Layout {
	if s.Layout == "" {
		return LayoutBook
	}
	return s.Layout
}

// Load decodes a document from YAML and fills derived fields.
func Load(r io.Reader) (*Document, error) {
	var doc Document
	if err := yamlutil.DecodeStrict(r, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentParse, err)
	}
	if err := doc.Normalize(); err != nil {
		return nil, err
	}
	if err := doc.StampDate(now()); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadFile reads and decodes a YAML document from disk.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided document path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentRead, err)
	}
	defer f.Close()

	doc, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.ResolvePaths(filepath.Dir(path))
	return doc, nil
}

// Default returns the report embedded in the binary.
func Default() (*Document, error) {
	return FromLoader(assets.NewEmbeddedLoader())
}

// FromLoader loads the default report through loader, so a custom asset
// directory with content/report.yaml replaces the embedded one.
func FromLoader(loader assets.AssetLoader) (*Document, error) {
	data, err := loader.LoadContent(assets.DefaultContentName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentRead, err)
	}
	return Load(bytes.NewReader(data))
}

// ResolvePaths makes relative image paths absolute against dir, the
// directory of the document file.
func (d *Document) ResolvePaths(dir string) {
	if dir == "" {
		return
	}
	for i := range d.Sections {
		for j := range d.Sections[i].Blocks {
			b := &d.Sections[i].Blocks[j]
			if b.Type == BlockImage && b.Path != "" && !filepath.IsAbs(b.Path) {
				b.Path = filepath.Join(dir, b.Path)
			}
		}
	}
}

// Normalize derives missing section ids from titles. Authored ids must be
// unique; derived ones get a numeric suffix on collision.
func (d *Document) Normalize() error {
	seen := make(map[string]bool, len(d.Sections))
	for i := range d.Sections {
		if id := d.Sections[i].ID; id != "" {
			if seen[id] {
				return fmt.Errorf("%w: %q", ErrDuplicateSection, id)
			}
			seen[id] = true
		}
	}
	for i := range d.Sections {
		s := &d.Sections[i]
		if s.ID != "" {
			continue
		}
		base := slug.Make(s.Title)
		if base == "" {
			base = "section"
		}
		id := base
		for n := 2; seen[id]; n++ {
			id = base + "-" + strconv.Itoa(n)
		}
		seen[id] = true
		s.ID = id
	}
	return nil
}

// Validate checks document structure. isDiagram reports whether a diagram
// name is known; nil skips that check.
func (d *Document) Validate(isDiagram func(string) bool) error {
	if d == nil || strings.TrimSpace(d.Title) == "" || len(d.Sections) == 0 {
		return ErrEmptyDocument
	}

	tocs := 0
	ids := make(map[string]bool, len(d.Sections))
	for i := range d.Sections {
		s := &d.Sections[i]
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("%w: section %d has no title", ErrInvalidSection, i+1)
		}
		if s.ID != "" {
			if ids[s.ID] {
				return fmt.Errorf("%w: %q", ErrDuplicateSection, s.ID)
			}
			ids[s.ID] = true
		}
		switch s.EffectiveLayout() {
		case LayoutBook, LayoutPlain:
		case LayoutTOC:
			tocs++
			if tocs > 1 {
				return fmt.Errorf("%w: more than one table of contents", ErrInvalidSection)
			}
		default:
			return fmt.Errorf("%w: %q has unknown layout %q", ErrInvalidSection, s.Title, s.Layout)
		}
		for j := range s.Blocks {
			if err := s.Blocks[j].Validate(isDiagram); err != nil {
				return fmt.Errorf("section %q block %d: %w", s.Title, j+1, err)
			}
		}
	}
	return nil
}

// TOCEntry is one line of the table of contents.
type TOCEntry struct {
	Section int // index into Document.Sections
	ID      string
	Chapter string
	Title   string
}

// TOCEntries lists, in authored order, every section that belongs in the
// table of contents: all book sections.
func (d *Document) TOCEntries() []TOCEntry {
	var entries []TOCEntry
	for i := range d.Sections {
		s := &d.Sections[i]
		if s.EffectiveLayout() != LayoutBook {
			continue
		}
		entries = append(entries, TOCEntry{Section: i, ID: s.ID, Chapter: s.Chapter, Title: s.Title})
	}
	return entries
}

// TOCPagePlaceholder stands in for page numbers while the table of contents
// is measured. It is as wide as any realistic page number.
const TOCPagePlaceholder = "000"

// TOCBlocks builds the content of the table of contents. With pages nil the
// table has no page column and titles link to section anchors (web path);
// otherwise pages[i] is the first page of entries[i].
func TOCBlocks(entries []TOCEntry, pages []string) []Block {
	table := Block{
		Type:    BlockTable,
		Columns: []string{"No.", "Title"},
		Widths:  []float64{0.15, 0.85},
		Class:   "toc",
	}
	if pages != nil {
		table.Columns = append(table.Columns, "Page")
		table.Widths = []float64{0.15, 0.70, 0.15}
	}
	for i, e := range entries {
		title := e.Title
		if pages == nil {
			title = fmt.Sprintf("[%s](#%s)", escapeMarkdown(e.Title), e.ID)
		} else {
			title = escapeMarkdown(title)
		}
		row := []string{e.Chapter, title}
		if pages != nil {
			row = append(row, pages[i])
		}
		table.Rows = append(table.Rows, row)
	}
	return []Block{table}
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`, "`", "\\`", "|", `\|`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
