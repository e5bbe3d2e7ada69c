package layout

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alnah/go-report2pdf/internal/document"
)

// ErrNilMeasurer is returned by Compose without a measurer.
var ErrNilMeasurer = errors.New("measurer is nil")

// maxTOCPasses bounds the table of contents fix-point loop.
const maxTOCPasses = 4

// Band is the text of a header or footer band.
type Band struct {
	Left  string
	Right string
}

// Page is one printed page.
type Page struct {
	Number  int // 1-based, across the whole book
	Section int // index into Document.Sections
	Header  *Band
	Footer  *Band
	Slices  PageSlices
}

// SectionPages records where a section landed and the blocks it was laid
// out from. For a table of contents Blocks include the generated table.
type SectionPages struct {
	Section   int
	ID        string
	FirstPage int
	PageCount int
	Blocks    []document.Block
	Measures  []Measure
}

// Book is the paginated document.
type Book struct {
	Geometry Geometry
	Pages    []Page
	Sections []SectionPages
	// TOCUnsettled is set when the table of contents still changed length
	// on its last pass; its page numbers may then be off.
	TOCUnsettled bool
}

// Overflows counts slices cut without an allowed break.
func (b *Book) Overflows() int {
	n := 0
	for _, p := range b.Pages {
		for _, s := range p.Slices {
			if s.Overflow {
				n++
			}
		}
	}
	return n
}

// Options tune Compose.
type Options struct {
	Rules Rules
	// FooterText overrides the document footer string.
	FooterText string
	// PageNumbers prints the page number at the right of the footer.
	PageNumbers bool
}

// Compose lays out every section of doc on fresh pages. Sections keep their
// authored order. Pages of book and table of contents sections carry header
// and footer bands; plain sections have none.
//
// The table of contents is laid out twice: first with placeholder page
// numbers, then with the first page of every chapter once all sections are
// paginated. The loop repeats while the table's own length keeps moving the
// chapters.
func Compose(ctx context.Context, doc *document.Document, geom Geometry, m Measurer, opts Options) (*Book, error) {
	if m == nil {
		return nil, ErrNilMeasurer
	}
	if err := doc.Validate(nil); err != nil {
		return nil, err
	}
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	if opts.Rules == (Rules{}) {
		opts.Rules = DefaultRules()
	}

	entries := doc.TOCEntries()
	placeholders := make([]string, len(entries))
	for i := range placeholders {
		placeholders[i] = document.TOCPagePlaceholder
	}

	sections := make([]SectionPages, len(doc.Sections))
	pages := make([][]PageSlices, len(doc.Sections))
	tocIndex := -1
	for i := range doc.Sections {
		s := &doc.Sections[i]
		blocks := s.Blocks
		if s.EffectiveLayout() == document.LayoutTOC {
			tocIndex = i
			blocks = tocBlocks(s, entries, placeholders)
		}
		sp, paged, err := layoutSection(ctx, i, s.ID, blocks, geom, m, opts.Rules)
		if err != nil {
			return nil, err
		}
		sections[i], pages[i] = sp, paged
	}
	number(sections)

	settled := true
	if tocIndex >= 0 {
		settled = false
		toc := &doc.Sections[tocIndex]
		for pass := 0; pass < maxTOCPasses; pass++ {
			numbers := make([]string, len(entries))
			for j, e := range entries {
				numbers[j] = strconv.Itoa(sections[e.Section].FirstPage)
			}
			before := sections[tocIndex].PageCount
			sp, paged, err := layoutSection(ctx, tocIndex, toc.ID, tocBlocks(toc, entries, numbers), geom, m, opts.Rules)
			if err != nil {
				return nil, err
			}
			sections[tocIndex], pages[tocIndex] = sp, paged
			number(sections)
			if sp.PageCount == before {
				settled = true
				break
			}
		}
	}

	book := &Book{Geometry: geom, Sections: sections, TOCUnsettled: !settled}
	footer := opts.FooterText
	if footer == "" {
		footer = doc.FooterText()
	}
	for i := range doc.Sections {
		s := &doc.Sections[i]
		header := headerBand(s)
		for j, slices := range pages[i] {
			p := Page{
				Number:  sections[i].FirstPage + j,
				Section: i,
				Slices:  slices,
			}
			if s.EffectiveLayout() != document.LayoutPlain {
				h := header
				f := Band{Left: footer}
				if opts.PageNumbers {
					f.Right = strconv.Itoa(p.Number)
				}
				p.Header, p.Footer = &h, &f
			}
			book.Pages = append(book.Pages, p)
		}
	}
	return book, nil
}

func layoutSection(ctx context.Context, index int, id string, blocks []document.Block, geom Geometry, m Measurer, rules Rules) (SectionPages, []PageSlices, error) {
	measures, err := m.Measure(ctx, blocks, geom.ContentWidth())
	if err != nil {
		return SectionPages{}, nil, fmt.Errorf("section %q: %w", id, err)
	}
	if len(measures) != len(blocks) {
		return SectionPages{}, nil, fmt.Errorf("section %q: measurer returned %d measures for %d blocks", id, len(measures), len(blocks))
	}
	paged := Paginate(geom, measures, rules)
	return SectionPages{
		Section:   index,
		ID:        id,
		PageCount: len(paged),
		Blocks:    blocks,
		Measures:  measures,
	}, paged, nil
}

// number assigns consecutive first pages in section order.
func number(sections []SectionPages) {
	next := 1
	for i := range sections {
		sections[i].FirstPage = next
		next += sections[i].PageCount
	}
}

// tocBlocks keeps any authored intro blocks ahead of the generated table.
func tocBlocks(s *document.Section, entries []document.TOCEntry, numbers []string) []document.Block {
	blocks := make([]document.Block, 0, len(s.Blocks)+1)
	blocks = append(blocks, s.Blocks...)
	return append(blocks, document.TOCBlocks(entries, numbers)...)
}

// ChapterLabel returns the header label for a chapter number, or "" when
// the section has none.
func ChapterLabel(chapter string) string {
	if chapter == "" {
		return ""
	}
	// Casers carry state, so each call gets its own.
	return cases.Upper(language.Und).String("chapter " + chapter)
}

func headerBand(s *document.Section) Band {
	return Band{Left: ChapterLabel(s.Chapter), Right: s.Title}
}
