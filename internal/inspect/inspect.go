// Package inspect reads the text of rendered PDF pages back and checks that
// every page carries the header and footer bands the layout promised.
package inspect

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/alnah/go-report2pdf/internal/layout"
	"github.com/alnah/go-report2pdf/internal/yamlutil"
)

// Sentinel errors.
var (
	ErrPDFRead  = errors.New("failed to read PDF")
	ErrMapRead  = errors.New("failed to read page map")
	ErrPageSkew = errors.New("page count differs from page map")
)

// Page is the extracted text of one PDF page.
type Page struct {
	Number int
	Text   string
}

// Open extracts the text of every page of the PDF at path.
func Open(path string) ([]Page, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFRead, err)
	}
	defer f.Close()
	return pages(r)
}

// Read extracts the text of every page of an in-memory PDF.
func Read(data []byte) ([]Page, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFRead, err)
	}
	return pages(r)
}

func pages(r *pdf.Reader) (out []Page, err error) {
	// The parser panics on some malformed streams.
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrPDFRead, p)
		}
	}()

	n := r.NumPage()
	out = make([]Page, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		page := Page{Number: i}
		if !p.V.IsNull() {
			text, err := p.GetPlainText(nil)
			if err != nil {
				return nil, fmt.Errorf("%w: page %d: %v", ErrPDFRead, i, err)
			}
			page.Text = text
		}
		out = append(out, page)
	}
	return out, nil
}

// PageBands lists the band strings expected on one page.
type PageBands struct {
	Number int      `yaml:"number"`
	Header []string `yaml:"header,omitempty"`
	Footer []string `yaml:"footer,omitempty"`
}

// PageMap is the band layout of a rendered book, written next to the PDF.
type PageMap struct {
	Title string      `yaml:"title,omitempty"`
	Pages []PageBands `yaml:"pages"`
}

// MapFromBook records the non-empty band strings of every page.
func MapFromBook(title string, book *layout.Book) PageMap {
	m := PageMap{Title: title, Pages: make([]PageBands, 0, len(book.Pages))}
	for _, p := range book.Pages {
		pb := PageBands{Number: p.Number}
		if p.Header != nil {
			pb.Header = nonEmpty(p.Header.Left, p.Header.Right)
		}
		if p.Footer != nil {
			pb.Footer = nonEmpty(p.Footer.Left, p.Footer.Right)
		}
		m.Pages = append(m.Pages, pb)
	}
	return m
}

func nonEmpty(ss ...string) []string {
	var out []string
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Marshal encodes the page map as YAML.
func (m PageMap) Marshal() ([]byte, error) {
	return yamlutil.Marshal(m)
}

// LoadMap reads a page map written by Marshal.
func LoadMap(path string) (PageMap, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return PageMap{}, fmt.Errorf("%w: %v", ErrMapRead, err)
	}
	var m PageMap
	if err := yamlutil.UnmarshalStrict(data, &m); err != nil {
		return PageMap{}, fmt.Errorf("%w: %v", ErrMapRead, err)
	}
	return m, nil
}

// Missing is a band string absent from a page.
type Missing struct {
	Page int
	Band string // "header" or "footer"
	Text string
}

func (m Missing) String() string {
	return fmt.Sprintf("page %d: %s %q not found", m.Page, m.Band, m.Text)
}

// CheckBands reports every expected band string that does not appear in
// the text of its page. Whitespace is ignored because text extraction does
// not keep the original spacing.
func CheckBands(pages []Page, m PageMap) ([]Missing, error) {
	if len(pages) != len(m.Pages) {
		return nil, fmt.Errorf("%w: PDF has %d pages, map has %d", ErrPageSkew, len(pages), len(m.Pages))
	}

	var missing []Missing
	for i, want := range m.Pages {
		text := compact(pages[i].Text)
		for _, s := range want.Header {
			if !strings.Contains(text, compact(s)) {
				missing = append(missing, Missing{Page: want.Number, Band: "header", Text: s})
			}
		}
		for _, s := range want.Footer {
			if !strings.Contains(text, compact(s)) {
				missing = append(missing, Missing{Page: want.Number, Band: "footer", Text: s})
			}
		}
	}
	return missing, nil
}

func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
