//go:build integration

package report2pdf

// Notes:
// - Needs Chrome (ROD_BROWSER_BIN or a system install). Run with
//   go test -tags integration.
// - The PDF is read back with the inspect package, so these tests check the
//   printed bands, not only the layout plan.

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-report2pdf/internal/document"
	"github.com/alnah/go-report2pdf/internal/inspect"
	"github.com/alnah/go-report2pdf/internal/layout"
)

func renderDefault(t *testing.T, input Input) *Result {
	t.Helper()

	conv, err := NewConverter(WithTimeout(2 * time.Minute))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	t.Cleanup(func() { _ = conv.Close() })

	if input.Document == nil {
		doc, err := document.Default()
		if err != nil {
			t.Fatalf("document.Default() error = %v", err)
		}
		input.Document = doc
	}

	res, err := conv.Render(context.Background(), input)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return res
}

func TestRender_EveryPageCarriesItsBands_Integration(t *testing.T) {
	res := renderDefault(t, Input{})

	pages, err := inspect.Read(res.PDF)
	if err != nil {
		t.Fatalf("inspect.Read() error = %v", err)
	}
	if len(pages) != len(res.Book.Pages) {
		t.Fatalf("PDF has %d pages, layout planned %d", len(pages), len(res.Book.Pages))
	}

	missing, err := inspect.CheckBands(pages, inspect.MapFromBook("", res.Book))
	if err != nil {
		t.Fatalf("CheckBands() error = %v", err)
	}
	for _, m := range missing {
		t.Errorf("missing %s", m)
	}
}

func TestRender_SDLCChapter_Integration(t *testing.T) {
	res := renderDefault(t, Input{})

	var sdlc *layout.SectionPages
	for i := range res.Book.Sections {
		if res.Book.Sections[i].ID == "sdlc" {
			sdlc = &res.Book.Sections[i]
		}
	}
	if sdlc == nil {
		t.Fatal("sdlc section not laid out")
	}
	if sdlc.PageCount < 2 {
		t.Errorf("sdlc spans %d page(s), want a multi-page chapter", sdlc.PageCount)
	}

	pages, err := inspect.Read(res.PDF)
	if err != nil {
		t.Fatalf("inspect.Read() error = %v", err)
	}
	for n := sdlc.FirstPage; n < sdlc.FirstPage+sdlc.PageCount; n++ {
		text := pages[n-1].Text
		for _, want := range []string{"CHAPTER 06", "SDLC", "BCA Project Report 2024-25"} {
			if !strings.Contains(text, want) {
				t.Errorf("page %d missing %q", n, want)
			}
		}
	}
}

func TestRender_HTMLOnlySkipsBrowser_Integration(t *testing.T) {
	res := renderDefault(t, Input{HTMLOnly: true})
	if res.PDF != nil || res.Book != nil {
		t.Error("HTML-only render produced a PDF or page map")
	}
	if !strings.Contains(string(res.HTML), "Online Library Management System") {
		t.Error("web preview lacks the report title")
	}
}
