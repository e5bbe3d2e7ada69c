package layout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-report2pdf/internal/diagram"
	"github.com/alnah/go-report2pdf/internal/document"
	"github.com/alnah/go-report2pdf/internal/fonts"
)

const longText = "The waterfall model is a linear sequential design approach in which " +
	"progress flows in one direction, downwards like a waterfall, through the phases " +
	"of requirement analysis, system design, implementation, testing, deployment and " +
	"maintenance. Each phase must be completed before the next one begins."

func measureOne(t *testing.T, m *FontMeasurer, b document.Block, width float64) Measure {
	t.Helper()

	got, err := m.Measure(context.Background(), []document.Block{b}, width)
	if err != nil {
		t.Fatalf("Measure(%s): %v", b.Type, err)
	}
	return got[0]
}

// ---------------------------------------------------------------------------
// TestWrapCount - Greedy word wrap
// ---------------------------------------------------------------------------

func TestWrapCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		width float64
		want  int
	}{
		{name: "empty", text: "", width: 100, want: 1},
		{name: "short", text: "Testing", width: 200, want: 1},
		{name: "word per line", text: "alpha beta gamma", width: 1, want: 3},
		{name: "whitespace collapsed", text: "  alpha \n\t beta  ", width: 500, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := WrapCount(tt.text, fonts.Regular, 11, tt.width)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("WrapCount(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestWrapCount_NarrowerIsTaller(t *testing.T) {
	t.Parallel()

	wide, _ := WrapCount(longText, fonts.Regular, 11, 450)
	narrow, _ := WrapCount(longText, fonts.Regular, 11, 150)
	if narrow <= wide {
		t.Errorf("narrow = %d lines, wide = %d lines", narrow, wide)
	}
}

// ---------------------------------------------------------------------------
// TestFontMeasurer - Heights and break candidates per block type
// ---------------------------------------------------------------------------

func TestFontMeasurer_Paragraph(t *testing.T) {
	t.Parallel()

	m := NewFontMeasurer()
	got := measureOne(t, m, document.Block{Type: document.BlockParagraph, Text: longText}, 200)

	n, _ := WrapCount(longText, fonts.Regular, m.Styles.Body.Size, 200)
	if n < 3 {
		t.Fatalf("expected several lines, got %d", n)
	}
	if want := float64(n)*m.Styles.Body.Leading + m.Styles.Body.SpaceAfter; got.Height != want {
		t.Errorf("Height = %v, want %v", got.Height, want)
	}
	if len(got.Breaks) != n-1 {
		t.Errorf("got %d breaks for %d lines", len(got.Breaks), n)
	}
	if got.KeepWithNext || got.ForceBreak {
		t.Error("paragraph flags set")
	}
}

func TestFontMeasurer_Heading(t *testing.T) {
	t.Parallel()

	m := NewFontMeasurer()
	got := measureOne(t, m, document.Block{Type: document.BlockHeading, Level: 2, Text: "Testing"}, 400)
	hs := m.Styles.Heading(2)
	if got.Height != hs.Leading+hs.SpaceAfter || !got.KeepWithNext || len(got.Breaks) != 0 {
		t.Errorf("heading measure = %+v", got)
	}
}

func TestFontMeasurer_Code(t *testing.T) {
	t.Parallel()

	m := NewFontMeasurer()
	got := measureOne(t, m, document.Block{Type: document.BlockCode, Text: "a\nb\nc\n"}, 400)
	st := m.Styles
	if want := 2*st.CodePadding + 3*st.Code.Leading + st.Code.SpaceAfter; got.Height != want {
		t.Errorf("Height = %v, want %v", got.Height, want)
	}
	if len(got.Breaks) != 2 || got.Breaks[0] != st.CodePadding+st.Code.Leading {
		t.Errorf("Breaks = %v", got.Breaks)
	}
}

func TestFontMeasurer_Table(t *testing.T) {
	t.Parallel()

	m := NewFontMeasurer()
	b := document.Block{
		Type:    document.BlockTable,
		Columns: []string{"Phase", "Output"},
		Rows: [][]string{
			{"Analysis", "SRS"},
			{"Design", "Architecture"},
			{"Testing", "Test report"},
		},
	}
	got := measureOne(t, m, b, 400)
	st := m.Styles
	row := st.Cell.Leading + 2*st.CellPadding + RuleWidth
	if want := RuleWidth + 4*row + st.Body.SpaceAfter; got.Height != want {
		t.Errorf("Height = %v, want %v", got.Height, want)
	}
	if len(got.Breaks) != 2 {
		t.Errorf("Breaks = %v, want one per inner row boundary", got.Breaks)
	}
}

func TestFontMeasurer_Grid(t *testing.T) {
	t.Parallel()

	m := NewFontMeasurer()
	b := document.Block{Type: document.BlockGrid, Span: 2, Cells: []document.Cell{
		{Title: "Plan", Text: "Scope"}, {Title: "Build", Text: "Code"}, {Title: "Ship", Text: "Deploy"},
	}}
	got := measureOne(t, m, b, 400)
	if len(got.Breaks) != 1 {
		t.Errorf("Breaks = %v, want one between two grid rows", got.Breaks)
	}
}

func TestFontMeasurer_Diagram(t *testing.T) {
	t.Parallel()

	m := NewFontMeasurer()
	d, _ := diagram.Lookup("process-flow")
	got := measureOne(t, m, document.Block{Type: document.BlockDiagram, Name: "process-flow"}, d.Width/2)
	if want := d.Height/2 + m.Styles.Caption.SpaceAfter; got.Height != want {
		t.Errorf("Height = %v, want %v", got.Height, want)
	}
	if len(got.Breaks) != 0 {
		t.Error("diagram must not split")
	}
}

func TestFontMeasurer_Image(t *testing.T) {
	t.Parallel()

	m := NewFontMeasurer()
	m.ImageSize = func(path string, width, maxWidth float64) (float64, float64, error) {
		if path != "logo.png" || maxWidth != 300 {
			t.Errorf("ImageSize(%q, %v, %v)", path, width, maxWidth)
		}
		return 100, 50, nil
	}
	got := measureOne(t, m, document.Block{Type: document.BlockImage, Path: "logo.png", Caption: "Logo"}, 300)
	cs := m.Styles.Caption
	if want := 50 + cs.Leading + cs.SpaceAfter; got.Height != want {
		t.Errorf("Height = %v, want %v", got.Height, want)
	}
}

func TestFontMeasurer_SpacerAndBreak(t *testing.T) {
	t.Parallel()

	m := NewFontMeasurer()
	got, err := m.Measure(context.Background(), []document.Block{
		{Type: document.BlockSpacer, Height: 42},
		{Type: document.BlockPageBreak},
	}, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Height != 42 || got[0].ForceBreak {
		t.Errorf("spacer = %+v", got[0])
	}
	if !got[1].ForceBreak || got[1].Height != 0 {
		t.Errorf("pagebreak = %+v", got[1])
	}
}

func TestFontMeasurer_Markdown(t *testing.T) {
	t.Parallel()

	m := NewFontMeasurer()
	text := "First paragraph.\n\n- one\n- two\n- three\n"
	got := measureOne(t, m, document.Block{Type: document.BlockMarkdown, Text: text}, 400)
	body := m.Styles.Body
	// One line, gap, three items.
	if want := 4*body.Leading + body.SpaceAfter + body.SpaceAfter; got.Height != want {
		t.Errorf("Height = %v, want %v", got.Height, want)
	}
	if len(got.Breaks) != 3 {
		t.Errorf("Breaks = %v", got.Breaks)
	}
}

func TestFontMeasurer_Errors(t *testing.T) {
	t.Parallel()

	m := NewFontMeasurer()
	_, err := m.Measure(context.Background(), []document.Block{{Type: document.BlockDiagram, Name: "nope"}}, 300)
	if !errors.Is(err, diagram.ErrUnknownDiagram) {
		t.Errorf("unknown diagram error = %v", err)
	}

	_, err = m.Measure(context.Background(), []document.Block{{Type: "video"}}, 300)
	if !errors.Is(err, document.ErrInvalidBlock) {
		t.Errorf("unknown type error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Measure(ctx, []document.Block{{Type: document.BlockSpacer, Height: 1}}, 300)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestStripInline - Visible text of inline markdown
// ---------------------------------------------------------------------------

func TestStripInline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{in: "plain", want: "plain"},
		{in: "**bold** and *em*", want: "bold and em"},
		{in: "see [the docs](https://example.com)", want: "see the docs"},
		{in: "`code` here", want: "code here"},
		{in: `\*literal\*`, want: "literal"},
	}
	for _, tt := range tests {
		if got := StripInline(tt.in); strings.TrimSpace(got) != tt.want {
			t.Errorf("StripInline(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
