package layout

import (
	"github.com/alnah/go-report2pdf/internal/document"
	"github.com/alnah/go-report2pdf/internal/fonts"
)

// TextStyle describes one kind of text run. The CSS generator emits the same
// values, so measured and printed line boxes agree.
type TextStyle struct {
	Font       fonts.Style
	Size       float64 // pt
	Leading    float64 // line height, pt
	SpaceAfter float64 // gap below the block, pt
}

// Styles is the typographic table of the paged output.
type Styles struct {
	Body     TextStyle
	Headings [document.MaxHeadingLevel]TextStyle
	Code     TextStyle
	Caption  TextStyle
	Cell     TextStyle
	Band     TextStyle

	CellPadding float64 // vertical and horizontal, per side
	CodePadding float64
	ListIndent  float64
	GridGap     float64
}

// DefaultStyles returns the report typography.
func DefaultStyles() Styles {
	return Styles{
		Body: TextStyle{Font: fonts.Regular, Size: 11, Leading: 16, SpaceAfter: 8},
		Headings: [document.MaxHeadingLevel]TextStyle{
			{Font: fonts.Bold, Size: 20, Leading: 26, SpaceAfter: 12},
			{Font: fonts.Bold, Size: 16, Leading: 21, SpaceAfter: 10},
			{Font: fonts.Bold, Size: 13, Leading: 18, SpaceAfter: 8},
			{Font: fonts.Bold, Size: 11, Leading: 16, SpaceAfter: 6},
		},
		Code:        TextStyle{Font: fonts.Mono, Size: 9, Leading: 12, SpaceAfter: 8},
		Caption:     TextStyle{Font: fonts.Regular, Size: 9, Leading: 12, SpaceAfter: 8},
		Cell:        TextStyle{Font: fonts.Regular, Size: 10, Leading: 14},
		Band:        TextStyle{Font: fonts.Regular, Size: 9, Leading: 12},
		CellPadding: 4,
		CodePadding: 6,
		ListIndent:  18,
		GridGap:     8,
	}
}

// Heading returns the style of a heading level, clamped to the table.
func (s *Styles) Heading(level int) TextStyle {
	if level < 1 {
		level = 1
	}
	if level > len(s.Headings) {
		level = len(s.Headings)
	}
	return s.Headings[level-1]
}
