package document

import (
	"fmt"
	"strings"
)

// BlockType names the kind of content a block carries.
type BlockType string

// Block types.
const (
	BlockHeading   BlockType = "heading"
	BlockParagraph BlockType = "paragraph" // inline markdown
	BlockMarkdown  BlockType = "markdown"  // block markdown
	BlockList      BlockType = "list"
	BlockTable     BlockType = "table"
	BlockGrid      BlockType = "grid"
	BlockDiagram   BlockType = "diagram"
	BlockCode      BlockType = "code"
	BlockImage     BlockType = "image"
	BlockSpacer    BlockType = "spacer"
	BlockPageBreak BlockType = "pagebreak"
)

// Limits enforced by Validate.
const (
	MaxHeadingLevel = 4
	MaxGridColumns  = 4
)

// Block is one piece of flowed content. Only the fields relevant to Type
// are read.
type Block struct {
	Type     BlockType  `yaml:"type"`
	Level    int        `yaml:"level,omitempty"`
	Text     string     `yaml:"text,omitempty"`
	Align    string     `yaml:"align,omitempty"` // left, center, right, justify
	Class    string     `yaml:"class,omitempty"` // extra CSS class
	Items    []string   `yaml:"items,omitempty"`
	Ordered  bool       `yaml:"ordered,omitempty"`
	Columns  []string   `yaml:"columns,omitempty"`
	Widths   []float64  `yaml:"widths,omitempty"` // column fractions, sum 1
	Rows     [][]string `yaml:"rows,omitempty"`
	Span     int        `yaml:"span,omitempty"` // grid column count
	Cells    []Cell     `yaml:"cells,omitempty"`
	Name     string     `yaml:"name,omitempty"` // diagram name
	Caption  string     `yaml:"caption,omitempty"`
	Language string     `yaml:"language,omitempty"`
	Path     string     `yaml:"path,omitempty"`
	Width    float64    `yaml:"width,omitempty"`  // image width in points
	Height   float64    `yaml:"height,omitempty"` // spacer height in points
}

// Cell is one tile of a grid block.
type Cell struct {
	Title string `yaml:"title,omitempty"`
	Text  string `yaml:"text"`
}

// Validate checks that the fields required by the block type are present.
func (b *Block) Validate(isDiagram func(string) bool) error {
	switch b.Type {
	case BlockHeading:
		if b.Level < 1 || b.Level > MaxHeadingLevel {
			return fmt.Errorf("%w: heading level %d (must be 1-%d)", ErrInvalidBlock, b.Level, MaxHeadingLevel)
		}
		return requireText(b)
	case BlockParagraph, BlockMarkdown, BlockCode:
		return requireText(b)
	case BlockList:
		if len(b.Items) == 0 {
			return fmt.Errorf("%w: list without items", ErrInvalidBlock)
		}
	case BlockTable:
		return b.validateTable()
	case BlockGrid:
		if b.Span < 1 || b.Span > MaxGridColumns {
			return fmt.Errorf("%w: grid span %d (must be 1-%d)", ErrInvalidBlock, b.Span, MaxGridColumns)
		}
		if len(b.Cells) == 0 {
			return fmt.Errorf("%w: grid without cells", ErrInvalidBlock)
		}
	case BlockDiagram:
		if b.Name == "" {
			return fmt.Errorf("%w: diagram without name", ErrInvalidBlock)
		}
		if isDiagram != nil && !isDiagram(b.Name) {
			return fmt.Errorf("%w: %q", ErrUnknownDiagram, b.Name)
		}
	case BlockImage:
		if b.Path == "" {
			return fmt.Errorf("%w: image without path", ErrInvalidBlock)
		}
	case BlockSpacer:
		if b.Height <= 0 {
			return fmt.Errorf("%w: spacer height must be positive", ErrInvalidBlock)
		}
	case BlockPageBreak:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidBlock, b.Type)
	}

	switch b.Align {
	case "", "left", "center", "right", "justify":
		return nil
	default:
		return fmt.Errorf("%w: align %q", ErrInvalidBlock, b.Align)
	}
}

func requireText(b *Block) error {
	if strings.TrimSpace(b.Text) == "" {
		return fmt.Errorf("%w: %s without text", ErrInvalidBlock, b.Type)
	}
	return nil
}

func (b *Block) validateTable() error {
	if len(b.Columns) == 0 {
		return fmt.Errorf("%w: table without columns", ErrInvalidBlock)
	}
	for i, row := range b.Rows {
		if len(row) != len(b.Columns) {
			return fmt.Errorf("%w: table row %d has %d cells, want %d", ErrInvalidBlock, i+1, len(row), len(b.Columns))
		}
	}
	if len(b.Widths) == 0 {
		return nil
	}
	if len(b.Widths) != len(b.Columns) {
		return fmt.Errorf("%w: %d widths for %d columns", ErrInvalidBlock, len(b.Widths), len(b.Columns))
	}
	sum := 0.0
	for _, w := range b.Widths {
		if w <= 0 {
			return fmt.Errorf("%w: column width must be positive", ErrInvalidBlock)
		}
		sum += w
	}
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("%w: column widths sum to %.2f, want 1", ErrInvalidBlock, sum)
	}
	return nil
}

// ColumnWidths returns the column fractions of a table, splitting evenly
// when none are authored.
func (b *Block) ColumnWidths() []float64 {
	if len(b.Widths) == len(b.Columns) && len(b.Widths) > 0 {
		return b.Widths
	}
	out := make([]float64, len(b.Columns))
	for i := range out {
		out[i] = 1 / float64(len(b.Columns))
	}
	return out
}
