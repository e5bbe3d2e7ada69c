package layout

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for page geometry.
var (
	ErrUnknownPageSize = errors.New("unknown page size")
	ErrBandOverlap     = errors.New("band overlaps the content area")
	ErrNoContentArea   = errors.New("margins leave no content area")
)

// PointsPerInch converts inches to points.
const PointsPerInch = 72.0

// Page sizes in points, portrait.
var pageSizes = map[string][2]float64{
	"letter": {612, 792},
	"a4":     {595.28, 841.89},
	"legal":  {612, 1008},
}

// PageSize returns the portrait width and height of a named size.
func PageSize(name string) (w, h float64, err error) {
	s, ok := pageSizes[strings.ToLower(name)]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q (must be letter, a4, or legal)", ErrUnknownPageSize, name)
	}
	return s[0], s[1], nil
}

// Margins are page margins in points.
type Margins struct {
	Top, Bottom, Left, Right float64
}

// Geometry is the constant page geometry of a document, in points.
//
// The header band starts HeaderOffset below the page top edge and the footer
// band ends FooterOffset above the bottom edge. Both bands must sit inside
// their margin so they never cover content.
type Geometry struct {
	Width        float64
	Height       float64
	Margins      Margins
	HeaderOffset float64
	FooterOffset float64
	BandHeight   float64
}

// DefaultBandHeight fits one line of band text plus its rule.
const DefaultBandHeight = 18.0

// NewGeometry builds a validated geometry for a named page size.
func NewGeometry(size string, landscape bool, m Margins, headerOffset, footerOffset float64) (Geometry, error) {
	w, h, err := PageSize(size)
	if err != nil {
		return Geometry{}, err
	}
	if landscape {
		w, h = h, w
	}
	g := Geometry{
		Width:        w,
		Height:       h,
		Margins:      m,
		HeaderOffset: headerOffset,
		FooterOffset: footerOffset,
		BandHeight:   DefaultBandHeight,
	}
	if err := g.Validate(); err != nil {
		return Geometry{}, err
	}
	return g, nil
}

// ContentWidth is the width available to flowed content.
func (g Geometry) ContentWidth() float64 {
	return g.Width - g.Margins.Left - g.Margins.Right
}

// ContentHeight is the height budget of one page.
func (g Geometry) ContentHeight() float64 {
	return g.Height - g.Margins.Top - g.Margins.Bottom
}

// Validate rejects negative values, an empty content box, and bands that
// reach into it.
func (g Geometry) Validate() error {
	m := g.Margins
	if m.Top < 0 || m.Bottom < 0 || m.Left < 0 || m.Right < 0 || g.HeaderOffset < 0 || g.FooterOffset < 0 {
		return fmt.Errorf("%w: negative margin or offset", ErrNoContentArea)
	}
	if g.ContentWidth() <= 0 || g.ContentHeight() <= 0 {
		return fmt.Errorf("%w: %.1fx%.1fpt", ErrNoContentArea, g.ContentWidth(), g.ContentHeight())
	}
	if g.HeaderOffset+g.BandHeight > m.Top {
		return fmt.Errorf("%w: header ends at %.1fpt, top margin is %.1fpt", ErrBandOverlap, g.HeaderOffset+g.BandHeight, m.Top)
	}
	if g.FooterOffset+g.BandHeight > m.Bottom {
		return fmt.Errorf("%w: footer starts %.1fpt from the bottom, bottom margin is %.1fpt", ErrBandOverlap, g.FooterOffset+g.BandHeight, m.Bottom)
	}
	return nil
}
