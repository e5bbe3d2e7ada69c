// Package diagram draws static flowchart-style diagrams: hand-positioned
// boxes with drop shadows and centered labels, joined by arrow connectors.
// Coordinates are authored data; nothing here computes a graph layout.
package diagram

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/alnah/go-report2pdf/internal/fonts"
)

// Sentinel errors.
var (
	ErrUnknownDiagram = errors.New("unknown diagram")
	ErrEmptyDiagram   = errors.New("diagram has no boxes")
	ErrInvalidCanvas  = errors.New("invalid diagram canvas")
)

// Drawing constants shared by the SVG and PNG renderers.
const (
	ArrowOffset   = 10.0 // arrowhead length along the connector
	ArrowDelta    = 0.4  // arrowhead half-angle in radians
	ShadowOffset  = 3.0
	CornerRadius  = 4.0
	LabelSize     = 11.0
	LabelLeading  = 13.0
	labelPadding  = 8.0
	StrokeColor   = "#37474f"
	LabelColor    = "#102027"
	ShadowColor   = "#000000"
	ShadowOpacity = 0.18
)

// Point is a position on the canvas.
type Point struct {
	X, Y float64
}

// Box is a labelled rectangle.
type Box struct {
	Label  string
	X, Y   float64
	Width  float64
	Height float64
	Fill   string
}

// Center returns the middle of the box.
func (b Box) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Connector is a straight arrow from (X1, Y1) to (X2, Y2).
type Connector struct {
	X1, Y1, X2, Y2 float64
}

// Diagram is a fixed-size drawing.
type Diagram struct {
	Name       string
	Title      string
	Width      float64
	Height     float64
	Boxes      []Box
	Connectors []Connector
}

// Validate checks canvas and box dimensions.
func (d *Diagram) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrInvalidCanvas, d.Width, d.Height)
	}
	if len(d.Boxes) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyDiagram, d.Name)
	}
	for _, b := range d.Boxes {
		if b.Width <= 0 || b.Height <= 0 {
			return fmt.Errorf("%w: box %q has size %gx%g", ErrInvalidCanvas, b.Label, b.Width, b.Height)
		}
	}
	return nil
}

// Arrowhead returns the two back vertices of the arrowhead drawn at the end
// of c. They sit offset away from the end point, rotated by -delta and
// +delta from the connector direction atan2(y2-y1, x2-x1), so the head
// points along the connector whatever its slope.
func Arrowhead(c Connector, offset, delta float64) (left, right Point) {
	theta := math.Atan2(c.Y2-c.Y1, c.X2-c.X1)
	left = Point{
		X: c.X2 - offset*math.Cos(theta-delta),
		Y: c.Y2 - offset*math.Sin(theta-delta),
	}
	right = Point{
		X: c.X2 - offset*math.Cos(theta+delta),
		Y: c.Y2 - offset*math.Sin(theta+delta),
	}
	return left, right
}

// SplitLabel breaks a label into at most two lines that fit maxWidth points.
// An explicit newline wins; otherwise the split happens at the space closest
// to the middle. Text that still overflows is left as is.
func SplitLabel(label string, maxWidth float64) []string {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil
	}
	if first, rest, ok := strings.Cut(label, "\n"); ok {
		return []string{strings.TrimSpace(first), strings.Join(strings.Fields(rest), " ")}
	}
	if w, err := fonts.Width(fonts.Regular, LabelSize, label); err == nil && w <= maxWidth {
		return []string{label}
	}

	words := strings.Fields(label)
	if len(words) < 2 {
		return []string{label}
	}
	best, bestDiff := 1, math.MaxFloat64
	for i := 1; i < len(words); i++ {
		a := strings.Join(words[:i], " ")
		b := strings.Join(words[i:], " ")
		wa, _ := fonts.Width(fonts.Regular, LabelSize, a)
		wb, _ := fonts.Width(fonts.Regular, LabelSize, b)
		if diff := math.Abs(wa - wb); diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return []string{strings.Join(words[:best], " "), strings.Join(words[best:], " ")}
}

// labelLines returns the label lines of b and the baseline-centre y of each.
func labelLines(b Box) ([]string, []float64) {
	lines := SplitLabel(b.Label, b.Width-labelPadding)
	c := b.Center()
	ys := make([]float64, len(lines))
	for i := range lines {
		ys[i] = c.Y + (float64(i)-float64(len(lines)-1)/2)*LabelLeading
	}
	return lines, ys
}
