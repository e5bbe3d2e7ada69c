package diagram

import (
	"fmt"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/alnah/go-report2pdf/internal/fonts"
)

// PNG rasterises the diagram with the same primitives as SVG. scale
// multiplies the canvas (2 gives a sharp image for print).
func (d *Diagram) PNG(w io.Writer, scale float64) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if scale <= 0 {
		scale = 1
	}

	dc := gg.NewContext(int(math.Ceil(d.Width*scale)), int(math.Ceil(d.Height*scale)))
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.Scale(scale, scale)

	face, err := fonts.NewFace(fonts.Regular, LabelSize)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)

	for _, b := range d.Boxes {
		dc.SetRGBA(0, 0, 0, ShadowOpacity)
		dc.DrawRoundedRectangle(b.X+ShadowOffset, b.Y+ShadowOffset, b.Width, b.Height, CornerRadius)
		dc.Fill()

		dc.SetHexColor(b.Fill)
		dc.DrawRoundedRectangle(b.X, b.Y, b.Width, b.Height, CornerRadius)
		dc.FillPreserve()
		dc.SetHexColor(StrokeColor)
		dc.SetLineWidth(1)
		dc.Stroke()

		lines, ys := labelLines(b)
		dc.SetHexColor(LabelColor)
		cx := b.Center().X
		for i, line := range lines {
			dc.DrawStringAnchored(line, cx, ys[i], 0.5, 0.35)
		}
	}

	dc.SetHexColor(StrokeColor)
	for _, c := range d.Connectors {
		dc.SetLineWidth(1.5)
		dc.DrawLine(c.X1, c.Y1, c.X2, c.Y2)
		dc.Stroke()

		l, r := Arrowhead(c, ArrowOffset, ArrowDelta)
		dc.MoveTo(c.X2, c.Y2)
		dc.LineTo(l.X, l.Y)
		dc.LineTo(r.X, r.Y)
		dc.ClosePath()
		dc.Fill()
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}
