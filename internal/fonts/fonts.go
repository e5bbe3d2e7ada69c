// Package fonts exposes the Go font family used for both measuring text in
// the layout engine and drawing diagram labels. The same TTF bytes are
// embedded into the generated HTML so Chrome lays text out with identical
// advance widths.
package fonts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Style selects a member of the family.
type Style int

const (
	Regular Style = iota
	Bold
	Mono
)

// Family is the CSS font-family name the embedded faces are declared under.
const Family = "ReportGo"

// MonoFamily is the CSS font-family name of the monospace face.
const MonoFamily = "ReportGoMono"

// TTF returns the raw font file for a style.
func TTF(s Style) []byte {
	switch s {
	case Bold:
		return gobold.TTF
	case Mono:
		return gomono.TTF
	default:
		return goregular.TTF
	}
}

type faceKey struct {
	style Style
	size  float64
}

var (
	mu     sync.Mutex
	parsed = map[Style]*truetype.Font{}
	faces  = map[faceKey]font.Face{}
)

func parse(s Style) (*truetype.Font, error) {
	if f, ok := parsed[s]; ok {
		return f, nil
	}
	f, err := truetype.Parse(TTF(s))
	if err != nil {
		return nil, fmt.Errorf("parsing font style %d: %w", s, err)
	}
	parsed[s] = f
	return f, nil
}

// NewFace returns a fresh face at size points (72 DPI, so one unit is one
// point). Faces are not safe for concurrent use; callers own the result.
func NewFace(s Style, size float64) (font.Face, error) {
	mu.Lock()
	defer mu.Unlock()

	f, err := parse(s)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

// Width returns the advance width of text in points. Safe for concurrent use.
func Width(s Style, size float64, text string) (float64, error) {
	mu.Lock()
	defer mu.Unlock()

	key := faceKey{style: s, size: size}
	face, ok := faces[key]
	if !ok {
		f, err := parse(s)
		if err != nil {
			return 0, err
		}
		face = truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
		faces[key] = face
	}
	adv := font.MeasureString(face, text)
	return float64(adv) / 64, nil
}
