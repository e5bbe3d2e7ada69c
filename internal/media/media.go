// Package media loads raster images referenced by image blocks. Images are
// sniffed by content, down-scaled when oversized, and inlined as data URIs
// so the rendered HTML is self-contained.
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
)

// Sentinel errors.
var (
	ErrImageRead        = errors.New("failed to read image")
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrImageDecode      = errors.New("failed to decode image")
)

// MaxPixelWidth is the widest bitmap kept as is; wider images are resized.
const MaxPixelWidth = 1600

// pointsPerPixel converts CSS pixels (96 per inch) to points (72 per inch).
const pointsPerPixel = 0.75

// JPEGQuality is used when a resized JPEG is re-encoded.
const JPEGQuality = 85

// Image is a decoded, ready to embed bitmap.
type Image struct {
	Data   []byte
	MIME   string
	Width  int // pixels
	Height int // pixels
}

// Load reads, sniffs and, when needed, down-scales the image at path.
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the document
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageRead, err)
	}
	return Decode(data)
}

// Decode sniffs and normalises raw image bytes.
func Decode(data []byte) (*Image, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return nil, ErrUnsupportedImage
	}

	var format imaging.Format
	switch kind.Extension {
	case "png":
		format = imaging.PNG
	case "jpg":
		format = imaging.JPEG
	case "gif":
		format = imaging.GIF
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, kind.MIME.Value)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	out := &Image{
		Data:   data,
		MIME:   kind.MIME.Value,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}
	if out.Width <= MaxPixelWidth {
		return out, nil
	}

	resized := imaging.Resize(img, MaxPixelWidth, 0, imaging.Lanczos)
	buf, err := encode(resized, format)
	if err != nil {
		return nil, err
	}
	out.Data = buf
	out.Width = resized.Bounds().Dx()
	out.Height = resized.Bounds().Dy()
	return out, nil
}

func encode(img image.Image, format imaging.Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case imaging.JPEG:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality))
	case imaging.GIF:
		err = imaging.Encode(&buf, img, imaging.GIF)
	default:
		err = imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	}
	if err != nil {
		return nil, fmt.Errorf("encoding resized image: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI returns the image as a data: URI.
func (i *Image) DataURI() string {
	return "data:" + i.MIME + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// DisplaySize returns the rendered size in points. A positive width wins
// over the intrinsic size; the result never exceeds maxWidth.
func (i *Image) DisplaySize(width, maxWidth float64) (w, h float64) {
	if i.Width <= 0 || i.Height <= 0 {
		return 0, 0
	}
	w = width
	if w <= 0 {
		w = float64(i.Width) * pointsPerPixel
	}
	if maxWidth > 0 && w > maxWidth {
		w = maxWidth
	}
	return w, w * float64(i.Height) / float64(i.Width)
}
