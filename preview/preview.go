/*
Package preview generates small paletted thumbnails of decoded textures for
storing in the conversion catalog.

The decoded image is scaled to fit within MaxSize by MaxSize pixels, keeping
its aspect ratio, and reduced to at most Colors colors.
*/
package preview

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/ericpauley/go-quantize/quantize"
)

const (
	// MaxSize is the largest width or height of a thumbnail
	MaxSize = 64

	// Colors is the largest number of colors in a thumbnail palette
	Colors = 16
)

var errEmpty = errors.New("preview: image is empty")

func fit(b image.Rectangle) (int, int) {
	w, h := b.Dx(), b.Dy()
	if w <= MaxSize && h <= MaxSize {
		return w, h
	}
	if w >= h {
		return MaxSize, max(1, h*MaxSize/w)
	}
	return max(1, w*MaxSize/h), MaxSize
}

// Reduce scales and quantizes m into a thumbnail.
func Reduce(m image.Image) (*image.Paletted, error) {
	b := m.Bounds()
	if b.Empty() {
		return nil, errEmpty
	}

	w, h := fit(b)
	if w != b.Dx() || h != b.Dy() {
		m = transform.Resize(m, w, h, transform.Linear)
	}
	r := image.Rect(0, 0, w, h)

	pm, _ := m.(*image.Paletted)
	if pm == nil || len(pm.Palette) > Colors {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(r, q.Quantize(make(color.Palette, 0, Colors), m))
		draw.Draw(pm, r, m, m.Bounds().Min, draw.Src)
	}

	// Adjust image so that top-left corner is at (0, 0)
	if pm.Rect.Min != (image.Point{}) {
		dup := *pm
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		pm = &dup
	}

	return pm, nil
}

// Thumbnail reads the image file at path and returns a PNG-encoded thumbnail
// of it.
func Thumbnail(path string) ([]byte, error) {
	m, err := imgio.Open(path)
	if err != nil {
		return nil, err
	}

	pm, err := Reduce(m)
	if err != nil {
		return nil, err
	}

	b := new(bytes.Buffer)
	if err := imgio.PNGEncoder()(b, pm); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}
