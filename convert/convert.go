/*
Package convert translates texture headers between the T64 and TEX0
containers. Pixel data is carried across verbatim, nothing is transcoded.
*/
package convert

import (
	"fmt"
	"math"

	"github.com/bodgit/vctex/cursor"
	"github.com/bodgit/vctex/gx"
	"github.com/bodgit/vctex/t64"
	"github.com/bodgit/vctex/tex0"
)

// Supported returns an error wrapping gx.ErrUnsupportedFormat if t cannot be
// turned into a usable TEX0 file, either because it carries a palette or
// because its format indexes into one.
func Supported(t *t64.Texture) error {
	if t.IsPaletted() {
		return fmt.Errorf("%w: color-indexed textures not supported (palette of %d bytes)", gx.ErrUnsupportedFormat, len(t.Palette))
	}
	if t.Format.IsColorIndexed() {
		return fmt.Errorf("%w: color-indexed textures not supported (format %s)", gx.ErrUnsupportedFormat, t.Format)
	}
	return nil
}

// ToTEX0 builds the TEX0 equivalent of t. The file length and the BRRES and
// filename offsets are left as zero; the section offset points at the
// aligned pixel data.
func ToTEX0(t *t64.Texture) (*tex0.Texture, error) {
	if t.IsPaletted() {
		return nil, fmt.Errorf("%w: color-indexed textures not supported", gx.ErrUnsupportedFormat)
	}
	if t.SizeX > math.MaxUint16 || t.SizeY > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %dx%d does not fit in 16-bit dimensions", gx.ErrUnsupportedFormat, t.SizeX, t.SizeY)
	}

	var ci uint32
	if t.Format.IsColorIndexed() {
		ci = 1
	}

	return &tex0.Texture{
		Header: tex0.Header{
			Magic:          tex0.Magic,
			Version:        tex0.Version,
			OffsetSections: uint32(tex0.DataOffset),
			CIFlag:         ci,
			SizeX:          uint16(t.SizeX),
			SizeY:          uint16(t.SizeY),
			Format:         t.Format,
		},
		Data: append([]byte{}, t.Data...),
	}, nil
}

// ToT64 builds a T64 texture from t. A TEX0 file has no VRAM address so the
// caller supplies it. Fields with no TEX0 counterpart are left undetermined.
func ToT64(t *tex0.Texture, address uint16) (*t64.Texture, error) {
	if t.CIFlag != 0 {
		return nil, fmt.Errorf("%w: color-indexed textures not supported", gx.ErrUnsupportedFormat)
	}

	return &t64.Texture{
		Header: t64.Header{
			Magic:   t64.Magic,
			SizeX:   uint32(t.SizeX),
			SizeY:   uint32(t.SizeY),
			Mode:    t64.DefaultMode,
			Format:  t.Format,
			Address: uint32(address),
		},
		DataLen: cursor.Uint32Of(uint32(len(t.Data))),
		Data:    append([]byte{}, t.Data...),
	}, nil
}
