/*
Package t64 implements the VC64 runtime texture descriptor, stored in files
with a .T64 extension.

A T64 file starts with a 0x40 byte header of big-endian words. When the
palette length word at 0x38 is zero, the word at 0x3C holds the pixel data
length and the pixel data runs from 0x40 to the end of the file. Otherwise the
palette occupies the bytes from 0x3C up to twice the palette length word, and
the pixel data, prefixed by its length, follows it.
*/
package t64

import (
	"bytes"
	"fmt"
	"os"

	"github.com/bodgit/vctex/cursor"
	"github.com/bodgit/vctex/gx"
)

const (
	// Magic identifies a T64 file
	Magic = "VC64"

	// HeaderSize is the size of the fixed header of a non-paletted texture
	HeaderSize = 0x40

	// DefaultMode is used for the mode word of textures not decoded from a
	// T64 file
	DefaultMode = 0x2000

	paletteOffset = 0x3c
	dataLenOffset = 0x3c
)

// Header holds the fixed fields of a T64 file. Fields that cannot always be
// derived are nullable; every field decoded from a file is valid.
type Header struct {
	Magic      string
	TypeROM    cursor.NullString
	Unk34      uint32
	SizeX      uint32
	SizeY      uint32
	WrapS      cursor.NullUint32
	WrapT      cursor.NullUint32
	Mode       uint32
	Format     gx.Format
	Address    uint32 // low 16 bits of the VRAM address of the texture symbol
	CodePixel  cursor.NullUint32
	CodeColor  cursor.NullUint32
	Data0      cursor.NullUint32
	Data1      cursor.NullUint32
	PaletteLen cursor.NullUint32 // half the palette size in bytes
}

// fields are the header fields common to both the binary and text forms.
func (h *Header) fields() cursor.Layout {
	return cursor.Layout{
		cursor.Text("magic", 0x00, 4, &h.Magic),
		cursor.Text("typeROM", 0x04, 4, &h.TypeROM),
		cursor.U32("unk_34", 0x08, &h.Unk34),
		cursor.U32("sizeX", 0x0c, &h.SizeX),
		cursor.U32("sizeY", 0x10, &h.SizeY),
		cursor.U32("wrapS", 0x14, &h.WrapS),
		cursor.U32("wrapT", 0x18, &h.WrapT),
		cursor.U32("mode", 0x1c, &h.Mode),
		cursor.U32("format", 0x20, (*uint32)(&h.Format)),
		cursor.U32("address", 0x24, &h.Address),
		cursor.U32("codePixel", 0x28, &h.CodePixel),
		cursor.U32("codeColor", 0x2c, &h.CodeColor),
		cursor.U32("data0", 0x30, &h.Data0),
		cursor.U32("data1", 0x34, &h.Data1),
	}
}

func (h *Header) layout() cursor.Layout {
	return append(h.fields(), cursor.U32("paletteLen", 0x38, &h.PaletteLen))
}

// PaletteByteLen returns the offset at which the palette region ends.
func (h *Header) PaletteByteLen() int {
	return int(h.PaletteLen.Value) * 2
}

// IsPaletted reports whether the texture carries a palette and so is
// colour-indexed.
func (h *Header) IsPaletted() bool {
	return h.PaletteLen.Value != 0
}

// DecodeHeader decodes just the fixed header fields from b.
func DecodeHeader(b []byte) (*Header, error) {
	if !bytes.HasPrefix(b, []byte(Magic)) {
		n := len(b)
		if n > len(Magic) {
			n = len(Magic)
		}
		return nil, fmt.Errorf("%w: magic %q is not %q", gx.ErrUnsupportedFormat, b[:n], Magic)
	}
	h := new(Header)
	if err := h.layout().Decode(b); err != nil {
		return nil, err
	}
	return h, nil
}

// Texture is a decoded T64 file.
type Texture struct {
	Header
	Palette []byte
	DataLen cursor.NullUint32
	Data    []byte
}

// Decode parses a T64 file held in b. The returned texture does not share
// memory with b.
func Decode(b []byte) (*Texture, error) {
	h, err := DecodeHeader(b)
	if err != nil {
		return nil, err
	}

	t := &Texture{Header: *h}

	var data []byte
	if end := t.PaletteByteLen(); end != 0 {
		// Paletted textures are never converted, so a palette region that
		// does not fit the expected layout is reported as unsupported
		// rather than as corruption.
		if data, err = t.decodePalette(b, end); err != nil {
			return nil, fmt.Errorf("%w: color-indexed texture with unrecognised palette layout: %v", gx.ErrUnsupportedFormat, err)
		}
	} else {
		n, err := cursor.ReadU32(b, dataLenOffset)
		if err != nil {
			return nil, err
		}
		if int64(n) > int64(len(b)-HeaderSize) {
			return nil, fmt.Errorf("%w: declared %d bytes of pixel data, %d present", cursor.ErrTruncated, n, len(b)-HeaderSize)
		}
		data = b[HeaderSize:]
		t.DataLen = cursor.Uint32Of(n)
	}
	t.Data = append([]byte{}, data...)

	return t, nil
}

func (t *Texture) decodePalette(b []byte, end int) ([]byte, error) {
	if end < paletteOffset {
		return nil, fmt.Errorf("palette ends at 0x%X, inside the header", end)
	}
	n, err := cursor.ReadU32(b, end)
	if err != nil {
		return nil, err
	}
	data, err := cursor.Slice(b, end, int(n))
	if err != nil {
		return nil, err
	}
	t.Palette = append([]byte{}, b[paletteOffset:end]...)
	t.DataLen = cursor.Uint32Of(n)
	return data, nil
}

// DecodeFile reads and decodes the T64 file at path.
func DecodeFile(path string) (*Texture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(b)
}

// EncodeBinary serializes a non-paletted texture into the layout read by
// Decode.
func (t *Texture) EncodeBinary() ([]byte, error) {
	if t.IsPaletted() {
		return nil, fmt.Errorf("%w: binary encoding of paletted textures", gx.ErrUnsupportedFormat)
	}
	h := t.Header
	h.PaletteLen = cursor.Uint32Of(0)
	b, err := cursor.BinaryCodec{}.Encode(h.layout())
	if err != nil {
		return nil, err
	}
	b = append(b, make([]byte, HeaderSize-len(b))...)
	if err := cursor.WriteU32(b, dataLenOffset, uint32(len(t.Data))); err != nil {
		return nil, err
	}
	return append(b, t.Data...), nil
}

// EncodeText renders the header as the magic, the typeROM tag and then each
// word from unk_34 to data1 as four hexadecimal digits. This is the form
// written for textures rebuilt from a TEX0 file. Decode does not accept it;
// undetermined fields are written as zero and the palette and pixel data are
// not included. A word above 0xFFFF fails with cursor.ErrOverflow.
func (t *Texture) EncodeText() ([]byte, error) {
	return cursor.HexASCIICodec{}.Encode(t.Header.fields())
}
