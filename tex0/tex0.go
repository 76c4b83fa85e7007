/*
Package tex0 implements the TEX0 texture container.

The file is a 0x30 byte header of big-endian fields, zero padded to a 64 byte
boundary, followed by the pixel data verbatim. It implements the
encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
*/
package tex0

import (
	"bytes"
	"fmt"

	"github.com/bodgit/vctex/cursor"
	"github.com/bodgit/vctex/gx"
)

const (
	// Magic identifies a TEX0 file
	Magic = "TEX0"

	// Version is the only container version written
	Version = 3

	// Alignment is the boundary the pixel data starts on
	Alignment = 64

	headerSize = 0x30
)

// DataOffset is the offset of the pixel data from the start of the file.
const DataOffset = (headerSize + Alignment - 1) &^ (Alignment - 1)

// Padding returns the number of zero bytes needed after n bytes to reach the
// next multiple of Alignment.
func Padding(n int) int {
	return -n & (Alignment - 1)
}

// Header holds the fixed fields of a TEX0 file.
type Header struct {
	Magic          string
	FileLength     uint32 // may be left as 0
	Version        uint32
	OffsetBRRES    uint32
	OffsetSections uint32
	OffsetFilename uint32
	CIFlag         uint32
	SizeX          uint16
	SizeY          uint16
	Format         gx.Format
	MipmapCount    uint32
	MipmapMin      float32
	MipmapMax      float32
}

func (h *Header) layout() cursor.Layout {
	return cursor.Layout{
		cursor.Text("magic", 0x00, 4, &h.Magic),
		cursor.U32("file_length", 0x04, &h.FileLength),
		cursor.U32("version", 0x08, &h.Version),
		cursor.U32("offset_brres", 0x0c, &h.OffsetBRRES),
		cursor.U32("offset_sections", 0x10, &h.OffsetSections),
		cursor.U32("offset_filename_sub", 0x14, &h.OffsetFilename),
		cursor.U32("ci_flag", 0x18, &h.CIFlag),
		cursor.U16("sizeX", 0x1c, &h.SizeX),
		cursor.U16("sizeY", 0x1e, &h.SizeY),
		cursor.U32("format", 0x20, (*uint32)(&h.Format)),
		cursor.U32("mipmap_count", 0x24, &h.MipmapCount),
		cursor.F32("mipmap_min", 0x28, &h.MipmapMin),
		cursor.F32("mipmap_max", 0x2c, &h.MipmapMax),
	}
}

// Texture is a TEX0 header and its pixel data.
type Texture struct {
	Header
	Data []byte
}

// MarshalBinary encodes the texture into binary form and returns the result
func (t *Texture) MarshalBinary() ([]byte, error) {
	h := t.Header
	l := h.layout()

	b := make([]byte, l.Size()+Padding(l.Size()), l.Size()+Padding(l.Size())+len(t.Data))
	if err := l.Encode(b); err != nil {
		return nil, err
	}

	return append(b, t.Data...), nil
}

// UnmarshalBinary decodes the texture from binary form. A zero file length
// or section offset is tolerated; the pixel data then starts at DataOffset
// and runs to the end of b.
func (t *Texture) UnmarshalBinary(b []byte) error {
	if !bytes.HasPrefix(b, []byte(Magic)) {
		return fmt.Errorf("%w: not a %s file", gx.ErrUnsupportedFormat, Magic)
	}

	var h Header
	if err := h.layout().Decode(b); err != nil {
		return err
	}

	start := DataOffset
	if h.OffsetSections != 0 {
		start = int(h.OffsetSections)
	}
	end := len(b)
	if h.FileLength != 0 {
		end = int(h.FileLength)
	}

	data, err := cursor.Slice(b, start, end-start)
	if err != nil {
		return err
	}

	t.Header = h
	t.Data = append([]byte{}, data...)

	return nil
}

// Decode returns the texture held in b.
func Decode(b []byte) (*Texture, error) {
	t := new(Texture)
	if err := t.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return t, nil
}
