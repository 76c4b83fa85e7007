package t64

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/vctex/cursor"
	"github.com/bodgit/vctex/gx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pixels(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i * 7)
	}
	return b
}

func testHeader() []byte {
	b := make([]byte, HeaderSize)
	copy(b, "VC64ROM0")
	words := []uint32{
		0x34,   // unk_34
		64,     // sizeX
		32,     // sizeY
		1,      // wrapS
		2,      // wrapT
		0x2000, // mode
		5,      // format
		0xd8a0, // address
		3,      // codePixel
		4,      // codeColor
		0x10,   // data0
		0x20,   // data1
	}
	for i, w := range words {
		binary.BigEndian.PutUint32(b[0x08+i*4:], w)
	}
	return b
}

func TestDecode(t *testing.T) {
	b := testHeader()
	binary.BigEndian.PutUint32(b[0x3c:], 2048)
	b = append(b, pixels(2048)...)

	tex, err := Decode(b)
	require.Nil(t, err)

	assert.Equal(t, Magic, tex.Magic)
	assert.Equal(t, cursor.NullString{String: "ROM0", Valid: true}, tex.TypeROM)
	assert.Equal(t, uint32(0x34), tex.Unk34)
	assert.Equal(t, uint32(64), tex.SizeX)
	assert.Equal(t, uint32(32), tex.SizeY)
	assert.Equal(t, cursor.Uint32Of(1), tex.WrapS)
	assert.Equal(t, cursor.Uint32Of(2), tex.WrapT)
	assert.Equal(t, uint32(0x2000), tex.Mode)
	assert.Equal(t, gx.RGB5A3, tex.Format)
	assert.Equal(t, uint32(0xd8a0), tex.Address)
	assert.Equal(t, cursor.Uint32Of(3), tex.CodePixel)
	assert.Equal(t, cursor.Uint32Of(4), tex.CodeColor)
	assert.Equal(t, cursor.Uint32Of(0x10), tex.Data0)
	assert.Equal(t, cursor.Uint32Of(0x20), tex.Data1)
	assert.False(t, tex.IsPaletted())
	assert.Empty(t, tex.Palette)
	assert.Equal(t, cursor.Uint32Of(2048), tex.DataLen)
	assert.Equal(t, pixels(2048), tex.Data)

	// Decoded texture must not alias the input
	b[HeaderSize] ^= 0xff
	assert.Equal(t, pixels(2048), tex.Data)
}

func TestDecodeBadMagic(t *testing.T) {
	for _, b := range [][]byte{
		append([]byte("ABCD"), testHeader()[4:]...),
		[]byte("VC6"),
		{},
	} {
		tex, err := Decode(b)
		assert.Nil(t, tex)
		assert.True(t, errors.Is(err, gx.ErrUnsupportedFormat), "%v", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	// Header cut short
	_, err := Decode(testHeader()[:0x20])
	assert.True(t, errors.Is(err, cursor.ErrTruncated))

	// Declared pixel data longer than what is present
	b := testHeader()
	binary.BigEndian.PutUint32(b[0x3c:], 2048)
	b = append(b, pixels(1000)...)
	tex, err := Decode(b)
	assert.Nil(t, tex)
	assert.True(t, errors.Is(err, cursor.ErrTruncated))
	assert.False(t, errors.Is(err, gx.ErrUnsupportedFormat))
}

func paletted(palette, data []byte) []byte {
	b := testHeader()[:paletteOffset]
	end := paletteOffset + len(palette)
	binary.BigEndian.PutUint32(b[0x38:], uint32(end/2))
	b = append(b, palette...)
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(data)+4))
	b = append(b, n[:]...)
	return append(b, data...)
}

func TestDecodePaletted(t *testing.T) {
	palette := bytes.Repeat([]byte{0xaa, 0xbb}, 16)
	b := paletted(palette, pixels(64))

	tex, err := Decode(b)
	require.Nil(t, err)

	assert.True(t, tex.IsPaletted())
	assert.Equal(t, paletteOffset+len(palette), tex.PaletteByteLen())
	assert.Equal(t, palette, tex.Palette)
	assert.Equal(t, cursor.Uint32Of(68), tex.DataLen)
	assert.Equal(t, b[tex.PaletteByteLen():], tex.Data)
}

func TestDecodePalettedUnrecognised(t *testing.T) {
	short := paletted(make([]byte, 32), pixels(64))

	tables := map[string][]byte{
		"data cut short": short[:len(short)-1],
		"no data length": short[:paletteOffset+32+2],
		"inside header": func() []byte {
			b := testHeader()
			binary.BigEndian.PutUint32(b[0x38:], 4)
			return b
		}(),
		"ci4 palette": func() []byte {
			// 16 entries of a CI4 palette, counted in bytes
			b := testHeader()
			binary.BigEndian.PutUint32(b[0x20:], uint32(gx.C4))
			binary.BigEndian.PutUint32(b[0x38:], 16)
			return append(b, pixels(32)...)
		}(),
	}

	for name, b := range tables {
		t.Run(name, func(t *testing.T) {
			tex, err := Decode(b)
			assert.Nil(t, tex)
			assert.True(t, errors.Is(err, gx.ErrUnsupportedFormat), "%v", err)
			assert.False(t, errors.Is(err, cursor.ErrTruncated))
		})
	}

	// A short header is still truncation, palette or not
	b := testHeader()
	binary.BigEndian.PutUint32(b[0x38:], 16)
	_, err := Decode(b[:0x30])
	assert.True(t, errors.Is(err, cursor.ErrTruncated))
}

func TestEncodeBinary(t *testing.T) {
	b := testHeader()
	binary.BigEndian.PutUint32(b[0x3c:], 128)
	b = append(b, pixels(128)...)

	tex, err := Decode(b)
	require.Nil(t, err)

	out, err := tex.EncodeBinary()
	require.Nil(t, err)
	assert.Equal(t, b, out)

	tex, err = Decode(paletted(make([]byte, 8), pixels(8)))
	require.Nil(t, err)
	_, err = tex.EncodeBinary()
	assert.True(t, errors.Is(err, gx.ErrUnsupportedFormat))
}

func TestEncodeText(t *testing.T) {
	tex := &Texture{
		Header: Header{
			Magic:   Magic,
			SizeX:   64,
			SizeY:   32,
			Mode:    DefaultMode,
			Format:  gx.RGB5A3,
			Address: 0xd8a0,
		},
	}

	b, err := tex.EncodeText()
	require.Nil(t, err)
	assert.Equal(t, "VC64\x00\x00\x00\x00"+
		"0000"+"0040"+"0020"+"0000"+"0000"+"2000"+
		"0005"+"D8A0"+"0000"+"0000"+"0000"+"0000", string(b))

	// The text form is not readable as a binary T64
	_, err = Decode(b)
	assert.NotNil(t, err)

	tex.SizeX = 0x10000
	_, err = tex.EncodeText()
	assert.True(t, errors.Is(err, cursor.ErrOverflow), "%v", err)
}

func TestDecodeFile(t *testing.T) {
	b := testHeader()
	b = append(b, pixels(16)...)
	binary.BigEndian.PutUint32(b[0x3c:], 16)

	file := filepath.Join(t.TempDir(), "tex.T64")
	require.Nil(t, os.WriteFile(file, b, 0644))

	tex, err := DecodeFile(file)
	require.Nil(t, err)
	assert.Equal(t, pixels(16), tex.Data)

	_, err = DecodeFile(filepath.Join(t.TempDir(), "missing.T64"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
