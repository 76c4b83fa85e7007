package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, color.RGBA{uint8(x * 255 / w), uint8(y * 255 / h), uint8((x + y) & 0xff), 0xff})
		}
	}
	return m
}

func TestFit(t *testing.T) {
	tables := []struct {
		w, h   int
		ew, eh int
	}{
		{32, 16, 32, 16},
		{64, 64, 64, 64},
		{128, 64, 64, 32},
		{64, 256, 16, 64},
		{1024, 2, 64, 1},
	}
	for _, table := range tables {
		w, h := fit(image.Rect(0, 0, table.w, table.h))
		assert.Equal(t, table.ew, w)
		assert.Equal(t, table.eh, h)
	}
}

func TestReduce(t *testing.T) {
	pm, err := Reduce(gradient(128, 64))
	require.Nil(t, err)

	assert.Equal(t, image.Rect(0, 0, 64, 32), pm.Bounds())
	assert.LessOrEqual(t, len(pm.Palette), Colors)
}

func TestReduceOffset(t *testing.T) {
	m := gradient(40, 40).SubImage(image.Rect(8, 8, 24, 24))

	pm, err := Reduce(m)
	require.Nil(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), pm.Bounds())
}

func TestReduceEmpty(t *testing.T) {
	_, err := Reduce(image.NewRGBA(image.Rectangle{}))
	assert.Equal(t, errEmpty, err)
}

func TestThumbnail(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(file)
	require.Nil(t, err)
	require.Nil(t, png.Encode(f, gradient(256, 128)))
	require.Nil(t, f.Close())

	b, err := Thumbnail(file)
	require.Nil(t, err)

	m, err := png.Decode(bytes.NewReader(b))
	require.Nil(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 32), m.Bounds())
	_, ok := m.ColorModel().(color.Palette)
	assert.True(t, ok)
}

func TestThumbnailMissing(t *testing.T) {
	_, err := Thumbnail(filepath.Join(t.TempDir(), "missing.png"))
	assert.NotNil(t, err)
}
