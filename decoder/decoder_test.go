package decoder

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPNGPath(t *testing.T) {
	assert.Equal(t, "output/foo/foo.png", PNGPath("output/foo/foo.tex0"))
	assert.Equal(t, "foo.png", PNGPath("foo"))
}

func TestWimgtArgs(t *testing.T) {
	w := &Wimgt{Path: "./wimgt"}
	assert.Equal(t, []string{"decode", "a.tex0", "-d", "a.png"}, w.args("a.tex0", "a.png"))
}

func TestWimgtMissing(t *testing.T) {
	w := &Wimgt{Path: filepath.Join(t.TempDir(), "wimgt")}
	assert.NotNil(t, w.Decode(context.Background(), "a.tex0", "a.png"))
}

func script(t *testing.T, body string) string {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	file := filepath.Join(t.TempDir(), "wimgt")
	require.Nil(t, os.WriteFile(file, []byte("#!/bin/sh\n"+body), 0755))
	return file
}

func TestWimgtDecode(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "a.png")
	w := &Wimgt{Path: script(t, "cp \"$2\" \"$4\"\n")}

	src := filepath.Join(dir, "a.tex0")
	require.Nil(t, os.WriteFile(src, []byte("TEX0"), 0644))

	require.Nil(t, w.Decode(context.Background(), src, dst))
	b, err := os.ReadFile(dst)
	require.Nil(t, err)
	assert.Equal(t, []byte("TEX0"), b)
}

func TestWimgtFailure(t *testing.T) {
	w := &Wimgt{Path: script(t, "echo broken >&2\nexit 3\n")}
	err := w.Decode(context.Background(), "a.tex0", "a.png")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestWimgtTimeout(t *testing.T) {
	w := &Wimgt{Path: script(t, "exec sleep 10\n"), Timeout: 100 * time.Millisecond}
	err := w.Decode(context.Background(), "a.tex0", "a.png")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "timed out")
}
