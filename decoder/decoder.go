/*
Package decoder turns TEX0 files into PNG images using an external tool.
*/
package decoder

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Decoder converts the TEX0 file at src into a PNG image at dst.
type Decoder interface {
	Decode(ctx context.Context, src, dst string) error
}

// PNGPath returns the path of the PNG image decoded from the TEX0 file at
// path, which is alongside it with a .png extension.
func PNGPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
}

// DefaultTimeout bounds a single invocation of the external tool.
const DefaultTimeout = 30 * time.Second

// Wimgt runs the wimgt tool from Wiimms SZS Tools.
type Wimgt struct {
	Path    string
	Timeout time.Duration
}

func (w *Wimgt) args(src, dst string) []string {
	return []string{"decode", src, "-d", dst}
}

// Decode implements Decoder.
func (w *Wimgt) Decode(ctx context.Context, src, dst string) error {
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, w.Path, w.args(src, dst)...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%s: timed out after %s", w.Path, timeout)
		}
		return fmt.Errorf("%s: %w: %s", w.Path, err, strings.TrimSpace(out.String()))
	}

	return nil
}
