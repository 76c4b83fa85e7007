package vctex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bodgit/vctex/catalog"
	"github.com/bodgit/vctex/convert"
	"github.com/bodgit/vctex/decoder"
	"github.com/bodgit/vctex/preview"
	"github.com/bodgit/vctex/t64"
	"github.com/cespare/xxhash/v2"
)

// Summary totals the results of a conversion run.
type Summary struct {
	Converted int
	Rejected  int
	Failed    int
	Results   []*Result
}

func (s *Summary) add(r *Result) {
	switch {
	case r.Err == nil:
		s.Converted++
	case errors.Is(r.Err, ErrUnsupportedFormat):
		s.Rejected++
	default:
		s.Failed++
	}
	s.Results = append(s.Results, r)
}

// Run converts path, which may be a single file or a directory of T64
// files, in the given direction.
func (c *Converter) Run(ctx context.Context, path string, direction Direction) (*Summary, error) {
	if direction != T64ToTEX0 {
		return nil, ErrUnsupportedDirection
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	if info.IsDir() {
		return c.ConvertDir(ctx, path)
	}

	s := new(Summary)
	r, err := c.ConvertFile(ctx, path)
	s.add(r)
	return s, err
}

func (c *Converter) outputPath(src FileInfo) string {
	return filepath.Join(c.outputDir, src.Stem(), filepath.Base(src.WithExt(".tex0").Path))
}

// writeFile writes b to a temporary file alongside path and renames it into
// place, so path never holds a partial file.
func writeFile(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(b); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(f.Name(), path)
}

// ConvertFile converts the T64 file at path to TEX0, writing it to
// <output>/<stem>/<stem>.tex0 and then handing it to the decoder, if any.
// The returned Result is always non-nil and its Err matches the returned
// error.
func (c *Converter) ConvertFile(ctx context.Context, path string) (*Result, error) {
	r := &Result{Source: path}
	r.Err = c.convertFile(ctx, r)
	return r, r.Err
}

func (c *Converter) convertFile(ctx context.Context, r *Result) error {
	src, err := ReadFileInfo(r.Source)
	if err != nil {
		return err
	}

	tex, err := t64.Decode(src.Data)
	if err != nil {
		r.State = Rejected
		return fmt.Errorf("%s: %w", src.Path, err)
	}
	r.State = Decoded
	r.Digest = fmt.Sprintf("%016X", xxhash.Sum64(tex.Data))

	if err := convert.Supported(tex); err != nil {
		r.State = Rejected
		return fmt.Errorf("%s: %w", src.Path, err)
	}

	out, err := convert.ToTEX0(tex)
	if err != nil {
		r.State = Rejected
		return fmt.Errorf("%s: %w", src.Path, err)
	}
	r.State = Converted

	b, err := out.MarshalBinary()
	if err != nil {
		r.State = PersistFailed
		return fmt.Errorf("%s: %w", src.Path, err)
	}

	dst := c.outputPath(src)
	if err := writeFile(dst, b); err != nil {
		r.State = PersistFailed
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	r.State = Persisted
	r.Output = dst

	c.logger.Printf("Converted \"%s\" (%s %dx%d, %d bytes) to \"%s\"\n", src.Path, tex.Format, tex.SizeX, tex.SizeY, len(tex.Data), dst)

	var id int64
	if c.catalog != nil {
		if id, err = c.record(src, tex, r); err != nil {
			return err
		}
	}

	if c.decoder == nil {
		return nil
	}

	png := decoder.PNGPath(dst)
	if err := c.decoder.Decode(ctx, dst, png); err != nil {
		return fmt.Errorf("%s: %w", dst, err)
	}
	r.State = HandedToDecoder
	r.PNG = png

	if c.catalog != nil && c.thumbnails {
		thumbnail, err := preview.Thumbnail(png)
		if err != nil {
			return fmt.Errorf("%s: %w", png, err)
		}
		if err := c.catalog.SetThumbnail(id, thumbnail); err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
	}

	return nil
}

func (c *Converter) record(src FileInfo, tex *t64.Texture, r *Result) (int64, error) {
	dup, err := c.catalog.FindByDigest(r.Digest, src.Path)
	if err != nil {
		return 0, fmt.Errorf("catalog: %w", err)
	}
	if dup != nil {
		c.logger.Printf("\"%s\" has the same pixel data as \"%s\"\n", src.Path, dup.Source)
	}

	id, err := c.catalog.AddTexture(&catalog.Entry{
		Source: src.Path,
		Output: r.Output,
		Digest: r.Digest,
		Format: tex.Format,
		SizeX:  tex.SizeX,
		SizeY:  tex.SizeY,
		Header: src.Data[:t64.HeaderSize],
	})
	if err != nil {
		return 0, fmt.Errorf("catalog: %w", err)
	}

	return id, nil
}
