/*
Package vctex is a library for converting VC64 texture descriptors (T64
files) into TEX0 containers that standard texture tools can decode.
*/
package vctex

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bodgit/vctex/catalog"
	"github.com/bodgit/vctex/cursor"
	"github.com/bodgit/vctex/decoder"
	"github.com/bodgit/vctex/gx"
)

// DefaultOutputDir is used when Config.OutputDir is empty.
const DefaultOutputDir = "output"

var (
	// ErrPathNotFound is returned when the input file or directory does not
	// exist
	ErrPathNotFound = errors.New("path not found")

	// ErrUnsupportedFormat is returned for unrecognised or color-indexed
	// textures; such files are skipped
	ErrUnsupportedFormat = gx.ErrUnsupportedFormat

	// ErrUnsupportedDirection is returned when asked to convert TEX0 to T64
	ErrUnsupportedDirection = errors.New("tex0 to t64 not supported yet")

	// ErrTruncatedInput is returned when a header or data region runs past
	// the end of the file
	ErrTruncatedInput = cursor.ErrTruncated

	// ErrIO is returned when reading or writing a file fails
	ErrIO = errors.New("i/o failure")

	// ErrBatchFailed is returned by ConvertDir when at least one file failed
	ErrBatchFailed = errors.New("one or more files failed")
)

// IsFatal reports whether err should stop a single-file conversion with a
// failure status. Unsupported textures are only warned about.
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, ErrUnsupportedFormat)
}

// Direction selects which way a conversion goes.
type Direction int

// Conversion directions.
const (
	T64ToTEX0 Direction = iota
	TEX0ToT64
)

func (d Direction) String() string {
	switch d {
	case T64ToTEX0:
		return "t64"
	case TEX0ToT64:
		return "tex0"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection parses the name of the source format, case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "t64":
		return T64ToTEX0, nil
	case "tex0":
		return TEX0ToT64, nil
	default:
		return 0, fmt.Errorf("operating mode not supported: %q", s)
	}
}

// Config controls a Converter.
type Config struct {
	// OutputDir receives one subdirectory per converted texture
	OutputDir string
	// Decoder, if set, is used to decode each TEX0 file to PNG
	Decoder decoder.Decoder
	// Catalog, if set, records each conversion
	Catalog *catalog.DB
	// Thumbnails stores a thumbnail of each decoded PNG in the catalog
	Thumbnails bool
	// Workers is the number of files converted concurrently by ConvertDir
	Workers int
}

// Converter converts T64 files.
type Converter struct {
	outputDir  string
	decoder    decoder.Decoder
	catalog    *catalog.DB
	thumbnails bool
	workers    int
	logger     *log.Logger
}

// New returns a Converter for cfg, creating the output directory if it does
// not already exist.
func New(cfg Config, logger *log.Logger) (*Converter, error) {
	dir := cfg.OutputDir
	if dir == "" {
		dir = DefaultOutputDir
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	return &Converter{
		outputDir:  dir,
		decoder:    cfg.Decoder,
		catalog:    cfg.Catalog,
		thumbnails: cfg.Thumbnails,
		workers:    workers,
		logger:     logger,
	}, nil
}

// OutputDir returns the absolute output directory.
func (c *Converter) OutputDir() string {
	return c.outputDir
}

// FileInfo describes where a container came from or is going to.
type FileInfo struct {
	Path string
	Size int64
	Data []byte // nil when only the path is needed
}

// ReadFileInfo loads the file at path.
func ReadFileInfo(path string) (FileInfo, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return FileInfo{}, fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return FileInfo{}, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return FileInfo{Path: path, Size: int64(len(b)), Data: b}, nil
}

// WithExt returns a FileInfo for a sibling file with the extension swapped
// for ext. The data is not carried over.
func (fi FileInfo) WithExt(ext string) FileInfo {
	return FileInfo{
		Path: strings.TrimSuffix(fi.Path, filepath.Ext(fi.Path)) + ext,
		Size: fi.Size,
	}
}

// Stem returns the file name without directory or extension.
func (fi FileInfo) Stem() string {
	base := filepath.Base(fi.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
