package vctex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

func isT64(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ".t64")
}

func (c *Converter) findFiles(ctx context.Context, base string) (<-chan string, <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Don't descend into our own output
			if info.Mode().IsDir() && file == c.outputDir && file != base {
				return filepath.SkipDir
			}

			if !info.Mode().IsRegular() || !isT64(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc
}

func (c *Converter) fileWorker(ctx context.Context, in <-chan string) <-chan *Result {
	out := make(chan *Result)
	go func() {
		defer close(out)
		for file := range in {
			r, err := c.ConvertFile(ctx, file)
			switch {
			case err == nil:
			case errors.Is(err, ErrUnsupportedFormat):
				c.logger.Printf("Skipping: %s\n", err)
			default:
				c.logger.Printf("Failed: %s\n", err)
			}
			out <- r
		}
	}()
	return out
}

func mergeResults(cs ...<-chan *Result) <-chan *Result {
	var wg sync.WaitGroup
	out := make(chan *Result, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan *Result) {
			for r := range c {
				out <- r
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// ConvertDir converts every T64 file found beneath path using a pool of
// workers. Unsupported textures are skipped and failures do not stop the
// remaining files; ErrBatchFailed is returned if any file failed.
func (c *Converter) ConvertDir(ctx context.Context, path string) (*Summary, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, dir)
		}
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", dir)
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	files, errc := c.findFiles(ctx, dir)

	var results []<-chan *Result
	for i := 0; i < c.workers; i++ {
		results = append(results, c.fileWorker(ctx, files))
	}

	s := new(Summary)
	for r := range mergeResults(results...) {
		s.add(r)
	}
	sort.Slice(s.Results, func(i, j int) bool { return s.Results[i].Source < s.Results[j].Source })

	if err := <-errc; err != nil {
		return s, fmt.Errorf("%w: %v", ErrIO, err)
	}

	if s.Failed > 0 {
		return s, fmt.Errorf("%w: %d of %d", ErrBatchFailed, s.Failed, len(s.Results))
	}

	return s, nil
}
