package pagescrape

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

// WritePDF renders res as a PDF report at path, replacing any existing file.
//
// The output directory is checked before a browser is started. Every failure,
// including a browser that cannot be launched, is returned as a [*WriteError],
// and no file is left at path.
func WritePDF(ctx context.Context, res *ScrapeResult, path string, pg *PageConfig, opts ...Option) error {
	if err := checkWritable(path); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	markup, err := RenderHTML(res)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	conv, err := NewConverter(ctx, opts...)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer conv.Close()

	pdf, err := conv.ConvertHTML(ctx, markup, pg)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := pdf.WriteToFile(path, 0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// checkWritable verifies that a file can be created next to path without
// touching path itself.
func checkWritable(path string) error {
	if path == "" {
		return errors.New("empty output path")
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return errors.New("output path is a directory")
	}

	dir := filepath.Dir(path)
	fi, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return errors.New("parent is not a directory")
	}

	probe, err := os.CreateTemp(dir, ".pagescrape-probe-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}
