package pagescrape

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// PDF holds a generated PDF document.
type PDF struct {
	data []byte
}

// Bytes returns the raw PDF content.
func (p *PDF) Bytes() []byte {
	return p.data
}

// Len returns the size of the PDF in bytes.
func (p *PDF) Len() int {
	return len(p.data)
}

// Reader returns an [*bytes.Reader] over the PDF content.
func (p *PDF) Reader() *bytes.Reader {
	return bytes.NewReader(p.data)
}

// WriteTo writes the full PDF content to w. It implements [io.WriterTo].
func (p *PDF) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(p.data)
	return int64(n), err
}

// WriteToFile replaces the file at path with the PDF. The content is written
// to a temporary file in the same directory and renamed into place, so a
// failed write never leaves a truncated report behind.
func (p *PDF) WriteToFile(path string, perm os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".pagescrape-*.pdf")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(p.data); err != nil {
		f.Close()
		return err
	}
	if err := f.Chmod(perm); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
