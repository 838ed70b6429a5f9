package pagescrape

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePDF = []byte("%PDF-1.4 fake content for testing")

// isPDF checks whether data starts with the PDF magic number.
func isPDF(data []byte) bool {
	return len(data) > 4 && string(data[:5]) == "%PDF-"
}

func TestPDF_Accessors(t *testing.T) {
	p := &PDF{data: samplePDF}

	assert.Equal(t, samplePDF, p.Bytes())
	assert.Equal(t, len(samplePDF), p.Len())
	assert.True(t, isPDF(p.Bytes()))

	got, err := io.ReadAll(p.Reader())
	require.NoError(t, err)
	assert.Equal(t, samplePDF, got)
}

func TestPDF_WriteTo(t *testing.T) {
	p := &PDF{data: samplePDF}
	var buf bytes.Buffer

	n, err := p.WriteTo(&buf)
	require.NoError(t, err)

	assert.Equal(t, int64(len(samplePDF)), n)
	assert.Equal(t, samplePDF, buf.Bytes())
}

func TestPDF_WriteToFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pdf")
	require.NoError(t, os.WriteFile(path, []byte("old and much longer content than the new one"), 0o644))

	p := &PDF{data: samplePDF}
	require.NoError(t, p.WriteToFile(path, 0o644))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, samplePDF, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the report should remain")
}

func TestPDF_WriteToFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.pdf")
	p := &PDF{data: samplePDF}

	assert.Error(t, p.WriteToFile(path, 0o644))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "unexpected file at %s", path)
}
