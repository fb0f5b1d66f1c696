package document_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Aum2411/Task-4-Raag/internal/document"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadText(t *testing.T) {
	path := writeTemp(t, "notes.txt", "  Plain text document.\n")

	f, err := document.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "notes", f.Title)
	assert.Equal(t, "Plain text document.", f.Text)
	assert.Equal(t, path, f.Path)
}

func TestLoadMarkdown(t *testing.T) {
	path := writeTemp(t, "readme.md", "# Title\n\nSome markdown body.")

	f, err := document.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "readme", f.Title)
	assert.Contains(t, f.Text, "Some markdown body.")
}

func TestLoadHTML(t *testing.T) {
	page := `<html><head><script>ignore();</script><style>p{}</style></head>
<body><h1>Heading</h1><p>First paragraph.</p><p>Second paragraph.</p></body></html>`
	path := writeTemp(t, "page.html", page)

	f, err := document.Load(path)
	require.NoError(t, err)
	assert.Contains(t, f.Text, "Heading")
	assert.Contains(t, f.Text, "First paragraph.")
	assert.Contains(t, f.Text, "Second paragraph.")
	assert.NotContains(t, f.Text, "ignore()")
	assert.NotContains(t, f.Text, "p{}")
}

func TestLoadDOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.docx")
	out, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(out)
	doc, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = doc.Write([]byte(`<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph of the report.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second paragraph with </w:t></w:r><w:r><w:t>two runs.</w:t></w:r></w:p>
  </w:body>
</w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	f, err := document.Load(path)
	require.NoError(t, err)
	assert.Contains(t, f.Text, "First paragraph of the report.")
	assert.Contains(t, f.Text, "Second paragraph with two runs.")
	lines := strings.Split(f.Text, "\n")
	assert.Len(t, lines, 2)
}

func TestLoadUnsupported(t *testing.T) {
	path := writeTemp(t, "image.png", "not really an image")

	_, err := document.Load(path)
	require.Error(t, err)
	var formatErr *document.UnsupportedFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, ".png", formatErr.Ext)
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeTemp(t, "empty.txt", "   \n ")
	_, err := document.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text extracted")
}

func TestExtractHTMLText(t *testing.T) {
	text, err := document.ExtractHTMLText(strings.NewReader(
		`<div><ul><li>alpha</li><li>beta</li></ul></div>`))
	require.NoError(t, err)
	assert.Contains(t, text, "alpha")
	assert.Contains(t, text, "beta")
}
