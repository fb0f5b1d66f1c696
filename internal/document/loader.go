package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// File is the raw text of a loaded document.
type File struct {
	Path  string
	Title string
	Text  string
}

// UnsupportedFormatError reports a file extension the loader cannot handle.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s", e.Ext)
}

// Load reads a document, extracting plain text according to the file
// extension. Supported formats: pdf, docx, txt, md, html.
func Load(path string) (*File, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var text string
	var err error
	switch ext {
	case ".pdf":
		text, err = loadPDF(path)
	case ".docx":
		text, err = loadDOCX(path)
	case ".txt", ".md":
		var raw []byte
		raw, err = os.ReadFile(path)
		text = string(raw)
	case ".html", ".htm":
		text, err = loadHTML(path)
	default:
		return nil, &UnsupportedFormatError{Ext: ext}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.Errorf("no text extracted from %s", path)
	}

	base := filepath.Base(path)
	return &File{
		Path:  path,
		Title: strings.TrimSuffix(base, filepath.Ext(base)),
		Text:  text,
	}, nil
}
