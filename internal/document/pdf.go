package document

import (
	"bytes"
	"io"
	"os/exec"
	"strings"

	"github.com/ledongthuc/pdf"
)

// loadPDF extracts text with ledongthuc/pdf and falls back to the pdftotext
// CLI when the library finds nothing, which happens with some encodings.
func loadPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	b, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(&buf, b); err != nil {
		return "", err
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		if out, err := exec.Command("pdftotext", "-layout", path, "-").Output(); err == nil {
			return string(out), nil
		}
	}
	return text, nil
}
