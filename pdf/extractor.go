// Package pdf extracts plain text from PDF files.
package pdf

import (
	"strings"

	"github.com/fwojciec/harvest"
	"github.com/ledongthuc/pdf"
)

// Ensure Extractor implements harvest.PDFExtractor at compile time.
var _ harvest.PDFExtractor = (*Extractor)(nil)

// Extractor extracts text from PDF files page by page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText returns the text of all pages joined with a blank line, so a
// page boundary stays detectable downstream. A file that cannot be opened,
// is not a valid PDF, or yields no extractable text (scanned-image-only
// documents) returns an error, never an empty success.
func (e *Extractor) ExtractText(path string) (text string, err error) {
	// The underlying parser panics on some malformed cross-reference
	// tables; convert that to a typed error so nothing escapes.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = harvest.Errorf(harvest.EINVALID, "extract text from %s: %v", path, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", harvest.Errorf(harvest.EINVALID, "open PDF %s: %v", path, err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", harvest.Errorf(harvest.EINVALID, "extract text from %s page %d: %v", path, i, err)
		}
		pages = append(pages, strings.TrimSpace(content))
	}

	text = strings.TrimSpace(strings.Join(pages, "\n\n"))
	if text == "" {
		return "", harvest.Errorf(harvest.ENOTFOUND, "no extractable text in %s", path)
	}

	return text, nil
}
