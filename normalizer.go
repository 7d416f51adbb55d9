package harvest

// Converter transforms HTML markup into Markdown.
// Implementations parse permissively: malformed markup degrades to
// best-effort extraction rather than failing.
type Converter interface {
	// Convert returns the Markdown rendition of markup. baseURL, if
	// non-empty, is used to resolve relative links.
	Convert(markup, baseURL string) (string, error)
}

// PDFExtractor extracts plain text from a PDF file.
type PDFExtractor interface {
	// ExtractText returns the text of all pages joined with a blank line.
	// A file that cannot be opened, is not a valid PDF, or has no text
	// layer yields an error, never an empty success.
	ExtractText(path string) (string, error)
}
