package mock

import "github.com/fwojciec/harvest"

var _ harvest.Converter = (*Converter)(nil)

// Converter is a mock implementation of harvest.Converter.
type Converter struct {
	ConvertFn func(markup, baseURL string) (string, error)
}

func (c *Converter) Convert(markup, baseURL string) (string, error) {
	return c.ConvertFn(markup, baseURL)
}

var _ harvest.PDFExtractor = (*PDFExtractor)(nil)

// PDFExtractor is a mock implementation of harvest.PDFExtractor.
type PDFExtractor struct {
	ExtractTextFn func(path string) (string, error)
}

func (e *PDFExtractor) ExtractText(path string) (string, error) {
	return e.ExtractTextFn(path)
}
