package mock

import "github.com/fwojciec/harvest"

var _ harvest.Locator = (*Locator)(nil)

// Locator is a mock implementation of harvest.Locator.
type Locator struct {
	OutputPathFn    func(category, title, ext string) string
	ProcessedPathFn func(category, title, ext string) string
	MetadataPathFn  func(category, title string) string
	SaveMetadataFn  func(record harvest.Metadata, category, title string) error
	SaveProcessedFn func(content, category, title, ext string) (string, error)
}

func (l *Locator) OutputPath(category, title, ext string) string {
	return l.OutputPathFn(category, title, ext)
}

func (l *Locator) ProcessedPath(category, title, ext string) string {
	return l.ProcessedPathFn(category, title, ext)
}

func (l *Locator) MetadataPath(category, title string) string {
	return l.MetadataPathFn(category, title)
}

func (l *Locator) SaveMetadata(record harvest.Metadata, category, title string) error {
	return l.SaveMetadataFn(record, category, title)
}

func (l *Locator) SaveProcessed(content, category, title, ext string) (string, error) {
	return l.SaveProcessedFn(content, category, title, ext)
}
