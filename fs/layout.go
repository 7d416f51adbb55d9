// Package fs provides the on-disk layout for harvested content: three root
// directories (materials, extracted, metadata), each subdivided by category,
// with files named after the title slug. This layout is the contract
// external tooling relies on.
package fs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/harvest"
)

// Default root directories relative to the base directory.
const (
	DefaultMaterialsDir = "data/materials"
	DefaultExtractedDir = "data/extracted"
	DefaultMetadataDir  = "data/metadata"
)

// metadataExt is the fixed extension for metadata records.
const metadataExt = "json"

// Ensure Layout implements harvest.Locator at compile time.
var _ harvest.Locator = (*Layout)(nil)

// Layout derives storage paths from (category, title) keys. Path derivation
// is pure; only the Save methods touch the filesystem.
type Layout struct {
	baseDir   string
	materials string
	extracted string
	metadata  string
}

// Option configures a Layout.
type Option func(*Layout)

// WithMaterialsDir overrides the raw-download root (relative to baseDir).
func WithMaterialsDir(dir string) Option {
	return func(l *Layout) {
		l.materials = dir
	}
}

// WithExtractedDir overrides the normalized-text root (relative to baseDir).
func WithExtractedDir(dir string) Option {
	return func(l *Layout) {
		l.extracted = dir
	}
}

// WithMetadataDir overrides the metadata root (relative to baseDir).
func WithMetadataDir(dir string) Option {
	return func(l *Layout) {
		l.metadata = dir
	}
}

// NewLayout creates a Layout rooted at baseDir.
func NewLayout(baseDir string, opts ...Option) *Layout {
	l := &Layout{
		baseDir:   baseDir,
		materials: DefaultMaterialsDir,
		extracted: DefaultExtractedDir,
		metadata:  DefaultMetadataDir,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// OutputPath returns the path for the raw downloaded artifact.
func (l *Layout) OutputPath(category, title, ext string) string {
	return l.path(l.materials, category, title, ext)
}

// ProcessedPath returns the path for the normalized text. ext defaults to
// "md" when empty.
func (l *Layout) ProcessedPath(category, title, ext string) string {
	if ext == "" {
		ext = "md"
	}
	return l.path(l.extracted, category, title, ext)
}

// MetadataPath returns the path for the metadata record.
func (l *Layout) MetadataPath(category, title string) string {
	return l.path(l.metadata, category, title, metadataExt)
}

func (l *Layout) path(root, category, title, ext string) string {
	return filepath.Join(l.baseDir, root, category, harvest.Slug(title)+"."+ext)
}

// SaveMetadata writes record as indented JSON at MetadataPath, stamping
// downloaded_at with the current time (overwriting any caller value). The
// write is a whole-file replace: re-harvesting the same (category, title)
// overwrites the prior record, last write wins.
func (l *Layout) SaveMetadata(record harvest.Metadata, category, title string) error {
	stamped := make(harvest.Metadata, len(record)+1)
	for k, v := range record {
		stamped[k] = v
	}
	stamped["downloaded_at"] = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(stamped, "", "  ")
	if err != nil {
		return harvest.Errorf(harvest.EINTERNAL, "encode metadata for %s/%s: %v", category, title, err)
	}

	path := l.MetadataPath(category, title)
	if err := writeFile(path, data); err != nil {
		return harvest.Errorf(harvest.EINTERNAL, "save metadata %s: %v", path, err)
	}

	return nil
}

// SaveProcessed writes content at ProcessedPath and returns that path.
func (l *Layout) SaveProcessed(content, category, title, ext string) (string, error) {
	path := l.ProcessedPath(category, title, ext)
	if err := writeFile(path, []byte(content)); err != nil {
		return "", harvest.Errorf(harvest.EINTERNAL, "save processed content %s: %v", path, err)
	}
	return path, nil
}

// writeFile creates parent directories and writes data in one shot.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
