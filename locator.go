package harvest

import (
	"regexp"
	"strings"
)

// Metadata is a provenance record for a harvested item. Arbitrary
// caller-supplied fields are allowed; the locator stamps downloaded_at at
// save time, overwriting any caller value.
type Metadata map[string]any

// Locator derives storage paths from a (category, title) key and persists
// metadata records. Path derivation is pure: the same arguments always yield
// the same paths, with no filesystem side effects and no lookup table —
// every path is reconstructible from (category, title) alone.
//
// Saving metadata is a whole-file replace: re-harvesting the same
// (category, title) overwrites the prior record, last write wins. There is
// no versioning or append history.
type Locator interface {
	// OutputPath returns the path for the raw downloaded artifact.
	OutputPath(category, title, ext string) string

	// ProcessedPath returns the path for the normalized text. ext defaults
	// to "md" when empty.
	ProcessedPath(category, title, ext string) string

	// MetadataPath returns the path for the metadata record.
	MetadataPath(category, title string) string

	// SaveMetadata stamps downloaded_at on a copy of record and writes it
	// as indented JSON at MetadataPath(category, title).
	SaveMetadata(record Metadata, category, title string) error

	// SaveProcessed writes content at ProcessedPath(category, title, ext)
	// and returns that path.
	SaveProcessed(content, category, title, ext string) (string, error)
}

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapseRe = regexp.MustCompile(`[-\s]+`)
)

// Slug derives the filesystem-safe join key for a title: lowercase, strip
// characters outside word characters/whitespace/hyphen, collapse whitespace
// and hyphen runs to single hyphens, trim. Titles differing only in case,
// punctuation, or spacing collide to the same slug; this deduplicates
// near-identical titles and is relied upon, not a defect.
func Slug(title string) string {
	s := strings.ToLower(title)
	s = slugStripRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = slugCollapseRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
