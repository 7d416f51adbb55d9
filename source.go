package harvest

import "strings"

// Item types recognized by the pipeline.
const (
	TypeHTML     = "html"
	TypePDF      = "pdf"
	TypeMarkdown = "markdown"
)

// Item is a single harvest target from a sources manifest.
type Item struct {
	URL      string `yaml:"url"`
	Title    string `yaml:"title"`
	Type     string `yaml:"type"`
	IsGitHub bool   `yaml:"is_github"`
}

// Source is a category's worth of harvest targets.
type Source struct {
	URLs []Item `yaml:"urls"`
}

// Validate returns an error if the item cannot be harvested.
func (i Item) Validate() error {
	if i.URL == "" {
		return Errorf(EINVALID, "item URL required")
	}
	if i.Title == "" {
		return Errorf(EINVALID, "item title required")
	}
	switch i.Type {
	case "", TypeHTML, TypePDF, TypeMarkdown:
		return nil
	}
	return Errorf(EINVALID, "unknown item type %q", i.Type)
}

// FetchURL returns the URL to actually download. GitHub blob URLs are
// rewritten to their raw.githubusercontent.com equivalent so the fetch
// returns file contents instead of the GitHub page chrome.
func (i Item) FetchURL() string {
	if i.IsGitHub && strings.Contains(i.URL, "github.com") && strings.Contains(i.URL, "/blob/") {
		u := strings.Replace(i.URL, "github.com", "raw.githubusercontent.com", 1)
		return strings.Replace(u, "/blob/", "/", 1)
	}
	return i.URL
}

// Extension returns the raw-artifact file extension for the item's type.
func (i Item) Extension() string {
	if i.IsGitHub {
		return "md"
	}
	switch i.Type {
	case TypePDF:
		return "pdf"
	case TypeMarkdown:
		return "md"
	default:
		return "html"
	}
}
