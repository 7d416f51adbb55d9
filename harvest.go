// Package harvest provides a small content-harvesting pipeline: given a URL
// it retrieves a resource, normalizes it into Markdown or plain text, and
// persists the result with provenance metadata under a deterministic path
// derived from a category and title.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, htmltomarkdown/, fs/).
package harvest
