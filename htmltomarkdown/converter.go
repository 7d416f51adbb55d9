// Package htmltomarkdown converts HTML documents to Markdown, stripping
// non-content elements first so boilerplate doesn't pollute the output.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/harvest"
)

// nonContentSelector matches elements removed before conversion: scripts,
// styles, navigation, footers, embedded frames, and noscript fallbacks.
const nonContentSelector = "script, style, nav, footer, iframe, noscript"

// Ensure Converter implements harvest.Converter at compile time.
var _ harvest.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown with ATX
// (`#`-style) headings.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle("atx"),
			),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown. Malformed markup degrades
// to best-effort extraction; any failure is reported as a typed error, never
// a panic. baseURL, if non-empty, resolves relative links.
func (c *Converter) Convert(markup, baseURL string) (string, error) {
	if strings.TrimSpace(markup) == "" {
		return "", harvest.Errorf(harvest.EINVALID, "empty HTML input")
	}

	cleaned, err := stripNonContent(markup)
	if err != nil {
		return "", harvest.Errorf(harvest.EINVALID, "parse HTML: %v", err)
	}

	var opts []converter.ConvertOptionFunc
	if baseURL != "" {
		opts = append(opts, converter.WithDomain(baseURL))
	}

	result, err := c.conv.ConvertString(cleaned, opts...)
	if err != nil {
		return "", harvest.Errorf(harvest.EINVALID, "convert HTML: %v", err)
	}

	return strings.TrimSpace(result), nil
}

// stripNonContent removes boilerplate elements from the markup. goquery's
// underlying parser is permissive, so malformed input yields a best-effort
// tree rather than an error.
func stripNonContent(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", err
	}
	doc.Find(nonContentSelector).Remove()
	return doc.Html()
}
