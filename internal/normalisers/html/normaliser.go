package html

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/paygrade/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ normalisers.Cleaner = (*Normaliser)(nil)

// Normaliser strips HTML from post bodies.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Name returns the cleaner name.
func (n *Normaliser) Name() string {
	return "html"
}

// Pre-compiled regular expressions.
var (
	looksLikeTag  = regexp.MustCompile(`(?i)</?[a-z][a-z0-9]*(\s[^>]*)?/?>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// blockSelector lists elements whose boundaries become line breaks.
const blockSelector = "p, div, br, hr, h1, h2, h3, h4, h5, h6, li, tr, blockquote, pre, table, section, article"

// Clean returns the readable text of content.
// Content without any HTML tag is returned unchanged, so markdown bodies
// pass through untouched.
func (n *Normaliser) Clean(content string) string {
	if !looksLikeTag.MatchString(content) {
		return content
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}

	doc.Find("script, style, noscript, svg, head, img").Remove()
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml("\n")
	})

	text := doc.Text()
	text = multiSpaces.ReplaceAllString(text, " ")
	text = multiNewlines.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}
