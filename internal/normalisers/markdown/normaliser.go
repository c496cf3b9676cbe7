// Package markdown provides a Cleaner for markdown post bodies.
package markdown

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/paygrade/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ normalisers.Cleaner = (*Normaliser)(nil)

// Normaliser strips markdown formatting while keeping every figure in the
// text. Code is unwrapped rather than removed, since posts often put
// compensation tables inside fences.
type Normaliser struct{}

// New creates a new markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Name returns the cleaner name.
func (n *Normaliser) Name() string {
	return "markdown"
}

// Pre-compiled regular expressions for markdown stripping.
var (
	codeFence     = regexp.MustCompile("(?m)^\\s*```[a-zA-Z0-9_-]*\\s*$")
	inlineCode    = regexp.MustCompile("`([^`]+)`")
	images        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquote    = regexp.MustCompile(`(?m)^>\s?`)
	hr            = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	listMarkers   = regexp.MustCompile(`(?m)^(\s*)[-*+]\s+`)
	emphasis      = regexp.MustCompile(`(\*\*|__)(\S.*?\S|\S)(\*\*|__)`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// Clean returns content with markdown syntax removed.
func (n *Normaliser) Clean(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = codeFence.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = blockquote.ReplaceAllString(content, "")
	content = hr.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "$1")
	content = emphasis.ReplaceAllString(content, "$2")
	content = multiNewlines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
