package markdown

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	anchorLinkClass = regexp.MustCompile(`^anchor-link$`)
	rougeClass      = regexp.MustCompile(`^(?:language-[-A-Za-z0-9_+#.]+ )?highlighter-rouge$|^highlight$`)
	relValue        = regexp.MustCompile(`^noopener noreferrer$`)
	targetValue     = regexp.MustCompile(`^_blank$`)
)

// newSanitizer returns a UGC policy that still admits the markup the
// renderer produces: heading ids, anchor-links, external link attributes,
// highlighter wrappers, chroma token classes and section data attributes.
func newSanitizer() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(false)
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6", "li", "sup")
	p.AllowAttrs("class").Matching(anchorLinkClass).OnElements("a")
	p.AllowAttrs("target").Matching(targetValue).OnElements("a")
	p.AllowAttrs("rel").Matching(relValue).OnElements("a")
	p.AllowAttrs("class").Matching(rougeClass).OnElements("div", "pre")
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("span", "code")
	p.AllowElements("section")
	p.AllowDataAttributes()
	return p
}
