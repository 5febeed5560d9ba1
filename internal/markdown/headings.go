package markdown

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-mdsections/internal/slug"
)

var headingIDAttr = []byte("id")

// headingIDTransformer assigns every heading an id derived from its inline
// text. An author supplied `{#id}` survives when it is already a valid slug.
// Equal headings get equal ids; nothing is de-duplicated.
type headingIDTransformer struct{}

func (headingIDTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := node.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		id := headingID(heading)
		if !slug.IsValidID(id) {
			id = slug.HeadingID(string(heading.Text(source)))
		}
		heading.SetAttribute(headingIDAttr, []byte(id))
		return ast.WalkSkipChildren, nil
	})
}

// headingID reads the id attribute of a heading, empty when unset.
func headingID(heading *ast.Heading) string {
	value, ok := heading.AttributeString("id")
	if !ok {
		return ""
	}
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	}
	return ""
}

func anchored(level, minLevel int) bool {
	return level >= minLevel
}

func (r *nodeRenderer) renderHeading(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	id := headingID(n)
	anchor := id != "" && anchored(n.Level, r.anchorMinLevel)

	if entering {
		_, _ = w.WriteString("<h")
		_ = w.WriteByte("0123456"[n.Level])
		if n.Attributes() != nil {
			html.RenderAttributes(w, n, html.HeadingAttributeFilter)
		}
		_ = w.WriteByte('>')
		if anchor {
			_, _ = w.WriteString(`<a href="#`)
			_, _ = w.Write(util.EscapeHTML(util.URLEscape([]byte(id), false)))
			_, _ = w.WriteString(`" class="anchor-link">`)
		}
		return ast.WalkContinue, nil
	}

	if anchor {
		_, _ = w.WriteString("</a>")
	}
	_, _ = w.WriteString("</h")
	_ = w.WriteByte("0123456"[n.Level])
	_, _ = w.WriteString(">\n")
	return ast.WalkContinue, nil
}

// stripAnchor removes the anchor-link renderHeading wraps around heading
// content, keeping the heading tag and its attributes.
func stripAnchor(markup string, level int) string {
	open := strings.IndexByte(markup, '>')
	if open < 0 || !strings.HasPrefix(markup[open+1:], `<a href="#`) {
		return markup
	}
	inner := markup[open+1:]
	start := strings.IndexByte(inner, '>')
	end := strings.LastIndex(inner, "</a></h"+strconv.Itoa(level)+">")
	if start < 0 || end < start {
		return markup
	}
	return markup[:open+1] + inner[start+1:end] + inner[end+len("</a>"):]
}
