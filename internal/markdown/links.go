package markdown

import (
	"bytes"
	"net"
	"net/url"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

const externalLinkAttrs = ` target="_blank" rel="noopener noreferrer"`

var altAttr = []byte("alt")

// LinkClassifier decides whether a link destination leaves the site.
type LinkClassifier struct {
	ownHost string
}

// NewLinkClassifier normalises ownHost, which may be given as a bare host,
// host:port, or a full URL. An empty ownHost makes every absolute link
// external.
func NewLinkClassifier(ownHost string) LinkClassifier {
	return LinkClassifier{ownHost: normalizeHost(ownHost)}
}

// OwnHost returns the normalised host links are compared against.
func (c LinkClassifier) OwnHost() string {
	return c.ownHost
}

// IsExternal reports whether dest points at another host. Relative and
// unparseable destinations are internal.
func (c LinkClassifier) IsExternal(dest string) bool {
	dest = strings.TrimSpace(dest)
	if dest == "" {
		return false
	}
	u, err := url.Parse(dest)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "" {
		return false
	}
	return !strings.EqualFold(host, c.ownHost)
}

func normalizeHost(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.Contains(raw, "://") {
		if u, err := url.Parse(raw); err == nil {
			return strings.ToLower(u.Hostname())
		}
	}
	if host, _, err := net.SplitHostPort(raw); err == nil {
		return strings.ToLower(host)
	}
	return strings.ToLower(strings.TrimSuffix(raw, "/"))
}

// nodeRenderer overrides goldmark's heading, link, autolink and image output.
// It carries no per-render state.
type nodeRenderer struct {
	html.Config
	anchorMinLevel int
	links          LinkClassifier
}

func newNodeRenderer(cfg RendererConfig) renderer.NodeRenderer {
	return &nodeRenderer{
		Config:         html.NewConfig(),
		anchorMinLevel: cfg.AnchorMinLevel,
		links:          NewLinkClassifier(cfg.OwnHost),
	}
}

func (r *nodeRenderer) SetOption(name renderer.OptionName, value any) {
	r.Config.SetOption(name, value)
}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindAutoLink, r.renderAutoLink)
	reg.Register(ast.KindImage, r.renderImage)
}

func (r *nodeRenderer) renderLink(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)
	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<a href="`)
	if r.Unsafe || !html.IsDangerousURL(n.Destination) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	}
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		r.Writer.Write(w, n.Title)
		_ = w.WriteByte('"')
	}
	if r.links.IsExternal(string(n.Destination)) {
		_, _ = w.WriteString(externalLinkAttrs)
	}
	if n.Attributes() != nil {
		html.RenderAttributes(w, n, linkAttributeFilter)
	}
	_ = w.WriteByte('>')
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderAutoLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.AutoLink)
	dest := n.URL(source)
	label := n.Label(source)

	_, _ = w.WriteString(`<a href="`)
	if n.AutoLinkType == ast.AutoLinkEmail && !bytes.HasPrefix(bytes.ToLower(dest), []byte("mailto:")) {
		_, _ = w.WriteString("mailto:")
	}
	_, _ = w.Write(util.EscapeHTML(util.URLEscape(dest, false)))
	_ = w.WriteByte('"')
	if n.AutoLinkType == ast.AutoLinkURL && r.links.IsExternal(string(dest)) {
		_, _ = w.WriteString(externalLinkAttrs)
	}
	if n.Attributes() != nil {
		html.RenderAttributes(w, n, linkAttributeFilter)
	}
	_ = w.WriteByte('>')
	_, _ = w.Write(util.EscapeHTML(label))
	_, _ = w.WriteString("</a>")
	return ast.WalkContinue, nil
}

// renderImage wraps an image in a link to its own source. An explicit empty
// alt attribute opts out, and images already inside a link are left bare.
func (r *nodeRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)

	alt, explicit := explicitAlt(n)
	if !explicit {
		alt = altText(n, source)
	}
	wrap := !(explicit && len(alt) == 0) && !insideLink(n)

	var src []byte
	if r.Unsafe || !html.IsDangerousURL(n.Destination) {
		src = util.EscapeHTML(util.URLEscape(n.Destination, true))
	}

	if wrap {
		_, _ = w.WriteString(`<a href="`)
		_, _ = w.Write(src)
		_ = w.WriteByte('"')
		_, _ = w.WriteString(externalLinkAttrs)
		_ = w.WriteByte('>')
	}

	_, _ = w.WriteString(`<img src="`)
	_, _ = w.Write(src)
	_, _ = w.WriteString(`" alt="`)
	_, _ = w.Write(alt)
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		r.Writer.Write(w, n.Title)
		_ = w.WriteByte('"')
	}
	if n.Attributes() != nil {
		html.RenderAttributes(w, n, html.ImageAttributeFilter)
	}
	if r.XHTML {
		_, _ = w.WriteString(" />")
	} else {
		_ = w.WriteByte('>')
	}

	if wrap {
		_, _ = w.WriteString("</a>")
	}
	return ast.WalkSkipChildren, nil
}

// linkAttributeFilter drops target and rel from author attributes; the
// external-link rule owns them.
var linkAttributeFilter = html.GlobalAttributeFilter.Extend(
	[]byte("download"),
	[]byte("hreflang"),
	[]byte("media"),
	[]byte("ping"),
	[]byte("referrerpolicy"),
	[]byte("shape"),
)

// explicitAlt returns the escaped alt set through an attribute list.
func explicitAlt(n *ast.Image) ([]byte, bool) {
	value, ok := n.Attribute(altAttr)
	if !ok {
		return nil, false
	}
	switch v := value.(type) {
	case []byte:
		return util.EscapeHTML(v), true
	case string:
		return util.EscapeHTML([]byte(v)), true
	}
	return nil, false
}

func altText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if s, ok := c.(*ast.String); ok && s.IsCode() {
			buf.Write(s.Text(source))
		} else if !c.HasChildren() {
			buf.Write(util.EscapeHTML(c.Text(source)))
		} else {
			buf.Write(altText(c, source))
		}
	}
	return buf.Bytes()
}

func insideLink(n ast.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.Kind() {
		case ast.KindLink, ast.KindAutoLink:
			return true
		}
	}
	return false
}
