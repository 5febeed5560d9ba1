package markdown

import (
	"bytes"
	"context"
	"strings"
	"unicode/utf8"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-mdsections/internal/sections"
	"github.com/goliatone/go-mdsections/pkg/interfaces"
)

const (
	// DefaultAnchorMinLevel is the shallowest heading level wrapped in an
	// anchor-link. Level-1 headings render bare.
	DefaultAnchorMinLevel = 2
	// DefaultHighlightTheme is the chroma style used for fenced code.
	DefaultHighlightTheme = "github"
)

// RendererConfig is the immutable configuration of a GoldmarkRenderer.
type RendererConfig struct {
	// OwnHost classifies links: destinations on this host stay untouched.
	OwnHost string
	// AnchorMinLevel is the shallowest heading level that gets an anchor-link.
	// Values above 6 disable anchor wrapping.
	AnchorMinLevel int
	// HighlightTheme selects the chroma style for fenced code blocks.
	HighlightTheme string
	Parser         interfaces.ParseOptions
}

// GoldmarkRenderer implements interfaces.BlockRenderer on top of goldmark.
// The engine and every hook it carries are stateless, so one instance can be
// shared across goroutines.
type GoldmarkRenderer struct {
	cfg       RendererConfig
	engine    goldmark.Markdown
	sanitizer *bluemonday.Policy
}

var _ interfaces.BlockRenderer = (*GoldmarkRenderer)(nil)

// NewGoldmarkRenderer builds the goldmark engine once for the supplied
// configuration.
func NewGoldmarkRenderer(cfg RendererConfig) *GoldmarkRenderer {
	if cfg.AnchorMinLevel <= 0 {
		cfg.AnchorMinLevel = DefaultAnchorMinLevel
	}
	if strings.TrimSpace(cfg.HighlightTheme) == "" {
		cfg.HighlightTheme = DefaultHighlightTheme
	}

	r := &GoldmarkRenderer{
		cfg:    cfg,
		engine: newGoldmarkEngine(cfg),
	}
	if cfg.Parser.Sanitize {
		r.sanitizer = newSanitizer()
	}
	return r
}

// Render parses markdown once and renders each top-level node on its own,
// returning the ordered block sequence.
func (r *GoldmarkRenderer) Render(ctx context.Context, source []byte) ([]interfaces.RenderedBlock, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, wrapRenderError(err, "markdown render cancelled")
	}
	if !utf8.Valid(source) {
		return nil, wrapRenderError(ErrInvalidEncoding, "markdown render")
	}

	doc := r.engine.Parser().Parse(text.NewReader(source))

	blocks := make([]interfaces.RenderedBlock, 0, doc.ChildCount())
	var buf bytes.Buffer
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if err := ctx.Err(); err != nil {
			return nil, wrapRenderError(err, "markdown render cancelled")
		}

		buf.Reset()
		if err := r.engine.Renderer().Render(&buf, source, node); err != nil {
			return nil, wrapRenderError(err, "markdown render "+node.Kind().String())
		}

		block := r.newBlock(node, source, buf.String())
		if next := node.NextSibling(); next != nil && next.HasBlankPreviousLines() {
			block.Spacing = "\n"
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// RenderHTML renders markdown without sectioning: every block followed by
// its original spacing.
func (r *GoldmarkRenderer) RenderHTML(ctx context.Context, source []byte) ([]byte, error) {
	blocks, err := r.Render(ctx, source)
	if err != nil {
		return nil, err
	}
	return []byte(sections.Join(blocks)), nil
}

func (r *GoldmarkRenderer) newBlock(node ast.Node, source []byte, markup string) interfaces.RenderedBlock {
	switch n := node.(type) {
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return interfaces.RenderedBlock{
			Kind:   interfaces.BlockOther,
			Markup: unescapeCodeQuotes(r.finish(markup)),
		}
	case *ast.Heading:
		id := headingID(n)
		block := interfaces.RenderedBlock{
			Kind:   interfaces.BlockHeading,
			Level:  n.Level,
			ID:     id,
			Text:   string(n.Text(source)),
			Markup: r.finish(markup),
		}
		if id != "" && anchored(n.Level, r.cfg.AnchorMinLevel) {
			block.AnchorWrapped = true
			block.BareMarkup = r.finish(stripAnchor(markup, n.Level))
		}
		return block
	}
	return interfaces.RenderedBlock{
		Kind:   interfaces.BlockOther,
		Markup: r.finish(markup),
	}
}

// finish sanitizes markup when enabled and terminates it with a newline.
func (r *GoldmarkRenderer) finish(markup string) string {
	if r.sanitizer != nil {
		markup = r.sanitizer.Sanitize(markup)
	}
	if !strings.HasSuffix(markup, "\n") {
		markup += "\n"
	}
	return markup
}

// newGoldmarkEngine builds a goldmark.Markdown with the typographer,
// footnotes, heading ids, code highlighting and the link/image/heading node
// renderers always enabled. Parser extensions listed in the config are added
// on top; unknown names are ignored.
func newGoldmarkEngine(cfg RendererConfig) goldmark.Markdown {
	exts := collectExtensions(cfg.Parser.Extensions)
	exts = append(exts,
		extension.Footnote,
		extension.NewTypographer(extension.WithTypographicSubstitutions(typographicSubstitutions)),
		highlighting.NewHighlighting(
			highlighting.WithStyle(cfg.HighlightTheme),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
				chromahtml.PreventSurroundingPre(true),
			),
			highlighting.WithWrapperRenderer(codeBlockWrapper),
		),
	)

	parserOptions := []parser.Option{
		parser.WithAttribute(),
		parser.WithASTTransformers(
			util.Prioritized(headingIDTransformer{}, 500),
		),
		parser.WithInlineParsers(
			util.Prioritized(imageAttributeParser{}, 100),
		),
	}

	rendererOptions := []renderer.Option{
		html.WithXHTML(),
		renderer.WithNodeRenderers(
			util.Prioritized(newNodeRenderer(cfg), 100),
		),
	}
	if cfg.Parser.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	// SafeMode drops raw HTML; Sanitize keeps it and scrubs the output instead.
	if !cfg.Parser.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	return goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parserOptions...),
		goldmark.WithRendererOptions(rendererOptions...),
	)
}

var typographicSubstitutions = map[extension.TypographicPunctuation][]byte{
	extension.LeftSingleQuote:  []byte("‘"),
	extension.RightSingleQuote: []byte("’"),
	extension.LeftDoubleQuote:  []byte("“"),
	extension.RightDoubleQuote: []byte("”"),
	extension.EnDash:           []byte("–"),
	extension.EmDash:           []byte("—"),
	extension.Ellipsis:         []byte("…"),
	extension.LeftAngleQuote:   []byte("«"),
	extension.RightAngleQuote:  []byte("»"),
	extension.Apostrophe:       []byte("’"),
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
		}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}

		if _, ok := seen[key]; ok {
			continue
		}

		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}

		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders
}
