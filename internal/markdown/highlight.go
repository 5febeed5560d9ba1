package markdown

import (
	"strings"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/util"
)

// codeBlockWrapper emits the rouge style wrapper around highlighted fenced
// code:
//
//	<div class="language-ruby highlighter-rouge"><div class="highlight"><pre class="highlight"><code>…</code></pre></div></div>
//
// Fences without a language drop the language- class.
func codeBlockWrapper(w util.BufWriter, ctx highlighting.CodeBlockContext, entering bool) {
	if !entering {
		_, _ = w.WriteString("</code></pre></div></div>\n")
		return
	}

	_, _ = w.WriteString(`<div class="`)
	if lang, ok := ctx.Language(); ok && len(lang) > 0 {
		_, _ = w.WriteString("language-")
		_, _ = w.Write(util.EscapeHTML(lang))
		_ = w.WriteByte(' ')
	}
	_, _ = w.WriteString(`highlighter-rouge"><div class="highlight"><pre class="highlight"><code>`)
}

var codeQuotes = strings.NewReplacer("&#39;", "'", "&#34;", `"`, "&quot;", `"`)

// unescapeCodeQuotes restores the quotes chroma and goldmark entity-encode
// inside <code>. Only <, > and & stay escaped there.
func unescapeCodeQuotes(markup string) string {
	start := strings.Index(markup, "<code>")
	end := strings.LastIndex(markup, "</code>")
	if start < 0 || end < start {
		return markup
	}
	start += len("<code>")
	return markup[:start] + codeQuotes.Replace(markup[start:end]) + markup[end:]
}
