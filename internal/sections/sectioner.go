// Package sections groups rendered markdown blocks into <section> elements
// bounded by headings at a configured level.
package sections

import (
	"html"
	"strings"

	"github.com/goliatone/go-mdsections/internal/slug"
	"github.com/goliatone/go-mdsections/pkg/interfaces"
)

// FallbackTitle labels the section holding blocks that precede the first
// sectionable heading.
const FallbackTitle = "content"

const indent = "  "

// Section is a contiguous run of blocks. Every section except a leading
// fallback one starts with a heading at the sectioning level.
type Section struct {
	Title  string
	Blocks []interfaces.RenderedBlock
	// Fallback marks the leading section of blocks that precede the first
	// heading at the sectioning level.
	Fallback bool
}

// Group partitions blocks at headings of the given level. It returns nil
// when no heading at that level exists, in which case the document is not
// sectioned. Concatenating the Blocks of every returned section yields the
// input sequence.
func Group(blocks []interfaces.RenderedBlock, level int) []Section {
	first := -1
	for i, block := range blocks {
		if block.IsHeading(level) {
			first = i
			break
		}
	}
	if first < 0 {
		return nil
	}

	var out []Section
	if first > 0 {
		out = append(out, Section{
			Title:    FallbackTitle,
			Blocks:   blocks[:first],
			Fallback: true,
		})
	}

	start := first
	for i := first + 1; i <= len(blocks); i++ {
		if i < len(blocks) && !blocks[i].IsHeading(level) {
			continue
		}
		out = append(out, Section{
			Title:  title(blocks[start]),
			Blocks: blocks[start:i],
		})
		start = i
	}
	return out
}

// Sectionize renders blocks as sectioned HTML. Without a heading at level
// the blocks are returned unwrapped, byte for byte.
func Sectionize(blocks []interfaces.RenderedBlock, level int) string {
	groups := Group(blocks, level)
	if groups == nil {
		return Join(blocks)
	}
	return Render(groups)
}

// Render serialises sections. Each block is indented by two spaces and keeps
// the blank line that followed it in the source, except the final block of
// the document. The first heading of a fallback section is written without
// its anchor-link.
func Render(sections []Section) string {
	var b strings.Builder
	for si, section := range sections {
		b.WriteString(`<section data-title="`)
		b.WriteString(html.EscapeString(section.Title))
		b.WriteString("\">\n")

		lastSection := si == len(sections)-1
		unanchor := section.Fallback
		for bi, block := range section.Blocks {
			markup := block.Markup
			if unanchor && block.IsHeading(0) {
				markup = bare(block)
				unanchor = false
			}
			writeIndented(&b, markup)
			if lastSection && bi == len(section.Blocks)-1 {
				continue
			}
			b.WriteString(block.Spacing)
		}

		b.WriteString("</section>\n")
	}
	return b.String()
}

// Join concatenates block markup with its original spacing.
func Join(blocks []interfaces.RenderedBlock) string {
	var b strings.Builder
	for _, block := range blocks {
		b.WriteString(block.Markup)
		b.WriteString(block.Spacing)
	}
	return b.String()
}

// writeIndented indents every non-empty line of markup. Preformatted blocks
// only get their first line indented so code content is not shifted.
func writeIndented(b *strings.Builder, markup string) {
	if markup == "" {
		return
	}
	if isPreformatted(markup) {
		b.WriteString(indent)
		b.WriteString(markup)
		if !strings.HasSuffix(markup, "\n") {
			b.WriteByte('\n')
		}
		return
	}

	for _, line := range strings.SplitAfter(markup, "\n") {
		if line == "" {
			continue
		}
		if line != "\n" {
			b.WriteString(indent)
		}
		b.WriteString(line)
	}
	if !strings.HasSuffix(markup, "\n") {
		b.WriteByte('\n')
	}
}

// bare returns heading markup without its anchor-link.
func bare(heading interfaces.RenderedBlock) string {
	if heading.AnchorWrapped && heading.BareMarkup != "" {
		return heading.BareMarkup
	}
	return heading.Markup
}

func isPreformatted(markup string) bool {
	return strings.Contains(markup, "<pre") || strings.Contains(markup, "<textarea")
}

func title(heading interfaces.RenderedBlock) string {
	if id := strings.TrimSpace(heading.ID); id != "" {
		return id
	}
	return slug.HeadingID(heading.Text)
}
