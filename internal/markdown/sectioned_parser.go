package markdown

import (
	"context"

	"github.com/goliatone/go-mdsections/internal/sections"
	"github.com/goliatone/go-mdsections/pkg/interfaces"
)

// DefaultSectionLevel is the heading level sections are anchored at.
const DefaultSectionLevel = 3

// SectionedParser renders markdown into blocks and groups them into
// <section> elements.
type SectionedParser struct {
	renderer interfaces.BlockRenderer
	level    int
}

var _ interfaces.MarkdownParser = (*SectionedParser)(nil)

// NewSectionedParser wraps renderer. Levels outside 1..6 fall back to
// DefaultSectionLevel.
func NewSectionedParser(renderer interfaces.BlockRenderer, level int) *SectionedParser {
	if level < 1 || level > 6 {
		level = DefaultSectionLevel
	}
	return &SectionedParser{renderer: renderer, level: level}
}

// Level returns the heading level sections are anchored at.
func (p *SectionedParser) Level() int {
	return p.level
}

// Parse converts markdown into a sectioned HTML fragment.
func (p *SectionedParser) Parse(markdown []byte) ([]byte, error) {
	return p.ParseWithContext(context.Background(), markdown)
}

// ParseWithContext is Parse honouring ctx.
func (p *SectionedParser) ParseWithContext(ctx context.Context, markdown []byte) ([]byte, error) {
	blocks, err := p.renderer.Render(ctx, markdown)
	if err != nil {
		return nil, wrapRenderError(err, "markdown render")
	}
	return []byte(sections.Sectionize(blocks, p.level)), nil
}

// Sections renders markdown and also returns the section partition, nil when
// the document was not sectioned.
func (p *SectionedParser) Sections(ctx context.Context, markdown []byte) ([]byte, []sections.Section, error) {
	blocks, err := p.renderer.Render(ctx, markdown)
	if err != nil {
		return nil, nil, wrapRenderError(err, "markdown render")
	}

	groups := sections.Group(blocks, p.level)
	if groups == nil {
		return []byte(sections.Join(blocks)), nil, nil
	}
	return []byte(sections.Render(groups)), groups, nil
}
