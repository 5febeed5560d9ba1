package interfaces

import (
	"context"
	"time"
)

// BlockKind tags a rendered top-level block.
type BlockKind uint8

const (
	// BlockOther covers paragraphs, lists, code blocks, tables, footnotes and raw HTML.
	BlockOther BlockKind = iota
	// BlockHeading marks an h1–h6 block.
	BlockHeading
)

// String renders the kind label used in logs and test failures.
func (k BlockKind) String() string {
	switch k {
	case BlockHeading:
		return "heading"
	default:
		return "other"
	}
}

// RenderedBlock is one top-level HTML element produced by the markdown
// renderer. Order across a slice of blocks is significant.
type RenderedBlock struct {
	Kind BlockKind
	// Level is 1–6 for headings and 0 otherwise.
	Level int
	// ID is the heading's rendered id attribute.
	ID string
	// Text is the heading's plain inline text.
	Text string
	// Markup is the rendered HTML of the block, newline terminated.
	Markup string
	// AnchorWrapped reports whether the heading content sits inside an
	// anchor-link pointing at its own id.
	AnchorWrapped bool
	// BareMarkup is the heading rendered without its anchor-link. Empty when
	// the heading is not anchor-wrapped.
	BareMarkup string
	// Spacing is the whitespace that separated this block from the next one
	// in the author's source ("" or "\n").
	Spacing string
}

// IsHeading reports whether the block is a heading, optionally at the given
// level. A level of 0 matches any heading.
func (b RenderedBlock) IsHeading(level int) bool {
	if b.Kind != BlockHeading {
		return false
	}
	return level == 0 || b.Level == level
}

// BlockRenderer turns markdown source into a sequence of rendered blocks.
type BlockRenderer interface {
	Render(ctx context.Context, markdown []byte) ([]RenderedBlock, error)
}

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
type MarkdownParser interface {
	// Parse converts Markdown into a sectioned HTML fragment.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithContext is Parse honouring cancellation.
	ParseWithContext(ctx context.Context, markdown []byte) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// MarkdownService exposes file workflows on top of the converter: load
// documents from a filesystem, convert them, and batch convert directories.
type MarkdownService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte) ([]byte, error)
	RenderDocument(ctx context.Context, doc *Document) ([]byte, error)
	RenderDirectory(ctx context.Context, dir string, opts LoadOptions) (*RenderResult, error)
}

// Document represents a Markdown file with parsed metadata and content.
type Document struct {
	FilePath     string
	Locale       string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	// Checksum stores a SHA-256 digest of the original file content.
	Checksum []byte
}

// FrontMatter models metadata extracted from Markdown files. Unknown keys
// land in Custom.
type FrontMatter struct {
	Title    string         `yaml:"title" json:"title"`
	Slug     string         `yaml:"slug" json:"slug"`
	Summary  string         `yaml:"summary" json:"summary"`
	Template string         `yaml:"template" json:"template"`
	Tags     []string       `yaml:"tags" json:"tags"`
	Author   string         `yaml:"author" json:"author"`
	Date     time.Time      `yaml:"date" json:"date"`
	Draft    bool           `yaml:"draft" json:"draft"`
	Custom   map[string]any `yaml:",inline" json:"custom"`
	Raw      map[string]any `yaml:"-" json:"raw"`
}

// LoadOptions fine-tunes how documents are discovered from disk.
type LoadOptions struct {
	Recursive      *bool
	Pattern        string
	LocalePatterns map[string]string
}

// RenderResult summarises a directory conversion run.
type RenderResult struct {
	Documents []*Document
	Rendered  int
	Skipped   int
	Errors    []error
}
