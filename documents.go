package mdsections

import (
	"io/fs"

	"github.com/goliatone/go-mdsections/internal/logging"
	"github.com/goliatone/go-mdsections/internal/markdown"
	"github.com/goliatone/go-mdsections/pkg/interfaces"
)

// Document, LoadOptions and RenderResult describe file based conversion.
type (
	Document        = interfaces.Document
	FrontMatter     = interfaces.FrontMatter
	LoadOptions     = interfaces.LoadOptions
	RenderResult    = interfaces.RenderResult
	MarkdownService = interfaces.MarkdownService
	RenderedBlock   = interfaces.RenderedBlock
)

// Documents returns a service that loads markdown files from the configured
// content directory and converts them with c.
func (c *Converter) Documents() (MarkdownService, error) {
	return c.documents(nil)
}

// DocumentsFS is Documents reading from fsys instead of the content
// directory.
func (c *Converter) DocumentsFS(fsys fs.FS) (MarkdownService, error) {
	return c.documents(fsys)
}

func (c *Converter) documents(fsys fs.FS) (MarkdownService, error) {
	md := c.cfg.Markdown
	return markdown.NewService(markdown.Config{
		BasePath:       md.ContentDir,
		FS:             fsys,
		DefaultLocale:  md.DefaultLocale,
		Locales:        md.Locales,
		LocalePatterns: md.LocalePatterns,
		Pattern:        md.Pattern,
		Recursive:      md.Recursive,
		Workers:        md.Workers,
	}, c, markdown.WithLogger(logging.MarkdownLogger(c.provider)))
}
