package mdsections

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-mdsections/internal/logging"
	"github.com/goliatone/go-mdsections/internal/markdown"
	"github.com/goliatone/go-mdsections/pkg/interfaces"
)

// Converter turns markdown into sectioned HTML. It holds only immutable
// configuration, so one Converter can serve concurrent calls and several
// differently configured converters can coexist.
type Converter struct {
	cfg      Config
	renderer *markdown.GoldmarkRenderer
	parser   *markdown.SectionedParser
	provider interfaces.LoggerProvider
	logger   interfaces.Logger
}

var _ interfaces.MarkdownParser = (*Converter)(nil)

// Option customises a Converter.
type Option func(*Converter)

// WithLogger sets the converter logger directly.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLoggerProvider scopes converter and document loggers from provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Converter) {
		if provider != nil {
			c.provider = provider
			c.logger = logging.ConverterLogger(provider)
		}
	}
}

// New validates cfg and builds a Converter.
func New(cfg Config, opts ...Option) (*Converter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid converter config").
			WithTextCode(ErrCodeConfig)
	}

	renderer := markdown.NewGoldmarkRenderer(markdown.RendererConfig{
		OwnHost:        cfg.OwnHost,
		AnchorMinLevel: cfg.AnchorMinLevel,
		HighlightTheme: cfg.SyntaxHighlightTheme,
		Parser: interfaces.ParseOptions{
			Extensions: append([]string(nil), cfg.Parser.Extensions...),
			Sanitize:   cfg.Parser.Sanitize,
			HardWraps:  cfg.Parser.HardWraps,
			SafeMode:   cfg.Parser.SafeMode,
		},
	})

	c := &Converter{
		cfg:      cfg,
		renderer: renderer,
		parser:   markdown.NewSectionedParser(renderer, cfg.SectionHeadingLevel),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns a copy of the converter configuration.
func (c *Converter) Config() Config {
	return c.cfg
}

// AsHTML converts markdown into an HTML fragment. Documents with a heading
// at the configured level are split into <section data-title="…"> blocks;
// all others are returned as plain rendered HTML. The only failure is a
// render error.
func (c *Converter) AsHTML(markdown string) (string, error) {
	out, err := c.Convert(context.Background(), []byte(markdown))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Convert is AsHTML over bytes, honouring ctx cancellation.
func (c *Converter) Convert(ctx context.Context, source []byte) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := c.logger.WithContext(ctx)
	started := time.Now()

	out, groups, err := c.parser.Sections(ctx, source)
	if err != nil {
		logger.Error("markdown.convert.failed",
			"error", err,
			"bytes_in", len(source),
		)
		return nil, err
	}

	logger.Debug("markdown.convert.completed",
		"bytes_in", len(source),
		"bytes_out", len(out),
		"sections", len(groups),
		"section_level", c.parser.Level(),
		"duration", time.Since(started),
	)
	return out, nil
}

// Parse implements interfaces.MarkdownParser.
func (c *Converter) Parse(markdown []byte) ([]byte, error) {
	return c.Convert(context.Background(), markdown)
}

// ParseWithContext implements interfaces.MarkdownParser.
func (c *Converter) ParseWithContext(ctx context.Context, markdown []byte) ([]byte, error) {
	return c.Convert(ctx, markdown)
}

// RenderBlocks exposes the unsectioned block sequence for callers that lay
// out sections themselves.
func (c *Converter) RenderBlocks(ctx context.Context, source []byte) ([]interfaces.RenderedBlock, error) {
	return c.renderer.Render(ctx, source)
}
