package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-mdsections/internal/logging"
	"github.com/goliatone/go-mdsections/pkg/interfaces"
)

// DefaultWorkers bounds RenderDirectory concurrency when Config.Workers is unset.
const DefaultWorkers = 4

// Config controls document discovery for the Service.
type Config struct {
	// BasePath is the directory documents are read from. Ignored when FS is set.
	BasePath string
	// FS overrides the filesystem rooted at BasePath.
	FS             fs.FS
	DefaultLocale  string
	Locales        []string
	LocalePatterns map[string]string
	Pattern        string
	Recursive      bool
	// Workers bounds how many documents RenderDirectory converts at once.
	Workers int
}

// Service implements interfaces.MarkdownService for filesystem-backed
// documents.
type Service struct {
	cfg    Config
	parser interfaces.MarkdownParser
	loader *Loader
	logger interfaces.Logger
}

var _ interfaces.MarkdownService = (*Service)(nil)

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithLogger attaches the logger used for per-document diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService builds a Service converting documents with parser. A nil parser
// gets a SectionedParser over a default GoldmarkRenderer.
func NewService(cfg Config, parser interfaces.MarkdownParser, opts ...ServiceOption) (*Service, error) {
	filesystem := cfg.FS
	if filesystem == nil {
		var err error
		if filesystem, err = prepareFilesystem(cfg.BasePath); err != nil {
			return nil, err
		}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	if parser == nil {
		parser = NewSectionedParser(NewGoldmarkRenderer(RendererConfig{}), DefaultSectionLevel)
	}

	svc := &Service{
		cfg:    cfg,
		parser: parser,
		loader: NewLoader(filesystem, LoaderConfig{
			DefaultLocale:  cfg.DefaultLocale,
			Locales:        cfg.Locales,
			LocalePatterns: cfg.LocalePatterns,
			Pattern:        cfg.Pattern,
			Recursive:      cfg.Recursive,
		}),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Load reads and converts a single document.
func (s *Service) Load(ctx context.Context, path string, opts interfaces.LoadOptions) (*interfaces.Document, error) {
	doc, err := s.loader.LoadFile(ctx, s.normalisePath(path), toLoadParams(opts))
	if err != nil {
		return nil, err
	}
	if _, err := s.RenderDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadDirectory reads and converts every matching document below dir,
// stopping at the first failure.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	docs, err := s.loader.LoadDirectory(ctx, s.normalisePath(dir), toLoadParams(opts))
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if _, err := s.RenderDocument(ctx, doc); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// Render converts markdown bytes into sectioned HTML.
func (s *Service) Render(ctx context.Context, markdown []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapRenderError(err, "markdown render cancelled")
	}
	return s.parser.ParseWithContext(ctx, markdown)
}

// RenderDocument converts doc.Body and stores the result on doc.BodyHTML.
func (s *Service) RenderDocument(ctx context.Context, doc *interfaces.Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("markdown service: document is nil")
	}

	ctx = logging.DocumentContext(ctx, doc.FilePath, doc.Locale)
	started := time.Now()
	out, err := s.Render(ctx, doc.Body)
	logger := logging.WithMarkdownContext(s.logger, doc.FilePath, doc.Locale, "render")
	if err != nil {
		logger.Error("markdown.document.render_failed", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, fmt.Sprintf("render document %s", doc.FilePath))
	}
	doc.BodyHTML = out
	logger.Debug("markdown.document.rendered", "bytes", len(out), "duration", time.Since(started))
	return out, nil
}

// RenderDirectory loads every document below dir and converts them
// concurrently, at most Config.Workers at a time. Drafts are skipped.
// Per-document failures are collected on the result; only loading errors
// and cancellation abort the run.
func (s *Service) RenderDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) (*interfaces.RenderResult, error) {
	docs, err := s.loader.LoadDirectory(ctx, s.normalisePath(dir), toLoadParams(opts))
	if err != nil {
		return nil, err
	}

	failures := make([]error, len(docs))
	rendered := make([]bool, len(docs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.cfg.Workers)
	for i, doc := range docs {
		if doc.FrontMatter.Draft {
			continue
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			if _, err := s.RenderDocument(groupCtx, doc); err != nil {
				failures[i] = err
				return nil
			}
			rendered[i] = true
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, wrapRenderError(err, "render directory "+dir)
	}
	if err := ctx.Err(); err != nil {
		return nil, wrapRenderError(err, "render directory "+dir)
	}

	result := &interfaces.RenderResult{Documents: docs}
	for i := range docs {
		switch {
		case rendered[i]:
			result.Rendered++
		case failures[i] != nil:
			result.Errors = append(result.Errors, failures[i])
		default:
			result.Skipped++
		}
	}

	s.logger.Info("markdown.directory.rendered",
		"dir", dir,
		"documents", len(docs),
		"rendered", result.Rendered,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	return result, nil
}

func (s *Service) normalisePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "."
	}
	base := strings.TrimSpace(s.cfg.BasePath)
	if s.cfg.FS == nil && base != "" {
		if rel, ok := strings.CutPrefix(path, strings.TrimSuffix(base, "/")+"/"); ok {
			return rel
		}
	}
	return path
}

func toLoadParams(opts interfaces.LoadOptions) LoadParams {
	return LoadParams{
		Pattern:        opts.Pattern,
		LocalePatterns: opts.LocalePatterns,
		Recursive:      opts.Recursive,
	}
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, loadError(err, "stat base path "+basePath)
	}
	if !info.IsDir() {
		return nil, loadError(fs.ErrInvalid, "base path "+basePath+" is not a directory")
	}
	return os.DirFS(basePath), nil
}
