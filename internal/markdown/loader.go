package markdown

import (
	"context"
	"crypto/sha256"
	"io/fs"
	"path"
	"sort"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-mdsections/pkg/interfaces"
)

// LoadErrorCode tags failures to read or decode a source document.
const LoadErrorCode = "MARKDOWN_LOAD_FAILED"

const defaultPattern = "*.md"

// LoaderConfig configures document discovery inside a filesystem.
type LoaderConfig struct {
	// DefaultLocale is assigned when no locale can be inferred from the path.
	DefaultLocale string
	// Locales lists locale codes matched against the first path segment
	// (en/about.md).
	Locales []string
	// LocalePatterns maps a locale to a glob matched against the whole path.
	LocalePatterns map[string]string
	// Pattern filters file names, "*.md" when empty.
	Pattern   string
	Recursive bool
}

// Loader reads markdown documents with front matter from an fs.FS.
type Loader struct {
	fsys fs.FS
	cfg  LoaderConfig
}

// LoadParams override loader defaults for a single call.
type LoadParams struct {
	Pattern        string
	LocalePatterns map[string]string
	Recursive      *bool
}

// NewLoader returns a Loader reading from fsys.
func NewLoader(fsys fs.FS, cfg LoaderConfig) *Loader {
	if strings.TrimSpace(cfg.Pattern) == "" {
		cfg.Pattern = defaultPattern
	}
	cfg.Locales = append([]string(nil), cfg.Locales...)
	cfg.LocalePatterns = cloneStringMap(cfg.LocalePatterns)
	return &Loader{fsys: fsys, cfg: cfg}
}

// LoadFile reads one document. name is slash separated and relative to the
// loader's filesystem root.
func (l *Loader) LoadFile(ctx context.Context, name string, params LoadParams) (*interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, loadError(err, "read "+name)
	}
	info, err := fs.Stat(l.fsys, name)
	if err != nil {
		return nil, loadError(err, "stat "+name)
	}

	doc, err := BuildDocument(name, l.detectLocale(name, params.LocalePatterns), data, info.ModTime())
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	doc.Checksum = sum[:]
	return doc, nil
}

// LoadDirectory loads every matching document below dir, sorted by path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, params LoadParams) ([]*interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := cleanName(dir)
	if err != nil {
		return nil, err
	}

	recursive := l.cfg.Recursive
	if params.Recursive != nil {
		recursive = *params.Recursive
	}
	pattern := l.cfg.Pattern
	if strings.TrimSpace(params.Pattern) != "" {
		pattern = params.Pattern
	}

	var docs []*interfaces.Document
	err = fs.WalkDir(l.fsys, root, func(name string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			if name != root && !recursive {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !matchPattern(pattern, name) {
			return nil
		}

		doc, err := l.LoadFile(ctx, name, params)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		if goerrors.IsWrapped(err) {
			return nil, err
		}
		return nil, loadError(err, "walk "+root)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].FilePath < docs[j].FilePath
	})
	return docs, nil
}

// IsLoadError reports whether err was raised while reading a document.
func IsLoadError(err error) bool {
	var e *goerrors.Error
	if !goerrors.As(err, &e) {
		return false
	}
	return e.TextCode == LoadErrorCode
}

func loadError(err error, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryOperation, "markdown loader: "+message).
		WithTextCode(LoadErrorCode)
}

func (l *Loader) detectLocale(name string, overrides map[string]string) string {
	if locale := matchLocalePattern(name, overrides); locale != "" {
		return locale
	}
	if locale := matchLocalePattern(name, l.cfg.LocalePatterns); locale != "" {
		return locale
	}

	first, _, _ := strings.Cut(name, "/")
	for _, locale := range l.cfg.Locales {
		if strings.EqualFold(first, locale) {
			return locale
		}
	}
	return l.cfg.DefaultLocale
}

// matchLocalePattern returns the first locale, in sorted order, whose
// pattern matches name.
func matchLocalePattern(name string, patterns map[string]string) string {
	locales := make([]string, 0, len(patterns))
	for locale := range patterns {
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	for _, locale := range locales {
		pattern := strings.TrimSpace(patterns[locale])
		if pattern == "" {
			continue
		}
		if ok, err := path.Match(stripDoubleStar(pattern), name); err == nil && ok {
			return locale
		}
	}
	return ""
}

// matchPattern checks name against pattern. Patterns without a slash match
// the base name only.
func matchPattern(pattern, name string) bool {
	pattern = stripDoubleStar(pattern)
	target := name
	if !strings.Contains(pattern, "/") {
		target = path.Base(name)
	}
	ok, err := path.Match(pattern, target)
	return err == nil && ok
}

// stripDoubleStar gives "**/" a loose meaning by dropping it.
func stripDoubleStar(pattern string) string {
	return strings.ReplaceAll(pattern, "**/", "")
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return ".", nil
	}
	name = strings.TrimPrefix(path.Clean(name), "/")
	if name == "" {
		name = "."
	}
	if !fs.ValidPath(name) {
		return "", loadError(fs.ErrInvalid, "invalid path "+name)
	}
	return name, nil
}

func cloneStringMap(input map[string]string) map[string]string {
	out := make(map[string]string, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
