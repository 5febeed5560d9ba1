package runtimeconfig

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var ErrSectionHeadingLevelInvalid = errors.New("mdsections config: section heading level must be between 1 and 6")
var ErrAnchorMinLevelInvalid = errors.New("mdsections config: anchor min level must be between 1 and 7")
var ErrOwnHostInvalid = errors.New("mdsections config: own host is invalid")
var ErrHighlightThemeRequired = errors.New("mdsections config: syntax highlight theme is required")
var ErrParserExtensionUnknown = errors.New("mdsections config: markdown parser extension is unknown")
var ErrMarkdownWorkersInvalid = errors.New("mdsections config: markdown workers must be zero or positive")
var ErrMarkdownPatternInvalid = errors.New("mdsections config: markdown pattern is invalid")
var ErrLoggingProviderUnknown = errors.New("mdsections config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("mdsections config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("mdsections config: logging format is invalid")

// hostPattern accepts a bare host, host:port, or a scheme://host[:port] URL.
var hostPattern = regexp.MustCompile(`^(?:[A-Za-z][A-Za-z0-9+.-]*://)?[A-Za-z0-9.-]+(?::[0-9]{1,5})?/?$`)

// Config holds the immutable converter settings. It is read once at
// construction and never mutated afterwards.
type Config struct {
	// SectionHeadingLevel is the heading level that opens a section.
	SectionHeadingLevel int
	// AnchorMinLevel is the shallowest heading level wrapped in an
	// anchor-link; 7 disables anchor-links and zero selects level 2.
	AnchorMinLevel int
	// OwnHost classifies links as internal. Empty treats every absolute link
	// as external.
	OwnHost              string
	SyntaxHighlightTheme string
	Parser               MarkdownParserConfig
	Markdown             MarkdownConfig
	Logging              LoggingConfig
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// MarkdownConfig captures filesystem discovery for batch conversion.
type MarkdownConfig struct {
	ContentDir     string
	Pattern        string
	Recursive      bool
	DefaultLocale  string
	Locales        []string
	LocalePatterns map[string]string
	Workers        int
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the defaults: level-3 sections, anchors from h2, the
// github highlight theme, and console logging at info.
func DefaultConfig() Config {
	return Config{
		SectionHeadingLevel:  3,
		AnchorMinLevel:       2,
		SyntaxHighlightTheme: "github",
		Parser: MarkdownParserConfig{
			Extensions: []string{"gfm"},
		},
		Markdown: MarkdownConfig{
			ContentDir:     "content",
			Pattern:        "*.md",
			Recursive:      true,
			DefaultLocale:  "en",
			LocalePatterns: map[string]string{},
			Workers:        4,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// KnownExtensions lists the parser extension names accepted in
// Parser.Extensions.
var KnownExtensions = []string{
	"gfm", "table", "tables", "strikethrough", "linkify", "autolink", "tasklist", "definition",
}

// Validate performs consistency checks, returning the first failure wrapped
// around one of the package sentinel errors.
func (cfg Config) Validate() error {
	if err := validation.Validate(cfg.SectionHeadingLevel,
		validation.Required, validation.Min(1), validation.Max(6)); err != nil {
		return fmt.Errorf("%w: %d", ErrSectionHeadingLevelInvalid, cfg.SectionHeadingLevel)
	}
	if err := validation.Validate(cfg.AnchorMinLevel, validation.Min(1), validation.Max(7)); err != nil {
		return fmt.Errorf("%w: %d", ErrAnchorMinLevelInvalid, cfg.AnchorMinLevel)
	}
	if err := validation.Validate(strings.TrimSpace(cfg.OwnHost), validation.Match(hostPattern)); err != nil {
		return fmt.Errorf("%w: %q", ErrOwnHostInvalid, cfg.OwnHost)
	}
	if err := validation.Validate(strings.TrimSpace(cfg.SyntaxHighlightTheme), validation.Required); err != nil {
		return ErrHighlightThemeRequired
	}
	for _, ext := range cfg.Parser.Extensions {
		if err := validation.Validate(normalize(ext), validation.In(toAny(KnownExtensions)...)); err != nil {
			return fmt.Errorf("%w: %s", ErrParserExtensionUnknown, ext)
		}
	}
	if err := validation.Validate(cfg.Markdown.Workers, validation.Min(0)); err != nil {
		return fmt.Errorf("%w: %d", ErrMarkdownWorkersInvalid, cfg.Markdown.Workers)
	}
	if err := validation.Validate(cfg.Markdown.Pattern, validation.By(validPattern)); err != nil {
		return fmt.Errorf("%w: %s", ErrMarkdownPatternInvalid, cfg.Markdown.Pattern)
	}

	provider := normalize(cfg.Logging.Provider)
	if err := validation.Validate(provider, validation.In("console", "gologger")); err != nil {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := normalize(cfg.Logging.Level); level != "" {
		if err := validation.Validate(level, validation.In("trace", "debug", "info", "warn", "warning", "error", "fatal")); err != nil {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
	}
	if provider == "gologger" {
		if format := normalize(cfg.Logging.Format); format != "" {
			if err := validation.Validate(format, validation.In("json", "console", "text", "pretty")); err != nil {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func validPattern(value any) error {
	pattern, _ := value.(string)
	if strings.TrimSpace(pattern) == "" {
		return nil
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return validation.NewError("mdsections.config.pattern_invalid", "pattern is not a valid glob")
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
