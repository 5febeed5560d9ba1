package runtimeconfig_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-mdsections/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.SectionHeadingLevel != 3 {
		t.Fatalf("expected default section level 3, got %d", cfg.SectionHeadingLevel)
	}
	if cfg.AnchorMinLevel != 2 {
		t.Fatalf("expected default anchor level 2, got %d", cfg.AnchorMinLevel)
	}
}

func TestConfigValidate_RejectsSectionLevelOutOfRange(t *testing.T) {
	for _, level := range []int{0, -1, 7} {
		cfg := runtimeconfig.DefaultConfig()
		cfg.SectionHeadingLevel = level

		err := cfg.Validate()
		if !errors.Is(err, runtimeconfig.ErrSectionHeadingLevelInvalid) {
			t.Fatalf("level %d: expected ErrSectionHeadingLevelInvalid, got %v", level, err)
		}
	}
}

func TestConfigValidate_AllowsAnchorsDisabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.AnchorMinLevel = 7
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected anchor level 7 to be valid, got %v", err)
	}

	cfg.AnchorMinLevel = 8
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrAnchorMinLevelInvalid) {
		t.Fatalf("expected ErrAnchorMinLevelInvalid, got %v", err)
	}
}

func TestConfigValidate_ZeroAnchorLevelUsesDefault(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.AnchorMinLevel = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected zero anchor level to be valid, got %v", err)
	}

	cfg.AnchorMinLevel = -1
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrAnchorMinLevelInvalid) {
		t.Fatalf("expected ErrAnchorMinLevelInvalid, got %v", err)
	}
}

func TestConfigValidate_OwnHost(t *testing.T) {
	valid := []string{"", "example.com", "localhost:3000", "https://www.example.com/"}
	for _, host := range valid {
		cfg := runtimeconfig.DefaultConfig()
		cfg.OwnHost = host
		if err := cfg.Validate(); err != nil {
			t.Fatalf("host %q: unexpected error %v", host, err)
		}
	}

	cfg := runtimeconfig.DefaultConfig()
	cfg.OwnHost = "example.com/some path"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrOwnHostInvalid) {
		t.Fatalf("expected ErrOwnHostInvalid, got %v", err)
	}
}

func TestConfigValidate_RequiresHighlightTheme(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.SyntaxHighlightTheme = "  "

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrHighlightThemeRequired) {
		t.Fatalf("expected ErrHighlightThemeRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownExtension(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Parser.Extensions = []string{"GFM", "mermaid"}

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrParserExtensionUnknown) {
		t.Fatalf("expected ErrParserExtensionUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsNegativeWorkers(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Markdown.Workers = -2

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrMarkdownWorkersInvalid) {
		t.Fatalf("expected ErrMarkdownWorkersInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsMalformedPattern(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Markdown.Pattern = "[*.md"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrMarkdownPatternInvalid) {
		t.Fatalf("expected ErrMarkdownPatternInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "syslog"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingLevel(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Level = "loud"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}
