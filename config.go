package mdsections

import "github.com/goliatone/go-mdsections/internal/runtimeconfig"

var (
	ErrSectionHeadingLevelInvalid = runtimeconfig.ErrSectionHeadingLevelInvalid
	ErrAnchorMinLevelInvalid      = runtimeconfig.ErrAnchorMinLevelInvalid
	ErrOwnHostInvalid             = runtimeconfig.ErrOwnHostInvalid
	ErrHighlightThemeRequired     = runtimeconfig.ErrHighlightThemeRequired
	ErrParserExtensionUnknown     = runtimeconfig.ErrParserExtensionUnknown
	ErrMarkdownWorkersInvalid     = runtimeconfig.ErrMarkdownWorkersInvalid
	ErrMarkdownPatternInvalid     = runtimeconfig.ErrMarkdownPatternInvalid
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
)

// DefaultConfig returns level-3 sections, anchors from h2 and the github theme.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
