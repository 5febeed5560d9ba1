package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-mdsections"
	"github.com/goliatone/go-mdsections/internal/logging"
	"github.com/goliatone/go-mdsections/pkg/interfaces"
)

// options collects the flags shared by every command.
type options struct {
	level      int
	anchorMin  int
	ownHost    string
	theme      string
	extensions []string
	sanitize   bool
	hardWraps  bool
	safeMode   bool

	logProvider string
	logLevel    string
	logFormat   string
}

func newRootCmd() *cobra.Command {
	defaults := mdsections.DefaultConfig()
	opts := &options{}

	root := &cobra.Command{
		Use:   "mdsections",
		Short: "Convert markdown into sectioned HTML fragments.",
		Long: `Convert markdown into HTML fragments grouped into <section> blocks at a
configured heading level. External links open in a new tab and images link
to their full size source.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.IntVar(&opts.level, "level", defaults.SectionHeadingLevel, "Heading level that opens a section (1-6)")
	flags.IntVar(&opts.anchorMin, "anchor-min-level", defaults.AnchorMinLevel, "Shallowest heading level wrapped in an anchor-link (7 disables)")
	flags.StringVar(&opts.ownHost, "own-host", "", "Host treated as internal when classifying links")
	flags.StringVar(&opts.theme, "theme", defaults.SyntaxHighlightTheme, "Chroma style used for fenced code")
	flags.StringSliceVar(&opts.extensions, "extension", defaults.Parser.Extensions, "Parser extensions to enable")
	flags.BoolVar(&opts.sanitize, "sanitize", false, "Sanitize rendered HTML")
	flags.BoolVar(&opts.hardWraps, "hard-wraps", false, "Render soft line breaks as <br />")
	flags.BoolVar(&opts.safeMode, "safe", false, "Drop raw HTML from the markdown source")
	flags.StringVar(&opts.logProvider, "log-provider", defaults.Logging.Provider, "Logging provider (console, gologger)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "go-logger output format (json, console, pretty)")

	root.AddCommand(newRenderCmd(opts), newRenderDirCmd(opts))
	return root
}

func (o *options) config() mdsections.Config {
	cfg := mdsections.DefaultConfig()
	cfg.SectionHeadingLevel = o.level
	cfg.AnchorMinLevel = o.anchorMin
	cfg.OwnHost = o.ownHost
	cfg.SyntaxHighlightTheme = o.theme
	cfg.Parser.Extensions = o.extensions
	cfg.Parser.Sanitize = o.sanitize
	cfg.Parser.HardWraps = o.hardWraps
	cfg.Parser.SafeMode = o.safeMode
	cfg.Logging.Provider = o.logProvider
	cfg.Logging.Level = o.logLevel
	cfg.Logging.Format = o.logFormat
	return cfg
}

// converter builds the converter and the CLI logger. Logs go to the
// command's error stream so stdout carries only HTML.
func (o *options) converter(cmd *cobra.Command, mutate func(*mdsections.Config)) (*mdsections.Converter, interfaces.Logger, error) {
	cfg := o.config()
	if mutate != nil {
		mutate(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	provider, err := mdsections.NewLoggerProvider(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}

	conv, err := mdsections.New(cfg, mdsections.WithLoggerProvider(provider))
	if err != nil {
		return nil, nil, err
	}
	return conv, logging.CLILogger(provider), nil
}
