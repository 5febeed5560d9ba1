package mdsections

import (
	"io"
	"strings"

	"github.com/goliatone/go-mdsections/internal/logging/console"
	"github.com/goliatone/go-mdsections/internal/logging/gologger"
	"github.com/goliatone/go-mdsections/pkg/interfaces"
)

// Logger and LoggerProvider are the logging contracts accepted by the
// converter options.
type (
	Logger         = interfaces.Logger
	LoggerProvider = interfaces.LoggerProvider
)

// NewLoggerProvider builds the provider named in cfg: "console" (default)
// writes key=value lines to w, "gologger" delegates to go-logger.
func NewLoggerProvider(cfg LoggingConfig, w io.Writer) (LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		level, _ := console.ParseLevel(cfg.Level)
		return console.NewProvider(console.Options{
			Writer:   w,
			MinLevel: &level,
		}), nil
	}
}
