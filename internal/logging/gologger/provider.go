// Package gologger backs interfaces.LoggerProvider with go-logger, for
// deployments that want slog based JSON or pretty output instead of the
// console logger.
package gologger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-mdsections/internal/logging"
	"github.com/goliatone/go-mdsections/pkg/interfaces"
)

// Config selects the go-logger level, output format and focus list.
// Format is json (default), console, text or pretty.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

var loggerTypes = map[string]string{
	"":        glog.LoggerTypeJSON,
	"json":    glog.LoggerTypeJSON,
	"console": glog.LoggerTypeConsole,
	"text":    glog.LoggerTypeConsole,
	"pretty":  glog.LoggerTypePretty,
}

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

// Provider hands out named go-logger children of one root logger.
type Provider struct {
	root *glog.BaseLogger
}

// NewProvider fails only on an unknown format. Unknown levels leave the
// go-logger default in place.
func NewProvider(cfg Config) (*Provider, error) {
	loggerType, ok := loggerTypes[key(cfg.Format)]
	if !ok {
		return nil, fmt.Errorf("gologger: unsupported format %q", cfg.Format)
	}

	opts := []glog.Option{
		glog.WithLoggerType(loggerType),
		glog.WithAddSource(cfg.AddSource),
	}
	if level, ok := levels[key(cfg.Level)]; ok {
		opts = append(opts, glog.WithLevel(level))
	}

	root := glog.NewLogger(opts...)
	if focus := compact(cfg.Focus); len(focus) > 0 {
		root.Focus(focus...)
	}
	return &Provider{root: root}, nil
}

// GetLogger returns the child named name, or the root for an empty name.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	if name = strings.TrimSpace(name); name == "" {
		return newEntry(p.root)
	}
	return newEntry(p.root.GetLogger(name))
}

type entry struct {
	base glog.Logger
}

func newEntry(base glog.Logger) interfaces.Logger {
	if base == nil {
		return logging.NoOp()
	}
	return entry{base: base}
}

func (e entry) Trace(msg string, args ...any) { e.base.Trace(msg, args...) }
func (e entry) Debug(msg string, args ...any) { e.base.Debug(msg, args...) }
func (e entry) Info(msg string, args ...any)  { e.base.Info(msg, args...) }
func (e entry) Warn(msg string, args ...any)  { e.base.Warn(msg, args...) }
func (e entry) Error(msg string, args ...any) { e.base.Error(msg, args...) }
func (e entry) Fatal(msg string, args ...any) { e.base.Fatal(msg, args...) }

// WithFields prefers go-logger's own FieldsLogger and falls back to With
// with keys in sorted order.
func (e entry) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return e
	}
	switch base := e.base.(type) {
	case glog.FieldsLogger:
		return newEntry(base.WithFields(maps.Clone(fields)))
	case interface{ With(...any) *glog.BaseLogger }:
		args := make([]any, 0, 2*len(fields))
		for _, k := range slices.Sorted(maps.Keys(fields)) {
			args = append(args, k, fields[k])
		}
		return newEntry(base.With(args...))
	}
	return e
}

// WithContext binds ctx and lifts any fields annotated on it with
// logging.ContextWithFields, which go-logger would otherwise ignore.
func (e entry) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return e
	}
	next := newEntry(e.base.WithContext(ctx))
	if fields := logging.ContextFields(ctx); len(fields) > 0 {
		return logging.WithFields(next, fields)
	}
	return next
}

func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func compact(names []string) []string {
	var out []string
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
