package logging

import (
	"context"
	"maps"
	"strings"
)

type fieldsKey struct{}

// ContextWithFields annotates ctx with log fields. Loggers bound to the
// context through WithContext add them to every entry. Later values win.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// ContextFields returns a copy of the fields carried by ctx, nil when none.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey{}).(map[string]any)
	if len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}

// DocumentContext tags ctx with the markdown path and locale of the document
// being converted, so converter entries can be traced back to their file.
func DocumentContext(ctx context.Context, path, locale string) context.Context {
	fields := map[string]any{}
	if path = strings.TrimSpace(path); path != "" {
		fields[fieldMarkdownPath] = path
	}
	if locale = strings.TrimSpace(locale); locale != "" {
		fields[fieldMarkdownLocale] = locale
	}
	return ContextWithFields(ctx, fields)
}
