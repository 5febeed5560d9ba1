package mdsections

import (
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-mdsections/internal/markdown"
)

const (
	// ErrCodeRender is the text code carried by render errors.
	ErrCodeRender = markdown.RenderErrorCode
	// ErrCodeConfig is the text code carried by configuration errors from New.
	ErrCodeConfig = "CONFIG_INVALID"
)

// IsRenderError reports whether err means the markdown could not be
// rendered. No partial output accompanies such an error.
func IsRenderError(err error) bool {
	return markdown.IsRenderError(err)
}

// IsConfigError reports whether err came from configuration validation.
func IsConfigError(err error) bool {
	var e *goerrors.Error
	if !goerrors.As(err, &e) {
		return false
	}
	return e.TextCode == ErrCodeConfig
}
