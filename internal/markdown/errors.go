package markdown

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	// RenderErrorCode tags every failure raised while turning markdown into HTML.
	RenderErrorCode = "MARKDOWN_RENDER_FAILED"

	renderCanceledCode = "MARKDOWN_RENDER_CANCELED"
)

// ErrInvalidEncoding is the source of render errors raised for input that is
// not valid UTF-8.
var ErrInvalidEncoding = errors.New("markdown source is not valid UTF-8")

// IsRenderError reports whether err was raised by the renderer.
func IsRenderError(err error) bool {
	var e *goerrors.Error
	if !goerrors.As(err, &e) {
		return false
	}
	return e.TextCode == RenderErrorCode || e.TextCode == renderCanceledCode
}

func wrapRenderError(err error, message string) error {
	if err == nil {
		return nil
	}
	if IsRenderError(err) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return goerrors.Wrap(err, goerrors.CategoryOperation, message).
			WithTextCode(renderCanceledCode)
	}
	return goerrors.Wrap(err, goerrors.CategoryOperation, message).
		WithTextCode(RenderErrorCode)
}
