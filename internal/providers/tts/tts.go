package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrMissingCredential is returned before any network call when the provider has no key.
var ErrMissingCredential = errors.New("tts: missing service credential")

// Audio is a streamed synthesis result. The caller must Close Body.
type Audio struct {
	Body        io.ReadCloser
	ContentType string
}

type Provider interface {
	// Stream starts synthesis of text and returns as soon as audio starts arriving.
	Stream(ctx context.Context, text string) (*Audio, error)
	// Configured reports whether a service credential is present.
	Configured() bool
}

// UpstreamError carries a non-success status from the synthesis API.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("tts: upstream status %d: %s", e.Status, e.Body)
}
