package llm

import (
	"context"
	"strings"
)

type Provider interface {
	// StreamAnswer returns a stream of text chunks (incremental).
	StreamAnswer(ctx context.Context, prompt string) (chunks <-chan string, errs <-chan error)
	Close() error
}

// Collect drains a StreamAnswer into one string.
func Collect(chunks <-chan string, errs <-chan error) (string, error) {
	var full strings.Builder
	for chunk := range chunks {
		full.WriteString(chunk)
	}
	if err := <-errs; err != nil {
		return "", err
	}
	return strings.TrimSpace(full.String()), nil
}
