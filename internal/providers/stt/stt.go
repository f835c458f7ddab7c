package stt

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Recognition is the best hypothesis for one utterance.
type Recognition struct {
	Text       string
	Language   string // English display name, ex: "French"
	Confidence float64
}

type Provider interface {
	// Transcribe recognizes audio; mimeType hints the container, "" lets the provider guess.
	Transcribe(ctx context.Context, audio []byte, mimeType string) (*Recognition, error)
	Close() error
}

// LanguageName turns a BCP-47 code ("fr-FR") or a lowercase name ("french") into an
// English display name.
func LanguageName(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if tag, err := language.Parse(v); err == nil {
		base, _ := tag.Base()
		if name := display.English.Languages().Name(base); name != "" {
			return name
		}
	}
	return cases.Title(language.English).String(v)
}
