package stt

import (
	"bytes"
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// Whisper recognizes audio with OpenAI's transcription endpoint; verbose JSON carries
// the detected language.
type Whisper struct {
	client *openai.Client
}

func NewWhisper(apiKey string) *Whisper {
	return &Whisper{client: openai.NewClient(apiKey)}
}

func (w *Whisper) Close() error { return nil }

func (w *Whisper) Transcribe(ctx context.Context, audio []byte, mimeType string) (*Recognition, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(audio),
		FilePath: "audio" + extensionFor(mimeType),
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, err
	}
	return &Recognition{
		Text:       resp.Text,
		Language:   LanguageName(resp.Language),
		Confidence: 1,
	}, nil
}

// extensionFor picks the upload filename extension the API uses to sniff the container.
func extensionFor(mimeType string) string {
	switch mimeType {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return ".wav"
	case "audio/webm", "audio/webm;codecs=opus":
		return ".webm"
	case "audio/ogg":
		return ".ogg"
	default:
		return ".mp3"
	}
}
