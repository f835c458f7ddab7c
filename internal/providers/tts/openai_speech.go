package tts

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAISpeech struct {
	apiKey string
	client *openai.Client
	voice  openai.SpeechVoice
}

func NewOpenAISpeech(apiKey, voice string) *OpenAISpeech {
	v := openai.SpeechVoice(voice)
	if v == "" {
		v = openai.VoiceAlloy
	}
	return &OpenAISpeech{apiKey: apiKey, client: openai.NewClient(apiKey), voice: v}
}

func (o *OpenAISpeech) Configured() bool { return strings.TrimSpace(o.apiKey) != "" }

func (o *OpenAISpeech) Stream(ctx context.Context, text string) (*Audio, error) {
	if !o.Configured() {
		return nil, ErrMissingCredential
	}

	raw, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          o.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, err
	}

	ct := raw.Header().Get("Content-Type")
	if ct == "" {
		ct = "audio/mpeg"
	}
	return &Audio{Body: raw.ReadCloser, ContentType: ct}, nil
}
