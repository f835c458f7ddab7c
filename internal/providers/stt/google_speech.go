package stt

import (
	"context"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
)

type GoogleSpeech struct {
	c *speech.Client

	Encoding     speechpb.RecognitionConfig_AudioEncoding
	SampleRateHz int32

	// Language is the primary hypothesis; Alternatives enable language detection.
	Language     string
	Alternatives []string
}

func NewGoogleSpeech(ctx context.Context, language string, alternatives []string) (*GoogleSpeech, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	if language == "" {
		language = "en-US"
	}
	return &GoogleSpeech{
		c:            c,
		Encoding:     speechpb.RecognitionConfig_LINEAR16,
		SampleRateHz: 16000,
		Language:     language,
		Alternatives: alternatives,
	}, nil
}

func (g *GoogleSpeech) Close() error { return g.c.Close() }

func (g *GoogleSpeech) recognitionConfig(mimeType string) *speechpb.RecognitionConfig {
	cfg := &speechpb.RecognitionConfig{
		Encoding:                   g.Encoding,
		SampleRateHertz:            g.SampleRateHz,
		LanguageCode:               g.Language,
		AlternativeLanguageCodes:   g.Alternatives,
		EnableAutomaticPunctuation: true,
	}
	switch mimeType {
	case "audio/wav", "audio/x-wav", "audio/wave":
		// header carries encoding and rate
		cfg.Encoding = speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
		cfg.SampleRateHertz = 0
	case "audio/mp3", "audio/mpeg":
		cfg.Encoding = speechpb.RecognitionConfig_MP3
	case "audio/webm", "audio/webm;codecs=opus":
		cfg.Encoding = speechpb.RecognitionConfig_WEBM_OPUS
		cfg.SampleRateHertz = 48000
	}
	return cfg
}

func (g *GoogleSpeech) Transcribe(ctx context.Context, audio []byte, mimeType string) (*Recognition, error) {
	resp, err := g.c.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: g.recognitionConfig(mimeType),
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return nil, err
	}

	return collectResults(resp.GetResults(), g.Language), nil
}

// collectResults joins the top alternative of each result in order. Recognize returns
// one result per consecutive audio segment, so every result carries part of the speech.
// Confidence is the mean over the segments that reported one.
func collectResults(results []*speechpb.SpeechRecognitionResult, fallbackLang string) *Recognition {
	var (
		parts  []string
		lang   string
		sum    float64
		scored int
	)
	for _, r := range results {
		if lang == "" && r.GetLanguageCode() != "" {
			lang = r.GetLanguageCode()
		}
		alts := r.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		text := strings.TrimSpace(alts[0].GetTranscript())
		if text == "" {
			continue
		}
		parts = append(parts, text)
		if c := alts[0].GetConfidence(); c > 0 {
			sum += float64(c)
			scored++
		}
	}
	if lang == "" {
		lang = fallbackLang
	}

	rec := &Recognition{
		Text:     strings.Join(parts, " "),
		Language: LanguageName(lang),
	}
	if scored > 0 {
		rec.Confidence = sum / float64(scored)
	}
	return rec
}
