package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	DefaultElevenLabsBaseURL  = "https://api.elevenlabs.io"
	DefaultElevenLabsVoiceID  = "9Ats6C5UrhVXzgyVbnh3"
	DefaultElevenLabsModelID  = "eleven_multilingual_v2"
	DefaultElevenLabsFormat   = "mp3_44100_128"
	maxUpstreamErrorBodyBytes = 4 << 10
)

type ElevenLabs struct {
	APIKey       string
	VoiceID      string
	ModelID      string
	OutputFormat string
	BaseURL      string

	HTTP *http.Client
}

func NewElevenLabs(apiKey, voiceID, modelID, outputFormat string) *ElevenLabs {
	if voiceID == "" {
		voiceID = DefaultElevenLabsVoiceID
	}
	if modelID == "" {
		modelID = DefaultElevenLabsModelID
	}
	if outputFormat == "" {
		outputFormat = DefaultElevenLabsFormat
	}
	return &ElevenLabs{
		APIKey:       apiKey,
		VoiceID:      voiceID,
		ModelID:      modelID,
		OutputFormat: outputFormat,
		BaseURL:      DefaultElevenLabsBaseURL,
		HTTP:         http.DefaultClient,
	}
}

func (e *ElevenLabs) Configured() bool { return strings.TrimSpace(e.APIKey) != "" }

type elevenLabsPayload struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

func (e *ElevenLabs) Stream(ctx context.Context, text string) (*Audio, error) {
	if !e.Configured() {
		return nil, ErrMissingCredential
	}

	base, err := url.Parse(fmt.Sprintf("%s/v1/text-to-speech/%s/stream", strings.TrimRight(e.BaseURL, "/"), e.VoiceID))
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}
	q := base.Query()
	q.Set("output_format", e.OutputFormat)
	base.RawQuery = q.Encode()

	body, err := json.Marshal(elevenLabsPayload{Text: text, ModelID: e.ModelID})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("xi-api-key", e.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := e.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamErrorBodyBytes))
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(b)}
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "audio/mpeg"
	}
	return &Audio{Body: resp.Body, ContentType: ct}, nil
}
