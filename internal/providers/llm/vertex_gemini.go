package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/iterator"

	"github.com/yoockh/voicetranslate/internal/models"
	"github.com/yoockh/voicetranslate/internal/prompts"
)

const defaultGeminiModel = "gemini-2.0-flash"

// ErrEmptyResponse is returned when the model produced no text part.
var ErrEmptyResponse = errors.New("model returned no content")

type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
	audio  *vertexgenai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = defaultGeminiModel
	}

	return &VertexGemini{
		client: c,
		model:  c.GenerativeModel(modelName),
		audio:  newTranscriptionModel(c, modelName),
	}, nil
}

// newTranscriptionModel configures structured JSON output matching models.TranslationResult.
func newTranscriptionModel(c *vertexgenai.Client, modelName string) *vertexgenai.GenerativeModel {
	m := c.GenerativeModel(modelName)
	m.SetTemperature(0.2)
	m.SystemInstruction = &vertexgenai.Content{
		Parts: []vertexgenai.Part{vertexgenai.Text(prompts.TranscriptionSystem)},
	}
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = &vertexgenai.Schema{
		Type: vertexgenai.TypeObject,
		Properties: map[string]*vertexgenai.Schema{
			"destinationTranscript": {Type: vertexgenai.TypeString},
			"sourceLanguage":        {Type: vertexgenai.TypeString},
		},
		Required: []string{"destinationTranscript", "sourceLanguage"},
	}
	return m
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) StreamAnswer(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	out := make(chan string, 32)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		it := v.model.GenerateContentStream(ctx, vertexgenai.Text(prompt))
		for {
			resp, err := it.Next()
			if err == iterator.Done {
				return
			}
			if err != nil {
				errs <- err
				return
			}

			for _, t := range textParts(resp) {
				out <- t
			}
		}
	}()

	return out, errs
}

func (v *VertexGemini) TranslateAudio(ctx context.Context, audio []byte, mimeType, destLanguage string) (*models.TranslationResult, error) {
	if mimeType == "" {
		mimeType = models.DefaultAudioMIMEType
	}

	resp, err := v.audio.GenerateContent(ctx,
		vertexgenai.Text(prompts.TranscriptionUser(destLanguage)),
		vertexgenai.Blob{MIMEType: mimeType, Data: audio},
	)
	if err != nil {
		return nil, err
	}

	parts := textParts(resp)
	if len(parts) == 0 {
		return nil, ErrEmptyResponse
	}
	return ParseTranslation(strings.Join(parts, ""))
}

// ParseTranslation decodes the JSON object the transcription model is constrained to emit.
// A result missing a field is returned as-is; callers decide whether it is usable.
func ParseTranslation(raw string) (*models.TranslationResult, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var out models.TranslationResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &out); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	return &out, nil
}

func textParts(resp *vertexgenai.GenerateContentResponse) []string {
	if resp == nil {
		return nil
	}
	var out []string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok && string(t) != "" {
				out = append(out, string(t))
			}
		}
	}
	return out
}
