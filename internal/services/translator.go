package services

import (
	"context"
	"errors"

	"github.com/yoockh/voicetranslate/internal/models"
	"github.com/yoockh/voicetranslate/internal/prompts"
	"github.com/yoockh/voicetranslate/internal/providers/llm"
	"github.com/yoockh/voicetranslate/internal/providers/stt"
)

// Translator turns spoken audio into a transcript in the destination language.
// llm.VertexGemini satisfies it with one multimodal call.
type Translator interface {
	TranslateAudio(ctx context.Context, audio []byte, mimeType, destLanguage string) (*models.TranslationResult, error)
}

// CascadeTranslator recognizes speech first, then translates the recognized text.
type CascadeTranslator struct {
	STT stt.Provider
	LLM llm.Provider
}

func (c *CascadeTranslator) TranslateAudio(ctx context.Context, audio []byte, mimeType, destLanguage string) (*models.TranslationResult, error) {
	if c.STT == nil || c.LLM == nil {
		return nil, errors.New("CascadeTranslator missing dependency: STT/LLM must be set")
	}

	rec, err := c.STT.Transcribe(ctx, audio, mimeType)
	if err != nil {
		return nil, err
	}
	if rec.Text == "" {
		// nothing recognised; caller reports the result as malformed
		return &models.TranslationResult{SourceLanguage: rec.Language}, nil
	}

	text, err := llm.Collect(c.LLM.StreamAnswer(ctx, prompts.TextTranslation(rec.Text, rec.Language, destLanguage)))
	if err != nil {
		return nil, err
	}

	return &models.TranslationResult{
		DestinationTranscript: text,
		SourceLanguage:        rec.Language,
	}, nil
}
