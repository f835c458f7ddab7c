package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yoockh/voicetranslate/internal/providers/tts"
	"github.com/yoockh/voicetranslate/internal/utils"
)

type VoiceService interface {
	Synthesize(ctx context.Context, transcript string) (*tts.Audio, error)
}

type voiceService struct {
	tts tts.Provider
}

func NewVoiceService(p tts.Provider) VoiceService {
	return &voiceService{tts: p}
}

func (s *voiceService) Synthesize(ctx context.Context, transcript string) (*tts.Audio, error) {
	const op = "VoiceService.Synthesize"

	if strings.TrimSpace(transcript) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Missing transcript in request body.", nil)
	}
	if s.tts == nil || !s.tts.Configured() {
		return nil, utils.E(utils.CodeMisconfigured, op, "synthesis service credential is not configured", nil)
	}

	audio, err := s.tts.Stream(ctx, transcript)
	if err != nil {
		if errors.Is(err, tts.ErrMissingCredential) {
			return nil, utils.E(utils.CodeMisconfigured, op, "synthesis service credential is not configured", err)
		}
		return nil, utils.E(utils.CodeUpstream, op, "Internal Server Error", err)
	}
	return audio, nil
}
