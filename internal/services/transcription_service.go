package services

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/voicetranslate/internal/cache"
	"github.com/yoockh/voicetranslate/internal/models"
	"github.com/yoockh/voicetranslate/internal/utils"
)

type TranscriptionService interface {
	Transcribe(ctx context.Context, req models.TranslationRequest) (*models.TranslationResult, error)
}

type transcriptionService struct {
	translator Translator
	cache      cache.Cache
	ttl        time.Duration
	log        *logrus.Logger
}

// NewTranscriptionService wires the translator. A nil translator means the upstream
// credential was absent at startup; requests then fail as misconfigured.
func NewTranscriptionService(translator Translator, c cache.Cache, ttl time.Duration, log *logrus.Logger) TranscriptionService {
	if c == nil {
		c = cache.Noop{}
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if log == nil {
		log = logrus.New()
	}
	return &transcriptionService{translator: translator, cache: c, ttl: ttl, log: log}
}

func (s *transcriptionService) Transcribe(ctx context.Context, req models.TranslationRequest) (*models.TranslationResult, error) {
	const op = "TranscriptionService.Transcribe"

	destLanguage := strings.TrimSpace(req.DestLanguage)
	if req.AudioFileBase64 == "" || destLanguage == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Missing audio file or destination language.", nil)
	}

	audio, err := decodeAudio(req.AudioFileBase64)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "audioFileBase64 is not valid base64", err)
	}
	if len(audio) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Missing audio file or destination language.", nil)
	}

	if s.translator == nil {
		return nil, utils.E(utils.CodeMisconfigured, op, "transcription service credential is not configured", nil)
	}

	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = models.DefaultAudioMIMEType
	}

	key := cache.Key("transcription", []byte(destLanguage), []byte(mimeType), audio)
	var cached models.TranslationResult
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err != nil {
		s.log.WithError(err).Warn("transcription cache read failed")
	} else if hit {
		if cached.Complete() {
			return &cached, nil
		}
		// unusable entry, drop it and translate again
		if err := s.cache.Del(ctx, key); err != nil {
			s.log.WithError(err).Warn("transcription cache evict failed")
		}
	}

	start := time.Now()
	res, err := s.translator.TranslateAudio(ctx, audio, mimeType, destLanguage)
	if err != nil {
		return nil, utils.E(utils.CodeUpstream, op, "Internal Server Error", err)
	}
	if !res.Complete() {
		return nil, utils.E(utils.CodeMalformedResponse, op, "transcription result is missing destinationTranscript or sourceLanguage", nil)
	}

	s.log.WithFields(logrus.Fields{
		"dest_language":   destLanguage,
		"source_language": res.SourceLanguage,
		"audio_bytes":     len(audio),
		"latency_ms":      time.Since(start).Milliseconds(),
	}).Info("transcription done")

	if err := s.cache.SetJSON(ctx, key, res, s.ttl); err != nil {
		s.log.WithError(err).Warn("transcription cache write failed")
	}
	return res, nil
}

// decodeAudio accepts raw base64 or a data URL ("data:audio/webm;base64,....").
func decodeAudio(b64 string) ([]byte, error) {
	raw := strings.TrimSpace(b64)
	if strings.HasPrefix(raw, "data:") {
		if i := strings.Index(raw, ","); i >= 0 {
			raw = raw[i+1:]
		}
	}
	return base64.StdEncoding.DecodeString(raw)
}
