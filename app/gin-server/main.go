package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/voicetranslate/config"
	"github.com/yoockh/voicetranslate/internal/api/handlers"
	"github.com/yoockh/voicetranslate/internal/api/middleware"
	"github.com/yoockh/voicetranslate/internal/api/routes"
	"github.com/yoockh/voicetranslate/internal/cache"
	"github.com/yoockh/voicetranslate/internal/logger"
	"github.com/yoockh/voicetranslate/internal/providers/llm"
	"github.com/yoockh/voicetranslate/internal/providers/stt"
	"github.com/yoockh/voicetranslate/internal/providers/tts"
	"github.com/yoockh/voicetranslate/internal/services"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		// not fatal: affected routes answer MISCONFIGURED
		log.WithField("missing", missing).Warn("service credentials not configured")
	}

	translator, closeTranslator := buildTranslator(ctx, cfg, log)
	defer closeTranslator()

	var c cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		rdb, err := config.NewRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, transcription cache disabled")
		} else {
			defer rdb.Close()
			c = cache.NewRedisCache(rdb, "voicetranslate")
			log.Info("redis connected")
		}
	}

	transcription := services.NewTranscriptionService(translator, c, cfg.TranscriptionCacheTTL, log)
	voice := services.NewVoiceService(buildTTS(cfg))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.Recovery(log))
	routes.RegisterRoutes(r, routes.Deps{
		Transcription: handlers.NewTranscriptionHandler(transcription),
		Voice:         handlers.NewVoiceHandler(voice),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http server shutdown")
	}
}

// buildTranslator returns a nil Translator when its credentials are missing or the
// client cannot be created; the transcription route then reports MISCONFIGURED.
func buildTranslator(ctx context.Context, cfg *config.App, log *logrus.Logger) (services.Translator, func()) {
	noop := func() {}

	switch cfg.TranscriptionProvider {
	case config.ProviderCascade:
		recognizer, err := buildSTT(ctx, cfg)
		if err != nil {
			log.WithError(err).Error("stt provider init failed")
			return nil, noop
		}
		model, err := buildLLM(ctx, cfg)
		if err != nil {
			_ = recognizer.Close()
			log.WithError(err).Error("llm provider init failed")
			return nil, noop
		}
		return &services.CascadeTranslator{STT: recognizer, LLM: model}, func() {
			_ = recognizer.Close()
			_ = model.Close()
		}

	default:
		if cfg.GoogleProject == "" {
			return nil, noop
		}
		g, err := llm.NewVertexGemini(ctx, cfg.GoogleProject, cfg.GoogleLocation, cfg.GeminiModel)
		if err != nil {
			log.WithError(err).Error("vertex gemini init failed")
			return nil, noop
		}
		return g, func() { _ = g.Close() }
	}
}

func buildSTT(ctx context.Context, cfg *config.App) (stt.Provider, error) {
	if cfg.STTProvider == config.ProviderWhisper {
		if cfg.OpenAIKey == "" {
			return nil, errors.New("OPENAI_API_KEY is not set")
		}
		return stt.NewWhisper(cfg.OpenAIKey), nil
	}
	return stt.NewGoogleSpeech(ctx, cfg.STTLanguage, cfg.STTAltLanguages)
}

func buildLLM(ctx context.Context, cfg *config.App) (llm.Provider, error) {
	if cfg.LLMProvider == config.ProviderOpenAI {
		if cfg.OpenAIKey == "" {
			return nil, errors.New("OPENAI_API_KEY is not set")
		}
		return llm.NewOpenAIChat(cfg.OpenAIKey, cfg.OpenAIModel), nil
	}
	if cfg.GoogleProject == "" {
		return nil, errors.New("GOOGLE_CLOUD_PROJECT is not set")
	}
	return llm.NewVertexGemini(ctx, cfg.GoogleProject, cfg.GoogleLocation, cfg.GeminiModel)
}

// buildTTS always returns a provider; an empty key is reported per request.
func buildTTS(cfg *config.App) tts.Provider {
	if cfg.TTSProvider == config.ProviderOpenAI {
		return tts.NewOpenAISpeech(cfg.OpenAIKey, cfg.OpenAIVoice)
	}
	return tts.NewElevenLabs(cfg.ElevenLabsKey, cfg.ElevenLabsVoiceID, cfg.ElevenLabsModelID, cfg.ElevenLabsFormat)
}
