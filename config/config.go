package config

import (
	"os"
	"strings"
	"time"
)

const (
	ProviderGemini     = "gemini"
	ProviderCascade    = "cascade"
	ProviderGoogle     = "google"
	ProviderWhisper    = "whisper"
	ProviderOpenAI     = "openai"
	ProviderElevenLabs = "elevenlabs"
)

// App is the server configuration. Missing credentials are kept as empty strings;
// requests that need them fail as misconfigured instead of the process refusing to start.
type App struct {
	Port     string
	LogLevel string

	GoogleProject  string
	GoogleLocation string
	GeminiModel    string

	TranscriptionProvider string // gemini|cascade
	STTProvider           string // google|whisper
	STTLanguage           string
	STTAltLanguages       []string
	LLMProvider           string // gemini|openai

	OpenAIKey   string
	OpenAIModel string
	OpenAIVoice string

	TTSProvider       string // elevenlabs|openai
	ElevenLabsKey     string
	ElevenLabsVoiceID string
	ElevenLabsModelID string
	ElevenLabsFormat  string

	RedisAddr             string
	TranscriptionCacheTTL time.Duration
}

// Load reads the environment. Call godotenv.Load first to honour a .env file.
func Load() *App {
	a := &App{
		Port:     getenv("PORT", "8080"),
		LogLevel: os.Getenv("LOG_LEVEL"),

		GoogleProject:  firstEnv("GOOGLE_CLOUD_PROJECT", "GCP_PROJECT_ID"),
		GoogleLocation: getenv("GOOGLE_CLOUD_LOCATION", "us-central1"),
		GeminiModel:    os.Getenv("GEMINI_MODEL"),

		TranscriptionProvider: strings.ToLower(getenv("TRANSCRIPTION_PROVIDER", ProviderGemini)),
		STTProvider:           strings.ToLower(getenv("STT_PROVIDER", ProviderGoogle)),
		STTLanguage:           getenv("STT_LANGUAGE", "en-US"),
		STTAltLanguages:       splitList(os.Getenv("STT_ALT_LANGUAGES")),
		LLMProvider:           strings.ToLower(getenv("LLM_PROVIDER", ProviderGemini)),

		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel: os.Getenv("OPENAI_MODEL"),
		OpenAIVoice: os.Getenv("OPENAI_VOICE"),

		TTSProvider:       strings.ToLower(getenv("TTS_PROVIDER", ProviderElevenLabs)),
		ElevenLabsKey:     firstEnv("ELEVEN_LABS_KEY", "ELEVENLABS_API_KEY"),
		ElevenLabsVoiceID: os.Getenv("ELEVEN_LABS_VOICE_ID"),
		ElevenLabsModelID: os.Getenv("ELEVEN_LABS_MODEL_ID"),
		ElevenLabsFormat:  os.Getenv("ELEVEN_LABS_OUTPUT_FORMAT"),

		RedisAddr:             firstEnv("REDIS_ADDR", "REDIS_URI", "REDIS_URL"),
		TranscriptionCacheTTL: 10 * time.Minute,
	}

	if v := os.Getenv("TRANSCRIPTION_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			a.TranscriptionCacheTTL = d
		}
	}
	return a
}

// MissingCredentials lists the credential variables the selected providers need but lack.
func (a *App) MissingCredentials() []string {
	var out []string
	needGoogle := a.TranscriptionProvider == ProviderGemini ||
		(a.TranscriptionProvider == ProviderCascade && a.LLMProvider == ProviderGemini)
	needOpenAI := a.TTSProvider == ProviderOpenAI ||
		(a.TranscriptionProvider == ProviderCascade && (a.STTProvider == ProviderWhisper || a.LLMProvider == ProviderOpenAI))

	if needGoogle && a.GoogleProject == "" {
		out = append(out, "GOOGLE_CLOUD_PROJECT")
	}
	if needOpenAI && a.OpenAIKey == "" {
		out = append(out, "OPENAI_API_KEY")
	}
	if a.TTSProvider == ProviderElevenLabs && a.ElevenLabsKey == "" {
		out = append(out, "ELEVEN_LABS_KEY")
	}
	return out
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
