package stt

import (
	"testing"

	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/stretchr/testify/assert"
)

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "French", LanguageName("fr-FR"))
	assert.Equal(t, "English", LanguageName("en-us"))
	assert.Equal(t, "English", LanguageName("english"))
	assert.Equal(t, "", LanguageName("  "))
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".wav", extensionFor("audio/wav"))
	assert.Equal(t, ".webm", extensionFor("audio/webm"))
	assert.Equal(t, ".mp3", extensionFor(""))
}

func TestRecognitionConfigFollowsContainer(t *testing.T) {
	g := &GoogleSpeech{Language: "en-US", SampleRateHz: 16000}

	wav := g.recognitionConfig("audio/wav")
	assert.Equal(t, int32(0), wav.SampleRateHertz)

	raw := g.recognitionConfig("")
	assert.Equal(t, int32(16000), raw.SampleRateHertz)
	assert.Equal(t, "en-US", raw.LanguageCode)
}

func TestCollectResultsJoinsSegments(t *testing.T) {
	results := []*speechpb.SpeechRecognitionResult{
		{
			Alternatives: []*speechpb.SpeechRecognitionAlternative{
				{Transcript: "Hello", Confidence: 0.9},
				{Transcript: "Yellow", Confidence: 0.4},
			},
			LanguageCode: "en-us",
		},
		{
			Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: " how are you ", Confidence: 0.95}},
			LanguageCode: "fr-fr",
		},
	}

	rec := collectResults(results, "de-DE")
	assert.Equal(t, "Hello how are you", rec.Text)
	assert.Equal(t, "English", rec.Language)
	assert.InDelta(t, 0.925, rec.Confidence, 1e-6)
}

func TestCollectResultsEmpty(t *testing.T) {
	rec := collectResults([]*speechpb.SpeechRecognitionResult{
		{Alternatives: nil},
		{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: ""}}},
	}, "fr-FR")
	assert.Equal(t, "", rec.Text)
	assert.Equal(t, "French", rec.Language)
	assert.Zero(t, rec.Confidence)
}
