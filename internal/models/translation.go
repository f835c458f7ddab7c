package models

// DefaultAudioMIMEType is assumed when a request does not tag its audio.
const DefaultAudioMIMEType = "audio/mp3"

// TranslationRequest is the body of POST /transcription.
type TranslationRequest struct {
	AudioFileBase64 string `json:"audioFileBase64"`
	DestLanguage    string `json:"destLanguage"`
	MIMEType        string `json:"mimeType,omitempty"` // optional, defaults to audio/mp3
}

// TranslationResult is produced once per request.
type TranslationResult struct {
	DestinationTranscript string `json:"destinationTranscript"`
	SourceLanguage        string `json:"sourceLanguage"`
}

// Complete reports whether both fields of the result are present.
func (r *TranslationResult) Complete() bool {
	return r != nil && r.DestinationTranscript != "" && r.SourceLanguage != ""
}

// VoiceRequest is the body of POST /voice.
type VoiceRequest struct {
	Transcript string `json:"transcript"`
}
