package prompts

import "fmt"

// TranscriptionSystem instructs the model to translate spoken audio.
const TranscriptionSystem = `# Audio Translation System Instructions
## Persona
- You are an expert at translating a given audio recording into a destination language and providing the transcription.

## Role & Responsibilities
- Analyse the given audio and identify its language.
- Remember the destination language.
- The transcription must be grammatically correct.
- When the spoken input is grammatically incorrect or meaningless, rephrase it correctly and meaningfully.

## Core Instructions
1. Identify the language.
2. Remember the destination language.
3. Rephrase meaningless or grammatically incorrect phrases so they are meaningful and correct.
4. Generate the transcription in the destination language.

## Output
- destinationTranscript: the translated transcription.
- sourceLanguage: the English name of the language spoken in the audio.
`

// TranscriptionUser is the per-request instruction sent alongside the audio.
func TranscriptionUser(destLanguage string) string {
	return fmt.Sprintf("Transcribe this audio to %s", destLanguage)
}

// TextTranslation asks a text model to translate an already recognised transcript.
func TextTranslation(text, sourceLanguage, destLanguage string) string {
	return fmt.Sprintf(
		"Translate the following %s text to %s. Keep it grammatically correct and reply with the translation only.\n\nText:\n%s",
		sourceLanguage, destLanguage, text,
	)
}
