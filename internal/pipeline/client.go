package pipeline

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/yoockh/voicetranslate/internal/models"
	"github.com/yoockh/voicetranslate/internal/utils"
)

const maxErrorBodyBytes = 4 << 10

// Audio is a synthesized audio stream. The receiver must Close Body.
type Audio struct {
	Body        io.ReadCloser
	ContentType string
}

// Transcriber is the transcription capability the session depends on.
type Transcriber interface {
	Transcribe(ctx context.Context, blob *Blob, destLanguage string) (*models.TranslationResult, error)
}

// Synthesizer is the speech synthesis capability the session depends on.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*Audio, error)
}

// Client talks to the voicetranslate server. It implements Transcriber and Synthesizer.
// Calls are one-shot; there is no retry and no timeout beyond the transport's.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: http.DefaultClient}
}

func (c *Client) Transcribe(ctx context.Context, blob *Blob, destLanguage string) (*models.TranslationResult, error) {
	const op = "Client.Transcribe"

	if blob.Empty() || strings.TrimSpace(destLanguage) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Missing audio file or destination language.", nil)
	}

	req := models.TranslationRequest{
		AudioFileBase64: base64.StdEncoding.EncodeToString(blob.Data),
		DestLanguage:    destLanguage,
		MIMEType:        blob.MIMEType,
	}

	resp, err := c.post(ctx, "/transcription", req)
	if err != nil {
		return nil, utils.E(utils.CodeUpstream, op, "Error during transcription.", err)
	}
	defer resp.Body.Close()

	if err := responseError(op, "Error during transcription.", resp); err != nil {
		return nil, err
	}

	var out models.TranslationResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, utils.E(utils.CodeMalformedResponse, op, "Error during transcription.", err)
	}
	if !out.Complete() {
		return nil, utils.E(utils.CodeMalformedResponse, op, "Error during transcription.", fmt.Errorf("response missing destinationTranscript or sourceLanguage"))
	}
	return &out, nil
}

// Synthesize returns the undrained response body so playback can start early.
func (c *Client) Synthesize(ctx context.Context, text string) (*Audio, error) {
	const op = "Client.Synthesize"

	if strings.TrimSpace(text) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Missing transcript.", nil)
	}

	resp, err := c.post(ctx, "/voice", models.VoiceRequest{Transcript: text})
	if err != nil {
		return nil, utils.E(utils.CodeUpstream, op, "Voice synthesis failed.", err)
	}
	if err := responseError(op, "Voice synthesis failed.", resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return &Audio{Body: resp.Body, ContentType: resp.Header.Get("Content-Type")}, nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	return hc.Do(req)
}

// serverError is the error body written by the server's handlers.
type serverError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
	Error   string     `json:"error"`
}

// responseError maps a non-2xx response to an AppError. Codes the server reports for a
// bad request or a missing credential keep their meaning and message; anything else,
// including an unreadable body, is UPSTREAM with fallback as the message.
func responseError(op, fallback string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))

	var se serverError
	if err := json.Unmarshal(b, &se); err != nil {
		return utils.E(utils.CodeUpstream, op, fallback, cause)
	}

	switch se.Code {
	case utils.CodeMisconfigured, utils.CodeInvalidArgument, utils.CodeMalformedResponse:
		msg := se.Message
		if msg == "" {
			msg = se.Error
		}
		if msg == "" {
			msg = fallback
		}
		return utils.E(se.Code, op, msg, cause)
	default:
		return utils.E(utils.CodeUpstream, op, fallback, cause)
	}
}
