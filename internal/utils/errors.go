package utils

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInvalidArgument   Code = "INVALID_ARGUMENT"
	CodeMisconfigured     Code = "MISCONFIGURED"
	CodeUpstream          Code = "UPSTREAM"
	CodeMalformedResponse Code = "MALFORMED_RESPONSE"
	CodePermissionDenied  Code = "PERMISSION_DENIED"
	CodePlayback          Code = "PLAYBACK"
	CodeInvalidAudio      Code = "INVALID_AUDIO"
	CodeConflict          Code = "CONFLICT"
	CodeUnavailable       Code = "UNAVAILABLE"
	CodeInternal          Code = "INTERNAL"
)

// AppError is the unified error contract across layers, server and client alike.
type AppError struct {
	Code    Code
	Op      string // operation name, ex: "TranscriptionService.Transcribe"
	Message string // safe message
	Err     error  // wrapped error
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Op != "" && e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Op != "" && e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "error"
	}
}

func (e *AppError) Unwrap() error { return e.Err }

func E(code Code, op, msg string, err error) error {
	return &AppError{Code: code, Op: op, Message: msg, Err: err}
}

func IsCode(err error, code Code) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost AppError in the chain, or CodeInternal.
func CodeOf(err error) Code {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

// Message returns the safe message of err, falling back to a generic text.
func Message(err error) string {
	var ae *AppError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return http.StatusText(http.StatusInternalServerError)
}

func HTTPStatus(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		switch ae.Code {
		case CodeInvalidArgument:
			return http.StatusBadRequest
		case CodePermissionDenied:
			return http.StatusForbidden
		case CodeConflict:
			return http.StatusConflict
		case CodeInvalidAudio:
			return http.StatusBadGateway
		case CodeUnavailable:
			return http.StatusServiceUnavailable
		default:
			// misconfiguration, upstream and malformed upstream results are all 500
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
