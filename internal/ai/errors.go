package ai

import (
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// ErrorKind is the closed set of provider failure categories.
type ErrorKind int

const (
	KindUnknown        ErrorKind = iota // anything unclassified (network, 5xx, ...)
	KindAuth                            // 401/403, missing key
	KindModelNotFound                   // 404
	KindInvalidRequest                  // 400/422, filtered or empty output
	KindRateLimited                     // 429
)

// String returns a stable label for logs and metrics.
func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindModelNotFound:
		return "model_not_found"
	case KindInvalidRequest:
		return "invalid_request"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// Apology is the fixed user-facing text substituted for a failure of kind k.
func (k ErrorKind) Apology() string {
	switch k {
	case KindAuth:
		return "Sorry, I don't have permission to access the AI model. Please check your API key."
	case KindModelNotFound:
		return "The requested AI model is not available. Please verify the model name."
	case KindInvalidRequest:
		return "There was an issue with the AI request (e.g., malformed prompt or content filtering)."
	case KindRateLimited:
		return "The AI service is busy right now. Please try again later."
	default:
		return "Sorry, I had trouble accessing the AI right now."
	}
}

// Error is a classified provider failure.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ai %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	errMissingAPIKey = errors.New("missing AI_API_KEY")
	errEmptyReply    = errors.New("model returned an empty response")
)

// KindOf extracts the kind from err, KindUnknown when err is not classified.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func kindForStatus(code int) ErrorKind {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusNotFound:
		return KindModelNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindInvalidRequest
	case http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindUnknown
	}
}

// classify wraps a go-openai client error into an *Error.
func classify(err error) *Error {
	if err == nil {
		return nil
	}
	var already *Error
	if errors.As(err, &already) {
		return already
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{Kind: kindForStatus(apiErr.HTTPStatusCode), Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{Kind: kindForStatus(reqErr.HTTPStatusCode), Err: err}
	}
	return &Error{Kind: KindUnknown, Err: err}
}
