package huggingface

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

var (
	ErrNotFound  = errors.New("Model not found. Check the model ID and try again.")
	ErrGated     = errors.New("This is a gated model. You must have access permissions on Hugging Face to view its details.")
	ErrInvalidID = errors.New("Invalid model ID format. Use: author/model-name")
)

// APIError is a non-success registry response that has no more specific meaning
type APIError struct {
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d %s", e.StatusCode, strings.TrimSpace(strings.TrimPrefix(e.Status, fmt.Sprint(e.StatusCode))))
}

// Kind is the recovery-relevant category of a registry failure
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindNetwork    Kind = "network"
	KindValidation Kind = "validation"
	KindUnknown    Kind = "unknown"
)

// ErrorInfo is the user-facing description of a failure
type ErrorInfo struct {
	Kind       Kind   `json:"kind"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

var (
	notFoundInfo = ErrorInfo{
		Kind:       KindNotFound,
		Title:      "Model Not Found",
		Message:    "The model ID you entered does not exist on HuggingFace.",
		Suggestion: "Check the spelling or try searching for similar models.",
	}
	gatedInfo = ErrorInfo{
		Kind:       KindValidation,
		Title:      "Gated Model",
		Message:    "This model is gated and requires approved access from the author.",
		Suggestion: "Visit the model page on Hugging Face to request access or use an open-access model.",
	}
	networkInfo = ErrorInfo{
		Kind:       KindNetwork,
		Title:      "Network Error",
		Message:    "Could not connect to HuggingFace API.",
		Suggestion: "Check your internet connection and try again.",
	}
	invalidIDInfo = ErrorInfo{
		Kind:       KindValidation,
		Title:      "Invalid Model ID",
		Message:    "Model ID must be in format: author/model-name",
		Suggestion: "Example: meta-llama/Llama-2-7b-chat-hf",
	}
)

type classifyRule struct {
	typed func(err error) bool
	text  func(msg string) bool
	info  ErrorInfo
}

// rules are evaluated in order; the first match wins
var rules = []classifyRule{
	{
		typed: func(err error) bool { return errors.Is(err, ErrNotFound) },
		text: func(msg string) bool {
			return strings.Contains(msg, "not found") || strings.Contains(msg, "404")
		},
		info: notFoundInfo,
	},
	{
		typed: func(err error) bool { return errors.Is(err, ErrGated) },
		text: func(msg string) bool {
			return strings.Contains(msg, "gated") || strings.Contains(msg, "permissions")
		},
		info: gatedInfo,
	},
	{
		typed: func(err error) bool {
			var netErr net.Error
			var urlErr *url.Error
			return errors.As(err, &netErr) || errors.As(err, &urlErr)
		},
		text: func(msg string) bool {
			return strings.Contains(msg, "network") || strings.Contains(msg, "fetch")
		},
		info: networkInfo,
	},
	{
		typed: func(err error) bool { return errors.Is(err, ErrInvalidID) },
		text:  func(msg string) bool { return strings.Contains(msg, "Invalid model ID") },
		info:  invalidIDInfo,
	},
}

// rootCause follows single-error wrapping down to the innermost error
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// ClassifyError maps a failure to its user-facing description. A nil error yields the
// zero ErrorInfo. Sentinels and error types are checked first. Message text is only
// matched on the innermost error, so context added by wrapping, such as a model ID,
// never changes the category.
func ClassifyError(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{}
	}
	for _, r := range rules {
		if r.typed(err) {
			return r.info
		}
	}
	cause := rootCause(err).Error()
	for _, r := range rules {
		if r.text(cause) {
			return r.info
		}
	}

	msg := err.Error()
	if msg == "" {
		msg = "An unexpected error occurred"
	}
	return ErrorInfo{
		Kind:       KindUnknown,
		Title:      "Error",
		Message:    msg,
		Suggestion: "Please try again or contact support.",
	}
}
