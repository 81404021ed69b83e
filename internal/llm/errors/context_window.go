// Package errors holds error types shared by the LLM provider clients.
package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// ContextWindowError reports that a request overflowed the model's
// context window. Diff payloads grow with PR size, so callers treat this
// as a signal to truncate the diffs harder and retry once rather than as
// a terminal failure.
type ContextWindowError struct {
	StatusCode int
	Message    string
	Provider   string
}

func (e *ContextWindowError) Error() string {
	return fmt.Sprintf("context window exceeded for %s (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// overflowIndicators are phrases the supported providers put in error
// bodies when the prompt exceeded the model's window. None of them use a
// dedicated status code for it, so the body text is the only signal.
var overflowIndicators = []string{
	"context length",
	"context window",
	"token limit",
	"maximum context",
	"input too large",
	"prompt is too long",
	"prompt too long",
	"maximum tokens",
	"exceeds maximum",
	"too many tokens",
}

// IsContextWindowError reports whether an HTTP error response indicates
// a context window overflow rather than a generic request failure.
func IsContextWindowError(statusCode int, body []byte) bool {
	switch statusCode {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusTooManyRequests:
	default:
		return false
	}

	bodyStr := strings.ToLower(string(body))
	for _, indicator := range overflowIndicators {
		if strings.Contains(bodyStr, indicator) {
			return true
		}
	}

	return false
}
