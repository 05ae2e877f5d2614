package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// fallbackErrorMessage is shown when the backend provides no usable detail.
const fallbackErrorMessage = "request failed"

// StatusError describes a non-2xx backend response.
type StatusError struct {
	StatusCode int
	Method     string
	Path       string
	// Detail is the backend's specific error field, Message its generic one.
	Detail  string
	Message string
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: http %d: %s", e.Method, e.Path, e.StatusCode, e.UserMessage())
}

// UserMessage returns the most specific human-readable message available:
// backend detail, then backend message, then a fallback string.
func (e *StatusError) UserMessage() string {
	if detail := strings.TrimSpace(e.Detail); detail != "" {
		return detail
	}
	if message := strings.TrimSpace(e.Message); message != "" {
		return message
	}
	return fallbackErrorMessage
}

// IsAuthFailure reports whether err is a backend authentication failure.
func IsAuthFailure(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized
}

// IsServerError reports whether err is a server-side (5xx) failure, the only
// class of failure the retry policy re-issues.
func IsServerError(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) &&
		statusErr.StatusCode >= http.StatusInternalServerError &&
		statusErr.StatusCode <= 599
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

// suppressedPrefixes are the paper-scoped resource families whose 404s mean
// "not generated yet" rather than a real failure. Papers are deliberately
// absent: a missing paper is always a hard error.
var suppressedPrefixes = []string{"/scripts/", "/slides/", "/media/"}

// IsSuppressed reports whether err is an expected-absence failure: a 404 on
// a resource path the pipeline simply has not produced yet. Suppressed
// errors are logged but never surfaced as user-facing notices; callers
// still receive them and apply their documented fallbacks.
func IsSuppressed(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		return false
	}
	for _, prefix := range suppressedPrefixes {
		if strings.HasPrefix(statusErr.Path, prefix) {
			return true
		}
	}
	return false
}
