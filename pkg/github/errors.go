package github

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v60/github"
	"gitlab.com/tozd/go/errors"
)

// Kind classifies an upstream failure. The classes are mutually
// exclusive and assigned once, at the client boundary.
type Kind string

const (
	KindAuthentication Kind = "authentication"
	KindRateLimit      Kind = "rate_limit"
	KindForbidden      Kind = "forbidden"
	KindNotFound       Kind = "not_found"
	KindValidation     Kind = "validation"
	KindNetwork        Kind = "network"
	KindUpstream       Kind = "upstream"
)

// APIError is the uniform error shape for every failed GitHub call.
// StatusCode is zero for connection-level failures that never produced
// a response.
type APIError struct {
	Kind       Kind
	StatusCode int
	Message    string
	cause      error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("github: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("github: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// classify maps an error from go-github onto the APIError taxonomy.
func classify(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &APIError{
			Kind:       KindRateLimit,
			StatusCode: statusCode(rateErr.Response),
			Message:    "Rate limit exceeded. Please try again later.",
			cause:      err,
		}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &APIError{
			Kind:       KindRateLimit,
			StatusCode: statusCode(abuseErr.Response),
			Message:    "Rate limit exceeded. Please try again later.",
			cause:      err,
		}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		status := statusCode(respErr.Response)
		switch status {
		case 401:
			return &APIError{Kind: KindAuthentication, StatusCode: status, Message: "Authentication failed. Check your GitHub token.", cause: err}
		case 403:
			if strings.Contains(strings.ToLower(respErr.Message), "rate limit") {
				return &APIError{Kind: KindRateLimit, StatusCode: status, Message: "Rate limit exceeded. Please try again later.", cause: err}
			}
			return &APIError{Kind: KindForbidden, StatusCode: status, Message: "Access forbidden. Check your permissions.", cause: err}
		case 404:
			return &APIError{Kind: KindNotFound, StatusCode: status, Message: "Repository or resource not found.", cause: err}
		case 422:
			return &APIError{Kind: KindValidation, StatusCode: status, Message: "Validation failed. Check your request parameters.", cause: err}
		default:
			return &APIError{Kind: KindUpstream, StatusCode: status, Message: fmt.Sprintf("GitHub API error: %s", respErr.Message), cause: err}
		}
	}

	// No upstream response: timeouts, DNS failures, cancelled contexts.
	return &APIError{Kind: KindNetwork, Message: fmt.Sprintf("network or unknown error: %s", err.Error()), cause: err}
}

func statusCode(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

// IsNotFound reports whether err is a not-found classification.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindNotFound
}

// IsRateLimit reports whether err is a rate-limit classification.
func IsRateLimit(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindRateLimit
}
