package weather

import (
	"errors"
	"fmt"
)

// Kind classifies why a request did not yield a reading.
type Kind string

const (
	KindConfiguration Kind = "configuration" // bad credentials at construction
	KindInput         Kind = "input"         // caller-supplied argument invalid
	KindNetwork       Kind = "network"       // transport failure, transient
	KindAuth          Kind = "auth"          // provider rejected the key
	KindNotFound      Kind = "not_found"     // location did not resolve
	KindRateLimit     Kind = "rate_limit"    // provider throttling
	KindProvider      Kind = "provider"      // unexpected status or malformed body
)

// Sentinel errors for use with errors.Is.
var (
	ErrConfiguration = &APIError{Kind: KindConfiguration, Message: "invalid configuration"}
	ErrInput         = &APIError{Kind: KindInput, Message: "invalid input"}
	ErrNetwork       = &APIError{Kind: KindNetwork, Message: "network failure"}
	ErrAuth          = &APIError{Kind: KindAuth, Message: "authentication rejected"}
	ErrNotFound      = &APIError{Kind: KindNotFound, Message: "location not found"}
	ErrRateLimit     = &APIError{Kind: KindRateLimit, Message: "rate limit exceeded"}
	ErrProvider      = &APIError{Kind: KindProvider, Message: "provider error"}
)

// APIError is the single failure type surfaced by this package. Every failed
// request yields exactly one APIError; the Message is written to be shown to
// the user directly, remediation hints included.
type APIError struct {
	Kind    Kind
	Message string
	Query   string // composed location query, set for not-found errors
	Status  int    // HTTP status, when one was received
}

func (e *APIError) Error() string {
	if e.Query != "" {
		return fmt.Sprintf("weather [%s]: %s (query %q)", e.Kind, e.Message, e.Query)
	}
	return fmt.Sprintf("weather [%s]: %s", e.Kind, e.Message)
}

// Is matches two APIErrors by kind, so callers can compare against the
// sentinels above.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Retryable reports whether retrying the same request may succeed without
// any change on the caller's side.
func (e *APIError) Retryable() bool {
	switch e.Kind {
	case KindNetwork, KindRateLimit:
		return true
	default:
		return false
	}
}

// IsRetryable reports whether err is a transient APIError.
func IsRetryable(err error) bool {
	var e *APIError
	if errors.As(err, &e) {
		return e.Retryable()
	}
	return false
}

// IsNotFound reports whether err means the location did not resolve.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// statusKinds maps provider HTTP statuses to error kinds. Statuses absent
// from the table fall through to KindProvider.
var statusKinds = map[int]Kind{
	401: KindAuth,
	404: KindNotFound,
	429: KindRateLimit,
	500: KindProvider,
}

// classifyStatus turns a non-200 provider response into an APIError. The 404
// kind stays distinct from other provider failures: the user's corrective
// action is to fix the location, not to retry.
func classifyStatus(status int, query string, body []byte) *APIError {
	switch statusKinds[status] {
	case KindAuth:
		return &APIError{
			Kind:   KindAuth,
			Status: status,
			Message: "API key rejected by the weather provider. The key may be invalid, " +
				"not yet activated, or over its quota. Check your .env file.",
		}
	case KindNotFound:
		return &APIError{
			Kind:    KindNotFound,
			Status:  status,
			Query:   query,
			Message: fmt.Sprintf("location %q not found. Check the spelling or add a state/country.", query),
		}
	case KindRateLimit:
		return &APIError{
			Kind:    KindRateLimit,
			Status:  status,
			Message: "too many requests; the provider is throttling. Wait a moment and try again.",
		}
	default:
		if status == 500 {
			return &APIError{
				Kind:    KindProvider,
				Status:  status,
				Message: "weather provider server error, retry later",
			}
		}
		msg := fmt.Sprintf("weather provider returned status %d", status)
		if len(body) > 0 {
			msg = fmt.Sprintf("%s: %s", msg, truncate(string(body), 200))
		}
		return &APIError{Kind: KindProvider, Status: status, Message: msg}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
