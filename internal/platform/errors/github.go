package errors

// GitHub-specific helpers for mapping go-github errors to project ErrorCode and retry semantics

import (
	"context"
	stderrs "errors"
	"fmt"
	"net"
	"net/http"

	"github.com/google/go-github/v57/github"
)

// ExtractRateLimit returns (*github.RateLimitError, true) if the root cause is a
// primary rate limit error. The wrapped value keeps Limit/Remaining/Reset reachable
func ExtractRateLimit(err error) (*github.RateLimitError, bool) {
	var rl *github.RateLimitError
	if stderrs.As(err, &rl) {
		return rl, true
	}
	return nil, false
}

// ExtractAbuseRateLimit returns (*github.AbuseRateLimitError, true) for secondary
// rate limits (abuse detection). RetryAfter carries the server-suggested wait
func ExtractAbuseRateLimit(err error) (*github.AbuseRateLimitError, bool) {
	var ab *github.AbuseRateLimitError
	if stderrs.As(err, &ab) {
		return ab, true
	}
	return nil, false
}

// IsRateLimited reports whether the error is a primary or secondary rate limit
func IsRateLimited(err error) bool {
	if _, ok := ExtractRateLimit(err); ok {
		return true
	}
	_, ok := ExtractAbuseRateLimit(err)
	return ok
}

// IsGitHubNotFound reports whether the error is a 404/410 from the GitHub API
func IsGitHubNotFound(err error) bool {
	var er *github.ErrorResponse
	if !stderrs.As(err, &er) || er.Response == nil {
		return false
	}
	return er.Response.StatusCode == http.StatusNotFound || er.Response.StatusCode == http.StatusGone
}

// GitHubErrorCode maps a go-github error to an ErrorCode with an ok flag
// !ok means err wasn't recognized as a GitHub transport error; caller may fall
// back to generic handling
func GitHubErrorCode(err error) (ErrorCode, bool) {
	if err == nil {
		return ErrorCodeUnknown, false
	}

	if IsRateLimited(err) {
		return ErrorCodeTooManyRequests, true
	}

	// 202: GitHub is still computing the result (e.g. fresh compare). Transient
	var acc *github.AcceptedError
	if stderrs.As(err, &acc) {
		return ErrorCodeUnavailable, true
	}

	var er *github.ErrorResponse
	if stderrs.As(err, &er) {
		if er.Response == nil {
			return ErrorCodeUpstream, true
		}
		switch sc := er.Response.StatusCode; {
		case sc == http.StatusNotFound, sc == http.StatusGone:
			return ErrorCodeNotFound, true
		case sc == http.StatusUnauthorized:
			return ErrorCodeUnauthorized, true
		case sc == http.StatusForbidden:
			return ErrorCodeForbidden, true
		case sc == http.StatusTooManyRequests:
			return ErrorCodeTooManyRequests, true
		case sc == http.StatusUnprocessableEntity, sc == http.StatusBadRequest:
			return ErrorCodeInvalidArgument, true
		case sc == http.StatusRequestTimeout:
			return ErrorCodeTimeout, true
		case sc >= 500:
			return ErrorCodeUpstream, true
		default:
			return ErrorCodeUpstream, true
		}
	}

	if stderrs.Is(err, context.DeadlineExceeded) {
		return ErrorCodeTimeout, true
	}
	var ne net.Error
	if stderrs.As(err, &ne) && ne.Timeout() {
		return ErrorCodeTimeout, true
	}

	return ErrorCodeUnknown, false
}

// FromGitHub wraps a GitHub transport error with a mapped ErrorCode and message.
// If err is nil, returns nil. The original error stays in the chain so callers
// can still errors.As into go-github types (rate limit metadata in particular)
func FromGitHub(err error, msg string) error {
	if err == nil {
		return nil
	}
	if code, ok := GitHubErrorCode(err); ok {
		return Wrap(err, code, msg)
	}
	return Wrap(err, ErrorCodeUpstream, msg)
}

// FromGitHubf is the formatted variant of FromGitHub
func FromGitHubf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	return FromGitHub(err, fmt.Sprintf(format, a...))
}

// IsRetryable reports whether a GitHub transport error represents a transient
// condition worth retrying: rate limits (the client can wait out the reset),
// 5xx responses, 202 accepted, and network timeouts. Local cancellations are not
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Do not retry local cancellations; let the caller decide higher-level retries
	if stderrs.Is(err, context.Canceled) {
		return false
	}

	if IsRateLimited(err) {
		return true
	}

	var acc *github.AcceptedError
	if stderrs.As(err, &acc) {
		return true
	}

	var er *github.ErrorResponse
	if stderrs.As(err, &er) && er.Response != nil {
		return er.Response.StatusCode >= 500
	}

	if stderrs.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if stderrs.As(err, &ne) && ne.Timeout() {
		return true
	}

	return false
}
