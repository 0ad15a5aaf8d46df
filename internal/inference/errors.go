package inference

import (
	"fmt"
)

// Kind classifies a terminal inference failure.
type Kind string

// Failure kinds, mirroring the upstream API's observable failure modes.
const (
	KindBadRequest  Kind = "bad_request"
	KindAuth        Kind = "auth"
	KindRateLimited Kind = "rate_limited"
	KindUnavailable Kind = "unavailable"
	KindTimeout     Kind = "timeout"
	KindOther       Kind = "other"
)

// Error is a classified inference failure. The message is always the
// human-readable classification, never the raw transport error; callers
// surface it directly to users.
type Error struct {
	Kind   Kind
	Detail string // optional upstream message, only for KindOther
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindBadRequest:
		return "invalid request to the vision service; check your images"
	case KindAuth:
		return "API key is invalid or has insufficient permissions"
	case KindRateLimited:
		return "rate limit exceeded; wait a moment and try again"
	case KindUnavailable:
		return "vision service is temporarily unavailable; try again later"
	case KindTimeout:
		return "request timed out; try again"
	default:
		if e.Detail != "" {
			return fmt.Sprintf("vision service error: %s", e.Detail)
		}
		return "vision service error"
	}
}

// Retryable reports whether a failure kind is worth retrying: upstream
// overload, rate limiting, or a request timeout. Everything else fails
// immediately.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindRateLimited, KindUnavailable, KindTimeout:
		return true
	default:
		return false
	}
}
