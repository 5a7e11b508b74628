package resilience

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
)

// Kind classifies a recognition failure. Operators need to tell deployment
// problems (misconfigured_env) apart from user mistakes (bad_request) and
// from upstream conditions worth retrying.
type Kind string

const (
	KindBadRequest       Kind = "bad_request"
	KindMisconfiguredEnv Kind = "misconfigured_env"
	KindBilling          Kind = "billing"
	KindTimeout          Kind = "timeout"
	KindUpstream         Kind = "upstream_error"
	KindNetwork          Kind = "network"
)

// Retryable reports whether a failure of this kind may be retried once at
// the pass level.
func (k Kind) Retryable() bool {
	switch k {
	case KindTimeout, KindUpstream, KindNetwork:
		return true
	default:
		return false
	}
}

// Error is a classified recognition failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with a classification kind.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf extracts the classification from an error chain, defaulting to
// upstream_error for unclassified failures.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if isNetworkErr(err) {
		return KindNetwork
	}
	return KindUpstream
}

// Retryable reports whether err is safe to retry once.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	return KindOf(err).Retryable()
}

// ClassifyStatus maps an upstream HTTP status onto a kind.
func ClassifyStatus(status int) Kind {
	switch {
	case status == 401 || status == 403:
		return KindMisconfiguredEnv
	case status == 402:
		return KindBilling
	case status == 408 || status == 504:
		return KindTimeout
	case status == 429 || status >= 500:
		return KindUpstream
	case status >= 400:
		return KindBadRequest
	default:
		return KindUpstream
	}
}

func isNetworkErr(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	networkPatterns := []string{
		"connection reset by peer",
		"broken pipe",
		"temporary failure in name resolution",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
		"server closed idle connection",
		"transport connection broken",
	}
	for _, p := range networkPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
