package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/mrlokans/novelreader/internal/entities"
)

var (
	ErrDownloadTimeout   = errors.New("download timed out")
	ErrRequestTimeout    = errors.New("request timed out")
	ErrNotText           = errors.New("resource is not a text document")
	ErrContentNotFound   = errors.New("novel content not found in JSON response")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileTooLarge      = errors.New("file exceeds the 100 MB limit")
)

// TransportError is a failure below HTTP: DNS, connect, TLS, reset.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "HTTP error: " + e.Status
}

// FetchError is returned when every retry attempt has failed. Err is the
// cause of the last attempt.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ClassifyError maps an error to a failure kind. Typed errors are inspected
// first; errors from foreign code fall back to message matching.
func ClassifyError(err error) entities.FailureKind {
	if err == nil {
		return entities.FailureUnknown
	}

	var vf *entities.ValidationFailure
	if errors.As(err, &vf) {
		return vf.Kind
	}

	if errors.Is(err, ErrDownloadTimeout) || errors.Is(err, ErrRequestTimeout) ||
		errors.Is(err, context.DeadlineExceeded) {
		return entities.FailureTimeout
	}

	var se *StatusError
	if errors.As(err, &se) {
		return entities.FailureServer
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return entities.FailureTimeout
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	var te *TransportError
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) || errors.As(err, &te) {
		return entities.FailureNetwork
	}

	return classifyMessage(err.Error())
}

func classifyMessage(msg string) entities.FailureKind {
	switch {
	case strings.Contains(msg, "Failed to fetch"):
		return entities.FailureCORS
	case strings.Contains(msg, "NetworkError"):
		return entities.FailureNetwork
	case strings.Contains(strings.ToLower(msg), "timeout"):
		return entities.FailureTimeout
	case strings.Contains(msg, "HTTP error"):
		return entities.FailureServer
	}
	return entities.FailureUnknown
}

func failureMessage(kind entities.FailureKind, err error) string {
	switch kind {
	case entities.FailureCORS:
		return "cross-origin access was blocked by the remote server"
	case entities.FailureNetwork:
		return "network error: " + err.Error()
	case entities.FailureTimeout:
		return "request timed out"
	case entities.FailureServer:
		return "server error: " + err.Error()
	}
	return "unknown error: " + err.Error()
}

func timeoutError(ctx context.Context, sentinel error) error {
	return fmt.Errorf("%w: %w", sentinel, ctx.Err())
}
