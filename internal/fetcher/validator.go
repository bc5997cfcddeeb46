package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mrlokans/novelreader/internal/entities"
	"github.com/mrlokans/novelreader/internal/metrics"
)

const rangeProbeBytes = 1024

// Validator checks that a URL is reachable and serves text before a full
// download is attempted.
type Validator struct {
	httpClient *http.Client
	userAgent  string
	metrics    *metrics.Metrics
}

func NewValidator(hc *http.Client, userAgent string, m *metrics.Metrics) *Validator {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Validator{httpClient: hc, userAgent: userAgent, metrics: m}
}

// Check sends a HEAD request. When HEAD fails at the transport level for a
// reason other than a timeout, a ranged GET decides reachability instead.
func (v *Validator) Check(ctx context.Context, rawURL string, timeout time.Duration) entities.ValidationOutcome {
	outcome := v.check(ctx, rawURL, timeout)
	if outcome.Failure != nil {
		v.metrics.ValidationFailure(string(outcome.Failure.Kind))
	}
	return outcome
}

func (v *Validator) check(ctx context.Context, rawURL string, timeout time.Duration) entities.ValidationOutcome {
	headCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, headErr := v.do(headCtx, http.MethodHead, rawURL, nil)
	if headErr == nil {
		defer resp.Body.Close()
		return inspectHead(resp)
	}

	if errors.Is(headCtx.Err(), context.DeadlineExceeded) {
		return fail(entities.FailureTimeout, "request timed out", timeoutError(headCtx, ErrRequestTimeout))
	}
	if ctx.Err() != nil {
		return fail(entities.FailureUnknown, "request cancelled", ctx.Err())
	}

	if v.rangeProbe(ctx, rawURL, timeout) {
		return entities.ValidationOutcome{Valid: true}
	}

	cause := &TransportError{Op: "HEAD " + rawURL, Err: headErr}
	kind := ClassifyError(cause)
	return fail(kind, failureMessage(kind, headErr), cause)
}

func inspectHead(resp *http.Response) entities.ValidationOutcome {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Code: resp.StatusCode, Status: resp.Status}
		return fail(entities.FailureServer, "server returned status "+resp.Status, se)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text") {
		if contentType == "" {
			contentType = "unknown"
		}
		return fail(entities.FailureServer,
			fmt.Sprintf("URL does not point to a text file, content type: %s", contentType),
			ErrNotText)
	}

	return entities.ValidationOutcome{Valid: true}
}

// rangeProbe asks for the first KiB. Any 2xx, including 206, counts.
func (v *Validator) rangeProbe(ctx context.Context, rawURL string, timeout time.Duration) bool {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := v.do(probeCtx, http.MethodGet, rawURL, map[string]string{
		"Range": fmt.Sprintf("bytes=0-%d", rangeProbeBytes-1),
	})
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, rangeProbeBytes))

	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}

func (v *Validator) do(ctx context.Context, method, rawURL string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", v.userAgent)
	for k, val := range headers {
		req.Header.Set(k, val)
	}
	return v.httpClient.Do(req)
}

func fail(kind entities.FailureKind, msg string, cause error) entities.ValidationOutcome {
	return entities.ValidationOutcome{
		Failure: &entities.ValidationFailure{Kind: kind, Message: msg, Cause: cause},
	}
}
