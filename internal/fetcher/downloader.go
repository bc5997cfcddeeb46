package fetcher

import (
	"bytes"
	"context"
	"io"
	"math"
	"net/http"
	"time"
)

const chunkSize = 64 * 1024

// MaxDownloadSize caps URL downloads the same way uploads are capped.
const MaxDownloadSize = MaxUploadSize

// Download streams the body of rawURL into memory. When the server reports
// Content-Length, sink receives an update after every chunk. Bodies larger
// than MaxDownloadSize fail with ErrFileTooLarge.
func (c *Client) Download(ctx context.Context, rawURL string, timeout time.Duration, sink ProgressSink) ([]byte, error) {
	if timeout <= 0 {
		timeout = c.defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, timeoutError(ctx, ErrDownloadTimeout)
		}
		return nil, &TransportError{Op: "GET " + rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	total := resp.ContentLength
	if total > MaxDownloadSize {
		return nil, ErrFileTooLarge
	}
	var buf bytes.Buffer
	if total > 0 {
		buf.Grow(int(total))
	}

	body := io.LimitReader(resp.Body, MaxDownloadSize+1)

	chunk := make([]byte, chunkSize)
	var loaded int64
	for {
		if ctx.Err() != nil {
			return nil, timeoutError(ctx, ErrDownloadTimeout)
		}

		n, readErr := body.Read(chunk)
		if n > 0 {
			if loaded+int64(n) > MaxDownloadSize {
				return nil, ErrFileTooLarge
			}
			buf.Write(chunk[:n])
			loaded += int64(n)
			c.metrics.DownloadedBytes(n)

			if total > 0 {
				report(sink, Progress{
					Loaded:     loaded,
					Total:      total,
					Percentage: int(math.Round(float64(loaded) / float64(total) * 100)),
				})
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			if ctx.Err() != nil {
				return nil, timeoutError(ctx, ErrDownloadTimeout)
			}
			return nil, &TransportError{Op: "read body", Err: readErr}
		}
	}

	return buf.Bytes(), nil
}
