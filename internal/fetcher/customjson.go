package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/mrlokans/novelreader/internal/entities"
	"github.com/mrlokans/novelreader/internal/jsonpath"
	"github.com/mrlokans/novelreader/internal/metadata"
	"github.com/mrlokans/novelreader/internal/utils"
)

const previewRunes = 200

var (
	defaultTitlePaths   = []string{"title", "name", "filename", "bookname", "book_title"}
	defaultContentPaths = []string{"content", "text", "data", "body", "novel_content"}
	defaultAuthorPaths  = []string{"author", "writer", "creator", "auth", "novel_author"}
)

// CustomJSONConfig holds optional user paths tried before the defaults.
type CustomJSONConfig struct {
	TitlePath   string `json:"titlePath"`
	ContentPath string `json:"contentPath"`
	AuthorPath  string `json:"authorPath"`
}

type CustomJSONPreview struct {
	Title          string `json:"title"`
	Author         string `json:"author"`
	ContentLength  int    `json:"contentLength"`
	ContentPreview string `json:"contentPreview"`
}

// PreviewCustomJSON fetches the endpoint once with a 10 second timeout and
// reports what would be ingested.
func (c *Client) PreviewCustomJSON(ctx context.Context, rawURL string, cfg CustomJSONConfig) (*CustomJSONPreview, error) {
	doc, err := c.fetchJSON(ctx, rawURL, PreviewTimeout)
	if err != nil {
		return nil, err
	}

	title, author, content, err := extractFields(doc, cfg)
	if err != nil {
		return nil, err
	}

	preview := content
	if utf8.RuneCountInString(content) > previewRunes {
		preview = string([]rune(content)[:previewRunes]) + "..."
	}

	return &CustomJSONPreview{
		Title:          title,
		Author:         author,
		ContentLength:  utf8.RuneCountInString(content),
		ContentPreview: preview,
	}, nil
}

// IngestCustomJSON fetches the endpoint once, without retries, and reports
// phased progress at 10, 30, 50, 70, 90 and 100 percent.
func (c *Client) IngestCustomJSON(ctx context.Context, rawURL string, cfg CustomJSONConfig, opts Options) (*entities.FetchResult, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = c.defaultTimeout
	}

	phase(opts.Progress, 10)
	body, err := c.getJSON(ctx, rawURL, timeout)
	if err != nil {
		return nil, err
	}
	phase(opts.Progress, 30)

	doc, err := jsonpath.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("decode JSON from %s: %w", rawURL, err)
	}
	phase(opts.Progress, 50)

	title, author, content, err := extractFields(doc, cfg)
	if err != nil {
		return nil, err
	}
	phase(opts.Progress, 70)

	result := &entities.FetchResult{
		Content:  content,
		Title:    title,
		Author:   author,
		FileSize: utils.FormatFileSize(int64(len(content))),
	}
	phase(opts.Progress, 90)
	phase(opts.Progress, 100)

	return result, nil
}

func (c *Client) fetchJSON(ctx context.Context, rawURL string, timeout time.Duration) (jsonpath.Document, error) {
	body, err := c.getJSON(ctx, rawURL, timeout)
	if err != nil {
		return jsonpath.Document{}, err
	}
	doc, err := jsonpath.Parse(body)
	if err != nil {
		return jsonpath.Document{}, fmt.Errorf("decode JSON from %s: %w", rawURL, err)
	}
	return doc, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, timeoutError(ctx, ErrRequestTimeout)
		}
		return nil, &TransportError{Op: "GET " + rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxUploadSize+1))
	if err != nil {
		if ctx.Err() != nil {
			return nil, timeoutError(ctx, ErrRequestTimeout)
		}
		return nil, &TransportError{Op: "read body", Err: err}
	}
	if len(body) > MaxUploadSize {
		return nil, ErrFileTooLarge
	}
	c.metrics.DownloadedBytes(len(body))

	return body, nil
}

func extractFields(doc jsonpath.Document, cfg CustomJSONConfig) (title, author, content string, err error) {
	contentVal, ok := doc.First(withUserPath(cfg.ContentPath, defaultContentPaths)...)
	if !ok {
		return "", "", "", ErrContentNotFound
	}
	if contentVal.Type == gjson.String {
		content = contentVal.Str
	} else {
		content = contentVal.Raw
	}

	title = metadata.UnknownTitle
	if v, ok := doc.First(withUserPath(cfg.TitlePath, defaultTitlePaths)...); ok {
		title = v.String()
	}

	author = metadata.UnknownAuthor
	if v, ok := doc.First(withUserPath(cfg.AuthorPath, defaultAuthorPaths)...); ok {
		author = v.String()
	}

	return title, author, content, nil
}

func withUserPath(user string, defaults []string) []string {
	if user == "" {
		return defaults
	}
	return append([]string{user}, defaults...)
}
