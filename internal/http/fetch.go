package http

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/novelreader/internal/entities"
	"github.com/mrlokans/novelreader/internal/fetcher"
	"github.com/mrlokans/novelreader/internal/tasks"
)

// FetchController ingests novels from URLs, uploads and JSON APIs.
type FetchController struct {
	library NovelLibrary
	probe   SourceProbe
	tasks   TaskQueue
	timeout time.Duration
	retries int
	logger  *zap.Logger
}

func NewFetchController(lib NovelLibrary, probe SourceProbe, taskQueue TaskQueue, timeout time.Duration, retries int, logger *zap.Logger) *FetchController {
	return &FetchController{
		library: lib,
		probe:   probe,
		tasks:   taskQueue,
		timeout: timeout,
		retries: retries,
		logger:  logger,
	}
}

// FetchURLRequest is the body for POST /api/fetch/url and its stream variant.
type FetchURLRequest struct {
	URL            string `json:"url" binding:"required,url"`
	TimeoutSeconds int    `json:"timeoutSeconds" binding:"gte=0,lte=600"`
	Retries        *int   `json:"retries" binding:"omitempty,gte=0,lte=10"`
	Async          bool   `json:"async"`
}

func (r FetchURLRequest) options(defTimeout time.Duration, defRetries int) fetcher.Options {
	opts := fetcher.Options{Timeout: defTimeout, Retries: defRetries}
	if r.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(r.TimeoutSeconds) * time.Second
	}
	if r.Retries != nil {
		opts.Retries = *r.Retries
	}
	return opts
}

// CustomJSONRequest is the body for the custom JSON endpoints.
type CustomJSONRequest struct {
	URL            string `json:"url" binding:"required,url"`
	TitlePath      string `json:"titlePath"`
	ContentPath    string `json:"contentPath"`
	AuthorPath     string `json:"authorPath"`
	TimeoutSeconds int    `json:"timeoutSeconds" binding:"gte=0,lte=600"`
}

func (r CustomJSONRequest) config() fetcher.CustomJSONConfig {
	return fetcher.CustomJSONConfig{
		TitlePath:   r.TitlePath,
		ContentPath: r.ContentPath,
		AuthorPath:  r.AuthorPath,
	}
}

type FetchResponse struct {
	Novel *entities.CachedNovel `json:"novel"`
}

// FetchURL handles POST /api/fetch/url
// With async (body field or ?async=true) the fetch is queued and 202 is
// returned with the task ID.
func (fc *FetchController) FetchURL(c *gin.Context) {
	var req FetchURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if async, _ := strconv.ParseBool(c.Query("async")); async {
		req.Async = true
	}

	if req.Async {
		fc.enqueue(c, req)
		return
	}

	novel, _, err := fc.library.CacheFromURL(c.Request.Context(), req.URL, req.options(fc.timeout, fc.retries))
	if err != nil {
		respondFetchError(c, err)
		return
	}
	respondCreated(c, FetchResponse{Novel: novel})
}

func (fc *FetchController) enqueue(c *gin.Context, req FetchURLRequest) {
	if fc.tasks == nil {
		respondUnavailable(c, "task queue")
		return
	}

	task := tasks.FetchURLTask{URL: req.URL, TimeoutSeconds: req.TimeoutSeconds, Retries: fc.retries}
	if req.Retries != nil {
		task.Retries = *req.Retries
	}

	id, err := fc.tasks.Enqueue(c.Request.Context(), task)
	if err != nil {
		respondInternalError(c, fc.logger, err, "enqueue fetch")
		return
	}
	respondAccepted(c, "fetch enqueued", gin.H{"task_id": id})
}

type streamOutcome struct {
	novel *entities.CachedNovel
	err   error
}

// StreamURL handles POST /api/fetch/url/stream
// Progress is sent as server-sent "progress" events, followed by one
// "result" or "error" event.
func (fc *FetchController) StreamURL(c *gin.Context) {
	var req FetchURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	progress := make(chan fetcher.Progress, 32)
	done := make(chan streamOutcome, 1)

	opts := req.options(fc.timeout, fc.retries)
	opts.Progress = fetcher.ChannelSink(progress)

	go func() {
		novel, _, err := fc.library.CacheFromURL(ctx, req.URL, opts)
		done <- streamOutcome{novel: novel, err: err}
	}()

	c.Stream(func(w io.Writer) bool {
		select {
		case p := <-progress:
			c.SSEvent("progress", p)
			return true
		case out := <-done:
			drainProgress(c, progress)
			if out.err != nil {
				_, body := fetchErrorStatus(out.err)
				c.SSEvent("error", body)
			} else {
				c.SSEvent("result", FetchResponse{Novel: out.novel})
			}
			return false
		case <-ctx.Done():
			return false
		}
	})
}

func drainProgress(c *gin.Context, progress <-chan fetcher.Progress) {
	for {
		select {
		case p := <-progress:
			c.SSEvent("progress", p)
		default:
			return
		}
	}
}

// Upload handles POST /api/fetch/upload (multipart field "file").
func (fc *FetchController) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "file is required")
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondInternalError(c, fc.logger, err, "open upload")
		return
	}
	defer f.Close()

	novel, _, err := fc.library.CacheUpload(fh.Filename, fh.Size, f)
	if err != nil {
		respondFetchError(c, err)
		return
	}
	respondCreated(c, FetchResponse{Novel: novel})
}

// PreviewCustomJSON handles POST /api/fetch/custom-json/preview
func (fc *FetchController) PreviewCustomJSON(c *gin.Context) {
	var req CustomJSONRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	preview, err := fc.probe.PreviewCustomJSON(c.Request.Context(), req.URL, req.config())
	if err != nil {
		respondFetchError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// IngestCustomJSON handles POST /api/fetch/custom-json
func (fc *FetchController) IngestCustomJSON(c *gin.Context) {
	var req CustomJSONRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	opts := fetcher.Options{Timeout: fc.timeout, Retries: fc.retries}
	if req.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(req.TimeoutSeconds) * time.Second
	}

	novel, _, err := fc.library.CacheFromCustomJSON(c.Request.Context(), req.URL, req.config(), opts)
	if err != nil {
		respondFetchError(c, err)
		return
	}
	respondCreated(c, FetchResponse{Novel: novel})
}

// Check handles GET /api/fetch/check?url=&timeout=
// The outcome is always returned with 200; Valid carries the verdict.
func (fc *FetchController) Check(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		respondBadRequest(c, "url is required")
		return
	}
	seconds, ok := parseIntQuery(c, "timeout", int(fetcher.DefaultCheckTimeout/time.Second))
	if !ok {
		return
	}
	if seconds == 0 {
		seconds = int(fetcher.DefaultCheckTimeout / time.Second)
	}

	outcome := fc.probe.CheckURL(c.Request.Context(), rawURL, time.Duration(seconds)*time.Second)
	c.JSON(http.StatusOK, outcome)
}
