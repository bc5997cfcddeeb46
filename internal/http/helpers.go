package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/novelreader/internal/entities"
	"github.com/mrlokans/novelreader/internal/fetcher"
	"github.com/mrlokans/novelreader/internal/library"
	"github.com/mrlokans/novelreader/internal/services"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (failure kind, attempts, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data    any   `json:"data"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// --- Error Response Helpers ---

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, logger *zap.Logger, err error, context string) {
	logger.Error("internal error",
		zap.String("context", context),
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondUnavailable(c *gin.Context, feature string) {
	c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: feature + " is not enabled", Code: "unavailable"})
}

// --- Success Response Helpers ---

func respondSuccess(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message, Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Fetch Error Mapping ---

// fetchErrorStatus maps a fetch, ingest or refresh error onto an HTTP status
// and the body sent to the client.
func fetchErrorStatus(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, services.ErrNovelNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "novel not found", Code: "not_found"}
	case errors.Is(err, library.ErrNotURLNovel):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "not_url_novel"}
	case errors.Is(err, fetcher.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType, ErrorResponse{Error: err.Error(), Code: "unsupported_format"}
	case errors.Is(err, fetcher.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error(), Code: "too_large"}
	case errors.Is(err, fetcher.ErrContentNotFound):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "content_not_found"}
	case errors.Is(err, fetcher.ErrNotText):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "not_text"}
	case errors.Is(err, context.Canceled):
		return 499, ErrorResponse{Error: "request cancelled", Code: "cancelled"}
	}

	kind := fetcher.ClassifyError(err)
	details := gin.H{"kind": kind}
	var fetchErr *fetcher.FetchError
	if errors.As(err, &fetchErr) {
		details["attempts"] = fetchErr.Attempts
	}

	status := http.StatusBadGateway
	if kind == entities.FailureTimeout {
		status = http.StatusGatewayTimeout
	}
	return status, ErrorResponse{Error: err.Error(), Code: "fetch_failed", Details: details}
}

func respondFetchError(c *gin.Context, err error) {
	status, body := fetchErrorStatus(err)
	c.JSON(status, body)
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parseIntQuery reads a non-negative integer query parameter, falling back
// to def when it is absent.
func parseIntQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return n, true
}
