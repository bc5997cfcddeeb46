package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/novelreader/internal/entities"
	"github.com/mrlokans/novelreader/internal/fetcher"
	"github.com/mrlokans/novelreader/internal/services"
	"github.com/mrlokans/novelreader/internal/textclean"
)

type NovelsController struct {
	library NovelLibrary
	reader  NovelReader
	options fetcher.Options
	logger  *zap.Logger
}

func NewNovelsController(lib NovelLibrary, reader NovelReader, opts fetcher.Options, logger *zap.Logger) *NovelsController {
	return &NovelsController{library: lib, reader: reader, options: opts, logger: logger}
}

type NovelContentResponse struct {
	ID        uint                 `json:"id"`
	Title     string               `json:"title"`
	Content   string               `json:"content"`
	Cleaned   bool                 `json:"cleaned"`
	Detection *textclean.Detection `json:"detection,omitempty"`
}

// List handles GET /api/novels
func (nc *NovelsController) List(c *gin.Context) {
	novels, err := nc.library.GetAll()
	if err != nil {
		respondInternalError(c, nc.logger, err, "list novels")
		return
	}
	c.JSON(http.StatusOK, gin.H{"novels": novels, "total": len(novels)})
}

// Get handles GET /api/novels/:id
func (nc *NovelsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	novel, err := nc.reader.Novel(id)
	if err != nil {
		nc.respondLookupError(c, err, "get novel")
		return
	}
	c.JSON(http.StatusOK, novel)
}

// Content handles GET /api/novels/:id/content
// The ETag is derived from the stored checksum. With ?clean=true the text
// goes through SmartClean first.
func (nc *NovelsController) Content(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	clean, _ := strconv.ParseBool(c.Query("clean"))

	novel, err := nc.reader.Novel(id)
	if err != nil {
		nc.respondLookupError(c, err, "get novel")
		return
	}

	etag := `"` + novel.Checksum + `"`
	if clean {
		etag = `"` + novel.Checksum + `-clean"`
	}
	if novel.Checksum != "" {
		c.Header("ETag", etag)
		if c.GetHeader("If-None-Match") == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	content, err := nc.reader.Content(c.Request.Context(), id)
	if err != nil {
		nc.respondLookupError(c, err, "load content")
		return
	}

	resp := NovelContentResponse{ID: novel.ID, Title: novel.Title, Content: content}
	if clean {
		report := textclean.SmartClean(content)
		resp.Content = report.Text
		resp.Cleaned = report.Cleaned
		resp.Detection = &report.Detection
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshResponse carries the text fetched from the source and whether the
// stored record changed.
type RefreshResponse struct {
	Content string `json:"content"`
	Updated bool   `json:"updated"`
}

// Refresh handles POST /api/novels/:id/refresh
func (nc *NovelsController) Refresh(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	content, updated, err := nc.library.UpdateURLNovel(c.Request.Context(), id, nc.options)
	if err != nil {
		respondFetchError(c, err)
		return
	}
	c.JSON(http.StatusOK, RefreshResponse{Content: content, Updated: updated})
}

// Delete handles DELETE /api/novels/:id
func (nc *NovelsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := nc.library.Delete(id); err != nil {
		nc.respondLookupError(c, err, "delete novel")
		return
	}
	respondSuccess(c, "novel deleted", gin.H{"id": id})
}

func (nc *NovelsController) respondLookupError(c *gin.Context, err error, context string) {
	if errors.Is(err, services.ErrNovelNotFound) {
		respondNotFound(c, "novel")
		return
	}
	respondInternalError(c, nc.logger, err, context)
}

// SearchController serves catalog search and the search history.
type SearchController struct {
	reader NovelReader
	state  ReaderState
	logger *zap.Logger
}

func NewSearchController(reader NovelReader, state ReaderState, logger *zap.Logger) *SearchController {
	return &SearchController{reader: reader, state: state, logger: logger}
}

// Search handles GET /api/search?keyword=&target=&page=
func (sc *SearchController) Search(c *gin.Context) {
	page, ok := parseIntQuery(c, "page", 1)
	if !ok {
		return
	}

	result, err := sc.reader.Search(c.Query("keyword"), entities.SearchTarget(c.Query("target")), page)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTarget) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, sc.logger, err, "search")
		return
	}
	c.JSON(http.StatusOK, result)
}

// History handles GET /api/search/history?limit=
func (sc *SearchController) History(c *gin.Context) {
	limit, ok := parseIntQuery(c, "limit", 0)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": sc.state.SearchHistory(limit)})
}

// ClearHistory handles DELETE /api/search/history
func (sc *SearchController) ClearHistory(c *gin.Context) {
	sc.state.ClearSearchHistory()
	respondSuccess(c, "search history cleared", nil)
}
