package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CacheController struct {
	cache CacheMaintainer
	audit AuditLog
}

func NewCacheController(cache CacheMaintainer, audit AuditLog) *CacheController {
	return &CacheController{cache: cache, audit: audit}
}

// Stats handles GET /api/cache/stats
func (cc *CacheController) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, cc.cache.Stats())
}

// Cleanup handles POST /api/cache/cleanup
func (cc *CacheController) Cleanup(c *gin.Context) {
	removed := cc.cache.CleanupExpired()
	cc.logCache("cleanup", removed)
	respondSuccess(c, "expired entries removed", gin.H{"removed": removed})
}

// Clear handles DELETE /api/cache
func (cc *CacheController) Clear(c *gin.Context) {
	removed := cc.cache.Clear()
	cc.logCache("clear", removed)
	respondSuccess(c, "cache cleared", gin.H{"removed": removed})
}

func (cc *CacheController) logCache(action string, removed int) {
	if cc.audit != nil {
		cc.audit.LogCache(action, removed)
	}
}
