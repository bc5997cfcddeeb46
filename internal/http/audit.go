package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/novelreader/internal/entities"
)

const maxAuditPage = 200

type AuditController struct {
	audit  AuditLog
	logger *zap.Logger
}

func NewAuditController(audit AuditLog, logger *zap.Logger) *AuditController {
	return &AuditController{audit: audit, logger: logger}
}

// List handles GET /api/audit?type=&limit=&offset=
func (ac *AuditController) List(c *gin.Context) {
	limit, ok := parseIntQuery(c, "limit", 50)
	if !ok {
		return
	}
	offset, ok := parseIntQuery(c, "offset", 0)
	if !ok {
		return
	}
	if limit == 0 || limit > maxAuditPage {
		limit = maxAuditPage
	}

	events, total, err := ac.audit.GetEvents(entities.AuditEventType(c.Query("type")), limit, offset)
	if err != nil {
		respondInternalError(c, ac.logger, err, "list audit events")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    events,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(events)) < total,
	})
}

// ForNovel handles GET /api/novels/:id/audit
func (ac *AuditController) ForNovel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	events, err := ac.audit.GetEventsForNovel(id)
	if err != nil {
		respondInternalError(c, ac.logger, err, "list novel audit events")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
