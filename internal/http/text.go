package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/novelreader/internal/textclean"
)

type TextRequest struct {
	Text  string `json:"text" binding:"required"`
	Force bool   `json:"force"`
}

// CleanText handles POST /api/text/clean
// Without force the text is only cleaned when garbling is detected.
func CleanText(c *gin.Context) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if req.Force {
		c.JSON(http.StatusOK, textclean.Clean(req.Text))
		return
	}
	c.JSON(http.StatusOK, textclean.SmartClean(req.Text))
}

// DetectText handles POST /api/text/detect
func DetectText(c *gin.Context) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, textclean.Detect(req.Text))
}
