package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/novelreader/internal/entities"
	"github.com/mrlokans/novelreader/internal/readerstate"
)

// StateController serves reading progress and user preferences.
type StateController struct {
	state ReaderState
}

func NewStateController(state ReaderState) *StateController {
	return &StateController{state: state}
}

// ListProgress handles GET /api/progress
func (sc *StateController) ListProgress(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"progress": sc.state.AllProgress()})
}

// GetProgress handles GET /api/progress/:novelId
func (sc *StateController) GetProgress(c *gin.Context) {
	id, ok := parseIDParam(c, "novelId")
	if !ok {
		return
	}

	p, found := sc.state.Progress(id)
	if !found {
		respondNotFound(c, "reading progress")
		return
	}
	c.JSON(http.StatusOK, p)
}

// SaveProgress handles PUT /api/progress/:novelId
// The novel ID in the path wins over any ID in the body.
func (sc *StateController) SaveProgress(c *gin.Context) {
	id, ok := parseIDParam(c, "novelId")
	if !ok {
		return
	}

	var p entities.ReadingProgress
	if err := c.ShouldBindJSON(&p); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	p.NovelID = id

	sc.state.SaveProgress(p)
	saved, _ := sc.state.Progress(id)
	c.JSON(http.StatusOK, saved)
}

// DeleteProgress handles DELETE /api/progress/:novelId
func (sc *StateController) DeleteProgress(c *gin.Context) {
	id, ok := parseIDParam(c, "novelId")
	if !ok {
		return
	}
	sc.state.RemoveProgress(id)
	respondSuccess(c, "reading progress removed", nil)
}

// GetPreferences handles GET /api/preferences
func (sc *StateController) GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, sc.state.Preferences())
}

// UpdatePreferences handles PATCH /api/preferences
func (sc *StateController) UpdatePreferences(c *gin.Context) {
	var patch readerstate.PreferencesPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	prefs, err := sc.state.UpdatePreferences(patch)
	if err != nil {
		if errors.Is(err, readerstate.ErrInvalidTheme) {
			respondBadRequest(c, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, prefs)
}
