package handlers

import (
	"net/http"

	"vox-populi/internal/auth"
	"vox-populi/internal/models"
	"vox-populi/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ResultsHandler serves aggregate views: question results, the caller's
// record and profile
type ResultsHandler struct {
	results *services.ResultsService
	records *services.RecordService
	users   *services.UserService
	log     *logrus.Entry
}

// NewResultsHandler creates a new ResultsHandler
func NewResultsHandler(results *services.ResultsService, records *services.RecordService, users *services.UserService, log *logrus.Entry) *ResultsHandler {
	return &ResultsHandler{results: results, records: records, users: users, log: log}
}

// GetResults returns the tallies of a question
func (h *ResultsHandler) GetResults(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	results, err := h.results.Results(c.Request.Context(), auth.CurrentActor(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetRecord returns the caller's prediction record
func (h *ResultsHandler) GetRecord(c *gin.Context) {
	record, err := h.records.Record(c.Request.Context(), auth.CurrentActor(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetProfile returns the caller's profile
func (h *ResultsHandler) GetProfile(c *gin.Context) {
	profile, err := h.users.GetProfile(c.Request.Context(), auth.CurrentActor(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile sets the caller's location
func (h *ResultsHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.users.UpdateLocation(c.Request.Context(), auth.CurrentActor(c), *req.Location)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
