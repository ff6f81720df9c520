package handlers

import (
	"net/http"

	"vox-populi/internal/auth"
	"vox-populi/internal/models"
	"vox-populi/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ReplyHandler handles reply endpoints
type ReplyHandler struct {
	replies *services.ReplyService
	log     *logrus.Entry
}

// NewReplyHandler creates a new ReplyHandler
func NewReplyHandler(replies *services.ReplyService, log *logrus.Entry) *ReplyHandler {
	return &ReplyHandler{replies: replies, log: log}
}

// GetMyReply returns the caller's reply to a question
func (h *ReplyHandler) GetMyReply(c *gin.Context) {
	questionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	reply, err := h.replies.GetForQuestion(c.Request.Context(), auth.CurrentActor(c), questionID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// CreateMyReply records the caller's reply to a question
func (h *ReplyHandler) CreateMyReply(c *gin.Context) {
	questionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.ReplyRequest
	if !bindJSON(c, &req) {
		return
	}

	reply, err := h.replies.Create(c.Request.Context(), auth.CurrentActor(c), questionID, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, reply)
}

// UpdateMyReply handles PUT and PATCH on the caller's reply to a question
func (h *ReplyHandler) UpdateMyReply(c *gin.Context) {
	questionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.ReplyRequest
	if !bindJSON(c, &req) {
		return
	}

	partial := c.Request.Method == http.MethodPatch
	reply, err := h.replies.UpdateForQuestion(c.Request.Context(), auth.CurrentActor(c), questionID, req, partial)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// DeleteMyReply removes the caller's reply to a question
func (h *ReplyHandler) DeleteMyReply(c *gin.Context) {
	questionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.replies.DeleteForQuestion(c.Request.Context(), auth.CurrentActor(c), questionID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListQuestionReplies returns every reply to a concluded question
func (h *ReplyHandler) ListQuestionReplies(c *gin.Context) {
	questionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	replies, err := h.replies.ListForQuestion(c.Request.Context(), auth.CurrentActor(c), questionID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(replies))
}

// ListMyReplies returns the caller's replies
func (h *ReplyHandler) ListMyReplies(c *gin.Context) {
	replies, err := h.replies.ListMine(c.Request.Context(), auth.CurrentActor(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(replies))
}

// GetReply returns a reply by ID
func (h *ReplyHandler) GetReply(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	reply, err := h.replies.Get(c.Request.Context(), auth.CurrentActor(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// UpdateReply handles PUT and PATCH on a reply by ID
func (h *ReplyHandler) UpdateReply(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.ReplyRequest
	if !bindJSON(c, &req) {
		return
	}

	partial := c.Request.Method == http.MethodPatch
	reply, err := h.replies.Update(c.Request.Context(), auth.CurrentActor(c), id, req, partial)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// DeleteReply removes a reply by ID
func (h *ReplyHandler) DeleteReply(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.replies.Delete(c.Request.Context(), auth.CurrentActor(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
