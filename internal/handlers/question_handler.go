package handlers

import (
	"net/http"

	"vox-populi/internal/auth"
	"vox-populi/internal/models"
	"vox-populi/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// QuestionHandler handles question and answer endpoints
type QuestionHandler struct {
	questions *services.QuestionService
	answers   *services.AnswerService
	log       *logrus.Entry
}

// NewQuestionHandler creates a new QuestionHandler
func NewQuestionHandler(questions *services.QuestionService, answers *services.AnswerService, log *logrus.Entry) *QuestionHandler {
	return &QuestionHandler{questions: questions, answers: answers, log: log}
}

// ListQuestions returns the questions visible to the caller
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	questions, err := h.questions.List(c.Request.Context(), auth.CurrentActor(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	out := make([]models.QuestionResponse, 0, len(questions))
	for i := range questions {
		out = append(out, questions[i].ToResponse())
	}
	c.JSON(http.StatusOK, out)
}

// CreateQuestion adds a question
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req models.QuestionRequest
	if !bindJSON(c, &req) {
		return
	}

	question, err := h.questions.Create(c.Request.Context(), auth.CurrentActor(c), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, question.ToResponse())
}

// GetQuestion returns a single question
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	question, err := h.questions.Get(c.Request.Context(), auth.CurrentActor(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, question.ToResponse())
}

// UpdateQuestion handles PUT (full) and PATCH (partial) updates
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.QuestionRequest
	if !bindJSON(c, &req) {
		return
	}

	partial := c.Request.Method == http.MethodPatch
	question, err := h.questions.Update(c.Request.Context(), auth.CurrentActor(c), id, req, partial)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, question.ToResponse())
}

// DeleteQuestion removes a question
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.questions.Delete(c.Request.Context(), auth.CurrentActor(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListQuestionAnswers returns the answers of one question
func (h *QuestionHandler) ListQuestionAnswers(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	answers, err := h.answers.ListForQuestion(c.Request.Context(), auth.CurrentActor(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(answers))
}

// CreateQuestionAnswer adds an answer to a question
func (h *QuestionHandler) CreateQuestionAnswer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.AnswerRequest
	if !bindJSON(c, &req) {
		return
	}

	answer, err := h.answers.Create(c.Request.Context(), auth.CurrentActor(c), id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, answer)
}

// ListAnswers returns answers of every visible question
func (h *QuestionHandler) ListAnswers(c *gin.Context) {
	answers, err := h.answers.List(c.Request.Context(), auth.CurrentActor(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(answers))
}

// GetAnswer returns a single answer
func (h *QuestionHandler) GetAnswer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	answer, err := h.answers.Get(c.Request.Context(), auth.CurrentActor(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

// UpdateAnswer changes an answer's content
func (h *QuestionHandler) UpdateAnswer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.AnswerRequest
	if !bindJSON(c, &req) {
		return
	}

	answer, err := h.answers.Update(c.Request.Context(), auth.CurrentActor(c), id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

// DeleteAnswer removes an answer
func (h *QuestionHandler) DeleteAnswer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.answers.Delete(c.Request.Context(), auth.CurrentActor(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
