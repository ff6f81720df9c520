package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vox-populi/internal/clock"
	"vox-populi/internal/models"
	"vox-populi/internal/repository"

	"github.com/sirupsen/logrus"
)

// AnswerService handles answer business logic
type AnswerService struct {
	repo  *repository.Repository
	clock clock.Clock
	log   *logrus.Entry
}

// NewAnswerService creates a new AnswerService
func NewAnswerService(repo *repository.Repository, clk clock.Clock, log *logrus.Entry) *AnswerService {
	return &AnswerService{repo: repo, clock: clk, log: log.WithField("component", "answers")}
}

// List returns answers of every question visible to actor
func (s *AnswerService) List(ctx context.Context, actor *Actor) ([]models.Answer, error) {
	var publishedBy *time.Time
	if !actor.staff() {
		now := s.clock.Now()
		publishedBy = &now
	}

	answers, err := s.repo.ListAnswers(ctx, publishedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	return answers, nil
}

// ListForQuestion returns the answers of one visible question
func (s *AnswerService) ListForQuestion(ctx context.Context, actor *Actor, questionID uint) ([]models.Answer, error) {
	question, err := visibleQuestion(ctx, s.repo, s.clock, actor, questionID)
	if err != nil {
		return nil, err
	}
	return question.Answers, nil
}

// Get returns an answer whose question is visible to actor
func (s *AnswerService) Get(ctx context.Context, actor *Actor, id uint) (*models.Answer, error) {
	answer, err := s.repo.GetAnswer(ctx, id)
	if err != nil {
		return nil, lookup(err, "answer")
	}
	if _, err := visibleQuestion(ctx, s.repo, s.clock, actor, answer.QuestionID); err != nil {
		return nil, err
	}
	return answer, nil
}

// Create adds an answer to a question
func (s *AnswerService) Create(ctx context.Context, actor *Actor, questionID uint, req models.AnswerRequest) (*models.Answer, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetQuestion(ctx, questionID); err != nil {
		return nil, lookup(err, "question")
	}

	content, err := answerContent(req)
	if err != nil {
		return nil, err
	}

	answer := &models.Answer{Content: content, QuestionID: questionID}
	if err := s.repo.CreateAnswer(ctx, answer); err != nil {
		return nil, fmt.Errorf("failed to create answer: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"question_id": questionID,
		"answer_id":   answer.ID,
	}).Info("answer created")
	return answer, nil
}

// Update replaces the content of an answer. Content is the only mutable
// field so full and partial updates behave the same.
func (s *AnswerService) Update(ctx context.Context, actor *Actor, id uint, req models.AnswerRequest) (*models.Answer, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	answer, err := s.repo.GetAnswer(ctx, id)
	if err != nil {
		return nil, lookup(err, "answer")
	}

	content, err := answerContent(req)
	if err != nil {
		return nil, err
	}
	answer.Content = content

	if err := s.repo.UpdateAnswer(ctx, answer); err != nil {
		return nil, fmt.Errorf("failed to update answer: %w", err)
	}
	return answer, nil
}

// Delete removes an answer and the replies that reference it
func (s *AnswerService) Delete(ctx context.Context, actor *Actor, id uint) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	if err := s.repo.DeleteAnswer(ctx, id); err != nil {
		return lookup(err, "answer")
	}
	return nil
}

func answerContent(req models.AnswerRequest) (string, error) {
	if req.Content == nil {
		return "", newValidationError(ReasonInvalidInput, "content: This field is required.")
	}
	content := strings.TrimSpace(*req.Content)
	if content == "" {
		return "", newValidationError(ReasonInvalidInput, "content: This field may not be blank.")
	}
	return content, nil
}
