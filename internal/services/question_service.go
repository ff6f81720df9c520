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

// Actor is the verified caller of an operation. A nil *Actor is anonymous.
type Actor struct {
	UserID   uint
	Username string
	IsStaff  bool
}

func (a *Actor) staff() bool {
	return a != nil && a.IsStaff
}

func requireActor(a *Actor) error {
	if a == nil {
		return ErrUnauthenticated
	}
	return nil
}

func requireStaff(a *Actor) error {
	if err := requireActor(a); err != nil {
		return err
	}
	if !a.IsStaff {
		return ErrForbidden
	}
	return nil
}

// lookup maps a repository miss to ErrNotFound
func lookup(err error, what string) error {
	if repository.IsNotFound(err) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

// visibleQuestion loads a question the actor may see. Unpublished
// questions are hidden from everyone but staff.
func visibleQuestion(ctx context.Context, repo *repository.Repository, clk clock.Clock, actor *Actor, id uint) (*models.Question, error) {
	question, err := repo.GetQuestion(ctx, id)
	if err != nil {
		return nil, lookup(err, "question")
	}
	if !actor.staff() && !question.IsPublished(clk.Now()) {
		return nil, ErrNotFound
	}
	return question, nil
}

// QuestionService handles question business logic
type QuestionService struct {
	repo  *repository.Repository
	clock clock.Clock
	log   *logrus.Entry
}

// NewQuestionService creates a new QuestionService
func NewQuestionService(repo *repository.Repository, clk clock.Clock, log *logrus.Entry) *QuestionService {
	return &QuestionService{repo: repo, clock: clk, log: log.WithField("component", "questions")}
}

// List returns the questions visible to actor
func (s *QuestionService) List(ctx context.Context, actor *Actor) ([]models.Question, error) {
	var publishedBy *time.Time
	if !actor.staff() {
		now := s.clock.Now()
		publishedBy = &now
	}

	questions, err := s.repo.ListQuestions(ctx, publishedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

// Get returns a single question visible to actor
func (s *QuestionService) Get(ctx context.Context, actor *Actor, id uint) (*models.Question, error) {
	return visibleQuestion(ctx, s.repo, s.clock, actor, id)
}

// Create adds a question. date_published defaults to now.
func (s *QuestionService) Create(ctx context.Context, actor *Actor, req models.QuestionRequest) (*models.Question, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	question := &models.Question{DatePublished: s.clock.Now()}
	if err := applyQuestionRequest(question, req, true); err != nil {
		return nil, err
	}

	if err := s.repo.CreateQuestion(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"question_id": question.ID,
		"user_id":     actor.UserID,
	}).Info("question created")
	return question, nil
}

// Update changes a question. A full update requires content and
// date_concluded; a partial one only touches supplied fields.
func (s *QuestionService) Update(ctx context.Context, actor *Actor, id uint, req models.QuestionRequest, partial bool) (*models.Question, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	question, err := s.repo.GetQuestion(ctx, id)
	if err != nil {
		return nil, lookup(err, "question")
	}

	if err := applyQuestionRequest(question, req, !partial); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateQuestion(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	return question, nil
}

// Delete removes a question with its answers and replies
func (s *QuestionService) Delete(ctx context.Context, actor *Actor, id uint) error {
	if err := requireStaff(actor); err != nil {
		return err
	}

	if err := s.repo.DeleteQuestion(ctx, id); err != nil {
		return lookup(err, "question")
	}

	s.log.WithFields(logrus.Fields{
		"question_id": id,
		"user_id":     actor.UserID,
	}).Info("question deleted")
	return nil
}

func applyQuestionRequest(q *models.Question, req models.QuestionRequest, full bool) error {
	if full {
		if req.Content == nil {
			return newValidationError(ReasonInvalidInput, "content: This field is required.")
		}
		if req.DateConcluded == nil {
			return newValidationError(ReasonInvalidInput, "date_concluded: This field is required.")
		}
	}

	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			return newValidationError(ReasonInvalidInput, "content: This field may not be blank.")
		}
		q.Content = content
	}
	if req.DatePublished != nil {
		q.DatePublished = req.DatePublished.UTC()
	}
	if req.DateConcluded != nil {
		q.DateConcluded = req.DateConcluded.UTC()
	}

	if !q.DateConcluded.After(q.DatePublished) {
		return newValidationError(ReasonInvalidInput, "date_concluded: Must be after date_published.")
	}
	return nil
}
