package services

import (
	"context"
	"fmt"

	"vox-populi/internal/clock"
	"vox-populi/internal/models"
	"vox-populi/internal/repository"
)

// concludedQuestion loads a question whose outcome the actor may see.
// Staff see every question; everyone else only concluded ones, and a
// question that is still open looks exactly like a missing one.
func concludedQuestion(ctx context.Context, repo *repository.Repository, clk clock.Clock, actor *Actor, id uint) (*models.Question, error) {
	question, err := repo.GetQuestion(ctx, id)
	if err != nil {
		return nil, lookup(err, "question")
	}
	if actor.staff() {
		return question, nil
	}

	now := clk.Now()
	if !question.IsPublished(now) || !question.IsConcluded(now) {
		return nil, ErrNotFound
	}
	return question, nil
}

// ResultsService aggregates replies into per-question results
type ResultsService struct {
	repo  *repository.Repository
	clock clock.Clock
}

// NewResultsService creates a new ResultsService
func NewResultsService(repo *repository.Repository, clk clock.Clock) *ResultsService {
	return &ResultsService{repo: repo, clock: clk}
}

// Results tallies a question's replies. Counts are recomputed on every
// call.
func (s *ResultsService) Results(ctx context.Context, actor *Actor, questionID uint) (*models.QuestionResults, error) {
	question, err := concludedQuestion(ctx, s.repo, s.clock, actor, questionID)
	if err != nil {
		return nil, err
	}

	return s.Outcome(ctx, question)
}

// Outcome tallies an already loaded question without visibility checks.
// Background jobs use it once a question has concluded.
func (s *ResultsService) Outcome(ctx context.Context, question *models.Question) (*models.QuestionResults, error) {
	rows, err := s.repo.TallyRows(ctx, question.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load replies: %w", err)
	}

	results := Tally(question.ID, question.Answers, rows)
	return &results, nil
}

// Winner picks the top answer from tallied results
func Winner(answers []models.Answer, results *models.QuestionResults) (uint, bool) {
	votes := make(map[uint]int64, len(results.Results))
	for _, r := range results.Results {
		votes[r.Answer] = int64(r.Votes)
	}
	return TopAnswer(answers, votes)
}
