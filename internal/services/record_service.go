package services

import (
	"context"
	"fmt"

	"vox-populi/internal/clock"
	"vox-populi/internal/models"
	"vox-populi/internal/repository"

	"github.com/shopspring/decimal"
)

// RecordService computes a user's prediction track record
type RecordService struct {
	repo  *repository.Repository
	clock clock.Clock
}

// NewRecordService creates a new RecordService
func NewRecordService(repo *repository.Repository, clk clock.Clock) *RecordService {
	return &RecordService{repo: repo, clock: clk}
}

// Record counts the actor's replies to concluded questions and how many of
// them predicted the winning answer. Only the caller's own record exists.
func (s *RecordService) Record(ctx context.Context, actor *Actor) (*models.UserRecord, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	replies, err := s.repo.ConcludedRepliesForUser(ctx, actor.UserID, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to load replies: %w", err)
	}

	questionIDs := make([]uint, 0, len(replies))
	for _, r := range replies {
		questionIDs = append(questionIDs, r.QuestionID)
	}

	answers, err := s.repo.AnswersForQuestions(ctx, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}
	counts, err := s.repo.VoteCounts(ctx, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}

	answersByQuestion := make(map[uint][]models.Answer)
	for _, a := range answers {
		answersByQuestion[a.QuestionID] = append(answersByQuestion[a.QuestionID], a)
	}
	votesByQuestion := make(map[uint]map[uint]int64)
	for _, c := range counts {
		if votesByQuestion[c.QuestionID] == nil {
			votesByQuestion[c.QuestionID] = make(map[uint]int64)
		}
		votesByQuestion[c.QuestionID][c.VoteID] = c.Votes
	}

	record := &models.UserRecord{ID: actor.UserID, TotalReplies: int64(len(replies))}
	for _, r := range replies {
		top, ok := TopAnswer(answersByQuestion[r.QuestionID], votesByQuestion[r.QuestionID])
		if ok && r.PredictionID == top {
			record.CorrectPredictions++
		}
	}
	record.Accuracy = Accuracy(record.CorrectPredictions, record.TotalReplies)

	return record, nil
}

// Accuracy is correct/total rounded to four places, zero when total is zero
func Accuracy(correct, total int64) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(correct).DivRound(decimal.NewFromInt(total), 4)
}
