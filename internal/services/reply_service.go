package services

import (
	"context"
	"errors"
	"fmt"

	"vox-populi/internal/clock"
	"vox-populi/internal/metrics"
	"vox-populi/internal/models"
	"vox-populi/internal/repository"

	"github.com/sirupsen/logrus"
)

// ReplyService handles reply business logic
type ReplyService struct {
	repo      *repository.Repository
	validator *ReplyValidator
	clock     clock.Clock
	metrics   *metrics.Metrics
	log       *logrus.Entry
}

// NewReplyService creates a new ReplyService
func NewReplyService(repo *repository.Repository, clk clock.Clock, m *metrics.Metrics, log *logrus.Entry) *ReplyService {
	return &ReplyService{
		repo:      repo,
		validator: NewReplyValidator(clk),
		clock:     clk,
		metrics:   m,
		log:       log.WithField("component", "replies"),
	}
}

// GetForQuestion returns the actor's reply to a question
func (s *ReplyService) GetForQuestion(ctx context.Context, actor *Actor, questionID uint) (*models.Reply, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if _, err := visibleQuestion(ctx, s.repo, s.clock, actor, questionID); err != nil {
		return nil, err
	}

	reply, err := s.repo.ReplyFor(ctx, actor.UserID, questionID)
	if err != nil {
		return nil, lookup(err, "reply")
	}
	return reply, nil
}

// Create records the actor's reply to a question. The existence check and
// insert share a transaction; the unique index settles concurrent races.
func (s *ReplyService) Create(ctx context.Context, actor *Actor, questionID uint, req models.ReplyRequest) (*models.Reply, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var reply *models.Reply
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		question, err := visibleQuestion(ctx, tx, s.clock, actor, questionID)
		if err != nil {
			return err
		}

		exists, err := tx.ReplyExists(ctx, actor.UserID, questionID)
		if err != nil {
			return fmt.Errorf("failed to check existing reply: %w", err)
		}

		candidate := ReplyCandidate{VoteID: req.Vote, PredictionID: req.Prediction}
		if !exists {
			if err := requireFullReply(candidate); err != nil {
				return err
			}
		}
		if err := s.validator.Validate(MethodCreate, candidate, question, exists); err != nil {
			return err
		}

		reply = &models.Reply{
			UserID:       actor.UserID,
			QuestionID:   questionID,
			VoteID:       *candidate.VoteID,
			PredictionID: *candidate.PredictionID,
		}
		if err := tx.CreateReply(ctx, reply); err != nil {
			if errors.Is(err, repository.ErrDuplicateReply) {
				return newValidationError(ReasonDuplicate, "Users may submit only one reply per question.")
			}
			return fmt.Errorf("failed to create reply: %w", err)
		}
		return nil
	})
	if err != nil {
		s.observeRejection(err)
		return nil, err
	}

	s.metrics.IncReplyCreated()
	s.log.WithFields(logrus.Fields{
		"reply_id":    reply.ID,
		"question_id": questionID,
		"user_id":     actor.UserID,
	}).Info("reply created")
	return reply, nil
}

// UpdateForQuestion changes the actor's reply to a question. A full update
// requires both vote and prediction.
func (s *ReplyService) UpdateForQuestion(ctx context.Context, actor *Actor, questionID uint, req models.ReplyRequest, partial bool) (*models.Reply, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	question, err := visibleQuestion(ctx, s.repo, s.clock, actor, questionID)
	if err != nil {
		return nil, err
	}
	reply, err := s.repo.ReplyFor(ctx, actor.UserID, questionID)
	if err != nil {
		return nil, lookup(err, "reply")
	}

	return s.update(ctx, question, reply, req, partial)
}

// DeleteForQuestion removes the actor's reply to a question
func (s *ReplyService) DeleteForQuestion(ctx context.Context, actor *Actor, questionID uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	question, err := visibleQuestion(ctx, s.repo, s.clock, actor, questionID)
	if err != nil {
		return err
	}
	reply, err := s.repo.ReplyFor(ctx, actor.UserID, questionID)
	if err != nil {
		return lookup(err, "reply")
	}

	return s.delete(ctx, question, reply)
}

// ListMine returns the actor's replies
func (s *ReplyService) ListMine(ctx context.Context, actor *Actor) ([]models.Reply, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	replies, err := s.repo.RepliesForUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	return replies, nil
}

// ListForQuestion returns every reply to a question. Non-staff see them
// only once the question has concluded.
func (s *ReplyService) ListForQuestion(ctx context.Context, actor *Actor, questionID uint) ([]models.Reply, error) {
	if _, err := concludedQuestion(ctx, s.repo, s.clock, actor, questionID); err != nil {
		return nil, err
	}
	replies, err := s.repo.RepliesForQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	return replies, nil
}

// Get returns any reply by ID to an authenticated actor
func (s *ReplyService) Get(ctx context.Context, actor *Actor, id uint) (*models.Reply, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	reply, err := s.repo.GetReply(ctx, id)
	if err != nil {
		return nil, lookup(err, "reply")
	}
	return reply, nil
}

// Update changes a reply by ID. Only its owner may write to it.
func (s *ReplyService) Update(ctx context.Context, actor *Actor, id uint, req models.ReplyRequest, partial bool) (*models.Reply, error) {
	reply, question, err := s.ownedReply(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, question, reply, req, partial)
}

// Delete removes a reply by ID. Only its owner may delete it.
func (s *ReplyService) Delete(ctx context.Context, actor *Actor, id uint) error {
	reply, question, err := s.ownedReply(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.delete(ctx, question, reply)
}

func (s *ReplyService) ownedReply(ctx context.Context, actor *Actor, id uint) (*models.Reply, *models.Question, error) {
	reply, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	if reply.UserID != actor.UserID {
		return nil, nil, ErrForbidden
	}

	question, err := s.repo.GetQuestion(ctx, reply.QuestionID)
	if err != nil {
		return nil, nil, lookup(err, "question")
	}
	return reply, question, nil
}

func (s *ReplyService) update(ctx context.Context, question *models.Question, reply *models.Reply, req models.ReplyRequest, partial bool) (*models.Reply, error) {
	candidate := ReplyCandidate{VoteID: req.Vote, PredictionID: req.Prediction}
	if !partial {
		if err := requireFullReply(candidate); err != nil {
			s.observeRejection(err)
			return nil, err
		}
	}

	if err := s.validator.Validate(MethodUpdate, candidate, question, true); err != nil {
		s.observeRejection(err)
		return nil, err
	}

	if candidate.VoteID != nil {
		reply.VoteID = *candidate.VoteID
	}
	if candidate.PredictionID != nil {
		reply.PredictionID = *candidate.PredictionID
	}

	if err := s.repo.UpdateReply(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to update reply: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"reply_id":    reply.ID,
		"question_id": reply.QuestionID,
	}).Info("reply updated")
	return reply, nil
}

func (s *ReplyService) delete(ctx context.Context, question *models.Question, reply *models.Reply) error {
	if err := s.validator.Validate(MethodDelete, ReplyCandidate{}, question, true); err != nil {
		s.observeRejection(err)
		return err
	}

	if err := s.repo.DeleteReply(ctx, reply.ID); err != nil {
		return lookup(err, "reply")
	}

	s.log.WithFields(logrus.Fields{
		"reply_id":    reply.ID,
		"question_id": reply.QuestionID,
	}).Info("reply deleted")
	return nil
}

func (s *ReplyService) observeRejection(err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		s.metrics.IncReplyRejected(ve.Reason)
	}
}

func requireFullReply(candidate ReplyCandidate) error {
	if candidate.VoteID == nil {
		return newValidationError(ReasonInvalidInput, "vote: This field is required.")
	}
	if candidate.PredictionID == nil {
		return newValidationError(ReasonInvalidInput, "prediction: This field is required.")
	}
	return nil
}
