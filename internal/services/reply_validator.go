package services

import (
	"vox-populi/internal/clock"
	"vox-populi/internal/models"
)

// Method is the kind of access being made to a reply
type Method int

const (
	MethodRead Method = iota
	MethodCreate
	MethodUpdate
	MethodDelete
)

// ReadOnly reports whether the method leaves the reply untouched
func (m Method) ReadOnly() bool {
	return m == MethodRead
}

// Locked reports whether the method is refused once the question concludes
func (m Method) Locked() bool {
	return !m.ReadOnly() && m != MethodDelete
}

func (m Method) String() string {
	switch m {
	case MethodCreate:
		return "create"
	case MethodUpdate:
		return "update"
	case MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

// ReplyCandidate is a reply with proposed changes merged in. Nil fields
// were not supplied and are not checked.
type ReplyCandidate struct {
	VoteID       *uint
	PredictionID *uint
}

// ReplyValidator enforces the rules a reply write must pass
type ReplyValidator struct {
	clock clock.Clock
}

// NewReplyValidator creates a validator reading time from clk
func NewReplyValidator(clk clock.Clock) *ReplyValidator {
	return &ReplyValidator{clock: clk}
}

// Validate checks a write against question, whose answers must be loaded.
// alreadyReplied tells whether the actor holds a reply to question.
// Checks run in a fixed order and the first failure is returned.
func (v *ReplyValidator) Validate(method Method, candidate ReplyCandidate, question *models.Question, alreadyReplied bool) error {
	if method == MethodCreate && alreadyReplied {
		return newValidationError(ReasonDuplicate, "Users may submit only one reply per question.")
	}

	answerIDs := question.AnswerIDs()

	if candidate.VoteID != nil && !containsID(answerIDs, *candidate.VoteID) {
		return newValidationError(ReasonInvalidVote,
			"Invalid vote. Choose one of the following: %s.", formatIDs(answerIDs))
	}

	if candidate.PredictionID != nil && !containsID(answerIDs, *candidate.PredictionID) {
		return newValidationError(ReasonInvalidPrediction,
			"Invalid prediction. Choose one of the following: %s.", formatIDs(answerIDs))
	}

	// Deleting a reply stays allowed after conclusion.
	if method.Locked() && question.IsConcluded(v.clock.Now()) {
		return newValidationError(ReasonConcluded,
			"This question has concluded; replies may not be created or modified.")
	}

	return nil
}

func containsID(ids []uint, id uint) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
