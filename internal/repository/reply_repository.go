package repository

import (
	"context"
	"errors"
	"time"

	"vox-populi/internal/models"

	"gorm.io/gorm"
)

// ReplyFor retrieves the reply a user cast on a question
func (r *Repository) ReplyFor(ctx context.Context, userID, questionID uint) (*models.Reply, error) {
	var reply models.Reply
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		First(&reply).Error
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// ReplyExists reports whether a user already replied to a question
func (r *Repository) ReplyExists(ctx context.Context, userID, questionID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reply{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Count(&count).Error
	return count > 0, err
}

// GetReply retrieves a reply by ID
func (r *Repository) GetReply(ctx context.Context, id uint) (*models.Reply, error) {
	var reply models.Reply
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&reply).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

// RepliesForUser lists a user's replies in creation order
func (r *Repository) RepliesForUser(ctx context.Context, userID uint) ([]models.Reply, error) {
	var replies []models.Reply
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}
	return replies, nil
}

// RepliesForQuestion lists every reply to a question in creation order
func (r *Repository) RepliesForQuestion(ctx context.Context, questionID uint) ([]models.Reply, error) {
	var replies []models.Reply
	err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("id ASC").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}
	return replies, nil
}

// ConcludedRepliesForUser lists a user's replies to questions that
// concluded at or before now
func (r *Repository) ConcludedRepliesForUser(ctx context.Context, userID uint, now time.Time) ([]models.Reply, error) {
	var replies []models.Reply
	err := r.db.WithContext(ctx).
		Joins("JOIN questions ON questions.id = replies.question_id").
		Where("replies.user_id = ? AND questions.date_concluded <= ?", userID, now).
		Order("replies.id ASC").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}
	return replies, nil
}

// TallyRows projects the replies to a question with the voter's location,
// in creation order. Voters without a profile get an empty location.
func (r *Repository) TallyRows(ctx context.Context, questionID uint) ([]models.ReplyTally, error) {
	var rows []models.ReplyTally
	err := r.db.WithContext(ctx).
		Table("replies").
		Select("replies.id, replies.vote_id, replies.prediction_id, COALESCE(profiles.location, '') AS location").
		Joins("LEFT JOIN profiles ON profiles.user_id = replies.user_id").
		Where("replies.question_id = ?", questionID).
		Order("replies.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// VoteCount is the number of votes one answer received
type VoteCount struct {
	QuestionID uint
	VoteID     uint
	Votes      int64
}

// VoteCounts groups the votes of the listed questions by answer
func (r *Repository) VoteCounts(ctx context.Context, questionIDs []uint) ([]VoteCount, error) {
	var counts []VoteCount
	if len(questionIDs) == 0 {
		return counts, nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.Reply{}).
		Select("question_id, vote_id, COUNT(*) AS votes").
		Where("question_id IN ?", questionIDs).
		Group("question_id, vote_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// CreateReply inserts a reply. A unique index violation is reported as
// ErrDuplicateReply.
func (r *Repository) CreateReply(ctx context.Context, reply *models.Reply) error {
	err := r.db.WithContext(ctx).Omit("User", "Question", "Vote", "Prediction").Create(reply).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateReply
	}
	return err
}

// UpdateReply persists the vote and prediction of an existing reply
func (r *Repository) UpdateReply(ctx context.Context, reply *models.Reply) error {
	return r.db.WithContext(ctx).
		Model(reply).
		Select("vote_id", "prediction_id", "updated_at").
		Updates(reply).Error
}

// DeleteReply removes a reply by ID
func (r *Repository) DeleteReply(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Reply{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
