package repository

import (
	"context"
	"time"

	"vox-populi/internal/models"

	"gorm.io/gorm"
)

func answersInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("answers.id ASC")
}

// ListQuestions returns questions newest first. A non-nil publishedBy
// hides questions published after that instant.
func (r *Repository) ListQuestions(ctx context.Context, publishedBy *time.Time) ([]models.Question, error) {
	query := r.db.WithContext(ctx).Preload("Answers", answersInOrder)
	if publishedBy != nil {
		query = query.Where("date_published <= ?", *publishedBy)
	}

	var questions []models.Question
	err := query.Order("date_published DESC").Order("id DESC").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// QuestionsConcludedBetween returns questions whose conclusion falls in
// (after, upTo], oldest conclusion first
func (r *Repository) QuestionsConcludedBetween(ctx context.Context, after, upTo time.Time) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.WithContext(ctx).
		Preload("Answers", answersInOrder).
		Where("date_concluded > ? AND date_concluded <= ?", after, upTo).
		Order("date_concluded ASC").Order("id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// GetQuestion retrieves a question with its answers
func (r *Repository) GetQuestion(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	err := r.db.WithContext(ctx).
		Preload("Answers", answersInOrder).
		Where("id = ?", id).
		First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// CreateQuestion inserts a question
func (r *Repository) CreateQuestion(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Omit("Answers").Create(question).Error
}

// UpdateQuestion persists content and dates of an existing question
func (r *Repository) UpdateQuestion(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).
		Model(question).
		Select("content", "date_published", "date_concluded", "updated_at").
		Updates(question).Error
}

// DeleteQuestion removes a question together with its replies and answers
func (r *Repository) DeleteQuestion(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Question{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ListAnswers returns answers in creation order. A non-nil publishedBy
// restricts the list to answers of published questions.
func (r *Repository) ListAnswers(ctx context.Context, publishedBy *time.Time) ([]models.Answer, error) {
	query := r.db.WithContext(ctx).Model(&models.Answer{})
	if publishedBy != nil {
		query = query.
			Joins("JOIN questions ON questions.id = answers.question_id").
			Where("questions.date_published <= ?", *publishedBy)
	}

	var answers []models.Answer
	if err := answersInOrder(query).Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

// AnswersForQuestions returns the answers of every listed question in
// creation order
func (r *Repository) AnswersForQuestions(ctx context.Context, questionIDs []uint) ([]models.Answer, error) {
	var answers []models.Answer
	if len(questionIDs) == 0 {
		return answers, nil
	}
	err := r.db.WithContext(ctx).
		Where("question_id IN ?", questionIDs).
		Order("id ASC").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}

// GetAnswer retrieves an answer by ID
func (r *Repository) GetAnswer(ctx context.Context, id uint) (*models.Answer, error) {
	var answer models.Answer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&answer).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

// CreateAnswer inserts an answer
func (r *Repository) CreateAnswer(ctx context.Context, answer *models.Answer) error {
	return r.db.WithContext(ctx).Create(answer).Error
}

// UpdateAnswer persists the content of an existing answer
func (r *Repository) UpdateAnswer(ctx context.Context, answer *models.Answer) error {
	return r.db.WithContext(ctx).Model(answer).Update("content", answer.Content).Error
}

// DeleteAnswer removes an answer and every reply that voted for or
// predicted it
func (r *Repository) DeleteAnswer(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("vote_id = ? OR prediction_id = ?", id, id).Delete(&models.Reply{}).Error
		if err != nil {
			return err
		}
		result := tx.Delete(&models.Answer{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
