package models

import (
	"time"
)

// Question is a poll question published by staff
type Question struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Content       string    `gorm:"size:128;not null" json:"content"`
	DatePublished time.Time `gorm:"not null;index" json:"date_published"`
	DateConcluded time.Time `gorm:"not null;index" json:"date_concluded"`
	Answers       []Answer  `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

// TableName specifies the table name for Question model
func (Question) TableName() string {
	return "questions"
}

// IsPublished reports whether the question is visible to non-staff at now
func (q *Question) IsPublished(now time.Time) bool {
	return !now.Before(q.DatePublished)
}

// IsConcluded reports whether replies are locked and results visible at now
func (q *Question) IsConcluded(now time.Time) bool {
	return !now.Before(q.DateConcluded)
}

// AnswerIDs returns the ids of the loaded answers in order
func (q *Question) AnswerIDs() []uint {
	ids := make([]uint, 0, len(q.Answers))
	for _, a := range q.Answers {
		ids = append(ids, a.ID)
	}
	return ids
}

// Answer is one candidate response to a Question
type Answer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Content    string    `gorm:"size:64;not null" json:"content"`
	QuestionID uint      `gorm:"not null;index" json:"question"`
	CreatedAt  time.Time `json:"-"`
}

// TableName specifies the table name for Answer model
func (Answer) TableName() string {
	return "answers"
}

// QuestionResponse is the API representation of a Question
type QuestionResponse struct {
	ID            uint      `json:"id"`
	Content       string    `json:"content"`
	DatePublished time.Time `json:"date_published"`
	DateConcluded time.Time `json:"date_concluded"`
	Answers       []uint    `json:"answers"`
}

// ToResponse converts a Question with loaded answers to its API form
func (q *Question) ToResponse() QuestionResponse {
	return QuestionResponse{
		ID:            q.ID,
		Content:       q.Content,
		DatePublished: q.DatePublished,
		DateConcluded: q.DateConcluded,
		Answers:       q.AnswerIDs(),
	}
}

// QuestionRequest is the body of question create/update calls. Fields are
// pointers so PATCH can tell "absent" from "zero".
type QuestionRequest struct {
	Content       *string    `json:"content" binding:"omitempty,min=1,max=128"`
	DatePublished *time.Time `json:"date_published"`
	DateConcluded *time.Time `json:"date_concluded"`
}

// AnswerRequest is the body of answer create/update calls
type AnswerRequest struct {
	Content *string `json:"content" binding:"omitempty,min=1,max=64"`
}
