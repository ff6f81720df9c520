package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reply is one user's vote and prediction on a question. A user holds at
// most one reply per question.
type Reply struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_reply_user_question" json:"user"`
	QuestionID   uint      `gorm:"not null;uniqueIndex:idx_reply_user_question;index" json:"question"`
	VoteID       uint      `gorm:"not null;index" json:"vote"`
	PredictionID uint      `gorm:"not null;index" json:"prediction"`
	User         *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Question     *Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	Vote         *Answer   `gorm:"foreignKey:VoteID;constraint:OnDelete:CASCADE" json:"-"`
	Prediction   *Answer   `gorm:"foreignKey:PredictionID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for Reply model
func (Reply) TableName() string {
	return "replies"
}

// ReplyRequest carries a reply body. Owner and question come from the
// caller identity and the route, never from the body.
type ReplyRequest struct {
	Vote       *uint `json:"vote"`
	Prediction *uint `json:"prediction"`
}

// AnswerResult holds the counts for one answer of a question
type AnswerResult struct {
	Answer      uint `json:"answer"`
	Votes       int  `json:"votes"`
	Predictions int  `json:"predictions"`
}

// LocationResult holds the number of votes an answer received from one
// location bucket
type LocationResult struct {
	Vote     uint   `json:"vote"`
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// QuestionResults is the aggregate view of a concluded question
type QuestionResults struct {
	ID              uint             `json:"id"`
	Results         []AnswerResult   `json:"results"`
	LocationResults []LocationResult `json:"location_results"`
}

// ReplyTally is the projection of a reply used for aggregation
type ReplyTally struct {
	ID           uint
	VoteID       uint
	PredictionID uint
	Location     string
}

// UserRecord summarises a user's prediction track record
type UserRecord struct {
	ID                 uint            `json:"id"`
	TotalReplies       int64           `json:"total_replies"`
	CorrectPredictions int64           `json:"correct_predictions"`
	Accuracy           decimal.Decimal `json:"accuracy"`
}
