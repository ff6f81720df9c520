package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrDuplicateReply is returned when the (user, question) unique index
// rejects an insert
var ErrDuplicateReply = errors.New("reply already exists for user and question")

// Repository exposes one query function per access pattern
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn against a repository bound to a single transaction
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// IsNotFound reports whether err means the row does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
