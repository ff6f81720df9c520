package repository

import (
	"context"

	"vox-populi/internal/models"

	"gorm.io/gorm/clause"
)

// UpsertUser creates the user or refreshes the staff flag from the latest
// identity claims. The username is only overwritten when refreshUsername is set.
func (r *Repository) UpsertUser(ctx context.Context, user *models.User, refreshUsername bool) error {
	columns := []string{"is_staff", "updated_at"}
	if refreshUsername {
		columns = append(columns, "username")
	}
	return r.db.WithContext(ctx).
		Omit("Profile").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(user).Error
}

// EnsureProfile creates an empty profile for the user if none exists
func (r *Repository) EnsureProfile(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&models.Profile{UserID: userID}).Error
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProfile retrieves a user's profile
func (r *Repository) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfileLocation sets the location on a user's profile
func (r *Repository) UpdateProfileLocation(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).
		Model(profile).
		Select("location", "updated_at").
		Updates(profile).Error
}
