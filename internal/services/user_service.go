package services

import (
	"context"
	"fmt"

	"vox-populi/internal/models"
	"vox-populi/internal/repository"
	"vox-populi/internal/utils"

	"github.com/sirupsen/logrus"
)

// UserService handles user provisioning and profiles
type UserService struct {
	repo *repository.Repository
	log  *logrus.Entry
}

// NewUserService creates a new UserService
func NewUserService(repo *repository.Repository, log *logrus.Entry) *UserService {
	return &UserService{repo: repo, log: log.WithField("component", "users")}
}

// Provision makes sure the actor has a user row and a profile. Username and
// staff flag follow the latest identity claims; a token without a username
// gets a generated one on first sight and keeps the stored one afterwards.
func (s *UserService) Provision(ctx context.Context, actor *Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	username := actor.Username
	if username == "" {
		generated, err := utils.GenerateUsername()
		if err != nil {
			return fmt.Errorf("failed to generate username: %w", err)
		}
		username = generated
	}

	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		user := &models.User{ID: actor.UserID, Username: username, IsStaff: actor.IsStaff}
		if err := tx.UpsertUser(ctx, user, actor.Username != ""); err != nil {
			return fmt.Errorf("failed to provision user: %w", err)
		}
		if err := tx.EnsureProfile(ctx, actor.UserID); err != nil {
			return fmt.Errorf("failed to provision profile: %w", err)
		}
		return nil
	})
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, lookup(err, "user")
	}
	return user, nil
}

// GetProfile returns the actor's profile
func (s *UserService) GetProfile(ctx context.Context, actor *Actor) (*models.Profile, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	profile, err := s.repo.GetProfile(ctx, actor.UserID)
	if err != nil {
		return nil, lookup(err, "profile")
	}
	return profile, nil
}

// UpdateLocation sets the actor's location. The empty string clears it.
func (s *UserService) UpdateLocation(ctx context.Context, actor *Actor, location string) (*models.Profile, error) {
	profile, err := s.GetProfile(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !models.IsValidLocation(location) {
		return nil, newValidationError(ReasonInvalidInput, "location: %q is not a valid choice.", location)
	}

	profile.Location = location
	if err := s.repo.UpdateProfileLocation(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.log.WithField("user_id", actor.UserID).Info("profile updated")
	return profile, nil
}
