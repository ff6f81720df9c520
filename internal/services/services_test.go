package services

import (
	"context"
	"testing"
	"time"

	"vox-populi/internal/clock"
	"vox-populi/internal/database"
	"vox-populi/internal/logger"
	"vox-populi/internal/models"
	"vox-populi/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

var (
	staff  = &Actor{UserID: 100, Username: "staff", IsStaff: true}
	alice  = &Actor{UserID: 1, Username: "alice"}
	bob    = &Actor{UserID: 2, Username: "bob"}
	nobody *Actor
)

func newTestRepo(t *testing.T) *repository.Repository {
	t.Helper()
	db, err := database.OpenInMemory(uuid.NewString(), logger.Discard())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	return repository.NewRepository(db)
}

func fixedAt(at time.Time) clock.Clock {
	return clock.Fixed(at)
}

func createUser(t *testing.T, repo *repository.Repository, id uint, location string) {
	t.Helper()
	users := NewUserService(repo, logger.Discard())
	actor := &Actor{UserID: id, Username: "user"}
	require.NoError(t, users.Provision(context.Background(), actor))
	if location != "" {
		_, err := users.UpdateLocation(context.Background(), actor, location)
		require.NoError(t, err)
	}
}

func createQuestion(t *testing.T, repo *repository.Repository, published, concluded time.Time, answers ...string) *models.Question {
	t.Helper()
	ctx := context.Background()
	q := &models.Question{Content: "Who will win?", DatePublished: published, DateConcluded: concluded}
	require.NoError(t, repo.CreateQuestion(ctx, q))
	for _, content := range answers {
		require.NoError(t, repo.CreateAnswer(ctx, &models.Answer{Content: content, QuestionID: q.ID}))
	}
	loaded, err := repo.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	return loaded
}

func castReply(t *testing.T, repo *repository.Repository, userID uint, q *models.Question, vote, prediction int) {
	t.Helper()
	require.NoError(t, repo.CreateReply(context.Background(), &models.Reply{
		UserID:       userID,
		QuestionID:   q.ID,
		VoteID:       q.Answers[vote].ID,
		PredictionID: q.Answers[prediction].ID,
	}))
}

func ptr(v uint) *uint {
	return &v
}
