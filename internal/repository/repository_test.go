package repository

import (
	"context"
	"testing"
	"time"

	"vox-populi/internal/database"
	"vox-populi/internal/logger"
	"vox-populi/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func setupTestRepo(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	db, err := database.OpenInMemory(uuid.NewString(), logger.Discard())
	require.NoError(t, err)
	return NewRepository(db), db
}

func seedUser(t *testing.T, repo *Repository, id uint, location string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.UpsertUser(ctx, &models.User{ID: id, Username: "user"}, true))
	require.NoError(t, repo.EnsureProfile(ctx, id))
	if location != "" {
		require.NoError(t, repo.UpdateProfileLocation(ctx, &models.Profile{UserID: id, Location: location}))
	}
}

func seedQuestion(t *testing.T, repo *Repository, published, concluded time.Time, answers ...string) *models.Question {
	t.Helper()
	ctx := context.Background()
	q := &models.Question{Content: "Which?", DatePublished: published, DateConcluded: concluded}
	require.NoError(t, repo.CreateQuestion(ctx, q))
	for _, content := range answers {
		require.NoError(t, repo.CreateAnswer(ctx, &models.Answer{Content: content, QuestionID: q.ID}))
	}
	loaded, err := repo.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	return loaded
}

func TestGetQuestionLoadsAnswersInOrder(t *testing.T) {
	repo, _ := setupTestRepo(t)
	q := seedQuestion(t, repo, base, base.Add(time.Hour), "yes", "no", "maybe")

	require.Len(t, q.Answers, 3)
	assert.Equal(t, "yes", q.Answers[0].Content)
	assert.Equal(t, "maybe", q.Answers[2].Content)
	assert.True(t, q.Answers[0].ID < q.Answers[1].ID)
}

func TestListQuestionsHidesUnpublished(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()
	seedQuestion(t, repo, base.Add(-time.Hour), base.Add(time.Hour), "a")
	seedQuestion(t, repo, base.Add(time.Hour), base.Add(2*time.Hour), "b")

	all, err := repo.ListQuestions(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	visible, err := repo.ListQuestions(ctx, &base)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, []uint{visible[0].Answers[0].ID}, visible[0].AnswerIDs())

	answers, err := repo.ListAnswers(ctx, &base)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "a", answers[0].Content)
}

func TestCreateReplyRejectsDuplicate(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()
	seedUser(t, repo, 1, "")
	q := seedQuestion(t, repo, base, base.Add(time.Hour), "a", "b")

	first := &models.Reply{UserID: 1, QuestionID: q.ID, VoteID: q.Answers[0].ID, PredictionID: q.Answers[1].ID}
	require.NoError(t, repo.CreateReply(ctx, first))

	second := &models.Reply{UserID: 1, QuestionID: q.ID, VoteID: q.Answers[1].ID, PredictionID: q.Answers[1].ID}
	assert.ErrorIs(t, repo.CreateReply(ctx, second), ErrDuplicateReply)

	exists, err := repo.ReplyExists(ctx, 1, q.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreateReplyTranslatesPostgresUniqueViolation(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Gorm(logger.Discard()),
	})
	require.NoError(t, err)

	mock.ExpectQuery(`INSERT INTO "replies"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	repo := NewRepository(db)
	err = repo.CreateReply(context.Background(), &models.Reply{UserID: 1, QuestionID: 2, VoteID: 3, PredictionID: 4})
	assert.ErrorIs(t, err, ErrDuplicateReply)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTallyRowsDefaultsMissingLocation(t *testing.T) {
	repo, db := setupTestRepo(t)
	ctx := context.Background()
	seedUser(t, repo, 1, "florida")
	seedUser(t, repo, 2, "")
	seedUser(t, repo, 3, "")
	require.NoError(t, db.Where("user_id = ?", 3).Delete(&models.Profile{}).Error)
	q := seedQuestion(t, repo, base, base.Add(time.Hour), "a", "b")

	for _, uid := range []uint{1, 2, 3} {
		require.NoError(t, repo.CreateReply(ctx, &models.Reply{
			UserID: uid, QuestionID: q.ID, VoteID: q.Answers[0].ID, PredictionID: q.Answers[1].ID,
		}))
	}

	rows, err := repo.TallyRows(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "florida", rows[0].Location)
	assert.Equal(t, "", rows[1].Location)
	assert.Equal(t, "", rows[2].Location)
	assert.Equal(t, q.Answers[0].ID, rows[2].VoteID)
	assert.Equal(t, q.Answers[1].ID, rows[2].PredictionID)
}

func TestVoteCountsAndConcludedReplies(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()
	seedUser(t, repo, 1, "")
	seedUser(t, repo, 2, "")
	closed := seedQuestion(t, repo, base.Add(-2*time.Hour), base.Add(-time.Hour), "a", "b")
	open := seedQuestion(t, repo, base.Add(-2*time.Hour), base.Add(time.Hour), "c", "d")

	for _, uid := range []uint{1, 2} {
		require.NoError(t, repo.CreateReply(ctx, &models.Reply{
			UserID: uid, QuestionID: closed.ID, VoteID: closed.Answers[1].ID, PredictionID: closed.Answers[1].ID,
		}))
	}
	require.NoError(t, repo.CreateReply(ctx, &models.Reply{
		UserID: 1, QuestionID: open.ID, VoteID: open.Answers[0].ID, PredictionID: open.Answers[0].ID,
	}))

	replies, err := repo.ConcludedRepliesForUser(ctx, 1, base)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, closed.ID, replies[0].QuestionID)

	counts, err := repo.VoteCounts(ctx, []uint{closed.ID})
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, VoteCount{QuestionID: closed.ID, VoteID: closed.Answers[1].ID, Votes: 2}, counts[0])
}

func TestDeleteQuestionCascades(t *testing.T) {
	repo, db := setupTestRepo(t)
	ctx := context.Background()
	seedUser(t, repo, 1, "")
	q := seedQuestion(t, repo, base, base.Add(time.Hour), "a", "b")
	require.NoError(t, repo.CreateReply(ctx, &models.Reply{
		UserID: 1, QuestionID: q.ID, VoteID: q.Answers[0].ID, PredictionID: q.Answers[0].ID,
	}))

	require.NoError(t, repo.DeleteQuestion(ctx, q.ID))

	var answers, replies int64
	db.Model(&models.Answer{}).Count(&answers)
	db.Model(&models.Reply{}).Count(&replies)
	assert.Zero(t, answers)
	assert.Zero(t, replies)

	assert.True(t, IsNotFound(repo.DeleteQuestion(ctx, q.ID)))
}

func TestDeleteAnswerRemovesReferencingReplies(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()
	seedUser(t, repo, 1, "")
	seedUser(t, repo, 2, "")
	q := seedQuestion(t, repo, base, base.Add(time.Hour), "a", "b")
	require.NoError(t, repo.CreateReply(ctx, &models.Reply{
		UserID: 1, QuestionID: q.ID, VoteID: q.Answers[1].ID, PredictionID: q.Answers[0].ID,
	}))
	require.NoError(t, repo.CreateReply(ctx, &models.Reply{
		UserID: 2, QuestionID: q.ID, VoteID: q.Answers[1].ID, PredictionID: q.Answers[1].ID,
	}))

	require.NoError(t, repo.DeleteAnswer(ctx, q.Answers[0].ID))

	replies, err := repo.RepliesForQuestion(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, uint(2), replies[0].UserID)
}

func TestUpsertUserRefreshesClaims(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.UpsertUser(ctx, &models.User{ID: 9, Username: "ada"}, true))
	require.NoError(t, repo.UpsertUser(ctx, &models.User{ID: 9, Username: "ada.l", IsStaff: true}, true))
	require.NoError(t, repo.EnsureProfile(ctx, 9))
	require.NoError(t, repo.EnsureProfile(ctx, 9))

	user, err := repo.GetUserByID(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "ada.l", user.Username)
	assert.True(t, user.IsStaff)

	profile, err := repo.GetProfile(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "", profile.Location)
}
