package services

import (
	"testing"

	"vox-populi/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestTallyCountsVotesAndLocations(t *testing.T) {
	answers := []models.Answer{{ID: 1}, {ID: 2}}
	rows := []models.ReplyTally{
		{ID: 1, VoteID: 1, PredictionID: 1, Location: "florida"},
		{ID: 2, VoteID: 1, PredictionID: 1, Location: "florida"},
		{ID: 3, VoteID: 2, PredictionID: 1, Location: "florida"},
		{ID: 4, VoteID: 2, PredictionID: 1, Location: "florida"},
		{ID: 5, VoteID: 1, PredictionID: 1, Location: "colorado"},
		{ID: 6, VoteID: 1, PredictionID: 2, Location: "colorado"},
		{ID: 7, VoteID: 2, PredictionID: 2, Location: "colorado"},
	}

	got := Tally(5, answers, rows)

	assert.Equal(t, uint(5), got.ID)
	assert.Equal(t, []models.AnswerResult{
		{Answer: 1, Votes: 4, Predictions: 5},
		{Answer: 2, Votes: 3, Predictions: 2},
	}, got.Results)
	assert.Equal(t, []models.LocationResult{
		{Vote: 1, Location: "florida", Count: 2},
		{Vote: 2, Location: "florida", Count: 2},
		{Vote: 1, Location: "colorado", Count: 2},
		{Vote: 2, Location: "colorado", Count: 1},
	}, got.LocationResults)
}

func TestTallyWithoutReplies(t *testing.T) {
	got := Tally(1, []models.Answer{{ID: 3}, {ID: 4}}, nil)

	assert.Equal(t, []models.AnswerResult{{Answer: 3}, {Answer: 4}}, got.Results)
	assert.NotNil(t, got.LocationResults)
	assert.Empty(t, got.LocationResults)
}

func TestTallyBucketsMissingLocationAsOther(t *testing.T) {
	got := Tally(1, []models.Answer{{ID: 1}}, []models.ReplyTally{
		{ID: 1, VoteID: 1, PredictionID: 1},
		{ID: 2, VoteID: 1, PredictionID: 1, Location: "other"},
	})

	assert.Equal(t, []models.LocationResult{{Vote: 1, Location: "other", Count: 2}}, got.LocationResults)
}

func TestTopAnswer(t *testing.T) {
	answers := []models.Answer{{ID: 1}, {ID: 2}, {ID: 3}}

	top, ok := TopAnswer(answers, map[uint]int64{1: 1, 2: 3, 3: 2})
	assert.True(t, ok)
	assert.Equal(t, uint(2), top)

	top, ok = TopAnswer(answers, map[uint]int64{2: 2, 3: 2})
	assert.True(t, ok)
	assert.Equal(t, uint(2), top, "first answer wins a tie")

	_, ok = TopAnswer(answers, nil)
	assert.False(t, ok)
}

func TestWinnerUsesTalliedVotes(t *testing.T) {
	answers := []models.Answer{{ID: 4}, {ID: 5}}
	results := Tally(9, answers, []models.ReplyTally{
		{ID: 1, VoteID: 5, PredictionID: 4},
		{ID: 2, VoteID: 5, PredictionID: 4},
		{ID: 3, VoteID: 4, PredictionID: 4},
	})

	winner, ok := Winner(answers, &results)
	assert.True(t, ok)
	assert.Equal(t, uint(5), winner)
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, "0", Accuracy(0, 0).String())
	assert.Equal(t, "0.6667", Accuracy(2, 3).String())
	assert.Equal(t, "1", Accuracy(4, 4).String())
}
