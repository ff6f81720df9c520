package services

import (
	"vox-populi/internal/models"
)

// Tally counts votes and predictions per answer and votes per
// (answer, location) pair. answers fix the order of Results; rows must be
// in reply creation order so LocationResults keep first-seen order.
func Tally(questionID uint, answers []models.Answer, rows []models.ReplyTally) models.QuestionResults {
	results := make([]models.AnswerResult, len(answers))
	index := make(map[uint]int, len(answers))
	for i, a := range answers {
		results[i] = models.AnswerResult{Answer: a.ID}
		index[a.ID] = i
	}

	type key struct {
		vote     uint
		location string
	}
	locations := []models.LocationResult{}
	seen := make(map[key]int)

	for _, row := range rows {
		if i, ok := index[row.VoteID]; ok {
			results[i].Votes++
		}
		if i, ok := index[row.PredictionID]; ok {
			results[i].Predictions++
		}

		k := key{vote: row.VoteID, location: models.BucketLocation(row.Location)}
		if i, ok := seen[k]; ok {
			locations[i].Count++
			continue
		}
		seen[k] = len(locations)
		locations = append(locations, models.LocationResult{Vote: k.vote, Location: k.location, Count: 1})
	}

	return models.QuestionResults{
		ID:              questionID,
		Results:         results,
		LocationResults: locations,
	}
}

// TopAnswer returns the answer with the strictly greatest vote count. On a
// tie the earliest answer wins; with no votes there is no top answer.
func TopAnswer(answers []models.Answer, votes map[uint]int64) (uint, bool) {
	var (
		top  uint
		best int64
	)
	for _, a := range answers {
		if n := votes[a.ID]; n > best {
			top, best = a.ID, n
		}
	}
	return top, best > 0
}
