package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vox-populi/internal/clock"
	"vox-populi/internal/metrics"
	"vox-populi/internal/repository"
	"vox-populi/internal/services"

	"github.com/sirupsen/logrus"
)

// ConclusionWatcher periodically announces questions that have concluded
// since the previous sweep, logging the winning answer and final counts.
type ConclusionWatcher struct {
	repo     *repository.Repository
	results  *services.ResultsService
	clock    clock.Clock
	metrics  *metrics.Metrics
	log      *logrus.Entry
	interval time.Duration

	mu       sync.Mutex
	last     time.Time
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewConclusionWatcher creates a watcher. Questions that concluded before
// it was created are not announced.
func NewConclusionWatcher(repo *repository.Repository, results *services.ResultsService, clk clock.Clock, m *metrics.Metrics, log *logrus.Entry, interval time.Duration) *ConclusionWatcher {
	return &ConclusionWatcher{
		repo:     repo,
		results:  results,
		clock:    clk,
		metrics:  m,
		log:      log.WithField("component", "conclusion_watcher"),
		interval: interval,
		last:     clk.Now(),
		stopChan: make(chan struct{}),
	}
}

// Start runs sweeps until ctx is done or Stop is called
func (w *ConclusionWatcher) Start(ctx context.Context) {
	w.log.WithField("interval", w.interval.String()).Info("Starting conclusion watcher")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.Sweep(ctx); err != nil {
				w.log.WithError(err).Error("sweep failed")
			}
		case <-ctx.Done():
			w.log.Info("Stopping conclusion watcher")
			return
		case <-w.stopChan:
			w.log.Info("Stopping conclusion watcher")
			return
		}
	}
}

// Stop ends the sweep loop
func (w *ConclusionWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
}

// Sweep announces every question concluded since the last sweep and
// returns how many were announced. On error the window is not advanced,
// so the next sweep retries it.
func (w *ConclusionWatcher) Sweep(ctx context.Context) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.clock.Now()
	questions, err := w.repo.QuestionsConcludedBetween(ctx, w.last, now)
	if err != nil {
		return 0, fmt.Errorf("failed to load concluded questions: %w", err)
	}

	for i := range questions {
		q := &questions[i]
		results, err := w.results.Outcome(ctx, q)
		if err != nil {
			return 0, fmt.Errorf("failed to tally question %d: %w", q.ID, err)
		}

		total := 0
		for _, r := range results.Results {
			total += r.Votes
		}
		entry := w.log.WithFields(logrus.Fields{
			"question_id": q.ID,
			"replies":     total,
		})
		if winner, ok := services.Winner(q.Answers, results); ok {
			entry = entry.WithField("winning_answer", winner)
		}
		entry.Info("question concluded")
		w.metrics.IncQuestionConcluded()
	}

	w.last = now
	return len(questions), nil
}
