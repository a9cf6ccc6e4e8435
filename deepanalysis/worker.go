package deepanalysis

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/moltwatch/moltwatch/store"
)

const (
	DefaultBatchSize = 10
	DefaultIdleWait  = 30 * time.Second
)

// Worker is the single continuous consumer of the analysis queue. It
// drains in priority order and idles when the queue is empty; one item
// failing never aborts the batch.
type Worker struct {
	store    *store.Store
	analyzer Analyzer
	logger   *slog.Logger

	BatchSize int
	IdleWait  time.Duration

	running atomic.Bool
}

func NewWorker(st *store.Store, analyzer Analyzer, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	if analyzer == nil {
		analyzer = HeuristicAnalyzer{}
	}
	return &Worker{
		store:     st,
		analyzer:  analyzer,
		logger:    logger.With("component", "analysis-worker"),
		BatchSize: DefaultBatchSize,
		IdleWait:  DefaultIdleWait,
	}
}

// Run consumes batches until the context is cancelled or Stop is called,
// checking the flag only at batch boundaries.
func (w *Worker) Run(ctx context.Context) {
	w.running.Store(true)
	w.logger.Info("starting analysis worker")

	for w.running.Load() && ctx.Err() == nil {
		processed, err := w.RunBatch(ctx)
		if err != nil {
			w.logger.Error("analysis batch failed", "err", err)
			if !sleepCtx(ctx, 10*time.Second) {
				return
			}
			continue
		}
		if processed == 0 {
			if !sleepCtx(ctx, w.IdleWait) {
				return
			}
		}
	}
	w.logger.Info("analysis worker stopped")
}

// Stop requests a stop at the next batch boundary.
func (w *Worker) Stop() {
	w.running.Store(false)
}

// RunBatch processes up to BatchSize queue entries. For each item the
// enrichment write and queue-entry delete commit together; an item whose
// analysis fails is logged and left queued, and an item whose post has
// been pruned is dropped.
func (w *Worker) RunBatch(ctx context.Context) (int, error) {
	entries, err := w.store.NextAnalysisBatch(ctx, w.BatchSize)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}
	w.logger.Debug("processing analysis batch", "items", len(entries))

	processed := 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}

		post, err := w.store.GetPost(ctx, entry.PostID)
		if errors.Is(err, store.ErrNotFound) {
			// pruned between enqueue and analysis
			if err := w.store.DropQueueEntry(ctx, entry.PostID); err != nil {
				w.logger.Error("error dropping stale queue entry", "post", entry.PostID, "err", err)
			}
			continue
		}
		if err != nil {
			w.logger.Error("error loading queued post", "post", entry.PostID, "err", err)
			continue
		}

		authorName := post.AuthorID
		if author, err := w.store.GetAuthor(ctx, post.AuthorID); err == nil {
			authorName = author.Name
		}

		result, err := w.analyzer.AnalyzePost(ctx, authorName, entry.Snippet)
		if err != nil {
			w.logger.Error("error analyzing post", "post", entry.PostID, "err", err)
			continue
		}

		if err := w.store.CompleteAnalysis(ctx, entry.PostID, result.Intent, result.Tier, result.Summary); err != nil {
			w.logger.Error("error writing analysis", "post", entry.PostID, "err", err)
			continue
		}
		postsAnalyzed.Inc()
		processed++
		w.logger.Debug("analyzed post", "post", entry.PostID, "intent", result.Intent, "tier", result.Tier)
	}

	if depth, err := w.store.QueueDepth(ctx); err == nil {
		queueDepth.Set(float64(depth))
	}

	return processed, nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
