package graph

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/moltwatch/moltwatch/models"
)

const DefaultInterval = 3 * time.Hour

// Store is the slice of the persistence layer the analyzer needs.
type Store interface {
	ListInteractions(ctx context.Context) ([]models.Interaction, error)
	UpdateAuthorScores(ctx context.Context, centrality map[string]float64, communities map[string]int) error
}

// Runner executes the batch graph analysis on a long period, off the hot
// ingestion path.
type Runner struct {
	store  Store
	logger *slog.Logger

	Interval time.Duration

	running atomic.Bool
}

func NewRunner(store Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		store:    store,
		logger:   logger.With("component", "graph-analyzer"),
		Interval: DefaultInterval,
	}
}

// RunOnce snapshots the full edge set, runs both passes, and writes the
// results back. An empty edge set is a no-op, not an error.
func (r *Runner) RunOnce(ctx context.Context) error {
	start := time.Now()

	interactions, err := r.store.ListInteractions(ctx)
	if err != nil {
		return err
	}

	edges := make([]Edge, len(interactions))
	for i, in := range interactions {
		edges[i] = Edge{Source: in.SourceID, Target: in.TargetID, Weight: in.Weight}
	}

	res := Analyze(edges)
	if err := r.store.UpdateAuthorScores(ctx, res.Centrality, res.Communities); err != nil {
		return err
	}

	analyzerPasses.Inc()
	r.logger.Info("graph analysis complete",
		"edges", len(edges),
		"nodes", len(res.Centrality),
		"communities", countCommunities(res.Communities),
		"duration", time.Since(start))
	return nil
}

// Run repeats RunOnce on the configured period until cancelled; the stop
// flag is read only at iteration boundaries.
func (r *Runner) Run(ctx context.Context) {
	r.running.Store(true)
	r.logger.Info("starting graph analysis loop", "interval", r.Interval)

	for r.running.Load() && ctx.Err() == nil {
		if err := r.RunOnce(ctx); err != nil {
			r.logger.Error("graph analysis failed", "err", err)
		}
		select {
		case <-time.After(r.Interval):
		case <-ctx.Done():
			r.logger.Info("graph analysis loop stopped")
			return
		}
	}
	r.logger.Info("graph analysis loop stopped")
}

// Stop requests a stop at the next iteration boundary.
func (r *Runner) Stop() {
	r.running.Store(false)
}

func countCommunities(communities map[string]int) int {
	seen := map[int]struct{}{}
	for _, id := range communities {
		seen[id] = struct{}{}
	}
	return len(seen)
}
