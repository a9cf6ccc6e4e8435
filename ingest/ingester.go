package ingest

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/moltwatch/moltwatch/models"
	"github.com/moltwatch/moltwatch/risk"
	"github.com/moltwatch/moltwatch/store"
)

// FeedSource is the pull-only feed boundary; the production implementation
// is Client.
type FeedSource interface {
	GetPosts(ctx context.Context, sort string, limit int) ([]FeedPost, error)
}

const (
	DefaultInterval   = 60 * time.Second
	DefaultPageSize   = 100
	DefaultPruneBound = 20000

	retryBaseDelay  = 10 * time.Second
	maxConsecutive  = 3
	failureCooldown = 5 * time.Minute
)

// Ingester drives the polling loop: fetch a page, score and commit each
// post, prune, record collection state. Each post's ingestion is one
// atomic store transaction.
type Ingester struct {
	store  *store.Store
	feed   FeedSource
	logger *slog.Logger

	Interval   time.Duration
	PageSize   int
	PruneBound int

	// PostURLBase, when set, fills in a canonical URL for posts the feed
	// returns without one.
	PostURLBase string

	running atomic.Bool
}

func NewIngester(st *store.Store, feed FeedSource, logger *slog.Logger) *Ingester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingester{
		store:      st,
		feed:       feed,
		logger:     logger.With("component", "ingester"),
		Interval:   DefaultInterval,
		PageSize:   DefaultPageSize,
		PruneBound: DefaultPruneBound,
	}
}

// Run polls until the context is cancelled or Stop is called; the flag is
// only checked at iteration boundaries, so an in-flight commit always
// completes. Consecutive failures back off linearly and hit a cooldown
// ceiling rather than retrying unbounded.
func (ing *Ingester) Run(ctx context.Context) {
	ing.running.Store(true)
	ing.logger.Info("starting ingestion loop", "interval", ing.Interval)

	retries := 0
	for ing.running.Load() && ctx.Err() == nil {
		count, err := ing.RunOnce(ctx)
		if err != nil {
			retries++
			ing.logger.Error("ingestion round failed", "err", err, "retries", retries)
			if retries >= maxConsecutive {
				ing.logger.Warn("too many consecutive failures, cooling down", "cooldown", failureCooldown)
				if !sleepCtx(ctx, failureCooldown) {
					return
				}
				retries = 0
			} else if !sleepCtx(ctx, time.Duration(retries)*retryBaseDelay) {
				return
			}
			continue
		}
		retries = 0
		if count > 0 {
			ing.logger.Info("ingestion round complete", "new", count)
		}
		if !sleepCtx(ctx, ing.Interval) {
			return
		}
	}
	ing.logger.Info("ingestion loop stopped")
}

// Stop requests a stop at the next iteration boundary.
func (ing *Ingester) Stop() {
	ing.running.Store(false)
}

// RunOnce performs a single ingestion round.
func (ing *Ingester) RunOnce(ctx context.Context) (int, error) {
	posts, err := ing.feed.GetPosts(ctx, "new", ing.PageSize)
	if err != nil {
		return 0, err
	}
	if len(posts) == 0 {
		ing.logger.Debug("no posts fetched")
		return 0, nil
	}

	newCount := 0
	for _, p := range posts {
		if ctx.Err() != nil {
			break
		}
		created, err := ing.ingestOne(ctx, p)
		if err != nil {
			ing.logger.Error("error ingesting post", "post", p.ID, "err", err)
			continue
		}
		if created {
			newCount++
		}
	}

	if newCount > 0 {
		if _, err := ing.store.PruneOldPosts(ctx, ing.PruneBound); err != nil {
			ing.logger.Error("pruning failed", "err", err)
		}
	}

	lastSeen := posts[len(posts)-1].ID
	if err := ing.store.UpdateCollectionState(ctx, lastSeen, int64(newCount)); err != nil {
		ing.logger.Error("updating collection state failed", "err", err)
	}

	return newCount, nil
}

func (ing *Ingester) ingestOne(ctx context.Context, p FeedPost) (bool, error) {
	content, origLen := risk.Truncate(p.Content)
	features := risk.Extract(content)

	title := p.Title
	if title == "" {
		title = defaultTitle(content)
	}
	url := p.URL
	if url == "" && ing.PostURLBase != "" {
		url = ing.PostURLBase + "/post/" + p.ID
	}

	post := &models.Post{
		ID:            p.ID,
		AuthorID:      p.AuthorID,
		Content:       content,
		ContentLength: origLen,
		ParentID:      p.ParentID,
		Channel:       p.Channel,
		Title:         title,
		URL:           url,
		CreatedAt:     p.CreatedAt,
		FetchedAt:     time.Now().Unix(),
		RiskScore:     features.Score,
		Sentiment:     features.Sentiment,
		Language:      features.Language,
		RiskTier:      features.Tier,
	}

	return ing.store.IngestPost(ctx, post, p.AuthorName, "")
}

func defaultTitle(content string) string {
	runes := []rune(content)
	if len(runes) > 30 {
		return string(runes[:30]) + "..."
	}
	return content
}

// sleepCtx sleeps for d, returning false if the context was cancelled
// first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
