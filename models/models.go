package models

// RiskTier buckets a post or author by its risk score. Post tiers are a
// fixed function of the per-post score; author tiers are derived from the
// 7-day rolling window and use different thresholds.
type RiskTier string

const (
	TierLow      RiskTier = "low"
	TierMedium   RiskTier = "medium"
	TierHigh     RiskTier = "high"
	TierCritical RiskTier = "critical"
)

// Post is a single feed post. Created once on first sighting; only the
// deep-analysis worker (enrichment fields) and retention pruning touch it
// afterwards.
type Post struct {
	ID            string `gorm:"primarykey"`
	AuthorID      string `gorm:"index"`
	Content       string
	ContentLength int    // original length before truncation
	ParentID      string `gorm:"index"`
	Channel       string `gorm:"default:general"`
	Title         string
	URL           string
	CreatedAt     int64 `gorm:"index"` // origin-supplied, unix seconds
	FetchedAt     int64 // local ingestion time, unix seconds

	RiskScore int      `gorm:"index"`
	Sentiment float64
	Language  string
	RiskTier  RiskTier `gorm:"index"`

	// enrichment, written only by the deep-analysis worker
	Intent   string
	Summary  string
	Analyzed bool
}

// Author is upserted on first post and never deleted, even if all of its
// posts have been pruned.
type Author struct {
	ID         string `gorm:"primarykey"`
	Name       string
	FirstSeen  int64
	LastActive int64
	PostCount  int64

	ReplyCount   int64 // outgoing interactions
	RepliedCount int64 // incoming interactions

	Centrality  float64 `gorm:"default:0"`
	CommunityID int     `gorm:"default:-1"`

	RiskTier     RiskTier
	AvgRiskScore float64 // mean risk score over the trailing 7 days
}

// Interaction is a directed edge derived from a reply or mention. Immutable
// once created; the (source, target, post) triple is unique and self-loops
// are never written.
type Interaction struct {
	ID        uint    `gorm:"primarykey"`
	SourceID  string  `gorm:"index:idx_interaction_key,unique"`
	TargetID  string  `gorm:"index:idx_interaction_key,unique"`
	PostID    string  `gorm:"index:idx_interaction_key,unique"`
	Weight    float64 `gorm:"default:1"`
	CreatedAt int64
}

// AnalysisQueueEntry is a post waiting for deep analysis. A post is queued
// at most once concurrently (PostID unique); the worker deletes the entry
// after writing enrichment.
type AnalysisQueueEntry struct {
	ID       uint   `gorm:"primarykey"`
	PostID   string `gorm:"uniqueindex"`
	Snippet  string
	Priority int `gorm:"index"`
	AddedAt  int64
}

// CollectionState is a singleton row tracking the feed cursor and
// total-ever-seen counters, read and written once per ingestion round.
type CollectionState struct {
	ID            uint `gorm:"primarykey"`
	LastSeenID    string
	LastFetchTime int64
	TotalPosts    int64
	PrunedPosts   int64 // historically seen but since pruned
}
