package store

import (
	"context"

	"github.com/moltwatch/moltwatch/models"
)

// PostFilter narrows a paginated post listing. Zero values mean "no
// filter".
type PostFilter struct {
	Tier      models.RiskTier
	AuthorID  string
	Community *int // community 0 is valid, so nil means unfiltered
	MinScore  int
	Limit     int
	Offset    int
}

// ListPosts serves the paginated read surface, newest first.
func (s *Store) ListPosts(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	q := s.db.WithContext(ctx).Model(&models.Post{})
	if filter.Tier != "" {
		q = q.Where("risk_tier = ?", filter.Tier)
	}
	if filter.AuthorID != "" {
		q = q.Where("author_id = ?", filter.AuthorID)
	}
	if filter.Community != nil {
		q = q.Where("author_id IN (?)",
			s.db.Model(&models.Author{}).Select("id").Where("community_id = ?", *filter.Community))
	}
	if filter.MinScore > 0 {
		q = q.Where("risk_score >= ?", filter.MinScore)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var posts []models.Post
	err := q.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// InteractionPartner is one counterpart in an author profile, with the
// number of edges in either direction.
type InteractionPartner struct {
	AuthorID string `json:"authorId"`
	Count    int64  `json:"count"`
}

// AuthorProfile is the single-author read surface: rolling risk fields plus
// recent posts and the most-interacted partners.
type AuthorProfile struct {
	Author      models.Author        `json:"author"`
	RecentPosts []models.Post        `json:"recentPosts"`
	Partners    []InteractionPartner `json:"partners"`
}

func (s *Store) GetAuthorProfile(ctx context.Context, id string, topK int) (*AuthorProfile, error) {
	author, err := s.GetAuthor(ctx, id)
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = 10
	}

	var recent []models.Post
	if err := s.db.WithContext(ctx).
		Where("author_id = ?", id).
		Order("created_at DESC").Limit(20).
		Find(&recent).Error; err != nil {
		return nil, err
	}

	var partners []InteractionPartner
	err = s.db.WithContext(ctx).Raw(`
		SELECT partner AS author_id, COUNT(*) AS count FROM (
			SELECT target_id AS partner FROM interactions WHERE source_id = ?
			UNION ALL
			SELECT source_id AS partner FROM interactions WHERE target_id = ?
		) AS p GROUP BY partner ORDER BY count DESC LIMIT ?`, id, id, topK).
		Scan(&partners).Error
	if err != nil {
		return nil, err
	}

	return &AuthorProfile{
		Author:      *author,
		RecentPosts: recent,
		Partners:    partners,
	}, nil
}

// CommunitySummary aggregates one detected community.
type CommunitySummary struct {
	CommunityID   int     `json:"communityId"`
	MemberCount   int64   `json:"memberCount"`
	AvgCentrality float64 `json:"avgCentrality"`
}

func (s *Store) ListCommunities(ctx context.Context) ([]CommunitySummary, error) {
	var out []CommunitySummary
	err := s.db.WithContext(ctx).Model(&models.Author{}).
		Select("community_id, COUNT(*) as member_count, AVG(centrality) as avg_centrality").
		Where("community_id >= 0").
		Group("community_id").
		Order("member_count DESC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Stats is the aggregate status view: totals survive pruning via the
// collection state counters.
type Stats struct {
	StoredPosts   int64            `json:"storedPosts"`
	TotalPosts    int64            `json:"totalPosts"`
	PrunedPosts   int64            `json:"prunedPosts"`
	Authors       int64            `json:"authors"`
	Interactions  int64            `json:"interactions"`
	QueueDepth    int64            `json:"queueDepth"`
	LastFetchTime int64            `json:"lastFetchTime"`
	TierCounts    map[string]int64 `json:"tierCounts"`
}

func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{TierCounts: map[string]int64{}}

	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Post{}).Count(&stats.StoredPosts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Author{}).Count(&stats.Authors).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Interaction{}).Count(&stats.Interactions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.AnalysisQueueEntry{}).Count(&stats.QueueDepth).Error; err != nil {
		return nil, err
	}

	var tiers []struct {
		RiskTier string
		Count    int64
	}
	if err := db.Model(&models.Post{}).
		Select("risk_tier, COUNT(*) as count").
		Group("risk_tier").
		Scan(&tiers).Error; err != nil {
		return nil, err
	}
	for _, t := range tiers {
		stats.TierCounts[t.RiskTier] = t.Count
	}

	state, err := s.GetCollectionState(ctx)
	if err != nil {
		return nil, err
	}
	stats.PrunedPosts = state.PrunedPosts
	stats.TotalPosts = state.TotalPosts
	stats.LastFetchTime = state.LastFetchTime

	return stats, nil
}
