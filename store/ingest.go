package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/moltwatch/moltwatch/models"
)

// IngestPost commits one post's ingestion as a single atomic unit: the post
// row, its queue entry when the score crosses the threshold, the author
// upsert, the reply edge when the parent's author is known, and the
// author's recomputed rolling risk. A repeated post id is a no-op and
// returns false.
//
// parentAuthorID is a best-effort hint from the feed; when empty the parent
// post is looked up in the store, and an unresolvable parent silently skips
// the edge.
func (s *Store) IngestPost(ctx context.Context, post *models.Post, authorName string, parentAuthorID string) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Post
		err := tx.Select("id").First(&existing, "id = ?", post.ID).Error
		if err == nil {
			return nil // already ingested
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(post).Error; err != nil {
			return fmt.Errorf("creating post: %w", err)
		}
		created = true

		if post.RiskScore >= s.QueueThreshold {
			entry := models.AnalysisQueueEntry{
				PostID:   post.ID,
				Snippet:  snippet(post.Content),
				Priority: post.RiskScore,
				AddedAt:  time.Now().Unix(),
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error; err != nil {
				return fmt.Errorf("enqueueing post: %w", err)
			}
		}

		if err := upsertAuthor(tx, post.AuthorID, authorName, post.CreatedAt); err != nil {
			return fmt.Errorf("upserting author: %w", err)
		}

		if post.ParentID != "" {
			targetID := parentAuthorID
			if targetID == "" {
				var parent models.Post
				if err := tx.Select("author_id").First(&parent, "id = ?", post.ParentID).Error; err == nil {
					targetID = parent.AuthorID
				}
			}
			if targetID != "" {
				if _, err := addInteraction(tx, post.AuthorID, targetID, post.ID, post.CreatedAt); err != nil {
					return fmt.Errorf("recording interaction: %w", err)
				}
			} else {
				s.logger.Debug("parent author not found, skipping edge", "post", post.ID, "parent", post.ParentID)
			}
		}

		if err := recomputeAuthorRisk(tx, post.AuthorID, time.Now()); err != nil {
			return fmt.Errorf("recomputing author risk: %w", err)
		}

		return nil
	})
	if err != nil {
		return false, err
	}
	if created {
		postsIngested.Inc()
	} else {
		postsDuplicate.Inc()
	}
	return created, nil
}

func snippet(content string) string {
	runes := []rune(content)
	if len(runes) > SnippetLength {
		return string(runes[:SnippetLength])
	}
	return content
}

// upsertAuthor creates the author on first sighting and otherwise bumps
// last-active and post count. A placeholder name (empty, "unknown", or the
// raw id) is upgraded when real data arrives, never downgraded.
func upsertAuthor(tx *gorm.DB, id, name string, activeAt int64) error {
	if name == "" {
		name = id
	}

	var author models.Author
	err := tx.First(&author, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&models.Author{
			ID:          id,
			Name:        name,
			FirstSeen:   activeAt,
			LastActive:  activeAt,
			PostCount:   1,
			CommunityID: -1,
		}).Error
	}
	if err != nil {
		return err
	}

	updates := map[string]any{
		"last_active": activeAt,
		"post_count":  gorm.Expr("post_count + 1"),
	}
	if author.Name == "" || author.Name == author.ID || author.Name == "unknown" {
		updates["name"] = name
	}
	return tx.Model(&author).Updates(updates).Error
}

// addInteraction writes one directed edge keyed by (source, target, post).
// Self-loops are skipped and duplicate triples are rejected; the two
// authors' counters move exactly once per accepted edge. Reports whether a
// new edge row was written.
func addInteraction(tx *gorm.DB, sourceID, targetID, postID string, createdAt int64) (bool, error) {
	if sourceID == targetID {
		return false, nil
	}

	edge := models.Interaction{
		SourceID:  sourceID,
		TargetID:  targetID,
		PostID:    postID,
		Weight:    1.0,
		CreatedAt: createdAt,
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil // duplicate triple
	}

	if err := tx.Model(&models.Author{}).Where("id = ?", sourceID).
		Update("reply_count", gorm.Expr("reply_count + 1")).Error; err != nil {
		return false, err
	}
	if err := tx.Model(&models.Author{}).Where("id = ?", targetID).
		Update("replied_count", gorm.Expr("replied_count + 1")).Error; err != nil {
		return false, err
	}
	interactionsCreated.Inc()
	return true, nil
}

// AddInteraction records an edge outside the ingest transaction, used by
// the mention backfill pass. Same contract as the ingest-time edge write.
func (s *Store) AddInteraction(ctx context.Context, sourceID, targetID, postID string, createdAt int64) (bool, error) {
	var created bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = addInteraction(tx, sourceID, targetID, postID, createdAt)
		return err
	})
	return created, err
}

// recomputeAuthorRisk rebuilds the author's rolling stats from the post
// table over the trailing window. An empty window leaves the fields
// untouched so ingestion gaps never erase history.
func recomputeAuthorRisk(tx *gorm.DB, authorID string, now time.Time) error {
	windowStart := now.Add(-RollingWindow).Unix()

	var agg struct {
		AvgScore      float64
		PostCount     int64
		HighCount     int64
		CriticalCount int64
	}
	err := tx.Model(&models.Post{}).
		Select(
			"COALESCE(AVG(risk_score), 0) as avg_score, "+
				"COUNT(*) as post_count, "+
				"COUNT(CASE WHEN risk_tier = ? THEN 1 END) as high_count, "+
				"COUNT(CASE WHEN risk_tier = ? THEN 1 END) as critical_count",
			models.TierHigh, models.TierCritical).
		Where("author_id = ? AND created_at > ?", authorID, windowStart).
		Scan(&agg).Error
	if err != nil {
		return err
	}
	if agg.PostCount == 0 {
		return nil
	}

	tier := rollingTier(agg.AvgScore, agg.PostCount, agg.HighCount, agg.CriticalCount)

	return tx.Model(&models.Author{}).Where("id = ?", authorID).Updates(map[string]any{
		"risk_tier":      tier,
		"avg_risk_score": agg.AvgScore,
	}).Error
}

// rollingTier applies the author tiering precedence: any critical post
// wins; then high-post ratios; then the rolling average thresholds.
func rollingTier(avgScore float64, postCount, highCount, criticalCount int64) models.RiskTier {
	if criticalCount > 0 {
		return models.TierCritical
	}
	if highCount > 0 {
		ratio := float64(highCount) / float64(postCount)
		switch {
		case ratio >= 0.5:
			return models.TierCritical
		case ratio >= 0.3:
			return models.TierHigh
		default:
			return models.TierMedium
		}
	}
	switch {
	case avgScore >= 7:
		return models.TierCritical
	case avgScore >= 4:
		return models.TierHigh
	case avgScore >= 2:
		return models.TierMedium
	default:
		return models.TierLow
	}
}

// RecomputeAuthorRisk re-runs the rolling aggregation for one author in its
// own transaction.
func (s *Store) RecomputeAuthorRisk(ctx context.Context, authorID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return recomputeAuthorRisk(tx, authorID, time.Now())
	})
}
