package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/moltwatch/moltwatch/models"
)

// NextAnalysisBatch returns up to limit queue entries ordered by priority
// descending, then enqueue time ascending (FIFO within equal priority).
func (s *Store) NextAnalysisBatch(ctx context.Context, limit int) ([]models.AnalysisQueueEntry, error) {
	var entries []models.AnalysisQueueEntry
	err := s.db.WithContext(ctx).
		Order("priority DESC, added_at ASC, id ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// CompleteAnalysis writes the enrichment fields to the post and removes the
// queue entry in one transaction, so a post is never left marked analyzed
// while still queued or vice versa.
func (s *Store) CompleteAnalysis(ctx context.Context, postID, intent string, tier models.RiskTier, summary string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Post{}).Where("id = ?", postID).Updates(map[string]any{
			"analyzed":  true,
			"intent":    intent,
			"risk_tier": tier,
			"summary":   summary,
		}).Error
		if err != nil {
			return err
		}
		return tx.Delete(&models.AnalysisQueueEntry{}, "post_id = ?", postID).Error
	})
}

// DropQueueEntry removes an entry whose post no longer exists (pruned
// between enqueue and analysis).
func (s *Store) DropQueueEntry(ctx context.Context, postID string) error {
	return s.db.WithContext(ctx).Delete(&models.AnalysisQueueEntry{}, "post_id = ?", postID).Error
}

func (s *Store) QueueDepth(ctx context.Context) (int64, error) {
	var depth int64
	err := s.db.WithContext(ctx).Model(&models.AnalysisQueueEntry{}).Count(&depth).Error
	return depth, err
}
