package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/moltwatch/moltwatch/models"
)

// PruneOldPosts enforces the retention bound: high and critical posts are
// kept forever; low, medium, and untier-ed posts keep only the most recent
// `bound` by creation time. The running pruned counter on the collection
// state row keeps total-ever-seen statistics accurate after deletion.
// Returns the number of posts deleted.
func (s *Store) PruneOldPosts(ctx context.Context, bound int) (int64, error) {
	if bound <= 0 {
		return 0, fmt.Errorf("invalid retention bound: %d", bound)
	}

	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).
			Where("risk_tier IN ? OR risk_tier = ''", []models.RiskTier{models.TierLow, models.TierMedium}).
			Count(&count).Error; err != nil {
			return err
		}
		overflow := count - int64(bound)
		if overflow <= 0 {
			return nil
		}

		// delete the oldest `overflow` prunable posts
		var ids []string
		if err := tx.Model(&models.Post{}).
			Where("risk_tier IN ? OR risk_tier = ''", []models.RiskTier{models.TierLow, models.TierMedium}).
			Order("created_at ASC").
			Limit(int(overflow)).
			Pluck("id", &ids).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Post{}, "id IN ?", ids)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected

		return tx.Model(&models.CollectionState{}).Where("id = ?", 1).
			Update("pruned_posts", gorm.Expr("pruned_posts + ?", deleted)).Error
	})
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		postsPruned.Add(float64(deleted))
		s.logger.Info("pruned old posts", "deleted", deleted, "bound", bound)
	}
	return deleted, nil
}
