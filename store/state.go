package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/moltwatch/moltwatch/models"
)

func (s *Store) GetCollectionState(ctx context.Context) (*models.CollectionState, error) {
	var state models.CollectionState
	if err := s.db.WithContext(ctx).First(&state, "id = ?", 1).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

// UpdateCollectionState records the feed cursor and accumulates the new
// post count after an ingestion round.
func (s *Store) UpdateCollectionState(ctx context.Context, lastSeenID string, newPosts int64) error {
	updates := map[string]any{
		"last_fetch_time": time.Now().Unix(),
	}
	if lastSeenID != "" {
		updates["last_seen_id"] = lastSeenID
	}
	if newPosts > 0 {
		updates["total_posts"] = gorm.Expr("total_posts + ?", newPosts)
	}
	return s.db.WithContext(ctx).Model(&models.CollectionState{}).
		Where("id = ?", 1).Updates(updates).Error
}
