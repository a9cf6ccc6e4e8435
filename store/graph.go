package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/moltwatch/moltwatch/models"
)

// ListInteractions returns the entire current edge set for a graph
// analyzer pass.
func (s *Store) ListInteractions(ctx context.Context) ([]models.Interaction, error) {
	var edges []models.Interaction
	if err := s.db.WithContext(ctx).Find(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}

// UpdateAuthorScores overwrites centrality and community fields from an
// analyzer pass, in one transaction. Authors absent from the maps are left
// alone, so edge-less authors keep their previous-run values.
func (s *Store) UpdateAuthorScores(ctx context.Context, centrality map[string]float64, communities map[string]int) error {
	if len(centrality) == 0 && len(communities) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, score := range centrality {
			if err := tx.Model(&models.Author{}).Where("id = ?", id).
				Update("centrality", score).Error; err != nil {
				return err
			}
		}
		for id, community := range communities {
			if err := tx.Model(&models.Author{}).Where("id = ?", id).
				Update("community_id", community).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
