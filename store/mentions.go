package store

import (
	"context"

	"github.com/moltwatch/moltwatch/models"
)

// AuthorNameIndex maps display names to author ids for the mention
// backfill pass. Placeholder names (empty or equal to the id) are excluded
// so an "@unknown" token never resolves.
func (s *Store) AuthorNameIndex(ctx context.Context) (map[string]string, error) {
	var authors []models.Author
	if err := s.db.WithContext(ctx).Select("id", "name").Find(&authors).Error; err != nil {
		return nil, err
	}
	index := make(map[string]string, len(authors))
	for _, a := range authors {
		if a.Name == "" || a.Name == a.ID || a.Name == "unknown" {
			continue
		}
		index[a.Name] = a.ID
	}
	return index, nil
}

// ListPostsWithMentions returns posts whose content can contain an @name
// token, for the idempotent mention edge pass.
func (s *Store) ListPostsWithMentions(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Select("id", "author_id", "content", "created_at").
		Where("content LIKE ?", "%@%").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}
