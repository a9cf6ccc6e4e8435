// Package store is the single shared persistence layer for the pipeline.
// Three loops (ingest, graph analyzer, deep-analysis worker) read and write
// it concurrently; every unit of work runs inside one gorm transaction and
// correctness leans on the database's single-writer semantics (WAL plus a
// generous busy timeout for sqlite), not on in-process locking.
package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/moltwatch/moltwatch/models"
)

var ErrNotFound = errors.New("store: record not found")

// RollingWindow is the trailing window for author risk aggregation.
const RollingWindow = 7 * 24 * time.Hour

// DefaultQueueThreshold is the minimum risk score that queues a post for
// deep analysis.
const DefaultQueueThreshold = 2

// SnippetLength bounds the content prefix carried by a queue entry.
const SnippetLength = 300

type Store struct {
	db     *gorm.DB
	logger *slog.Logger

	// QueueThreshold is the risk score at which a new post is queued for
	// deep analysis.
	QueueThreshold int
}

func NewStore(db *gorm.DB, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		db:             db,
		logger:         logger.With("component", "store"),
		QueueThreshold: DefaultQueueThreshold,
	}

	if err := db.AutoMigrate(
		&models.Post{},
		&models.Author{},
		&models.Interaction{},
		&models.AnalysisQueueEntry{},
		&models.CollectionState{},
	); err != nil {
		return nil, err
	}

	// ensure the singleton collection state row exists
	var state models.CollectionState
	if err := db.FirstOrCreate(&state, models.CollectionState{ID: 1}).Error; err != nil {
		return nil, err
	}

	return s, nil
}

// DB exposes the underlying handle for tests.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Store) GetAuthor(ctx context.Context, id string) (*models.Author, error) {
	var author models.Author
	err := s.db.WithContext(ctx).First(&author, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &author, nil
}
