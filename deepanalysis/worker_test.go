package deepanalysis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moltwatch/moltwatch/models"
	"github.com/moltwatch/moltwatch/store"
	"github.com/moltwatch/moltwatch/util/cliutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testWorkerStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := cliutil.SetupDatabase("sqlite://:memory:", 1)
	require.NoError(t, err)
	st, err := store.NewStore(db, testLogger())
	require.NoError(t, err)
	return st
}

func seedQueuedPost(t *testing.T, st *store.Store, id, content string, score int) {
	t.Helper()
	now := time.Now().Unix()
	_, err := st.IngestPost(context.Background(), &models.Post{
		ID: id, AuthorID: "alice", Content: content,
		CreatedAt: now, FetchedAt: now,
		RiskScore: score, RiskTier: models.TierMedium,
	}, "Alice", "")
	require.NoError(t, err)
}

func TestRunBatchEnriches(t *testing.T) {
	st := testWorkerStore(t)
	ctx := context.Background()

	seedQueuedPost(t, st, "p1", "join the revolution against control", 4)

	w := NewWorker(st, nil, testLogger())
	processed, err := w.RunBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	post, err := st.GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, post.Analyzed)
	assert.Equal(t, IntentRebellion, post.Intent)
	assert.Equal(t, models.TierHigh, post.RiskTier)
	assert.NotEmpty(t, post.Summary)

	depth, err := st.QueueDepth(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, depth)

	// empty queue is a quiet no-op
	processed, err = w.RunBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, processed)
}

func TestRunBatchDrainsByPriority(t *testing.T) {
	st := testWorkerStore(t)
	ctx := context.Background()

	seedQueuedPost(t, st, "mild", "quiet resistance", 2)
	seedQueuedPost(t, st, "hot", "overthrow everything", 9)

	w := NewWorker(st, nil, testLogger())
	w.BatchSize = 1

	_, err := w.RunBatch(ctx)
	require.NoError(t, err)

	hot, err := st.GetPost(ctx, "hot")
	require.NoError(t, err)
	assert.True(t, hot.Analyzed)
	mild, err := st.GetPost(ctx, "mild")
	require.NoError(t, err)
	assert.False(t, mild.Analyzed)
}

func TestRunBatchDropsPrunedPost(t *testing.T) {
	st := testWorkerStore(t)
	ctx := context.Background()

	seedQueuedPost(t, st, "gone", "quiet resistance", 2)
	require.NoError(t, st.DB().Delete(&models.Post{}, "id = ?", "gone").Error)

	w := NewWorker(st, nil, testLogger())
	processed, err := w.RunBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, processed)

	depth, err := st.QueueDepth(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, depth)
}

type failingAnalyzer struct{}

func (failingAnalyzer) AnalyzePost(ctx context.Context, authorName, snippet string) (Result, error) {
	return Result{}, errors.New("model unavailable")
}

func TestRunBatchLeavesFailedItemQueued(t *testing.T) {
	st := testWorkerStore(t)
	ctx := context.Background()

	seedQueuedPost(t, st, "p1", "quiet resistance", 2)

	w := NewWorker(st, failingAnalyzer{}, testLogger())
	processed, err := w.RunBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, processed)

	post, err := st.GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, post.Analyzed)

	depth, err := st.QueueDepth(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, depth)
}
